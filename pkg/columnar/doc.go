// Package columnar converts between row records and column collections of
// parallel typed sequences.
//
// # Data Model
//
// A Row is a record of named numeric values. Columns is an ordered
// collection of typed sequences, one per field, all of the same length N,
// so that column[f][i] == rows[i][f]. A Schema names the fields and their
// element kinds; its order is the field iteration order.
//
//	schema := columnar.Schema{Fields: []columnar.Field{
//		{Name: "x", Kind: typedarray.Int32},
//		{Name: "y", Kind: typedarray.Float64},
//	}}
//	cols, err := columnar.RowsToColumns(rows, schema, typedarray.Wrap)
//	rows, err = columnar.ColumnsToRows(cols)
//
// # Transferable Regions
//
// CollectTransferableRegions exposes the memory behind every column without
// copying. A Region can be handed to another owner with Transfer, after
// which the source Region and the column in Columns refuse access with
// errors.ErrorTypeTransferred. Slices obtained before the transfer are
// not tracked; clone first when both sides need the data.
//
// # Payloads
//
// EncodePayload writes a self-describing frame:
//
//	"TBUF" | version | byte order | compression | body
//
// The body, optionally compressed, lists every field as name, kind, byte
// length and raw element bytes in the writer's native byte order.
// DecodePayload swaps element bytes when the reader's byte order differs.
package columnar
