// Package arrowipc moves columns in and out of Apache Arrow records and the
// Arrow IPC stream format.
//
// ToRecord shares the column memory with the record it builds. FromRecord
// and DecodeColumns always copy, so the returned columns outlive the record.
package arrowipc

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/typedbuf/pkg/columnar"
	"github.com/ajitpratap0/typedbuf/pkg/errors"
	"github.com/ajitpratap0/typedbuf/pkg/metrics"
	"github.com/ajitpratap0/typedbuf/pkg/typedarray"
)

// KindMetadataKey marks fields whose Arrow type alone does not name the
// element kind. Arrow has no clamped byte type, so Uint8Clamped travels as
// uint8 with this key set.
const KindMetadataKey = "typedbuf.kind"

// DataType returns the Arrow type used for a typed kind.
func DataType(k typedarray.Kind) (arrow.DataType, error) {
	switch k {
	case typedarray.Int8:
		return arrow.PrimitiveTypes.Int8, nil
	case typedarray.Uint8, typedarray.Uint8Clamped:
		return arrow.PrimitiveTypes.Uint8, nil
	case typedarray.Int16:
		return arrow.PrimitiveTypes.Int16, nil
	case typedarray.Uint16:
		return arrow.PrimitiveTypes.Uint16, nil
	case typedarray.Int32:
		return arrow.PrimitiveTypes.Int32, nil
	case typedarray.Uint32:
		return arrow.PrimitiveTypes.Uint32, nil
	case typedarray.Int64:
		return arrow.PrimitiveTypes.Int64, nil
	case typedarray.Uint64:
		return arrow.PrimitiveTypes.Uint64, nil
	case typedarray.Float32:
		return arrow.PrimitiveTypes.Float32, nil
	case typedarray.Float64:
		return arrow.PrimitiveTypes.Float64, nil
	}
	return nil, errors.Newf(errors.ErrorTypeUnsupportedInputKind, "kind %s has no arrow type", k)
}

// KindOf returns the typed kind stored in an Arrow field.
func KindOf(f arrow.Field) (typedarray.Kind, error) {
	if i := f.Metadata.FindKey(KindMetadataKey); i >= 0 {
		k, err := typedarray.ParseKind(f.Metadata.Values()[i])
		if err != nil {
			return typedarray.Invalid, err
		}
		if !k.IsTyped() {
			return typedarray.Invalid, errors.Newf(errors.ErrorTypeUnsupportedInputKind, "field %q: kind %s is not typed", f.Name, k)
		}
		return k, nil
	}

	switch f.Type.ID() {
	case arrow.INT8:
		return typedarray.Int8, nil
	case arrow.UINT8:
		return typedarray.Uint8, nil
	case arrow.INT16:
		return typedarray.Int16, nil
	case arrow.UINT16:
		return typedarray.Uint16, nil
	case arrow.INT32:
		return typedarray.Int32, nil
	case arrow.UINT32:
		return typedarray.Uint32, nil
	case arrow.INT64:
		return typedarray.Int64, nil
	case arrow.UINT64:
		return typedarray.Uint64, nil
	case arrow.FLOAT32:
		return typedarray.Float32, nil
	case arrow.FLOAT64:
		return typedarray.Float64, nil
	}
	return typedarray.Invalid, errors.Newf(errors.ErrorTypeUnsupportedInputKind, "field %q: arrow type %s is not a numeric column", f.Name, f.Type)
}

func field(f columnar.Field) (arrow.Field, error) {
	dt, err := DataType(f.Kind)
	if err != nil {
		return arrow.Field{}, err
	}
	af := arrow.Field{Name: f.Name, Type: dt}
	if f.Kind == typedarray.Uint8Clamped {
		af.Metadata = arrow.NewMetadata([]string{KindMetadataKey}, []string{f.Kind.String()})
	}
	return af, nil
}

// Schema converts a column schema into an Arrow schema.
func Schema(s columnar.Schema) (*arrow.Schema, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	fields := make([]arrow.Field, 0, len(s.Fields))
	for _, f := range s.Fields {
		af, err := field(f)
		if err != nil {
			return nil, err
		}
		fields = append(fields, af)
	}
	return arrow.NewSchema(fields, nil), nil
}

// ToRecord builds a record whose value buffers are the column memory itself.
// Writes through either side are visible to the other. All columns must have
// the same length. The caller must Release the record.
func ToRecord(cols *columnar.Columns) (arrow.Record, error) {
	rec, err := toRecord(cols)
	if err != nil {
		metrics.ObserveError(metrics.OpArrowRecord, err)
		return nil, err
	}
	metrics.ObserveConversion(metrics.OpArrowRecord, "record", int(rec.NumRows()))
	return rec, nil
}

func toRecord(cols *columnar.Columns) (arrow.Record, error) {
	if cols == nil {
		return nil, errors.New(errors.ErrorTypeValidation, "columns are required")
	}
	schema, err := Schema(cols.Schema())
	if err != nil {
		return nil, err
	}

	names := cols.Names()
	arrays := make([]arrow.Array, 0, len(names))
	defer func() {
		for _, a := range arrays {
			a.Release()
		}
	}()

	rows := -1
	for i, name := range names {
		seq, err := cols.Column(name)
		if err != nil {
			return nil, err
		}
		n, _ := typedarray.Len(seq)
		if rows < 0 {
			rows = n
		} else if n != rows {
			return nil, errors.Newf(errors.ErrorTypeInconsistentColumnLength,
				"column %q has %d values, expected %d", name, n, rows).
				WithDetail("field", name)
		}
		raw, err := typedarray.Bytes(seq)
		if err != nil {
			return nil, err
		}

		data := array.NewData(schema.Field(i).Type, n,
			[]*memory.Buffer{nil, memory.NewBufferBytes(raw)}, nil, 0, 0)
		arrays = append(arrays, array.MakeFromData(data))
		data.Release()
	}
	if rows < 0 {
		rows = 0
	}
	return array.NewRecord(schema, arrays, int64(rows)), nil
}

// FromRecord copies the numeric columns of rec. Null slots become zero.
func FromRecord(rec arrow.Record) (*columnar.Columns, error) {
	cols, err := fromRecord(rec)
	if err != nil {
		metrics.ObserveError(metrics.OpArrowRecord, err)
		return nil, err
	}
	metrics.ObserveConversion(metrics.OpArrowRecord, "columns", int(rec.NumRows()))
	return cols, nil
}

func fromRecord(rec arrow.Record) (*columnar.Columns, error) {
	if rec == nil {
		return nil, errors.New(errors.ErrorTypeValidation, "record is required")
	}
	cols := columnar.NewColumns()
	schema := rec.Schema()
	for i := 0; i < int(rec.NumCols()); i++ {
		f := schema.Field(i)
		k, err := KindOf(f)
		if err != nil {
			return nil, err
		}
		seq, err := copyValues(rec.Column(i), k)
		if err != nil {
			return nil, errors.Wrap(err, errors.TypeOf(err), "field "+f.Name)
		}
		if err := cols.Set(f.Name, seq); err != nil {
			return nil, err
		}
	}
	return cols, nil
}

func copyValues(arr arrow.Array, k typedarray.Kind) (any, error) {
	n := arr.Len()
	size := k.Size()
	owned := make([]byte, n*size)

	if n > 0 {
		bufs := arr.Data().Buffers()
		if len(bufs) < 2 || bufs[1] == nil {
			return nil, errors.New(errors.ErrorTypeData, "array has no value buffer")
		}
		start := arr.Data().Offset() * size
		raw := bufs[1].Bytes()
		if start+len(owned) > len(raw) {
			return nil, errors.Newf(errors.ErrorTypeBufferLengthMismatch,
				"value buffer holds %d bytes, need %d", len(raw), start+len(owned))
		}
		copy(owned, raw[start:])
	}

	seq, err := typedarray.FromBytes(owned, k)
	if err != nil {
		return nil, err
	}
	if arr.NullN() > 0 {
		for i := 0; i < n; i++ {
			if arr.IsNull(i) {
				if err := typedarray.Set(seq, i, 0, typedarray.Wrap); err != nil {
					return nil, err
				}
			}
		}
	}
	return seq, nil
}
