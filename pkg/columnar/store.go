package columnar

import (
	"sort"
	"sync/atomic"

	"github.com/ajitpratap0/typedbuf/pkg/errors"
	"github.com/ajitpratap0/typedbuf/pkg/typedarray"
)

// regionState is shared by a column and every Region over it.
type regionState struct {
	transferred atomic.Bool
}

type column struct {
	kind  typedarray.Kind
	data  any
	state *regionState
}

// Columns is an ordered collection of typed sequences keyed by field name.
// Lengths are not enforced on Set; ColumnsToRows reports disagreements.
// The zero value is an empty collection ready to use. A Columns value is
// not safe for concurrent mutation.
type Columns struct {
	names   []string
	columns map[string]*column
}

// NewColumns creates an empty collection.
func NewColumns() *Columns {
	return &Columns{
		columns: make(map[string]*column),
	}
}

// Set stores seq under name. A new name is appended to the field order;
// an existing name keeps its position. seq must be a typed sequence.
func (c *Columns) Set(name string, seq any) error {
	if name == "" {
		return errors.New(errors.ErrorTypeValidation, "column name is required")
	}
	class, err := typedarray.Require(seq)
	if err != nil {
		return err
	}
	if class.Category != typedarray.Typed {
		return errors.Newf(errors.ErrorTypeUnsupportedInputKind,
			"column %q must be a typed sequence, got %s", name, class).
			WithDetail("field", name)
	}
	if c.columns == nil {
		c.columns = make(map[string]*column)
	}
	if _, exists := c.columns[name]; !exists {
		c.names = append(c.names, name)
	}
	c.columns[name] = &column{kind: class.Kind, data: seq, state: &regionState{}}
	return nil
}

func (c *Columns) lookup(name string) (*column, error) {
	col, ok := c.columns[name]
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeNotFound, "column %q not found", name).
			WithDetail("field", name)
	}
	return col, nil
}

func (c *Columns) readable(name string) (*column, error) {
	col, err := c.lookup(name)
	if err != nil {
		return nil, err
	}
	if col.state.transferred.Load() {
		return nil, transferredError(name)
	}
	return col, nil
}

func transferredError(name string) error {
	return errors.Newf(errors.ErrorTypeTransferred, "column %q was transferred", name).
		WithDetail("field", name)
}

// Column returns the typed sequence stored under name.
func (c *Columns) Column(name string) (any, error) {
	col, err := c.readable(name)
	if err != nil {
		return nil, err
	}
	return col.data, nil
}

// Kind returns the element kind of a column. Kinds stay readable after the
// column is transferred.
func (c *Columns) Kind(name string) (typedarray.Kind, error) {
	col, err := c.lookup(name)
	if err != nil {
		return typedarray.Invalid, err
	}
	return col.kind, nil
}

// Transferred reports whether the column's memory has been handed off.
func (c *Columns) Transferred(name string) bool {
	col, ok := c.columns[name]
	return ok && col.state.transferred.Load()
}

// Names returns the field names in order.
func (c *Columns) Names() []string {
	return append([]string(nil), c.names...)
}

// Len returns the length of the first column, or 0 when empty.
func (c *Columns) Len() int {
	if len(c.names) == 0 {
		return 0
	}
	n, _ := typedarray.Len(c.columns[c.names[0]].data)
	return n
}

// NumColumns returns the number of fields.
func (c *Columns) NumColumns() int { return len(c.names) }

// Schema describes the collection's fields.
func (c *Columns) Schema() Schema {
	s := Schema{Fields: make([]Field, len(c.names))}
	for i, name := range c.names {
		s.Fields[i] = Field{Name: name, Kind: c.columns[name].kind}
	}
	return s
}

// RowAt builds the record at index i from the named fields, or from every
// field when none are given.
func (c *Columns) RowAt(i int, fields ...string) (Row, error) {
	if len(fields) == 0 {
		fields = c.names
	}
	row := make(Row, len(fields))
	for _, name := range fields {
		col, err := c.readable(name)
		if err != nil {
			return nil, err
		}
		v, err := typedarray.At(col.data, i)
		if err != nil {
			return nil, err
		}
		row[name] = v
	}
	return row, nil
}

// Clone deep copies every column. Transferred columns cannot be cloned.
func (c *Columns) Clone() (*Columns, error) {
	out := NewColumns()
	for _, name := range c.names {
		col, err := c.readable(name)
		if err != nil {
			return nil, err
		}
		data, err := typedarray.Clone(col.data)
		if err != nil {
			return nil, err
		}
		if err := out.Set(name, data); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// MemoryUsage returns the bytes held by readable columns.
func (c *Columns) MemoryUsage() int64 {
	var total int64
	for _, name := range c.names {
		col := c.columns[name]
		if col.state.transferred.Load() {
			continue
		}
		n, _ := typedarray.Len(col.data)
		total += int64(n * col.kind.Size())
	}
	return total
}

// IsColumnar reports whether every value of m is a typed sequence.
func IsColumnar(m map[string]any) bool {
	if m == nil {
		return false
	}
	for _, v := range m {
		if !typedarray.IsTyped(v) {
			return false
		}
	}
	return true
}

// FromMap builds Columns from a map of typed sequences. Fields are ordered
// by name.
func FromMap(m map[string]any) (*Columns, error) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	cols := NewColumns()
	for _, name := range names {
		if err := cols.Set(name, m[name]); err != nil {
			return nil, err
		}
	}
	return cols, nil
}

// Map returns the readable columns keyed by name.
func (c *Columns) Map() map[string]any {
	out := make(map[string]any, len(c.names))
	for _, name := range c.names {
		if col := c.columns[name]; !col.state.transferred.Load() {
			out[name] = col.data
		}
	}
	return out
}
