package columnar

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/typedbuf/pkg/errors"
	"github.com/ajitpratap0/typedbuf/pkg/typedarray"
)

func xySchema(kind typedarray.Kind) Schema {
	return Schema{Fields: []Field{{Name: "x", Kind: kind}, {Name: "y", Kind: kind}}}
}

func TestRowsToColumns(t *testing.T) {
	rows := []Row{{"x": 1, "y": 2}, {"x": 3, "y": 4}}

	cols, err := RowsToColumns(rows, xySchema(typedarray.Int32), typedarray.Wrap)
	require.NoError(t, err)

	assert.Equal(t, []string{"x", "y"}, cols.Names())
	assert.Equal(t, 2, cols.Len())

	x, err := cols.Column("x")
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 3}, x)
	y, err := cols.Column("y")
	require.NoError(t, err)
	assert.Equal(t, []int32{2, 4}, y)

	k, err := cols.Kind("y")
	require.NoError(t, err)
	assert.Equal(t, typedarray.Int32, k)
}

func TestRowsToColumnsMissingAndExtraFields(t *testing.T) {
	rows := []Row{{"x": 1, "extra": 9}, {"y": 5}}
	cols, err := RowsToColumns(rows, xySchema(typedarray.Uint8), typedarray.Wrap)
	require.NoError(t, err)

	assert.Equal(t, []string{"x", "y"}, cols.Names())
	x, _ := cols.Column("x")
	y, _ := cols.Column("y")
	assert.Equal(t, []uint8{1, 0}, x)
	assert.Equal(t, []uint8{0, 5}, y)
}

func TestRowsToColumnsNarrowing(t *testing.T) {
	rows := []Row{{"x": 300, "y": -1}}

	cols, err := RowsToColumns(rows, xySchema(typedarray.Uint8), typedarray.Saturate)
	require.NoError(t, err)
	x, _ := cols.Column("x")
	y, _ := cols.Column("y")
	assert.Equal(t, []uint8{255}, x)
	assert.Equal(t, []uint8{0}, y)
}

func TestRowsToColumnsSchemaErrors(t *testing.T) {
	_, err := RowsToColumns(nil, Schema{Fields: []Field{{Name: "x", Kind: typedarray.Array}}}, typedarray.Wrap)
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnsupportedInputKind))

	_, err = RowsToColumns(nil, Schema{Fields: []Field{{Name: "x", Kind: typedarray.Int8}, {Name: "x", Kind: typedarray.Int8}}}, typedarray.Wrap)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	_, err = RowsToColumns(nil, Schema{Fields: []Field{{Kind: typedarray.Int8}}}, typedarray.Wrap)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestColumnsToRowsRoundTrip(t *testing.T) {
	rows := []Row{
		{"a": -128.0, "b": 65535.0, "c": 0.5},
		{"a": 127.0, "b": 0.0, "c": -1e300},
		{"a": 0.0, "b": 42.0, "c": math.Inf(1)},
	}
	schema := Schema{Fields: []Field{
		{Name: "a", Kind: typedarray.Int8},
		{Name: "b", Kind: typedarray.Uint16},
		{Name: "c", Kind: typedarray.Float64},
	}}

	cols, err := RowsToColumns(rows, schema, typedarray.Wrap)
	require.NoError(t, err)

	back, err := ColumnsToRows(cols, schema.Names()...)
	require.NoError(t, err)
	assert.Equal(t, rows, back)
}

func TestColumnsToRowsSelectedFields(t *testing.T) {
	cols, err := FromMap(map[string]any{"a": []int16{1, 2}, "b": []float32{0.5, 1.5}})
	require.NoError(t, err)

	rows, err := ColumnsToRows(cols, "b")
	require.NoError(t, err)
	assert.Equal(t, []Row{{"b": 0.5}, {"b": 1.5}}, rows)

	_, err = ColumnsToRows(cols, "b", "missing")
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
}

func TestColumnsToRowsInconsistentLength(t *testing.T) {
	cols := NewColumns()
	require.NoError(t, cols.Set("a", []int32{1, 2, 3}))
	require.NoError(t, cols.Set("b", []int32{1, 2}))

	_, err := ColumnsToRows(cols)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInconsistentColumnLength))

	rows, err := ColumnsToRows(cols, "b")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestColumnsToRowsEmpty(t *testing.T) {
	rows, err := ColumnsToRows(NewColumns())
	require.NoError(t, err)
	assert.Empty(t, rows)

	cols, err := RowsToColumns(nil, xySchema(typedarray.Float32), typedarray.Wrap)
	require.NoError(t, err)
	rows, err = ColumnsToRows(cols)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestColumnsSetAndAccessors(t *testing.T) {
	cols := NewColumns()
	assert.Error(t, cols.Set("x", []any{1}))
	assert.Error(t, cols.Set("", []int8{1}))
	assert.True(t, errors.IsType(cols.Set("img", "not a sequence"), errors.ErrorTypeUnsupportedInputKind))

	require.NoError(t, cols.Set("x", []int8{1, 2}))
	require.NoError(t, cols.Set("y", typedarray.Uint8ClampedArray{3, 4}))
	require.NoError(t, cols.Set("x", []float64{5, 6}))
	assert.Equal(t, []string{"x", "y"}, cols.Names(), "replacing keeps position")
	assert.Equal(t, 2, cols.NumColumns())
	assert.Equal(t, int64(18), cols.MemoryUsage())

	row, err := cols.RowAt(1)
	require.NoError(t, err)
	assert.Equal(t, Row{"x": 6.0, "y": 4.0}, row)

	_, err = cols.RowAt(5)
	assert.Error(t, err)

	assert.Equal(t, "x:float64,y:uint8clamped", cols.Schema().String())

	_, err = cols.Column("z")
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
}

func TestColumnsZeroValue(t *testing.T) {
	var cols Columns
	assert.Empty(t, cols.Names())
	assert.Equal(t, 0, cols.Len())
	_, err := cols.Column("x")
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))

	require.NoError(t, cols.Set("x", []int32{1, 2}))
	x, err := cols.Column("x")
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2}, x)
	assert.Equal(t, 2, cols.Len())
}

func TestCloneIsIndependent(t *testing.T) {
	src := []int32{1, 2}
	cols := NewColumns()
	require.NoError(t, cols.Set("v", src))

	clone, err := cols.Clone()
	require.NoError(t, err)
	seq, _ := clone.Column("v")
	seq.([]int32)[0] = 99
	assert.Equal(t, int32(1), src[0])
}

func TestIsColumnarAndFromMap(t *testing.T) {
	assert.True(t, IsColumnar(map[string]any{"a": []int8{1}, "b": []float64{}}))
	assert.True(t, IsColumnar(map[string]any{}))
	assert.False(t, IsColumnar(nil))
	assert.False(t, IsColumnar(map[string]any{"a": []int8{1}, "b": []any{1}}))

	cols, err := FromMap(map[string]any{"z": []uint16{1}, "a": []uint16{2}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "z"}, cols.Names())

	_, err = FromMap(map[string]any{"a": []int{1}})
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnsupportedInputKind))

	m := cols.Map()
	assert.Equal(t, []uint16{2}, m["a"])
}

func TestParseSchema(t *testing.T) {
	s, err := ParseSchema("x:int32, y:Float64Array ,")
	require.NoError(t, err)
	assert.Equal(t, xySchema(typedarray.Int32).Fields[0], s.Fields[0])
	assert.Equal(t, Field{Name: "y", Kind: typedarray.Float64}, s.Fields[1])

	_, err = ParseSchema("x")
	assert.Error(t, err)
	_, err = ParseSchema("x:decimal")
	assert.Error(t, err)
	_, err = ParseSchema("x:array")
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnsupportedInputKind))
}
