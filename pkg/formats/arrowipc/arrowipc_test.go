package arrowipc

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/typedbuf/pkg/columnar"
	"github.com/ajitpratap0/typedbuf/pkg/compression"
	"github.com/ajitpratap0/typedbuf/pkg/errors"
	"github.com/ajitpratap0/typedbuf/pkg/typedarray"
)

func testColumns(t *testing.T) *columnar.Columns {
	t.Helper()
	cols := columnar.NewColumns()
	require.NoError(t, cols.Set("id", []int64{1, 2, 3}))
	require.NoError(t, cols.Set("score", []float32{0.5, 1.5, -2}))
	require.NoError(t, cols.Set("alpha", typedarray.Uint8ClampedArray{0, 128, 255}))
	return cols
}

func TestToRecordSharesMemory(t *testing.T) {
	cols := testColumns(t)
	rec, err := ToRecord(cols)
	require.NoError(t, err)
	defer rec.Release()

	assert.Equal(t, int64(3), rec.NumRows())
	assert.Equal(t, int64(3), rec.NumCols())
	assert.Equal(t, arrow.PrimitiveTypes.Int64, rec.Schema().Field(0).Type)
	assert.Equal(t, arrow.PrimitiveTypes.Uint8, rec.Schema().Field(2).Type)

	ids := rec.Column(0).(*array.Int64)
	assert.Equal(t, []int64{1, 2, 3}, ids.Int64Values())

	seq, err := cols.Column("id")
	require.NoError(t, err)
	seq.([]int64)[1] = 42
	assert.Equal(t, int64(42), ids.Value(1))
}

func TestToRecordInconsistentLength(t *testing.T) {
	cols := columnar.NewColumns()
	require.NoError(t, cols.Set("a", []int8{1, 2}))
	require.NoError(t, cols.Set("b", []int8{1}))

	_, err := ToRecord(cols)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInconsistentColumnLength))
}

func TestFromRecordKeepsClampedKind(t *testing.T) {
	cols := testColumns(t)
	rec, err := ToRecord(cols)
	require.NoError(t, err)
	defer rec.Release()

	back, err := FromRecord(rec)
	require.NoError(t, err)
	assert.Equal(t, cols.Schema(), back.Schema())
	assert.Equal(t, cols.Map(), back.Map())

	// The copy is independent of the record.
	alpha, _ := back.Column("alpha")
	alpha.(typedarray.Uint8ClampedArray)[0] = 7
	assert.Equal(t, uint8(0), rec.Column(2).(*array.Uint8).Value(0))
}

func TestFromRecordNullsAndSlices(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	b := array.NewInt16Builder(mem)
	defer b.Release()
	b.AppendValues([]int16{5, 3, 7, 9}, []bool{true, false, true, true})
	full := b.NewArray()
	defer full.Release()
	sliced := array.NewSlice(full, 1, 4)
	defer sliced.Release()

	schema := arrow.NewSchema([]arrow.Field{{Name: "v", Type: arrow.PrimitiveTypes.Int16, Nullable: true}}, nil)
	rec := array.NewRecord(schema, []arrow.Array{sliced}, 3)
	defer rec.Release()

	cols, err := FromRecord(rec)
	require.NoError(t, err)
	v, err := cols.Column("v")
	require.NoError(t, err)
	assert.Equal(t, []int16{0, 7, 9}, v)
}

func TestFromRecordRejectsStrings(t *testing.T) {
	b := array.NewStringBuilder(memory.NewGoAllocator())
	defer b.Release()
	b.Append("x")
	arr := b.NewArray()
	defer arr.Release()

	schema := arrow.NewSchema([]arrow.Field{{Name: "s", Type: arrow.BinaryTypes.String}}, nil)
	rec := array.NewRecord(schema, []arrow.Array{arr}, 1)
	defer rec.Release()

	_, err := FromRecord(rec)
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnsupportedInputKind))
}

func TestEncodeDecodeColumns(t *testing.T) {
	for _, a := range []compression.Algorithm{compression.None, compression.Zstd, compression.LZ4} {
		t.Run(string(a), func(t *testing.T) {
			mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
			defer mem.AssertSize(t, 0)

			cols := testColumns(t)
			data, err := EncodeColumns(cols, &Options{Compression: a})
			require.NoError(t, err)

			back, err := DecodeColumns(data, &Options{Allocator: mem})
			require.NoError(t, err)
			assert.Equal(t, cols.Map(), back.Map())
			assert.Equal(t, "id:int64,score:float32,alpha:uint8clamped", back.Schema().String())
		})
	}
}

func TestEncodeColumnsRejectsSnappy(t *testing.T) {
	_, err := EncodeColumns(testColumns(t), &Options{Compression: compression.Snappy})
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestDecodeColumnsConcatenatesBatches(t *testing.T) {
	first := columnar.NewColumns()
	require.NoError(t, first.Set("v", []uint32{1, 2}))
	second := columnar.NewColumns()
	require.NoError(t, second.Set("v", []uint32{3}))

	r1, err := ToRecord(first)
	require.NoError(t, err)
	defer r1.Release()
	r2, err := ToRecord(second)
	require.NoError(t, err)
	defer r2.Release()

	data, err := Serialize(nil, r1, r2)
	require.NoError(t, err)

	records, err := Deserialize(data, nil)
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, r := range records {
		r.Release()
	}

	cols, err := DecodeColumns(data, nil)
	require.NoError(t, err)
	v, _ := cols.Column("v")
	assert.Equal(t, []uint32{1, 2, 3}, v)
}

func TestDecodeColumnsEmptyStream(t *testing.T) {
	cols := columnar.NewColumns()
	require.NoError(t, cols.Set("v", []float64{}))
	data, err := EncodeColumns(cols, nil)
	require.NoError(t, err)

	back, err := DecodeColumns(data, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"v"}, back.Names())
	assert.Equal(t, 0, back.Len())
}

func TestDecodeColumnsCorrupt(t *testing.T) {
	_, err := DecodeColumns([]byte("not arrow"), nil)
	assert.True(t, errors.IsType(err, errors.ErrorTypeData))
}

func TestKindOf(t *testing.T) {
	k, err := KindOf(arrow.Field{Name: "f", Type: arrow.PrimitiveTypes.Float64})
	require.NoError(t, err)
	assert.Equal(t, typedarray.Float64, k)

	md := arrow.NewMetadata([]string{KindMetadataKey}, []string{"array"})
	_, err = KindOf(arrow.Field{Name: "g", Type: arrow.PrimitiveTypes.Uint8, Metadata: md})
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnsupportedInputKind))

	_, err = DataType(typedarray.Array)
	assert.Error(t, err)
}
