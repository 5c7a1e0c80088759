package histogram

import (
	"math"
	"testing"

	"github.com/goccy/go-json"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/ajitpratap0/typedbuf/pkg/errors"
	"github.com/ajitpratap0/typedbuf/pkg/metrics"
	"github.com/ajitpratap0/typedbuf/pkg/testutil"
)

func TestComputeEqualBins(t *testing.T) {
	h, err := Compute([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, 5, &Options{Range: &Range{Min: 0, Max: 10}})
	require.NoError(t, err)

	assert.Equal(t, []int{2, 2, 2, 2, 2}, h.Counts)
	assert.Equal(t, 2.0, h.Params.BinWidth)
	assert.Equal(t, 10, h.Params.ArraySize)
	assert.Equal(t, 0, h.OutOfRange)
	assert.Equal(t, "2,2,2,2,2", h.String())
}

func TestComputeMaxClampsToLastBin(t *testing.T) {
	h, err := Compute([]int32{0, 10}, 5, &Options{Range: &Range{Min: 0, Max: 10}})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 0, 0, 1}, h.Counts)
}

func TestComputeExtremeFiniteRanges(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		bins   int
		want   []int
	}{
		{"span overflows", []float64{-math.MaxFloat64, 0, math.MaxFloat64}, 4, []int{1, 0, 1, 1}},
		{"single bin over full range", []float64{-math.MaxFloat64, math.MaxFloat64}, 1, []int{2}},
		{"width underflows", []float64{0, 5e-324}, 2, []int{1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := Compute(tt.values, tt.bins, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, h.Counts)
			assert.Equal(t, 0, h.OutOfRange)
		})
	}
}

func TestComputeDefaultRange(t *testing.T) {
	h, err := Compute([]any{3, 1, "7", math.Inf(1)}, DefaultBins, &Options{Warn: func(OutOfRangeValue) {}})
	require.NoError(t, err)

	assert.Equal(t, 1.0, h.Params.Min)
	assert.Equal(t, 7.0, h.Params.Max)
	assert.Len(t, h.Counts, 10)
	assert.Equal(t, 3, h.Total())
	assert.Equal(t, 1, h.OutOfRange, "+Inf lies outside the finite range")
}

func TestComputeOutOfRange(t *testing.T) {
	var skipped []OutOfRangeValue
	before := promtest.ToFloat64(metrics.HistogramOutOfRange)

	h, err := Compute([]float64{-1, 0.5, 11, math.NaN(), 10}, 2, &Options{
		Range: &Range{Min: 0, Max: 10},
		Warn:  func(v OutOfRangeValue) { skipped = append(skipped, v) },
	})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 1}, h.Counts)
	assert.Equal(t, 3, h.OutOfRange)
	require.Len(t, skipped, 3)
	assert.Equal(t, OutOfRangeValue{Index: 0, Value: -1, Min: 0, Max: 10}, skipped[0])
	assert.Equal(t, 2, skipped[1].Index)
	assert.True(t, math.IsNaN(skipped[2].Value))
	assert.Equal(t, before+3, promtest.ToFloat64(metrics.HistogramOutOfRange))
}

func TestComputeDefaultWarnLogsOnce(t *testing.T) {
	l, logs := testutil.ObservedLogger(t, zapcore.WarnLevel)

	_, err := Compute([]float64{11, 11, 12}, 2, &Options{Range: &Range{Min: 0, Max: 10}, Logger: l})
	require.NoError(t, err)

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "histogram bounds error: 11: 0-10", logs.All()[0].Message)
	assert.Equal(t, "histogram bounds error: 12: 0-10", logs.All()[1].Message)
}

func TestComputeInvalidRange(t *testing.T) {
	tests := []struct {
		name string
		seq  any
		bins int
		r    *Range
	}{
		{"zero bins", []float64{1, 2}, 0, nil},
		{"negative bins", []float64{1, 2}, -3, nil},
		{"max equals min", []float64{1, 2}, 4, &Range{Min: 5, Max: 5}},
		{"max below min", []float64{1, 2}, 4, &Range{Min: 5, Max: 1}},
		{"infinite bound", []float64{1, 2}, 4, &Range{Min: 0, Max: math.Inf(1)}},
		{"constant data", []float64{3, 3, 3}, 4, nil},
		{"no finite data", []float64{math.NaN()}, 4, nil},
		{"empty", []float64{}, 4, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.seq, tt.bins, &Options{Range: tt.r})
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidHistogramRange), err.Error())
		})
	}
}

func TestComputeRejectsNonSequence(t *testing.T) {
	_, err := Compute(map[string]int{}, 3, nil)
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnsupportedInputKind))
}

func TestCountsSumToInRangeValues(t *testing.T) {
	seq := make([]float64, 0, 200)
	for i := -50; i < 150; i++ {
		seq = append(seq, float64(i)*0.37)
	}
	r := &Range{Min: -3.3, Max: 41.2}
	inRange := 0
	for _, v := range seq {
		if v >= r.Min && v <= r.Max {
			inRange++
		}
	}

	for _, bins := range []int{1, 3, 7, 64} {
		h, err := Compute(seq, bins, &Options{Range: r, Warn: func(OutOfRangeValue) {}})
		require.NoError(t, err)
		assert.Equal(t, inRange, h.Total(), "bins=%d", bins)
		assert.Equal(t, len(seq), h.Total()+h.OutOfRange)
	}
}

func TestBinRangeAndSummary(t *testing.T) {
	h, err := Compute([]float64{0, 1, 2, 3}, 3, &Options{Range: &Range{Min: 0, Max: 3}})
	require.NoError(t, err)

	lo, hi := h.BinRange(0)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 1.0, hi)
	_, hi = h.BinRange(2)
	assert.Equal(t, 3.0, hi)

	assert.Equal(t, "speed: 1,1,2 min/max: 0.000 3.000", h.Summary("speed"))

	data, err := json.Marshal(h)
	require.NoError(t, err)
	assert.JSONEq(t, `{"counts":[1,1,2],"params":{"bins":3,"min":0,"max":3,"bin_width":1,"array_size":4},"out_of_range":0}`, string(data))
}
