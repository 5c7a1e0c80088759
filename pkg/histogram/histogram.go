// Package histogram computes equal-width histograms over numeric sequences.
//
// Values outside [min, max] (and NaN) are not errors. They are skipped,
// counted in Histogram.OutOfRange and reported through Options.Warn, which
// by default writes a deduplicated warning to the logger.
package histogram

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"
	"go.uber.org/zap"

	"github.com/ajitpratap0/typedbuf/pkg/errors"
	"github.com/ajitpratap0/typedbuf/pkg/logger"
	"github.com/ajitpratap0/typedbuf/pkg/metrics"
	"github.com/ajitpratap0/typedbuf/pkg/typedarray"
)

// DefaultBins is the bin count used when callers have no preference.
const DefaultBins = 10

// Range bounds a histogram. Both ends are inclusive.
type Range struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// OutOfRangeValue describes a skipped value.
type OutOfRangeValue struct {
	Index int
	Value float64
	Min   float64
	Max   float64
}

// Options configures Compute. The zero value is usable.
type Options struct {
	// Range overrides the default bounds, the min and max of the finite
	// values in the sequence.
	Range *Range
	// Warn receives every skipped value. Nil logs a warning once per
	// distinct message.
	Warn func(OutOfRangeValue)
	// Logger is used by the default Warn. Nil uses the global logger.
	Logger *zap.Logger
}

// Params are the values that define a histogram.
type Params struct {
	Bins      int     `json:"bins"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	BinWidth  float64 `json:"bin_width"`
	ArraySize int     `json:"array_size"`
}

// Histogram holds bin counts together with the parameters that produced
// them.
type Histogram struct {
	Counts     []int  `json:"counts"`
	Params     Params `json:"params"`
	OutOfRange int    `json:"out_of_range"`
}

// Compute bins the values of seq into bins equal-width bins over
// [min, max]. A value equal to max lands in the last bin.
func Compute(seq any, bins int, opts *Options) (*Histogram, error) {
	h, err := compute(seq, bins, opts)
	if err != nil {
		metrics.ObserveError(metrics.OpHistogram, err)
		return nil, err
	}
	metrics.ObserveConversion(metrics.OpHistogram, "float64", 0)
	return h, nil
}

func compute(seq any, bins int, opts *Options) (*Histogram, error) {
	if opts == nil {
		opts = &Options{}
	}
	vals, err := typedarray.Float64s(seq)
	if err != nil {
		return nil, err
	}

	r := opts.Range
	if r == nil {
		if r, err = finiteRange(vals); err != nil {
			return nil, err
		}
	}
	if err := validate(bins, r.Min, r.Max); err != nil {
		return nil, err
	}

	warn := opts.Warn
	if warn == nil {
		warn = logWarn(opts.Logger)
	}

	h := &Histogram{
		Counts: make([]int, bins),
		Params: Params{
			Bins:      bins,
			Min:       r.Min,
			Max:       r.Max,
			BinWidth:  binWidth(r, bins),
			ArraySize: len(vals),
		},
	}
	for i, v := range vals {
		if math.IsNaN(v) || v < r.Min || v > r.Max {
			h.OutOfRange++
			metrics.HistogramOutOfRange.Inc()
			warn(OutOfRangeValue{Index: i, Value: v, Min: r.Min, Max: r.Max})
			continue
		}
		bin := binIndex(v, r, h.Params.BinWidth, bins)
		h.Counts[max(0, min(bin, bins-1))]++
	}
	return h, nil
}

// binIndex returns floor((v-min)/width). When the width overflows or
// underflows, v is placed by its fraction of the span instead, measured on
// halved bounds if the span itself overflows. The result is not clamped.
func binIndex(v float64, r *Range, width float64, bins int) int {
	if width > 0 && !math.IsInf(width, 0) && !math.IsInf(v-r.Min, 0) {
		return int(math.Floor((v - r.Min) / width))
	}
	var frac float64
	if span := r.Max - r.Min; math.IsInf(span, 0) {
		frac = (v/2 - r.Min/2) / (r.Max/2 - r.Min/2)
	} else {
		frac = (v - r.Min) / span
	}
	return int(math.Floor(frac * float64(bins)))
}

func binWidth(r *Range, bins int) float64 {
	w := (r.Max - r.Min) / float64(bins)
	if math.IsInf(w, 0) {
		w = r.Max/float64(bins) - r.Min/float64(bins)
	}
	return w
}

func validate(bins int, lo, hi float64) error {
	switch {
	case bins < 1:
		return errors.Newf(errors.ErrorTypeInvalidHistogramRange, "bin count must be at least 1, got %d", bins).
			WithDetail("bins", bins)
	case math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0):
		return errors.Newf(errors.ErrorTypeInvalidHistogramRange, "histogram bounds must be finite, got %v-%v", lo, hi)
	case hi <= lo:
		return errors.Newf(errors.ErrorTypeInvalidHistogramRange, "histogram max %v must be greater than min %v", hi, lo).
			WithDetail("min", lo).
			WithDetail("max", hi)
	}
	return nil
}

// finiteRange returns the min and max of the finite values.
func finiteRange(vals []float64) (*Range, error) {
	finite := make(stats.Float64Data, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	lo, err := finite.Min()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInvalidHistogramRange, "no finite values to infer histogram bounds from")
	}
	hi, err := finite.Max()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInvalidHistogramRange, "no finite values to infer histogram bounds from")
	}
	return &Range{Min: lo, Max: hi}, nil
}

func logWarn(l *zap.Logger) func(OutOfRangeValue) {
	return func(o OutOfRangeValue) {
		msg := fmt.Sprintf("histogram bounds error: %s: %s-%s",
			formatFloat(o.Value), formatFloat(o.Min), formatFloat(o.Max))
		logger.WarnOnceTo(l, msg, zap.Int("index", o.Index))
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// String returns the counts joined by commas.
func (h *Histogram) String() string {
	parts := make([]string, len(h.Counts))
	for i, c := range h.Counts {
		parts[i] = strconv.Itoa(c)
	}
	return strings.Join(parts, ",")
}

// Total returns the number of values that were binned.
func (h *Histogram) Total() int {
	total := 0
	for _, c := range h.Counts {
		total += c
	}
	return total
}

// BinRange returns the bounds of bin i. The last bin is closed on the right.
func (h *Histogram) BinRange(i int) (lo, hi float64) {
	lo = h.Params.Min + float64(i)*h.Params.BinWidth
	if i == h.Params.Bins-1 {
		return lo, h.Params.Max
	}
	return lo, lo + h.Params.BinWidth
}

// Summary formats a one line description prefixed with name.
func (h *Histogram) Summary(name string) string {
	return fmt.Sprintf("%s: %s min/max: %.3f %.3f", name, h.String(), h.Params.Min, h.Params.Max)
}
