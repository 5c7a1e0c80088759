// Package metrics provides Prometheus instrumentation for typedbuf.
//
// Conversions are counted per operation and element kind, encoded and
// decoded bytes per operation, and failures per error type:
//
//	metrics.ObserveConversion(metrics.OpSequenceToBuffer, "float64", len(buf))
//	metrics.ObserveError(metrics.OpBufferToSequence, errors.TypeOf(err))
//
// All collectors are registered on the default registry through promauto
// and are safe for concurrent use.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ajitpratap0/typedbuf/pkg/errors"
)

// Operation names used as the "operation" label.
const (
	OpSequenceToBuffer = "sequence_to_buffer"
	OpBufferToSequence = "buffer_to_sequence"
	OpEncodeBase64     = "encode_base64"
	OpDecodeBase64     = "decode_base64"
	OpRowsToColumns    = "rows_to_columns"
	OpColumnsToRows    = "columns_to_rows"
	OpTransfer         = "transfer"
	OpEncodePayload    = "encode_payload"
	OpDecodePayload    = "decode_payload"
	OpHistogram        = "histogram"
	OpArrowRecord      = "arrow_record"
)

var (
	// Conversions counts completed conversions.
	// Labels: operation, kind
	Conversions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "typedbuf_conversions_total",
			Help: "Total number of completed conversions",
		},
		[]string{"operation", "kind"},
	)

	// Bytes counts bytes produced or consumed by a conversion.
	// Labels: operation
	Bytes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "typedbuf_bytes_total",
			Help: "Total number of buffer bytes produced or consumed",
		},
		[]string{"operation"},
	)

	// Errors counts failed conversions.
	// Labels: operation, type (the errors.ErrorType)
	Errors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "typedbuf_errors_total",
			Help: "Total number of failed conversions",
		},
		[]string{"operation", "type"},
	)

	// HistogramOutOfRange counts values excluded from histograms.
	HistogramOutOfRange = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "typedbuf_histogram_out_of_range_total",
			Help: "Values skipped by the histogram engine because they fell outside [min, max]",
		},
	)

	// OperationLatency tracks command latency in seconds.
	// Labels: operation
	OperationLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "typedbuf_operation_duration_seconds",
			Help: "Latency of CLI operations in seconds",
			Buckets: []float64{
				1e-6, // 1μs - Tiny views
				1e-5, // 10μs
				1e-4, // 100μs
				1e-3, // 1ms - Typical conversions
				1e-2, // 10ms
				1e-1, // 100ms - Large payloads
				1,    // 1s
			},
		},
		[]string{"operation"},
	)
)

// ObserveConversion records a successful conversion of n bytes.
func ObserveConversion(operation, kind string, n int) {
	Conversions.WithLabelValues(operation, kind).Inc()
	if n > 0 {
		Bytes.WithLabelValues(operation).Add(float64(n))
	}
}

// ObserveError records a failed conversion. nil errors are ignored.
func ObserveError(operation string, err error) {
	if err == nil {
		return
	}
	Errors.WithLabelValues(operation, string(errors.TypeOf(err))).Inc()
}

// Timer provides a simple timing mechanism for measuring operation durations.
type Timer struct {
	start     time.Time
	operation string
}

// NewTimer creates a new timer and starts timing immediately.
func NewTimer(operation string) *Timer {
	return &Timer{
		start:     time.Now(),
		operation: operation,
	}
}

// Stop records the elapsed time in OperationLatency and returns it.
func (t *Timer) Stop() time.Duration {
	duration := time.Since(t.start)
	OperationLatency.WithLabelValues(t.operation).Observe(duration.Seconds())
	return duration
}
