package metrics

import (
	"io"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/ajitpratap0/typedbuf/pkg/errors"
)

func TestObserveConversion(t *testing.T) {
	before := testutil.ToFloat64(Conversions.WithLabelValues(OpSequenceToBuffer, "int16"))
	bytesBefore := testutil.ToFloat64(Bytes.WithLabelValues(OpSequenceToBuffer))

	ObserveConversion(OpSequenceToBuffer, "int16", 6)

	assert.Equal(t, before+1, testutil.ToFloat64(Conversions.WithLabelValues(OpSequenceToBuffer, "int16")))
	assert.Equal(t, bytesBefore+6, testutil.ToFloat64(Bytes.WithLabelValues(OpSequenceToBuffer)))
}

func TestObserveError(t *testing.T) {
	label := string(errors.ErrorTypeInvalidBase64)
	before := testutil.ToFloat64(Errors.WithLabelValues(OpDecodeBase64, label))

	ObserveError(OpDecodeBase64, nil)
	ObserveError(OpDecodeBase64, errors.New(errors.ErrorTypeInvalidBase64, "bad"))

	assert.Equal(t, before+1, testutil.ToFloat64(Errors.WithLabelValues(OpDecodeBase64, label)))

	internal := testutil.ToFloat64(Errors.WithLabelValues(OpDecodeBase64, string(errors.ErrorTypeInternal)))
	ObserveError(OpDecodeBase64, io.EOF)
	assert.Equal(t, internal+1, testutil.ToFloat64(Errors.WithLabelValues(OpDecodeBase64, string(errors.ErrorTypeInternal))))
}

func TestTimer(t *testing.T) {
	timer := NewTimer("test_timer")
	d := timer.Stop()
	assert.GreaterOrEqual(t, d.Nanoseconds(), int64(0))
	assert.GreaterOrEqual(t, testutil.CollectAndCount(OperationLatency), 1)
}
