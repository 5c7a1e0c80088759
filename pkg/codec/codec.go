// Package codec converts numeric sequences to byte buffers and base64 text
// and back.
//
// Typed sequences become byte views over their own memory without copying.
// Generic sequences are first materialized as Options.Target (Float64 by
// default). Buffers always carry the host's native byte order; the codec
// never reorders bytes, but IsLittleEndian and NativeByteOrder let callers
// normalize when crossing platforms.
//
//	buf, _ := codec.SequenceToBuffer([]any{1, 2.5}, nil)
//	text := codec.EncodeBase64(buf)
//	seq, _ := codec.DecodeSequence(text, typedarray.Float64, nil)
package codec

import (
	"go.uber.org/zap"

	"github.com/ajitpratap0/typedbuf/pkg/errors"
	"github.com/ajitpratap0/typedbuf/pkg/logger"
	"github.com/ajitpratap0/typedbuf/pkg/metrics"
	"github.com/ajitpratap0/typedbuf/pkg/typedarray"
)

// Options controls how sequences are materialized and decoded.
type Options struct {
	// Target is the kind generic input is materialized as.
	Target typedarray.Kind
	// Fallback is the kind a buffer is read as before boxing into a
	// generic sequence.
	Fallback typedarray.Kind
	// Policy narrows out-of-range values into integer kinds.
	Policy typedarray.Policy
	// AllowLossyFallback permits a Fallback other than Float64.
	AllowLossyFallback bool
	// Logger receives lossy fallback warnings. Nil uses the global logger.
	Logger *zap.Logger
}

// DefaultOptions returns Float64 target and fallback with Wrap narrowing.
func DefaultOptions() *Options {
	return &Options{
		Target:   typedarray.Float64,
		Fallback: typedarray.Float64,
		Policy:   typedarray.Wrap,
	}
}

// resolve fills unset kinds with their defaults and validates the rest.
func resolve(opts *Options) (*Options, error) {
	if opts == nil {
		return DefaultOptions(), nil
	}
	o := *opts
	if o.Target == typedarray.Invalid {
		o.Target = typedarray.Float64
	}
	if o.Fallback == typedarray.Invalid {
		o.Fallback = typedarray.Float64
	}
	if !o.Target.IsTyped() {
		return nil, errors.Newf(errors.ErrorTypeValidation, "target kind must be typed, got %s", o.Target)
	}
	if !o.Fallback.IsTyped() {
		return nil, errors.Newf(errors.ErrorTypeValidation, "fallback kind must be typed, got %s", o.Fallback)
	}
	return &o, nil
}

// SequenceToBuffer returns the bytes of seq. Typed input is viewed in
// place, so writes through the buffer are visible in seq. Generic input is
// converted to Options.Target first.
func SequenceToBuffer(seq any, opts *Options) ([]byte, error) {
	buf, kind, err := sequenceToBuffer(seq, opts)
	if err != nil {
		metrics.ObserveError(metrics.OpSequenceToBuffer, err)
		return nil, err
	}
	metrics.ObserveConversion(metrics.OpSequenceToBuffer, kind.String(), len(buf))
	return buf, nil
}

func sequenceToBuffer(seq any, opts *Options) ([]byte, typedarray.Kind, error) {
	o, err := resolve(opts)
	if err != nil {
		return nil, typedarray.Invalid, err
	}
	c, err := typedarray.Require(seq)
	if err != nil {
		return nil, typedarray.Invalid, err
	}
	if c.Category == typedarray.Generic {
		if seq, err = typedarray.Convert(seq, o.Target, o.Policy); err != nil {
			return nil, typedarray.Invalid, err
		}
		c.Kind = o.Target
	}
	buf, err := typedarray.Bytes(seq)
	return buf, c.Kind, err
}

// BufferToSequence reinterprets buf as a sequence of kind. Aligned buffers
// are viewed in place; misaligned ones are copied. For typedarray.Array the
// buffer is read as Options.Fallback and boxed into a []any.
func BufferToSequence(buf []byte, kind typedarray.Kind, opts *Options) (any, error) {
	seq, err := bufferToSequence(buf, kind, opts)
	if err != nil {
		metrics.ObserveError(metrics.OpBufferToSequence, err)
		return nil, err
	}
	metrics.ObserveConversion(metrics.OpBufferToSequence, kind.String(), len(buf))
	return seq, nil
}

func bufferToSequence(buf []byte, kind typedarray.Kind, opts *Options) (any, error) {
	o, err := resolve(opts)
	if err != nil {
		return nil, err
	}
	if kind != typedarray.Array {
		if !kind.IsTyped() {
			return nil, errors.Newf(errors.ErrorTypeValidation, "cannot decode into kind %s", kind)
		}
		return typedarray.FromBytes(buf, kind)
	}

	if err := checkFallback(o); err != nil {
		return nil, err
	}
	seq, err := typedarray.FromBytes(buf, o.Fallback)
	if err != nil {
		return nil, err
	}
	return typedarray.Box(seq)
}

// checkFallback refuses a non-Float64 fallback unless it was allowed.
func checkFallback(o *Options) error {
	if o.Fallback == typedarray.Float64 {
		return nil
	}
	if !o.AllowLossyFallback {
		return errors.Newf(errors.ErrorTypeLossyFallback,
			"decoding a generic sequence through %s may lose precision", o.Fallback).
			WithDetail("fallback", o.Fallback.String())
	}
	logger.WarnOnceTo(o.Logger, "lossy fallback: generic sequences decoded through "+o.Fallback.String(),
		zap.String("fallback", o.Fallback.String()))
	return nil
}

// EncodeSequence converts seq to a buffer and encodes it as base64.
func EncodeSequence(seq any, opts *Options) (string, error) {
	buf, err := SequenceToBuffer(seq, opts)
	if err != nil {
		return "", err
	}
	return EncodeBase64(buf), nil
}

// DecodeSequence decodes base64 text and reinterprets it as kind.
func DecodeSequence(text string, kind typedarray.Kind, opts *Options) (any, error) {
	buf, err := DecodeBase64(text)
	if err != nil {
		return nil, err
	}
	return BufferToSequence(buf, kind, opts)
}
