package typedarray

import (
	"github.com/ajitpratap0/typedbuf/pkg/errors"
)

// Len returns the number of elements in a sequence.
func Len(seq any) (int, error) {
	switch s := seq.(type) {
	case []any:
		return len(s), nil
	case []int:
		return len(s), nil
	case []uint:
		return len(s), nil
	case []int8:
		return len(s), nil
	case []uint8:
		return len(s), nil
	case Uint8ClampedArray:
		return len(s), nil
	case []int16:
		return len(s), nil
	case []uint16:
		return len(s), nil
	case []int32:
		return len(s), nil
	case []uint32:
		return len(s), nil
	case []int64:
		return len(s), nil
	case []uint64:
		return len(s), nil
	case []float32:
		return len(s), nil
	case []float64:
		return len(s), nil
	}
	_, err := Require(seq)
	return 0, err
}

func toFloats[S Number](src []S) []float64 {
	out := make([]float64, len(src))
	for i, v := range src {
		out[i] = float64(v)
	}
	return out
}

// Float64s returns the elements of seq as float64. A []float64 input is
// returned as is; every other input is copied. Generic elements are
// coerced: numeric strings parse, booleans become 0 or 1 and anything
// non-numeric becomes NaN.
func Float64s(seq any) ([]float64, error) {
	switch s := seq.(type) {
	case []float64:
		return s, nil
	case []any:
		out := make([]float64, len(s))
		for i, v := range s {
			out[i] = toNumber(v)
		}
		return out, nil
	case []int:
		out := make([]float64, len(s))
		for i, v := range s {
			out[i] = float64(v)
		}
		return out, nil
	case []uint:
		out := make([]float64, len(s))
		for i, v := range s {
			out[i] = float64(v)
		}
		return out, nil
	case []int8:
		return toFloats(s), nil
	case []uint8:
		return toFloats(s), nil
	case Uint8ClampedArray:
		return toFloats(s), nil
	case []int16:
		return toFloats(s), nil
	case []uint16:
		return toFloats(s), nil
	case []int32:
		return toFloats(s), nil
	case []uint32:
		return toFloats(s), nil
	case []int64:
		return toFloats(s), nil
	case []uint64:
		return toFloats(s), nil
	case []float32:
		return toFloats(s), nil
	}
	_, err := Require(seq)
	return nil, err
}

func fromFloats[D Number](vals []float64, k Kind, p Policy) []D {
	out := make([]D, len(vals))
	for i, v := range vals {
		out[i] = narrowTo[D](k, v, p)
	}
	return out
}

// FromFloat64s builds a new sequence of kind k from vals. Array produces a
// boxed []any.
func FromFloat64s(vals []float64, k Kind, p Policy) (any, error) {
	switch k {
	case Array:
		out := make([]any, len(vals))
		for i, v := range vals {
			out[i] = v
		}
		return out, nil
	case Int8:
		return fromFloats[int8](vals, k, p), nil
	case Uint8:
		return fromFloats[uint8](vals, k, p), nil
	case Uint8Clamped:
		return Uint8ClampedArray(fromFloats[uint8](vals, k, p)), nil
	case Int16:
		return fromFloats[int16](vals, k, p), nil
	case Uint16:
		return fromFloats[uint16](vals, k, p), nil
	case Int32:
		return fromFloats[int32](vals, k, p), nil
	case Uint32:
		return fromFloats[uint32](vals, k, p), nil
	case Int64:
		return fromFloats[int64](vals, k, p), nil
	case Uint64:
		return fromFloats[uint64](vals, k, p), nil
	case Float32:
		return fromFloats[float32](vals, k, p), nil
	case Float64:
		out := make([]float64, len(vals))
		copy(out, vals)
		return out, nil
	}
	return nil, errors.Newf(errors.ErrorTypeValidation, "cannot build a sequence of kind %s", k)
}

// intsTo converts exact integers into kind k. Wrap keeps the low bits the
// way Go integer conversion does.
func intsTo[S Number, D Number](src []S, k Kind, signed bool, p Policy) []D {
	out := make([]D, len(src))
	sat := p == Saturate || k == Uint8Clamped
	for i, v := range src {
		switch {
		case !sat && signed:
			out[i] = D(int64(v))
		case !sat:
			out[i] = D(uint64(v))
		case signed:
			out[i] = D(clampInt64(int64(v), k))
		default:
			out[i] = D(clampUint64(uint64(v), k))
		}
	}
	return out
}

func intsToKind[S Number](src []S, k Kind, signed bool, p Policy) any {
	switch k {
	case Int8:
		return intsTo[S, int8](src, k, signed, p)
	case Uint8:
		return intsTo[S, uint8](src, k, signed, p)
	case Uint8Clamped:
		return Uint8ClampedArray(intsTo[S, uint8](src, k, signed, p))
	case Int16:
		return intsTo[S, int16](src, k, signed, p)
	case Uint16:
		return intsTo[S, uint16](src, k, signed, p)
	case Int32:
		return intsTo[S, int32](src, k, signed, p)
	case Uint32:
		return intsTo[S, uint32](src, k, signed, p)
	case Int64:
		return intsTo[S, int64](src, k, signed, p)
	default:
		return intsTo[S, uint64](src, k, signed, p)
	}
}

func convertInts(seq any, k Kind, p Policy) any {
	switch s := seq.(type) {
	case []int8:
		return intsToKind(s, k, true, p)
	case []int16:
		return intsToKind(s, k, true, p)
	case []int32:
		return intsToKind(s, k, true, p)
	case []int64:
		return intsToKind(s, k, true, p)
	case []uint8:
		return intsToKind(s, k, false, p)
	case Uint8ClampedArray:
		return intsToKind(s, k, false, p)
	case []uint16:
		return intsToKind(s, k, false, p)
	case []uint32:
		return intsToKind(s, k, false, p)
	case []uint64:
		return intsToKind(s, k, false, p)
	}
	return nil
}

// Convert returns seq as a new sequence of kind k. When seq already has
// kind k it is returned unchanged.
func Convert(seq any, k Kind, p Policy) (any, error) {
	c, err := Require(seq)
	if err != nil {
		return nil, err
	}
	if k == Invalid || k.Size() == 0 && k != Array {
		return nil, errors.Newf(errors.ErrorTypeValidation, "invalid target kind %s", k)
	}
	if c.Kind == k && c.Category == Typed {
		return seq, nil
	}
	if k == Array {
		return Box(seq)
	}
	if c.Category == Typed && c.Kind.IsInteger() && k.IsInteger() {
		return convertInts(seq, k, p), nil
	}
	vals, err := Float64s(seq)
	if err != nil {
		return nil, err
	}
	return FromFloat64s(vals, k, p)
}

// Box copies seq into a generic []any of float64 values.
func Box(seq any) ([]any, error) {
	vals, err := Float64s(seq)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out, nil
}

// Clone returns a copy of seq with the same kind.
func Clone(seq any) (any, error) {
	switch s := seq.(type) {
	case []any:
		return append([]any(nil), s...), nil
	case []int:
		return append([]int(nil), s...), nil
	case []uint:
		return append([]uint(nil), s...), nil
	case []int8:
		return append([]int8{}, s...), nil
	case []uint8:
		return append([]uint8{}, s...), nil
	case Uint8ClampedArray:
		return append(Uint8ClampedArray{}, s...), nil
	case []int16:
		return append([]int16{}, s...), nil
	case []uint16:
		return append([]uint16{}, s...), nil
	case []int32:
		return append([]int32{}, s...), nil
	case []uint32:
		return append([]uint32{}, s...), nil
	case []int64:
		return append([]int64{}, s...), nil
	case []uint64:
		return append([]uint64{}, s...), nil
	case []float32:
		return append([]float32{}, s...), nil
	case []float64:
		return append([]float64{}, s...), nil
	}
	_, err := Require(seq)
	return nil, err
}

// Make allocates a zeroed sequence of kind k with n elements.
func Make(k Kind, n int) (any, error) {
	if n < 0 {
		return nil, errors.Newf(errors.ErrorTypeValidation, "negative length %d", n)
	}
	return FromFloat64s(make([]float64, n), k, Wrap)
}

// Concat appends b to a. A typed a keeps its kind and b is narrowed into it
// with Wrap (Uint8Clamped still clamps); a generic a produces a boxed result.
func Concat(a, b any) (any, error) {
	ca, err := Require(a)
	if err != nil {
		return nil, err
	}
	if _, err := Require(b); err != nil {
		return nil, err
	}
	if ca.Category == Generic {
		left, err := Box(a)
		if err != nil {
			return nil, err
		}
		right, err := Box(b)
		if err != nil {
			return nil, err
		}
		return append(left, right...), nil
	}
	conv, err := Convert(b, ca.Kind, Wrap)
	if err != nil {
		return nil, err
	}
	switch s := a.(type) {
	case []int8:
		return append(append([]int8{}, s...), conv.([]int8)...), nil
	case []uint8:
		return append(append([]uint8{}, s...), conv.([]uint8)...), nil
	case Uint8ClampedArray:
		return append(append(Uint8ClampedArray{}, s...), conv.(Uint8ClampedArray)...), nil
	case []int16:
		return append(append([]int16{}, s...), conv.([]int16)...), nil
	case []uint16:
		return append(append([]uint16{}, s...), conv.([]uint16)...), nil
	case []int32:
		return append(append([]int32{}, s...), conv.([]int32)...), nil
	case []uint32:
		return append(append([]uint32{}, s...), conv.([]uint32)...), nil
	case []int64:
		return append(append([]int64{}, s...), conv.([]int64)...), nil
	case []uint64:
		return append(append([]uint64{}, s...), conv.([]uint64)...), nil
	case []float32:
		return append(append([]float32{}, s...), conv.([]float32)...), nil
	default:
		return append(append([]float64{}, a.([]float64)...), conv.([]float64)...), nil
	}
}

// At returns element i of seq as a float64.
func At(seq any, i int) (float64, error) {
	n, err := Len(seq)
	if err != nil {
		return 0, err
	}
	if i < 0 || i >= n {
		return 0, errors.Newf(errors.ErrorTypeValidation, "index %d out of range [0, %d)", i, n)
	}
	switch s := seq.(type) {
	case []any:
		return toNumber(s[i]), nil
	case []int:
		return float64(s[i]), nil
	case []uint:
		return float64(s[i]), nil
	case []int8:
		return float64(s[i]), nil
	case []uint8:
		return float64(s[i]), nil
	case Uint8ClampedArray:
		return float64(s[i]), nil
	case []int16:
		return float64(s[i]), nil
	case []uint16:
		return float64(s[i]), nil
	case []int32:
		return float64(s[i]), nil
	case []uint32:
		return float64(s[i]), nil
	case []int64:
		return float64(s[i]), nil
	case []uint64:
		return float64(s[i]), nil
	case []float32:
		return float64(s[i]), nil
	default:
		return seq.([]float64)[i], nil
	}
}

// Set stores v at index i of a typed or boxed sequence, narrowing with p.
func Set(seq any, i int, v float64, p Policy) error {
	n, err := Len(seq)
	if err != nil {
		return err
	}
	if i < 0 || i >= n {
		return errors.Newf(errors.ErrorTypeValidation, "index %d out of range [0, %d)", i, n)
	}
	switch s := seq.(type) {
	case []any:
		s[i] = v
	case []int8:
		s[i] = narrowTo[int8](Int8, v, p)
	case []uint8:
		s[i] = narrowTo[uint8](Uint8, v, p)
	case Uint8ClampedArray:
		s[i] = clampUint8(v)
	case []int16:
		s[i] = narrowTo[int16](Int16, v, p)
	case []uint16:
		s[i] = narrowTo[uint16](Uint16, v, p)
	case []int32:
		s[i] = narrowTo[int32](Int32, v, p)
	case []uint32:
		s[i] = narrowTo[uint32](Uint32, v, p)
	case []int64:
		s[i] = narrowTo[int64](Int64, v, p)
	case []uint64:
		s[i] = narrowTo[uint64](Uint64, v, p)
	case []float32:
		s[i] = float32(v)
	case []float64:
		s[i] = v
	default:
		return errors.Newf(errors.ErrorTypeValidation, "cannot store into %T", seq)
	}
	return nil
}
