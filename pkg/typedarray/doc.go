// Package typedarray classifies numeric sequences and converts between them.
//
// # Sequences
//
// A sequence is either generic or typed:
//
//   - Generic sequences have no declared element width: []any holding boxed
//     numbers, []int and []uint.
//   - Typed sequences are Go fixed-width slices: []int8, []uint8,
//     Uint8ClampedArray, []int16, []uint16, []int32, []uint32, []int64, []uint64,
//     []float32 and []float64. The element kind and width come from the Go
//     type and never change.
//
// Classify places any value in one of these categories, or reports it as
// image-like, canvas-like or not a sequence. It only looks at the declared
// type, never at element values, and never panics.
//
// # Narrowing
//
// Converting to a narrower kind follows an explicit Policy:
//
//	Wrap      NaN and ±Inf become 0, values truncate toward zero and are
//	          reduced modulo 2^bits (two's complement for signed kinds)
//	Saturate  NaN becomes 0, values truncate toward zero and clamp to the
//	          kind's range (±Inf clamp to the bounds)
//
// Float32 targets round to nearest, Uint8Clamped always clamps to [0, 255]
// rounding half to even. Integer to integer conversions of typed input are
// exact before the policy is applied.
//
// # Views
//
// Bytes and FromBytes reinterpret typed sequences as byte buffers and back
// without copying, using the host's native byte order.
package typedarray
