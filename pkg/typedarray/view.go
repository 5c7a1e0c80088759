package typedarray

import (
	"unsafe"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/ajitpratap0/typedbuf/pkg/errors"
)

// Bytes returns the backing memory of a typed sequence as bytes in native
// byte order. The result aliases seq.
func Bytes(seq any) ([]byte, error) {
	switch s := seq.(type) {
	case []int8:
		return arrow.Int8Traits.CastToBytes(s), nil
	case []uint8:
		return s, nil
	case Uint8ClampedArray:
		return []byte(s), nil
	case []int16:
		return arrow.Int16Traits.CastToBytes(s), nil
	case []uint16:
		return arrow.Uint16Traits.CastToBytes(s), nil
	case []int32:
		return arrow.Int32Traits.CastToBytes(s), nil
	case []uint32:
		return arrow.Uint32Traits.CastToBytes(s), nil
	case []int64:
		return arrow.Int64Traits.CastToBytes(s), nil
	case []uint64:
		return arrow.Uint64Traits.CastToBytes(s), nil
	case []float32:
		return arrow.Float32Traits.CastToBytes(s), nil
	case []float64:
		return arrow.Float64Traits.CastToBytes(s), nil
	}
	c := Classify(seq)
	if c.Category == Generic {
		return nil, errors.New(errors.ErrorTypeUnsupportedInputKind, "generic sequences have no byte view").
			WithDetail("category", c.Category.String())
	}
	_, err := Require(seq)
	return nil, err
}

// Aligned reports whether b starts on a boundary suitable for elements of
// the given size.
func Aligned(b []byte, size int) bool {
	if len(b) == 0 || size <= 1 {
		return true
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))%uintptr(size) == 0
}

func view[T Number](b []byte, size int, cast func([]byte) []T, back func([]T) []byte) []T {
	if len(b) == 0 {
		return []T{}
	}
	if Aligned(b, size) {
		return cast(b)
	}
	out := make([]T, len(b)/size)
	copy(back(out), b)
	return out
}

// FromBytes interprets b as a typed sequence of kind k in native byte
// order. Aligned input is viewed without copying; misaligned input is
// copied into fresh storage. len(b) must be a multiple of the element size.
func FromBytes(b []byte, k Kind) (any, error) {
	size := k.Size()
	if size == 0 {
		return nil, errors.Newf(errors.ErrorTypeValidation, "kind %s has no byte layout", k)
	}
	if len(b)%size != 0 {
		return nil, errors.Newf(errors.ErrorTypeBufferLengthMismatch,
			"buffer length %d is not a multiple of %s element size %d", len(b), k, size).
			WithDetail("length", len(b)).
			WithDetail("element_size", size)
	}
	switch k {
	case Int8:
		return view(b, size, arrow.Int8Traits.CastFromBytes, arrow.Int8Traits.CastToBytes), nil
	case Uint8:
		return b, nil
	case Uint8Clamped:
		return Uint8ClampedArray(b), nil
	case Int16:
		return view(b, size, arrow.Int16Traits.CastFromBytes, arrow.Int16Traits.CastToBytes), nil
	case Uint16:
		return view(b, size, arrow.Uint16Traits.CastFromBytes, arrow.Uint16Traits.CastToBytes), nil
	case Int32:
		return view(b, size, arrow.Int32Traits.CastFromBytes, arrow.Int32Traits.CastToBytes), nil
	case Uint32:
		return view(b, size, arrow.Uint32Traits.CastFromBytes, arrow.Uint32Traits.CastToBytes), nil
	case Int64:
		return view(b, size, arrow.Int64Traits.CastFromBytes, arrow.Int64Traits.CastToBytes), nil
	case Uint64:
		return view(b, size, arrow.Uint64Traits.CastFromBytes, arrow.Uint64Traits.CastToBytes), nil
	case Float32:
		return view(b, size, arrow.Float32Traits.CastFromBytes, arrow.Float32Traits.CastToBytes), nil
	default:
		return view(b, size, arrow.Float64Traits.CastFromBytes, arrow.Float64Traits.CastToBytes), nil
	}
}
