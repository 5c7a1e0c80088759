package typedarray

import (
	"fmt"
	"strings"

	"github.com/ajitpratap0/typedbuf/pkg/errors"
)

// Kind identifies the element type of a sequence. Kind values are written
// into payload frames and must not be renumbered.
type Kind uint8

const (
	// Invalid is the zero Kind.
	Invalid Kind = iota
	// Array is the generic, boxed sequence kind.
	Array
	Int8
	Uint8
	// Uint8Clamped stores bytes that saturate with round-half-to-even.
	Uint8Clamped
	Int16
	Uint16
	Int32
	Uint32
	Int64
	Uint64
	Float32
	Float64
)

// Elem is the numeric family of a typed kind.
type Elem uint8

const (
	ElemNone Elem = iota
	Unsigned
	Signed
	Float
)

func (e Elem) String() string {
	switch e {
	case Unsigned:
		return "unsigned"
	case Signed:
		return "signed"
	case Float:
		return "float"
	default:
		return "none"
	}
}

type kindInfo struct {
	name string
	size int
	elem Elem
}

var kinds = [...]kindInfo{
	Invalid:      {"invalid", 0, ElemNone},
	Array:        {"array", 0, ElemNone},
	Int8:         {"int8", 1, Signed},
	Uint8:        {"uint8", 1, Unsigned},
	Uint8Clamped: {"uint8clamped", 1, Unsigned},
	Int16:        {"int16", 2, Signed},
	Uint16:       {"uint16", 2, Unsigned},
	Int32:        {"int32", 4, Signed},
	Uint32:       {"uint32", 4, Unsigned},
	Int64:        {"int64", 8, Signed},
	Uint64:       {"uint64", 8, Unsigned},
	Float32:      {"float32", 4, Float},
	Float64:      {"float64", 8, Float},
}

// Uint8ClampedArray is a byte sequence whose stores clamp instead of wrapping.
type Uint8ClampedArray []uint8

// Number is the set of element types a typed sequence can hold.
type Number interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64 | ~float32 | ~float64
}

func (k Kind) info() kindInfo {
	if int(k) >= len(kinds) {
		return kinds[Invalid]
	}
	return kinds[k]
}

func (k Kind) String() string {
	if int(k) >= len(kinds) {
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
	return kinds[k].name
}

// Size returns the element width in bytes, or 0 for Array and Invalid.
func (k Kind) Size() int { return k.info().size }

// Bits returns the element width in bits.
func (k Kind) Bits() uint { return uint(k.info().size) * 8 }

// Elem returns the numeric family of the kind.
func (k Kind) Elem() Elem { return k.info().elem }

// IsTyped reports whether k is a fixed-width kind.
func (k Kind) IsTyped() bool { return k.Size() > 0 }

func (k Kind) IsFloat() bool   { return k.Elem() == Float }
func (k Kind) IsSigned() bool  { return k.Elem() == Signed }
func (k Kind) IsInteger() bool { return k.Elem() == Signed || k.Elem() == Unsigned }

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k == Invalid || int(k) >= len(kinds) {
		return nil, errors.Newf(errors.ErrorTypeValidation, "cannot marshal kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// TypedKinds returns every fixed-width kind in declaration order.
func TypedKinds() []Kind {
	out := make([]Kind, 0, len(kinds)-2)
	for k := Int8; k <= Float64; k++ {
		out = append(out, k)
	}
	return out
}

// ParseKind parses a kind name. It accepts the Go-style names ("int32",
// "float64", "uint8clamped"), the typed array constructor names
// ("Int32Array", "Uint8ClampedArray") and "array" or "generic" for Array.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "array", "generic":
		return Array, nil
	}
	name = strings.TrimSuffix(name, "array")
	name = strings.ReplaceAll(name, "_", "")
	for k := Int8; k <= Float64; k++ {
		if kinds[k].name == name {
			return k, nil
		}
	}
	return Invalid, errors.Newf(errors.ErrorTypeValidation, "unknown kind %q", s)
}

// minInt and maxInt are the bounds of a signed kind.
func (k Kind) minInt() int64 { return -1 << (k.Bits() - 1) }
func (k Kind) maxInt() int64 { return 1<<(k.Bits()-1) - 1 }

// maxUint is the upper bound of an unsigned kind.
func (k Kind) maxUint() uint64 {
	if k.Bits() == 64 {
		return ^uint64(0)
	}
	return 1<<k.Bits() - 1
}
