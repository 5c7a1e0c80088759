package typedarray

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/ajitpratap0/typedbuf/pkg/errors"
)

// Category is the coarse classification of a value.
type Category uint8

const (
	NotSequence Category = iota
	Generic
	Typed
	// Image covers image.Image values that are not drawable.
	Image
	// Canvas covers draw.Image values.
	Canvas
)

func (c Category) String() string {
	switch c {
	case Generic:
		return "generic"
	case Typed:
		return "typed"
	case Image:
		return "image"
	case Canvas:
		return "canvas"
	default:
		return "not_sequence"
	}
}

// Class is the result of Classify. Kind is Array for generic sequences,
// the element kind for typed ones and Invalid otherwise.
type Class struct {
	Category Category
	Kind     Kind
}

// IsSequence reports whether the class describes a generic or typed sequence.
func (c Class) IsSequence() bool {
	return c.Category == Generic || c.Category == Typed
}

func (c Class) String() string {
	if c.Category == Typed {
		return fmt.Sprintf("typed(%s)", c.Kind)
	}
	return c.Category.String()
}

// Classify reports what kind of value v is. It never inspects elements.
func Classify(v any) Class {
	switch v.(type) {
	case []int8:
		return Class{Typed, Int8}
	case []uint8:
		return Class{Typed, Uint8}
	case Uint8ClampedArray:
		return Class{Typed, Uint8Clamped}
	case []int16:
		return Class{Typed, Int16}
	case []uint16:
		return Class{Typed, Uint16}
	case []int32:
		return Class{Typed, Int32}
	case []uint32:
		return Class{Typed, Uint32}
	case []int64:
		return Class{Typed, Int64}
	case []uint64:
		return Class{Typed, Uint64}
	case []float32:
		return Class{Typed, Float32}
	case []float64:
		return Class{Typed, Float64}
	case []any, []int, []uint:
		return Class{Generic, Array}
	case draw.Image:
		return Class{Canvas, Invalid}
	case image.Image:
		return Class{Image, Invalid}
	}
	return Class{NotSequence, Invalid}
}

// IsTyped reports whether v is a typed sequence.
func IsTyped(v any) bool { return Classify(v).Category == Typed }

// IsGeneric reports whether v is a generic sequence.
func IsGeneric(v any) bool { return Classify(v).Category == Generic }

// KindOf returns the kind of a sequence, or false if v is not one.
func KindOf(v any) (Kind, bool) {
	c := Classify(v)
	return c.Kind, c.IsSequence()
}

// Require classifies v and fails with ErrorTypeUnsupportedInputKind unless
// it is a generic or typed sequence.
func Require(v any) (Class, error) {
	c := Classify(v)
	if !c.IsSequence() {
		return c, errors.Newf(errors.ErrorTypeUnsupportedInputKind,
			"unsupported input kind: %s (%T)", c.Category, v).
			WithDetail("category", c.Category.String())
	}
	return c, nil
}
