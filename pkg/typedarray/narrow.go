package typedarray

import (
	"math"
	"strconv"
	"strings"

	"github.com/ajitpratap0/typedbuf/pkg/errors"
)

// Policy selects how out-of-range values narrow into an integer kind.
type Policy uint8

const (
	// Wrap reduces values modulo 2^bits.
	Wrap Policy = iota
	// Saturate clamps values to the kind's range.
	Saturate
)

func (p Policy) String() string {
	if p == Saturate {
		return "saturate"
	}
	return "wrap"
}

// ParsePolicy parses "wrap" or "saturate". The empty string is Wrap.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "wrap":
		return Wrap, nil
	case "saturate", "clamp":
		return Saturate, nil
	}
	return Wrap, errors.Newf(errors.ErrorTypeValidation, "unknown narrowing policy %q", s)
}

const (
	two63 = 9223372036854775808.0
	two64 = 18446744073709551616.0
)

// modBits reduces an integral float modulo 2^bits and returns the low bits.
func modBits(t float64, bits uint) uint64 {
	m := math.Mod(t, math.Ldexp(1, int(bits)))
	var u uint64
	switch {
	case m >= 0:
		u = uint64(m)
	case m >= -two63:
		u = uint64(int64(m))
	default:
		// exact: m lies in [-2^64, -2^63)
		u = uint64(m + two64)
	}
	if bits < 64 {
		u &= 1<<bits - 1
	}
	return u
}

func narrowSigned(v float64, k Kind, p Policy) int64 {
	if math.IsNaN(v) {
		return 0
	}
	if math.IsInf(v, 0) && p == Wrap {
		return 0
	}
	t := math.Trunc(v)
	bits := k.Bits()
	if p == Saturate {
		lo := -math.Ldexp(1, int(bits-1))
		switch {
		case t <= lo:
			return k.minInt()
		case t >= -lo:
			return k.maxInt()
		}
		return int64(t)
	}
	shift := 64 - bits
	return int64(modBits(t, bits)<<shift) >> shift
}

func narrowUnsigned(v float64, k Kind, p Policy) uint64 {
	if math.IsNaN(v) {
		return 0
	}
	if math.IsInf(v, 0) && p == Wrap {
		return 0
	}
	t := math.Trunc(v)
	if p == Saturate {
		switch {
		case t <= 0:
			return 0
		case t >= math.Ldexp(1, int(k.Bits())):
			return k.maxUint()
		}
		return uint64(t)
	}
	return modBits(t, k.Bits())
}

// clampUint8 implements Uint8Clamped stores.
func clampUint8(v float64) uint8 {
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(math.RoundToEven(v))
}

// narrowTo converts a float into the element type of kind k.
func narrowTo[D Number](k Kind, v float64, p Policy) D {
	switch {
	case k == Uint8Clamped:
		return D(clampUint8(v))
	case k.IsFloat():
		return D(v)
	case k.IsSigned():
		return D(narrowSigned(v, k, p))
	default:
		return D(narrowUnsigned(v, k, p))
	}
}

// clampInt64 and clampUint64 bound an exact integer to the range of k.
func clampInt64(x int64, k Kind) int64 {
	if k.IsSigned() {
		return min(max(x, k.minInt()), k.maxInt())
	}
	if x < 0 {
		return 0
	}
	if k.Bits() < 64 && uint64(x) > k.maxUint() {
		return int64(k.maxUint())
	}
	return x
}

func clampUint64(x uint64, k Kind) uint64 {
	if k.IsSigned() {
		return min(x, uint64(k.maxInt()))
	}
	return min(x, k.maxUint())
}

// toNumber coerces one generic element to a float. Numeric strings parse,
// booleans become 0 or 1 and anything else is NaN.
func toNumber(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int8:
		return float64(x)
	case int16:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint:
		return float64(x)
	case uint8:
		return float64(x)
	case uint16:
		return float64(x)
	case uint32:
		return float64(x)
	case uint64:
		return float64(x)
	case bool:
		if x {
			return 1
		}
		return 0
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	case interface{ Float64() (float64, error) }:
		f, err := x.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	}
	return math.NaN()
}
