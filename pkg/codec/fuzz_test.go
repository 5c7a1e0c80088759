package codec

import (
	"bytes"
	"testing"

	"github.com/ajitpratap0/typedbuf/pkg/errors"
	"github.com/ajitpratap0/typedbuf/pkg/typedarray"
)

func FuzzBase64RoundTrip(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte("Hello"))
	f.Add([]byte{0, 0xff, 0x10})

	f.Fuzz(func(t *testing.T, b []byte) {
		out, err := DecodeBase64(EncodeBase64(b))
		if err != nil {
			t.Fatalf("decode of encoded %x: %v", b, err)
		}
		if !bytes.Equal(b, out) {
			t.Fatalf("round trip changed %x into %x", b, out)
		}
	})
}

func FuzzDecodeBase64(f *testing.F) {
	f.Add("SGVsbG8=")
	f.Add("SGVs\nbG8=")
	f.Add("@@@@")

	f.Fuzz(func(t *testing.T, text string) {
		out, err := DecodeBase64(text)
		if err != nil {
			if !errors.IsType(err, errors.ErrorTypeInvalidBase64) {
				t.Fatalf("unexpected error type for %q: %v", text, err)
			}
			return
		}
		if EncodeBase64(out) != text {
			t.Fatalf("accepted non-canonical input %q", text)
		}
	})
}

func FuzzBufferToSequence(f *testing.F) {
	f.Add([]byte{1, 2, 3, 4, 5, 6, 7, 8}, uint8(typedarray.Float64))
	f.Add([]byte{1, 2, 3}, uint8(typedarray.Int16))

	f.Fuzz(func(t *testing.T, b []byte, k uint8) {
		kind := typedarray.Kind(k%uint8(typedarray.Float64) + 1)
		seq, err := BufferToSequence(b, kind, nil)
		if err != nil {
			return
		}
		if kind == typedarray.Array {
			return
		}
		back, err := SequenceToBuffer(seq, nil)
		if err != nil {
			t.Fatalf("re-encode %s: %v", kind, err)
		}
		if !bytes.Equal(b, back) {
			t.Fatalf("%s round trip changed bytes", kind)
		}
	})
}
