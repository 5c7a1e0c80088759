package codec

import (
	"testing"

	"github.com/ajitpratap0/typedbuf/pkg/typedarray"
)

func BenchmarkSequenceToBufferTyped(b *testing.B) {
	seq := make([]float64, 1<<16)
	b.SetBytes(int64(len(seq) * 8))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := SequenceToBuffer(seq, nil); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSequenceToBufferGeneric(b *testing.B) {
	seq := make([]any, 1<<12)
	for i := range seq {
		seq[i] = float64(i) * 1.5
	}
	opts := &Options{Target: typedarray.Int16}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := SequenceToBuffer(seq, opts); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBase64RoundTrip(b *testing.B) {
	buf := make([]byte, 1<<14)
	for i := range buf {
		buf[i] = byte(i)
	}
	b.SetBytes(int64(len(buf)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := DecodeBase64(EncodeBase64(buf)); err != nil {
			b.Fatal(err)
		}
	}
}
