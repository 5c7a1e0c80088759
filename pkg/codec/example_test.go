package codec_test

import (
	"fmt"

	"github.com/ajitpratap0/typedbuf/pkg/codec"
	"github.com/ajitpratap0/typedbuf/pkg/typedarray"
)

func ExampleEncodeBase64() {
	text := codec.EncodeBase64([]byte{72, 101, 108, 108, 111})
	fmt.Println(text)

	raw, err := codec.DecodeBase64(text)
	if err != nil {
		panic(err)
	}
	fmt.Println(raw)
	// Output:
	// SGVsbG8=
	// [72 101 108 108 111]
}

func ExampleSequenceToBuffer() {
	// Generic input is materialized as Int16 before the bytes are taken.
	buf, err := codec.SequenceToBuffer([]any{1, 2, 70000}, &codec.Options{Target: typedarray.Int16})
	if err != nil {
		panic(err)
	}
	fmt.Println(len(buf))

	seq, err := codec.BufferToSequence(buf, typedarray.Int16, nil)
	if err != nil {
		panic(err)
	}
	fmt.Println(seq)
	// Output:
	// 6
	// [1 2 4464]
}

func ExampleBufferToSequence_lengthMismatch() {
	_, err := codec.BufferToSequence([]byte{1, 2, 3}, typedarray.Uint16, nil)
	fmt.Println(err)
	// Output:
	// buffer_length_mismatch: buffer length 3 is not a multiple of uint16 element size 2
}
