// Package json wraps goccy/go-json with pooled output buffers and the
// number handling used for typed sequence input.
package json

import (
	"bytes"
	"io"

	gojson "github.com/goccy/go-json"

	"github.com/ajitpratap0/typedbuf/pkg/errors"
	"github.com/ajitpratap0/typedbuf/pkg/pool"
)

// Number is a JSON number kept in its literal form.
type Number = gojson.Number

var buffers = pool.New(
	func() *bytes.Buffer { return bytes.NewBuffer(make([]byte, 0, 4096)) },
	func(b *bytes.Buffer) { b.Reset() },
)

// Decode reads one JSON value from r into v. Numbers decode as Number so
// integers wider than 53 bits keep their digits until narrowed.
func Decode(r io.Reader, v interface{}) error {
	dec := gojson.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(err, errors.ErrorTypeValidation, "invalid JSON input")
	}
	return nil
}

// Unmarshal is Decode over a byte slice.
func Unmarshal(data []byte, v interface{}) error {
	return Decode(bytes.NewReader(data), v)
}

// Encode writes v to w as indented JSON followed by a newline. The output
// is buffered so a failed encode writes nothing.
func Encode(w io.Writer, v interface{}) error {
	buf := buffers.Get()
	defer buffers.Put(buf)

	enc := gojson.NewEncoder(buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "encode JSON output")
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "write JSON output")
	}
	return nil
}

// Marshal returns the compact encoding of v.
func Marshal(v interface{}) ([]byte, error) {
	data, err := gojson.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "encode JSON")
	}
	return data, nil
}
