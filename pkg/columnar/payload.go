package columnar

import (
	"bytes"
	"encoding/binary"

	"github.com/ajitpratap0/typedbuf/pkg/codec"
	"github.com/ajitpratap0/typedbuf/pkg/compression"
	"github.com/ajitpratap0/typedbuf/pkg/errors"
	"github.com/ajitpratap0/typedbuf/pkg/metrics"
	"github.com/ajitpratap0/typedbuf/pkg/pool"
	"github.com/ajitpratap0/typedbuf/pkg/typedarray"
)

const (
	payloadMagic   = "TBUF"
	payloadVersion = 1
	headerSize     = len(payloadMagic) + 3

	orderLittle byte = 0
	orderBig    byte = 1
)

// PayloadConfig selects how payload bodies are compressed.
type PayloadConfig struct {
	Algorithm compression.Algorithm
	Level     compression.Level
}

// DefaultPayloadConfig compresses with zstd at the default level.
func DefaultPayloadConfig() *PayloadConfig {
	return &PayloadConfig{
		Algorithm: compression.Zstd,
		Level:     compression.Default,
	}
}

func nativeOrder() byte {
	if codec.IsLittleEndian() {
		return orderLittle
	}
	return orderBig
}

// EncodePayload serializes every column of cols into a payload frame.
// A nil cfg uses DefaultPayloadConfig.
func EncodePayload(cols *Columns, cfg *PayloadConfig) ([]byte, error) {
	out, err := encodePayload(cols, cfg)
	if err != nil {
		metrics.ObserveError(metrics.OpEncodePayload, err)
		return nil, err
	}
	metrics.ObserveConversion(metrics.OpEncodePayload, string(cfgAlgorithm(cfg)), len(out))
	return out, nil
}

func cfgAlgorithm(cfg *PayloadConfig) compression.Algorithm {
	if cfg == nil {
		return DefaultPayloadConfig().Algorithm
	}
	if cfg.Algorithm == "" {
		return compression.None
	}
	return cfg.Algorithm
}

func encodePayload(cols *Columns, cfg *PayloadConfig) ([]byte, error) {
	if cols == nil {
		return nil, errors.New(errors.ErrorTypeValidation, "columns are required")
	}
	if cfg == nil {
		cfg = DefaultPayloadConfig()
	}
	algorithm := cfgAlgorithm(cfg)
	code, err := algorithm.Code()
	if err != nil {
		return nil, err
	}
	comp, err := compression.Get(algorithm, cfg.Level)
	if err != nil {
		return nil, err
	}

	scratch := pool.GetScratch()
	defer pool.PutScratch(scratch)
	body := binary.AppendUvarint(*scratch, uint64(len(cols.names)))
	for _, name := range cols.names {
		col, err := cols.readable(name)
		if err != nil {
			return nil, err
		}
		raw, err := typedarray.Bytes(col.data)
		if err != nil {
			return nil, err
		}
		body = binary.AppendUvarint(body, uint64(len(name)))
		body = append(body, name...)
		body = append(body, byte(col.kind))
		body = binary.AppendUvarint(body, uint64(len(raw)))
		body = append(body, raw...)
	}

	*scratch = body

	compressed, err := comp.Compress(body)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "compress payload body")
	}

	var buf bytes.Buffer
	buf.Grow(headerSize + len(compressed))
	buf.WriteString(payloadMagic)
	buf.WriteByte(payloadVersion)
	buf.WriteByte(nativeOrder())
	buf.WriteByte(code)
	buf.Write(compressed)
	return buf.Bytes(), nil
}

// DecodePayload parses a frame written by EncodePayload. The returned
// columns own fresh memory.
func DecodePayload(data []byte) (*Columns, error) {
	cols, err := decodePayload(data)
	if err != nil {
		metrics.ObserveError(metrics.OpDecodePayload, err)
		return nil, err
	}
	metrics.ObserveConversion(metrics.OpDecodePayload, "columns", len(data))
	return cols, nil
}

func corrupt(format string, args ...interface{}) error {
	return errors.Newf(errors.ErrorTypeData, "corrupt payload: "+format, args...)
}

func decodePayload(data []byte) (*Columns, error) {
	if len(data) < headerSize || string(data[:len(payloadMagic)]) != payloadMagic {
		return nil, corrupt("missing %s header", payloadMagic)
	}
	header := data[len(payloadMagic):headerSize]
	if header[0] != payloadVersion {
		return nil, corrupt("unsupported version %d", header[0])
	}
	order := header[1]
	if order != orderLittle && order != orderBig {
		return nil, corrupt("unknown byte order %d", order)
	}
	algorithm, err := compression.FromCode(header[2])
	if err != nil {
		return nil, err
	}
	comp, err := compression.Get(algorithm, compression.Default)
	if err != nil {
		return nil, err
	}
	body, err := comp.Decompress(data[headerSize:])
	if err != nil {
		return nil, err
	}

	r := &bodyReader{buf: body}
	count := r.uvarint()
	cols := NewColumns()
	for i := uint64(0); i < count && r.err == nil; i++ {
		name := string(r.next(int(r.uvarint())))
		kind := typedarray.Kind(r.readByte())
		raw := r.next(int(r.uvarint()))
		if r.err != nil {
			break
		}
		if !kind.IsTyped() {
			return nil, corrupt("field %q has invalid kind %d", name, byte(kind))
		}
		if _, dup := cols.columns[name]; dup {
			return nil, corrupt("duplicate field %q", name)
		}
		owned := append(make([]byte, 0, len(raw)), raw...)
		if order != nativeOrder() {
			swapBytes(owned, kind.Size())
		}
		seq, err := typedarray.FromBytes(owned, kind)
		if err != nil {
			return nil, err
		}
		if err := cols.Set(name, seq); err != nil {
			return nil, err
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	if r.off != len(body) {
		return nil, corrupt("%d trailing bytes", len(body)-r.off)
	}
	return cols, nil
}

// bodyReader reads the payload body and keeps the first error.
type bodyReader struct {
	buf []byte
	off int
	err error
}

func (r *bodyReader) uvarint() uint64 {
	if r.err != nil {
		return 0
	}
	v, n := binary.Uvarint(r.buf[r.off:])
	if n <= 0 {
		r.err = corrupt("bad varint at offset %d", r.off)
		return 0
	}
	r.off += n
	return v
}

func (r *bodyReader) readByte() byte {
	b := r.next(1)
	if len(b) == 0 {
		return 0
	}
	return b[0]
}

func (r *bodyReader) next(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || n > len(r.buf)-r.off {
		r.err = corrupt("truncated at offset %d", r.off)
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

// swapBytes reverses each width-sized group of b in place.
func swapBytes(b []byte, width int) {
	if width <= 1 {
		return
	}
	for i := 0; i+width <= len(b); i += width {
		for lo, hi := i, i+width-1; lo < hi; lo, hi = lo+1, hi-1 {
			b[lo], b[hi] = b[hi], b[lo]
		}
	}
}
