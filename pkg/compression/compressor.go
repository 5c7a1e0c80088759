// Package compression compresses columnar payload bodies.
//
// Supported algorithms are None, Gzip, Deflate, Snappy, S2, Zstd and LZ4.
// Each algorithm has a stable one-byte code so a payload header can record
// how its body was compressed:
//
//	c, err := compression.Get(compression.Zstd, compression.Default)
//	body, err := c.Compress(raw)
//	raw, err = c.Decompress(body)
//
// Compressors returned by Get are cached per algorithm and level and are
// safe for concurrent use.
package compression

import (
	"bytes"
	"io"
	"strings"
	"sync"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/ajitpratap0/typedbuf/pkg/errors"
)

// Algorithm names a compression algorithm.
type Algorithm string

const (
	None    Algorithm = "none"
	Gzip    Algorithm = "gzip"
	Deflate Algorithm = "deflate"
	Snappy  Algorithm = "snappy"
	S2      Algorithm = "s2"
	Zstd    Algorithm = "zstd"
	LZ4     Algorithm = "lz4"
)

// codes are written into payload headers and must never be renumbered.
var codes = map[Algorithm]byte{
	None:    0,
	Gzip:    1,
	Deflate: 2,
	Snappy:  3,
	S2:      4,
	Zstd:    5,
	LZ4:     6,
}

// Code returns the one-byte wire code of the algorithm.
func (a Algorithm) Code() (byte, error) {
	c, ok := codes[a]
	if !ok {
		return 0, errors.Newf(errors.ErrorTypeValidation, "unsupported compression algorithm: %s", a)
	}
	return c, nil
}

// FromCode maps a wire code back to its algorithm.
func FromCode(code byte) (Algorithm, error) {
	for a, c := range codes {
		if c == code {
			return a, nil
		}
	}
	return "", errors.Newf(errors.ErrorTypeData, "unknown compression code %d", code)
}

// ParseAlgorithm parses an algorithm name. The empty string is None.
func ParseAlgorithm(s string) (Algorithm, error) {
	a := Algorithm(strings.ToLower(strings.TrimSpace(s)))
	if a == "" {
		return None, nil
	}
	if _, err := a.Code(); err != nil {
		return "", err
	}
	return a, nil
}

// Level trades speed for compression ratio.
type Level int

const (
	Fastest Level = 1
	Default Level = 5
	Better  Level = 7
	Best    Level = 9
)

// Compressor compresses and decompresses whole buffers.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
	Algorithm() Algorithm
	Level() Level
}

type cacheKey struct {
	algorithm Algorithm
	level     Level
}

var cache sync.Map // cacheKey -> Compressor

// Get returns a shared compressor for the algorithm and level.
func Get(algorithm Algorithm, level Level) (Compressor, error) {
	key := cacheKey{algorithm, level}
	if c, ok := cache.Load(key); ok {
		return c.(Compressor), nil
	}
	c, err := New(algorithm, level)
	if err != nil {
		return nil, err
	}
	actual, _ := cache.LoadOrStore(key, c)
	return actual.(Compressor), nil
}

// New creates a compressor for the algorithm and level.
func New(algorithm Algorithm, level Level) (Compressor, error) {
	base := baseCompressor{algorithm: algorithm, level: level}
	switch algorithm {
	case None, "":
		base.algorithm = None
		return &noneCompressor{base}, nil
	case Gzip:
		return newGzipCompressor(base), nil
	case Deflate:
		return &deflateCompressor{baseCompressor: base, flateLevel: mapFlateLevel(level)}, nil
	case Snappy:
		return &snappyCompressor{base}, nil
	case S2:
		return &s2Compressor{base}, nil
	case Zstd:
		return newZstdCompressor(base)
	case LZ4:
		return &lz4Compressor{baseCompressor: base, lz4Level: mapLZ4Level(level)}, nil
	}
	return nil, errors.Newf(errors.ErrorTypeValidation, "unsupported compression algorithm: %s", algorithm)
}

type baseCompressor struct {
	algorithm Algorithm
	level     Level
}

func (bc *baseCompressor) Algorithm() Algorithm { return bc.algorithm }
func (bc *baseCompressor) Level() Level         { return bc.level }

func corrupt(a Algorithm, err error) error {
	return errors.Wrap(err, errors.ErrorTypeData, "corrupt "+string(a)+" body")
}

type noneCompressor struct {
	baseCompressor
}

func (nc *noneCompressor) Compress(data []byte) ([]byte, error)   { return data, nil }
func (nc *noneCompressor) Decompress(data []byte) ([]byte, error) { return data, nil }

type gzipCompressor struct {
	baseCompressor
	writerPool sync.Pool
	readerPool sync.Pool
}

func newGzipCompressor(base baseCompressor) *gzipCompressor {
	level := mapFlateLevel(base.level)
	gc := &gzipCompressor{baseCompressor: base}
	gc.writerPool.New = func() interface{} {
		w, _ := gzip.NewWriterLevel(nil, level)
		return w
	}
	gc.readerPool.New = func() interface{} {
		return new(gzip.Reader)
	}
	return gc
}

func (gc *gzipCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gc.writerPool.Get().(*gzip.Writer)
	defer gc.writerPool.Put(w)

	w.Reset(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (gc *gzipCompressor) Decompress(data []byte) ([]byte, error) {
	r := gc.readerPool.Get().(*gzip.Reader)
	defer gc.readerPool.Put(r)

	if err := r.Reset(bytes.NewReader(data)); err != nil {
		return nil, corrupt(Gzip, err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, corrupt(Gzip, err)
	}
	return out, nil
}

type deflateCompressor struct {
	baseCompressor
	flateLevel int
}

func (dc *deflateCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, dc.flateLevel)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (dc *deflateCompressor) Decompress(data []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, corrupt(Deflate, err)
	}
	return out, nil
}

type snappyCompressor struct {
	baseCompressor
}

func (sc *snappyCompressor) Compress(data []byte) ([]byte, error) {
	return snappy.Encode(nil, data), nil
}

func (sc *snappyCompressor) Decompress(data []byte) ([]byte, error) {
	out, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, corrupt(Snappy, err)
	}
	return out, nil
}

// S2 is snappy compatible with a better ratio.
type s2Compressor struct {
	baseCompressor
}

func (sc *s2Compressor) Compress(data []byte) ([]byte, error) {
	if sc.level >= Better {
		return s2.EncodeBetter(nil, data), nil
	}
	return s2.Encode(nil, data), nil
}

func (sc *s2Compressor) Decompress(data []byte) ([]byte, error) {
	out, err := s2.Decode(nil, data)
	if err != nil {
		return nil, corrupt(S2, err)
	}
	return out, nil
}

type zstdCompressor struct {
	baseCompressor
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func newZstdCompressor(base baseCompressor) (*zstdCompressor, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(mapZstdLevel(base.level)))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "create zstd encoder")
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "create zstd decoder")
	}
	return &zstdCompressor{baseCompressor: base, encoder: enc, decoder: dec}, nil
}

// EncodeAll and DecodeAll are safe for concurrent use on a shared
// encoder and decoder.
func (zc *zstdCompressor) Compress(data []byte) ([]byte, error) {
	return zc.encoder.EncodeAll(data, nil), nil
}

func (zc *zstdCompressor) Decompress(data []byte) ([]byte, error) {
	out, err := zc.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, corrupt(Zstd, err)
	}
	return out, nil
}

type lz4Compressor struct {
	baseCompressor
	lz4Level lz4.CompressionLevel
}

func (lc *lz4Compressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if err := w.Apply(lz4.CompressionLevelOption(lc.lz4Level)); err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (lc *lz4Compressor) Decompress(data []byte) ([]byte, error) {
	out, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
	if err != nil {
		return nil, corrupt(LZ4, err)
	}
	return out, nil
}

func mapFlateLevel(level Level) int {
	switch level {
	case Fastest:
		return flate.BestSpeed
	case Best:
		return flate.BestCompression
	default:
		return flate.DefaultCompression
	}
}

func mapLZ4Level(level Level) lz4.CompressionLevel {
	switch level {
	case Fastest:
		return lz4.Fast
	case Best:
		return lz4.Level9
	default:
		return lz4.Level5
	}
}

func mapZstdLevel(level Level) zstd.EncoderLevel {
	switch level {
	case Fastest:
		return zstd.SpeedFastest
	case Better:
		return zstd.SpeedBetterCompression
	case Best:
		return zstd.SpeedBestCompression
	default:
		return zstd.SpeedDefault
	}
}
