package arrowipc

import (
	"bytes"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/ajitpratap0/typedbuf/pkg/columnar"
	"github.com/ajitpratap0/typedbuf/pkg/compression"
	"github.com/ajitpratap0/typedbuf/pkg/errors"
	"github.com/ajitpratap0/typedbuf/pkg/typedarray"
)

// Options configures IPC streams.
type Options struct {
	// Compression applies Arrow buffer compression. Only none, zstd and lz4
	// are defined by the Arrow format.
	Compression compression.Algorithm
	// Allocator is used when reading. Nil means the Go allocator.
	Allocator memory.Allocator
}

func (o *Options) writerOptions(schema *arrow.Schema) ([]ipc.Option, error) {
	opts := []ipc.Option{ipc.WithSchema(schema)}
	if o == nil {
		return opts, nil
	}
	switch o.Compression {
	case "", compression.None:
	case compression.Zstd:
		opts = append(opts, ipc.WithZstd())
	case compression.LZ4:
		opts = append(opts, ipc.WithLZ4())
	default:
		return nil, errors.Newf(errors.ErrorTypeConfig, "arrow ipc does not support %s compression", o.Compression)
	}
	if o.Allocator != nil {
		opts = append(opts, ipc.WithAllocator(o.Allocator))
	}
	return opts, nil
}

func (o *Options) allocator() memory.Allocator {
	if o == nil || o.Allocator == nil {
		return memory.NewGoAllocator()
	}
	return o.Allocator
}

// Serialize writes records to a single IPC stream. All records must share
// the schema of the first one.
func Serialize(opts *Options, records ...arrow.Record) ([]byte, error) {
	if len(records) == 0 {
		return nil, errors.New(errors.ErrorTypeValidation, "at least one record is required")
	}
	wopts, err := opts.writerOptions(records[0].Schema())
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := ipc.NewWriter(&buf, wopts...)
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			w.Close()
			return nil, errors.Wrap(err, errors.ErrorTypeData, "write arrow record")
		}
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "close arrow writer")
	}
	return buf.Bytes(), nil
}

// Deserialize reads every record of an IPC stream. The caller must Release
// each returned record.
func Deserialize(data []byte, opts *Options) ([]arrow.Record, error) {
	r, err := ipc.NewReader(bytes.NewReader(data), ipc.WithAllocator(opts.allocator()))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "open arrow stream")
	}
	defer r.Release()

	var out []arrow.Record
	for r.Next() {
		rec := r.Record()
		rec.Retain()
		out = append(out, rec)
	}
	if err := r.Err(); err != nil {
		for _, rec := range out {
			rec.Release()
		}
		return nil, errors.Wrap(err, errors.ErrorTypeData, "read arrow stream")
	}
	return out, nil
}

// EncodeColumns writes cols as a one-record IPC stream without copying the
// column memory into Arrow buffers first.
func EncodeColumns(cols *columnar.Columns, opts *Options) ([]byte, error) {
	rec, err := ToRecord(cols)
	if err != nil {
		return nil, err
	}
	defer rec.Release()
	return Serialize(opts, rec)
}

// DecodeColumns reads an IPC stream and appends its records into one set of
// columns.
func DecodeColumns(data []byte, opts *Options) (*columnar.Columns, error) {
	r, err := ipc.NewReader(bytes.NewReader(data), ipc.WithAllocator(opts.allocator()))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "open arrow stream")
	}
	defer r.Release()

	var out *columnar.Columns
	for r.Next() {
		batch, err := FromRecord(r.Record())
		if err != nil {
			return nil, err
		}
		if out == nil {
			out = batch
			continue
		}
		if out, err = appendColumns(out, batch); err != nil {
			return nil, err
		}
	}
	if err := r.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "read arrow stream")
	}
	if out == nil {
		cols := columnar.NewColumns()
		for _, f := range r.Schema().Fields() {
			k, err := KindOf(f)
			if err != nil {
				return nil, err
			}
			empty, _ := typedarray.Make(k, 0)
			if err := cols.Set(f.Name, empty); err != nil {
				return nil, err
			}
		}
		return cols, nil
	}
	return out, nil
}

func appendColumns(dst, src *columnar.Columns) (*columnar.Columns, error) {
	for _, name := range dst.Names() {
		a, err := dst.Column(name)
		if err != nil {
			return nil, err
		}
		b, err := src.Column(name)
		if err != nil {
			return nil, err
		}
		joined, err := typedarray.Concat(a, b)
		if err != nil {
			return nil, err
		}
		if err := dst.Set(name, joined); err != nil {
			return nil, err
		}
	}
	return dst, nil
}
