// Package typedbuf converts numeric sequences between in-memory, binary,
// text and columnar representations.
//
// # Architecture
//
// The module is organized bottom-up:
//
//   - typedarray: classifies values as typed sequences (Go fixed-width slices
//     and Uint8ClampedArray), generic sequences ([]any, []int), images or canvases,
//     and converts between element kinds with wrap or saturate narrowing.
//   - codec: turns sequences into host byte order buffers and back, and
//     encodes buffers as strict base64.
//   - columnar: row/column conversion over named typed columns, transferable
//     memory regions and a compressed self-describing payload frame.
//   - formats/arrowipc: zero-copy Arrow records and the Arrow IPC stream.
//   - histogram: fixed-width binning with out-of-range reporting.
//
// The ambient packages are errors (typed structured errors), logger (zap),
// metrics (Prometheus), observability (OpenTelemetry tracing), config (YAML)
// and compression (klauspost/compress and lz4).
//
// # Quick Start
//
//	buf, err := codec.SequenceToBuffer([]any{1, 2, 300}, &codec.Options{
//	    Target: typedarray.Uint8,
//	    Policy: typedarray.Saturate,
//	})
//	// buf == []byte{1, 2, 255}
//
//	seq, err := codec.BufferToSequence(buf, typedarray.Uint8, nil)
//	// seq == []uint8{1, 2, 255}, sharing memory with buf
//
//	h, err := histogram.Compute([]float64{1, 2, 2, 3, 9}, 4, nil)
//	// h.Counts == []int{3, 1, 0, 1}
//
// # Command Line
//
//	echo '[1, 2, 300]' | typedbuf encode --kind uint8
//	echo 'AQL/' | typedbuf decode --kind uint8
//	echo '[{"x": 1}]' | typedbuf columns --schema x:int32 --format arrow
package typedbuf
