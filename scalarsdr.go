// Package scalarsdr encodes streams of scalar readings into fixed-width sparse
// binary patterns without prior knowledge of the value range.
//
// An adaptive encoder tracks the minimum and maximum of a sliding window of
// recent readings and rescales a fixed-range bucket encoder whenever the
// observed range widens. Every pattern has exactly W active bits out of N,
// and nearby values share active bits.
//
// # Core Features
//
//   - Online range learning over a bounded sliding window
//   - Missing data (scalar.MissingData, NaN, ±Inf) encodes to all zeros
//   - Overlap-based decoding back to the closest bucket value
//   - Batch packing of output patterns (dense or sparse, optional compression)
//   - 64-bit xxHash64 pattern fingerprints for deduplication
//
// # Basic Usage
//
// Encoding a stream:
//
//	import "github.com/arloliu/scalarsdr"
//
//	enc, _ := scalarsdr.NewDefaultAdaptiveEncoder("cpu.usage")
//	for _, v := range readings {
//	    pattern := enc.Encode(v)
//	    fmt.Println(sdr.ActiveBits(pattern))
//	}
//
// Packing the patterns for a downstream consumer:
//
//	w, _ := scalarsdr.NewDefaultBatchWriter(enc.N())
//	for _, v := range readings {
//	    _ = w.Add(enc.Encode(v))
//	}
//	data, _ := w.Finish()
//
//	b, _ := scalarsdr.DecodeBatch(data)
//	for i, pattern := range b.All() {
//	    fmt.Println(i, sdr.String(pattern))
//	}
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the adaptive and
// batch packages. For fine-grained control, use them directly.
package scalarsdr

import (
	"github.com/arloliu/scalarsdr/adaptive"
	"github.com/arloliu/scalarsdr/batch"
	"github.com/arloliu/scalarsdr/format"
	"github.com/arloliu/scalarsdr/sdr"
)

const (
	// DefaultW is the number of active bits used by NewDefaultAdaptiveEncoder.
	DefaultW = 21
	// DefaultN is the pattern width used by NewDefaultAdaptiveEncoder.
	DefaultN = 400
)

var defaultAdaptiveOptions = []adaptive.EncoderOption{
	adaptive.WithLearningEnabled(true),
	adaptive.WithPadding(0),
}

var defaultBatchOptions = []batch.WriterOption{
	batch.WithLittleEndian(),
	batch.WithLayout(format.LayoutSparse),
	batch.WithCompression(format.CompressionZstd),
}

// NewAdaptiveEncoder creates an adaptive scalar encoder with custom options.
//
// Parameters:
//   - w: Number of active bits per pattern (>= 1)
//   - n: Total pattern width (> w)
//   - opts: Optional configuration functions (see adaptive.EncoderOption)
//
// Available options:
//   - adaptive.WithName(name)
//   - adaptive.WithBounds(min, max)
//   - adaptive.WithWindowCapacity(capacity)
//   - adaptive.WithPadding(padding)
//   - adaptive.WithLearningEnabled(true|false)
//   - adaptive.WithVerbosity(level) / adaptive.WithLogger(logger)
//
// Returns an error wrapping errs.ErrInvalidConfiguration if the configuration
// is invalid.
//
// Example:
//
//	enc, err := scalarsdr.NewAdaptiveEncoder(5, 50,
//	    adaptive.WithName("latency"),
//	    adaptive.WithWindowCapacity(100),
//	)
func NewAdaptiveEncoder(w, n int, opts ...adaptive.EncoderOption) (*adaptive.Encoder, error) {
	return adaptive.NewEncoder(w, n, opts...)
}

// NewDefaultAdaptiveEncoder creates a learning encoder with DefaultW active bits
// out of DefaultN and the default window capacity.
func NewDefaultAdaptiveEncoder(name string) (*adaptive.Encoder, error) {
	opts := make([]adaptive.EncoderOption, 0, len(defaultAdaptiveOptions)+1)
	opts = append(opts, defaultAdaptiveOptions...)
	opts = append(opts, adaptive.WithName(name))

	return adaptive.NewEncoder(DefaultW, DefaultN, opts...)
}

// NewBatchWriter creates a batch writer for patterns of width n with custom options.
//
// Available options:
//   - batch.WithLittleEndian() / batch.WithBigEndian()
//   - batch.WithLayout(format.LayoutDense|LayoutSparse)
//   - batch.WithCompression(format.CompressionNone|Zstd|S2|LZ4)
func NewBatchWriter(n int, opts ...batch.WriterOption) (*batch.Writer, error) {
	return batch.NewWriter(n, opts...)
}

// NewDefaultBatchWriter creates a little-endian, sparse, Zstd-compressed batch writer.
func NewDefaultBatchWriter(n int) (*batch.Writer, error) {
	return batch.NewWriter(n, defaultBatchOptions...)
}

// DecodeBatch decodes and verifies a batch produced by a batch.Writer.
func DecodeBatch(data []byte) (*batch.Batch, error) {
	return batch.Decode(data)
}

// Fingerprint returns the 64-bit xxHash64 fingerprint of a pattern.
func Fingerprint(pattern []uint8) uint64 {
	return sdr.Fingerprint(pattern)
}
