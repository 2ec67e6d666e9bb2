// Package batch packs sequences of equal-width bit patterns into a compact,
// checksummed binary batch for hand-off to downstream consumers.
//
// A batch is a 32-byte Header followed by a payload. The payload stores every
// pattern either bit-packed (format.LayoutDense) or as delta-coded active
// indices (format.LayoutSparse), and is then compressed with the configured
// codec. Sparse layout is the default and is far smaller for the low
// densities adaptive encoders produce.
//
// Writing:
//
//	w, _ := batch.NewWriter(enc.N(), batch.WithCompression(format.CompressionZstd))
//	for _, v := range readings {
//	    _ = w.Add(enc.Encode(v))
//	}
//	data, _ := w.Finish()
//
// Reading:
//
//	b, _ := batch.Decode(data)
//	for i, pattern := range b.All() {
//	    fmt.Println(i, sdr.ActiveBits(pattern))
//	}
package batch

import (
	"fmt"

	"github.com/arloliu/scalarsdr/compress"
	"github.com/arloliu/scalarsdr/errs"
	"github.com/arloliu/scalarsdr/format"
	"github.com/arloliu/scalarsdr/internal/hash"
	"github.com/arloliu/scalarsdr/internal/options"
	"github.com/arloliu/scalarsdr/internal/pool"
)

// WriterConfig holds batch writer settings.
type WriterConfig struct {
	layout      format.LayoutType
	compression format.CompressionType
	bigEndian   bool
}

// Validate checks the final writer settings.
func (c *WriterConfig) Validate() error {
	if c.layout != format.LayoutDense && c.layout != format.LayoutSparse {
		return fmt.Errorf("%w: %s", errs.ErrUnsupportedLayout, c.layout)
	}
	_, err := compress.GetCodec(c.compression)

	return err
}

// WriterOption configures a Writer.
type WriterOption = options.Option[*WriterConfig]

// WithLayout selects the payload layout. The default is format.LayoutSparse.
func WithLayout(layout format.LayoutType) WriterOption {
	return options.NoError(func(c *WriterConfig) {
		c.layout = layout
	})
}

// WithCompression selects the payload codec. The default is format.CompressionZstd.
func WithCompression(compression format.CompressionType) WriterOption {
	return options.NoError(func(c *WriterConfig) {
		c.compression = compression
	})
}

// WithLittleEndian writes little-endian header integers. It is the default.
func WithLittleEndian() WriterOption {
	return options.NoError(func(c *WriterConfig) {
		c.bigEndian = false
	})
}

// WithBigEndian writes big-endian header integers.
func WithBigEndian() WriterOption {
	return options.NoError(func(c *WriterConfig) {
		c.bigEndian = true
	})
}

// Writer accumulates patterns of a fixed width into a batch.
//
// Note: The Writer is NOT thread-safe and NOT reusable. After Finish, create a
// new Writer for further patterns.
type Writer struct {
	cfg      WriterConfig
	n        int
	count    int
	buf      *pool.ByteBuffer
	finished bool
}

// NewWriter creates a writer for patterns of width n.
//
// Returns ErrInvalidBatch for a non-positive or oversized width, and
// ErrUnsupportedLayout or ErrUnsupportedCompression for unknown settings.
func NewWriter(n int, opts ...WriterOption) (*Writer, error) {
	if n < 1 || n > MaxWidth {
		return nil, fmt.Errorf("%w: pattern width %d", errs.ErrInvalidBatch, n)
	}

	cfg := &WriterConfig{
		layout:      format.LayoutSparse,
		compression: format.CompressionZstd,
	}
	if err := options.ApplyAndValidate(cfg, opts...); err != nil {
		return nil, err
	}

	return &Writer{
		cfg: *cfg,
		n:   n,
		buf: pool.GetBatchBuffer(),
	}, nil
}

// Add appends one pattern. It must have width N.
//
// Returns ErrInvalidBatch once the batch would exceed MaxBits pattern bits.
func (w *Writer) Add(pattern []uint8) error {
	if w.finished {
		return errs.ErrBatchFinished
	}
	if len(pattern) != w.n {
		return fmt.Errorf("%w: expected %d, got %d", errs.ErrInvalidBufferSize, w.n, len(pattern))
	}
	if uint64(w.count+1)*uint64(w.n) > MaxBits {
		return fmt.Errorf("%w: batch full at %d patterns of width %d", errs.ErrInvalidBatch, w.count, w.n)
	}

	switch w.cfg.layout {
	case format.LayoutDense:
		appendDense(w.buf, pattern)
	case format.LayoutSparse:
		appendSparse(w.buf, pattern)
	}
	w.count++

	return nil
}

// Len returns the number of patterns added so far.
func (w *Writer) Len() int {
	return w.count
}

// N returns the pattern width.
func (w *Writer) N() int {
	return w.n
}

// Finish compresses the payload and returns the complete batch.
// The writer releases its buffer and rejects further calls.
func (w *Writer) Finish() ([]byte, error) {
	if w.finished {
		return nil, errs.ErrBatchFinished
	}
	w.finished = true
	defer func() {
		pool.PutBatchBuffer(w.buf)
		w.buf = nil
	}()

	raw := w.buf.Bytes()
	if uint64(len(raw)) > compress.MaxDecodedSize {
		return nil, fmt.Errorf("%w: payload too large", errs.ErrInvalidBatch)
	}

	codec, err := compress.CreateCodec(w.cfg.compression, "pattern")
	if err != nil {
		return nil, err
	}
	stored, err := codec.Compress(raw)
	if err != nil {
		return nil, fmt.Errorf("compress pattern payload: %w", err)
	}

	header := Header{
		Version:     Version,
		Layout:      w.cfg.layout,
		Compression: w.cfg.compression,
		N:           uint32(w.n),
		Count:       uint32(w.count),
		RawLen:      uint32(len(raw)),
		StoredLen:   uint32(len(stored)),
		Checksum:    hash.Sum(raw),
	}
	if w.cfg.bigEndian {
		header.Flags |= flagBigEndian
	}

	out := make([]byte, 0, HeaderSize+len(stored))
	out = append(out, header.Bytes()...)
	out = append(out, stored...)

	return out, nil
}
