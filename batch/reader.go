package batch

import (
	"fmt"
	"iter"

	"github.com/arloliu/scalarsdr/compress"
	"github.com/arloliu/scalarsdr/errs"
	"github.com/arloliu/scalarsdr/format"
	"github.com/arloliu/scalarsdr/internal/hash"
)

// Batch is a decoded, read-only sequence of patterns.
type Batch struct {
	header Header
	n      int
	count  int
	bits   []uint8 // count patterns of n bytes each
}

// Decode parses, decompresses and verifies a batch produced by Writer.Finish.
//
// Returns:
//   - ErrInvalidHeader: header is truncated or malformed
//   - ErrUnsupportedCompression: unknown codec in the header
//   - ErrChecksumMismatch: payload does not match the stored checksum
//   - ErrInvalidBatch: payload lengths or contents are inconsistent
func Decode(data []byte) (*Batch, error) {
	header, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	stored := data[HeaderSize:]
	if uint64(len(stored)) != uint64(header.StoredLen) {
		return nil, fmt.Errorf("%w: stored payload is %d bytes, header says %d", errs.ErrInvalidBatch, len(stored), header.StoredLen)
	}

	codec, err := compress.GetCodec(header.Compression)
	if err != nil {
		return nil, err
	}

	raw, err := codec.Decompress(stored)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidBatch, err)
	}
	if uint64(len(raw)) != uint64(header.RawLen) {
		return nil, fmt.Errorf("%w: payload is %d bytes, header says %d", errs.ErrInvalidBatch, len(raw), header.RawLen)
	}
	if hash.Sum(raw) != header.Checksum {
		return nil, errs.ErrChecksumMismatch
	}

	n, count := int(header.N), int(header.Count)

	var bits []uint8
	switch header.Layout {
	case format.LayoutDense:
		bits, err = decodeDense(raw, n, count)
	case format.LayoutSparse:
		bits, err = decodeSparse(raw, n, count)
	}
	if err != nil {
		return nil, err
	}

	return &Batch{header: header, n: n, count: count, bits: bits}, nil
}

// Header returns the parsed batch header.
func (b *Batch) Header() Header {
	return b.header
}

// N returns the pattern width.
func (b *Batch) N() int {
	return int(b.header.N)
}

// Len returns the number of patterns.
func (b *Batch) Len() int {
	return b.count
}

// Layout returns the payload layout the batch was written with.
func (b *Batch) Layout() format.LayoutType {
	return b.header.Layout
}

// Compression returns the payload codec the batch was written with.
func (b *Batch) Compression() format.CompressionType {
	return b.header.Compression
}

// At returns the i-th pattern. It panics if i is out of range.
// The returned slice is shared with the batch and must not be modified.
func (b *Batch) At(i int) []uint8 {
	if i < 0 || i >= b.count {
		panic(fmt.Sprintf("batch: index %d out of range [0, %d)", i, b.count))
	}

	return b.bits[i*b.n : (i+1)*b.n : (i+1)*b.n]
}

// All returns an iterator over (index, pattern) pairs in insertion order.
func (b *Batch) All() iter.Seq2[int, []uint8] {
	return func(yield func(int, []uint8) bool) {
		for i := 0; i < b.count; i++ {
			if !yield(i, b.At(i)) {
				return
			}
		}
	}
}
