package batch

import (
	"encoding/binary"
	"fmt"

	"github.com/arloliu/scalarsdr/errs"
	"github.com/arloliu/scalarsdr/internal/pool"
)

// denseRowBytes returns the packed size of one pattern of width n.
func denseRowBytes(n int) int {
	return (n + 7) / 8
}

// appendDense packs pattern LSB-first: bit i lands in byte i/8 at position i%8.
func appendDense(buf *pool.ByteBuffer, pattern []uint8) {
	rowBytes := denseRowBytes(len(pattern))
	buf.Grow(rowBytes)

	start := len(buf.B)
	buf.B = buf.B[:start+rowBytes]
	row := buf.B[start:]
	clear(row)

	for i, b := range pattern {
		if b != 0 {
			row[i>>3] |= 1 << (i & 7)
		}
	}
}

// appendSparse writes the active bit count followed by the gaps between
// consecutive active indices, all as uvarints.
func appendSparse(buf *pool.ByteBuffer, pattern []uint8) {
	count := 0
	for _, b := range pattern {
		if b != 0 {
			count++
		}
	}

	buf.Grow(binary.MaxVarintLen32 * (count + 1))
	buf.B = binary.AppendUvarint(buf.B, uint64(count))

	prev := 0
	for i, b := range pattern {
		if b != 0 {
			buf.B = binary.AppendUvarint(buf.B, uint64(i-prev))
			prev = i
		}
	}
}

// decodeDense and decodeSparse return all patterns in one backing array of
// n*count bytes; pattern i starts at i*n.
func decodeDense(raw []byte, n, count int) ([]uint8, error) {
	rowBytes := denseRowBytes(n)
	if len(raw) != rowBytes*count {
		return nil, fmt.Errorf("%w: dense payload is %d bytes, expected %d", errs.ErrInvalidBatch, len(raw), rowBytes*count)
	}

	backing := make([]uint8, n*count)
	for p := 0; p < count; p++ {
		row := raw[p*rowBytes : (p+1)*rowBytes]
		pattern := backing[p*n : (p+1)*n]
		for i := range pattern {
			pattern[i] = (row[i>>3] >> (i & 7)) & 1
		}
	}

	return backing, nil
}

func decodeSparse(raw []byte, n, count int) ([]uint8, error) {
	// every pattern takes at least its count byte
	if count > len(raw) {
		return nil, fmt.Errorf("%w: %d patterns cannot fit in %d bytes", errs.ErrInvalidBatch, count, len(raw))
	}

	backing := make([]uint8, n*count)

	pos := 0
	next := func() (int, error) {
		v, k := binary.Uvarint(raw[pos:])
		if k <= 0 {
			return 0, fmt.Errorf("%w: truncated varint at offset %d", errs.ErrInvalidBatch, pos)
		}
		pos += k
		if v > uint64(n) {
			return 0, fmt.Errorf("%w: value %d exceeds width %d", errs.ErrInvalidBatch, v, n)
		}

		return int(v), nil
	}

	for p := 0; p < count; p++ {
		pattern := backing[p*n : (p+1)*n]
		active, err := next()
		if err != nil {
			return nil, err
		}

		idx := 0
		for j := 0; j < active; j++ {
			gap, err := next()
			if err != nil {
				return nil, err
			}
			idx += gap
			if idx >= n || (j > 0 && gap == 0) {
				return nil, fmt.Errorf("%w: bit index %d invalid for width %d", errs.ErrInvalidBatch, idx, n)
			}
			pattern[idx] = 1
		}
	}

	if pos != len(raw) {
		return nil, fmt.Errorf("%w: %d trailing bytes", errs.ErrInvalidBatch, len(raw)-pos)
	}

	return backing, nil
}
