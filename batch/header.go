package batch

import (
	"fmt"

	"github.com/arloliu/scalarsdr/compress"
	"github.com/arloliu/scalarsdr/endian"
	"github.com/arloliu/scalarsdr/errs"
	"github.com/arloliu/scalarsdr/format"
)

// HeaderSize is the fixed size of a batch header in bytes.
const HeaderSize = 32

// Version is the batch format version written by this package.
const Version = 1

// MaxWidth is the largest pattern width a batch may declare.
const MaxWidth = 1 << 24

// MaxBits caps N * Count, the number of pattern bits a batch may hold. It
// bounds what Decode allocates regardless of how small the stored payload is.
const MaxBits = 1 << 26

var magic = [4]byte{'S', 'D', 'R', 'B'}

const flagBigEndian uint8 = 1 << 0

// Header is the fixed-size section at the start of every batch.
//
// Layout (byte offsets):
//
//	0-3   magic "SDRB"
//	4     version
//	5     layout
//	6     compression
//	7     flags (bit 0: big-endian integers)
//	8-11  pattern width N
//	12-15 pattern count
//	16-19 uncompressed payload length
//	20-23 stored payload length
//	24-31 xxHash64 of the uncompressed payload
type Header struct {
	Version     uint8
	Layout      format.LayoutType
	Compression format.CompressionType
	Flags       uint8
	N           uint32
	Count       uint32
	RawLen      uint32
	StoredLen   uint32
	Checksum    uint64
}

// BigEndian reports whether the header integers are big-endian.
func (h Header) BigEndian() bool {
	return h.Flags&flagBigEndian != 0
}

func (h Header) engine() endian.EndianEngine {
	return endian.ForFlag(h.BigEndian())
}

// Bytes serializes the header into HeaderSize bytes.
func (h *Header) Bytes() []byte {
	b := make([]byte, HeaderSize)
	engine := h.engine()

	copy(b[0:4], magic[:])
	b[4] = h.Version
	b[5] = uint8(h.Layout)
	b[6] = uint8(h.Compression)
	b[7] = h.Flags
	engine.PutUint32(b[8:12], h.N)
	engine.PutUint32(b[12:16], h.Count)
	engine.PutUint32(b[16:20], h.RawLen)
	engine.PutUint32(b[20:24], h.StoredLen)
	engine.PutUint64(b[24:32], h.Checksum)

	return b
}

// ParseHeader parses a header from the start of data.
//
// Returns ErrInvalidHeader if data is too short, the magic or version does
// not match, the layout is unknown, or the declared sizes exceed MaxWidth,
// MaxBits or compress.MaxDecodedSize.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: need %d bytes, got %d", errs.ErrInvalidHeader, HeaderSize, len(data))
	}
	if [4]byte(data[0:4]) != magic {
		return Header{}, fmt.Errorf("%w: bad magic %q", errs.ErrInvalidHeader, data[0:4])
	}

	h := Header{
		Version:     data[4],
		Layout:      format.LayoutType(data[5]),
		Compression: format.CompressionType(data[6]),
		Flags:       data[7],
	}
	if h.Version != Version {
		return Header{}, fmt.Errorf("%w: unsupported version %d", errs.ErrInvalidHeader, h.Version)
	}
	if h.Layout != format.LayoutDense && h.Layout != format.LayoutSparse {
		return Header{}, fmt.Errorf("%w: %w: 0x%02x", errs.ErrInvalidHeader, errs.ErrUnsupportedLayout, data[5])
	}

	engine := h.engine()
	h.N = engine.Uint32(data[8:12])
	h.Count = engine.Uint32(data[12:16])
	h.RawLen = engine.Uint32(data[16:20])
	h.StoredLen = engine.Uint32(data[20:24])
	h.Checksum = engine.Uint64(data[24:32])

	if h.N == 0 || h.N > MaxWidth {
		return Header{}, fmt.Errorf("%w: pattern width %d", errs.ErrInvalidHeader, h.N)
	}
	if uint64(h.N)*uint64(h.Count) > MaxBits {
		return Header{}, fmt.Errorf("%w: %d patterns of width %d exceed %d bits", errs.ErrInvalidHeader, h.Count, h.N, MaxBits)
	}
	if uint64(h.RawLen) > compress.MaxDecodedSize {
		return Header{}, fmt.Errorf("%w: payload length %d exceeds %d", errs.ErrInvalidHeader, h.RawLen, compress.MaxDecodedSize)
	}

	return h, nil
}
