package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// lz4CompressorPool pools lz4.Compressor instances, which keep a hash table between calls.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// LZ4 frames written by LZ4Compressor start with a mode byte and the uvarint
// length of the original payload, so decompression allocates exactly once.
const (
	lz4ModeRaw   byte = 0x0 // payload was incompressible and is stored as-is
	lz4ModeBlock byte = 0x1 // payload is a single LZ4 block
)

// LZ4Compressor compresses payloads with LZ4 block compression.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates an LZ4 codec.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Compress compresses data using a pooled lz4.Compressor. Empty input yields nil.
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	header := make([]byte, 1, 1+binary.MaxVarintLen64)
	header = binary.AppendUvarint(header, uint64(len(data)))

	dst := make([]byte, len(header)+lz4.CompressBlockBound(len(data)))
	copy(dst, header)

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst[len(header):])
	if err != nil {
		return nil, err
	}

	if n == 0 || n >= len(data) {
		dst = append(dst[:len(header)], data...)
		dst[0] = lz4ModeRaw

		return dst, nil
	}

	dst[0] = lz4ModeBlock

	return dst[:len(header)+n], nil
}

// Decompress decompresses data produced by Compress. Empty input yields nil.
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	size, k := binary.Uvarint(data[1:])
	if k <= 0 {
		return nil, errors.New("lz4: invalid length prefix")
	}
	if size > MaxDecodedSize {
		return nil, fmt.Errorf("lz4: length prefix %d exceeds %d", size, MaxDecodedSize)
	}
	body := data[1+k:]

	switch data[0] {
	case lz4ModeRaw:
		if uint64(len(body)) != size {
			return nil, fmt.Errorf("lz4: raw payload length %d, expected %d", len(body), size)
		}
		out := make([]byte, len(body))
		copy(out, body)

		return out, nil
	case lz4ModeBlock:
		// a block expands at most 255x
		if size > 255*uint64(len(body))+16 {
			return nil, fmt.Errorf("lz4: length prefix %d too large for %d byte block", size, len(body))
		}
		out := make([]byte, size)
		n, err := lz4.UncompressBlock(body, out)
		if err != nil {
			return nil, err
		}
		if uint64(n) != size {
			return nil, fmt.Errorf("lz4: decompressed %d bytes, expected %d", n, size)
		}

		return out, nil
	default:
		return nil, fmt.Errorf("lz4: unknown block mode 0x%02x", data[0])
	}
}
