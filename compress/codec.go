// Package compress provides the payload codecs used by pattern batches.
//
// Encoded pattern payloads are highly repetitive: dense layouts are mostly
// zero bytes and sparse layouts are runs of small deltas. Any of the codecs
// below shrink them substantially; Zstd favors ratio, S2 and LZ4 favor speed.
//
// All codecs in this package are stateless values backed by pooled encoder
// state and are safe for concurrent use.
package compress

import (
	"fmt"

	"github.com/arloliu/scalarsdr/errs"
	"github.com/arloliu/scalarsdr/format"
)

// MaxDecodedSize is the largest payload any codec will decompress. Inputs
// that declare a larger decoded size fail before allocating.
const MaxDecodedSize = 1 << 28

// Compressor compresses a complete payload.
//
// The returned slice is owned by the caller; the input slice is not modified.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor of the same algorithm.
//
// It returns an error if the input is corrupted or was produced by a
// different algorithm.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec creates the Codec for compressionType.
//
// Parameters:
//   - compressionType: Type of compression (None, Zstd, S2, or LZ4)
//   - target: Description of the payload, used in error messages
//
// Returns:
//   - Codec: Codec for the requested type
//   - error: ErrUnsupportedCompression for unknown types
func CreateCodec(compressionType format.CompressionType, target string) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("%w: %s compression %s", errs.ErrUnsupportedCompression, target, compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec returns the shared built-in Codec for compressionType.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("%w: %s", errs.ErrUnsupportedCompression, compressionType)
}
