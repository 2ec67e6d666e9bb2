package compress

import (
	"bytes"
	"encoding/binary"
	"math/rand"
	"testing"

	"github.com/arloliu/scalarsdr/errs"
	"github.com/arloliu/scalarsdr/format"
	"github.com/stretchr/testify/require"
)

var allTypes = []format.CompressionType{
	format.CompressionNone,
	format.CompressionZstd,
	format.CompressionS2,
	format.CompressionLZ4,
}

// densePayload mimics a bit-packed run of adaptive patterns: mostly zero
// bytes with a short active run drifting across the width.
func densePayload(patterns, widthBytes int) []byte {
	out := make([]byte, patterns*widthBytes)
	for i := 0; i < patterns; i++ {
		pos := i % (widthBytes - 1)
		out[i*widthBytes+pos] = 0xF8
		out[i*widthBytes+pos+1] = 0x01
	}

	return out
}

func randomPayload(size int) []byte {
	rng := rand.New(rand.NewSource(42))
	out := make([]byte, size)
	_, _ = rng.Read(out)

	return out
}

func TestCreateCodec(t *testing.T) {
	for _, ct := range allTypes {
		codec, err := CreateCodec(ct, "patterns")
		require.NoError(t, err)
		require.NotNil(t, codec)
	}

	_, err := CreateCodec(format.CompressionType(0x7F), "patterns")
	require.ErrorIs(t, err, errs.ErrUnsupportedCompression)
	require.Contains(t, err.Error(), "patterns")
}

func TestGetCodec(t *testing.T) {
	for _, ct := range allTypes {
		codec, err := GetCodec(ct)
		require.NoError(t, err)
		require.NotNil(t, codec)
	}

	_, err := GetCodec(format.CompressionType(0))
	require.ErrorIs(t, err, errs.ErrUnsupportedCompression)
}

func TestCodec_RoundTrip(t *testing.T) {
	payloads := map[string][]byte{
		"dense":  densePayload(500, 7),
		"random": randomPayload(4096),
		"tiny":   {0x01},
		"zeros":  make([]byte, 1024),
	}

	for _, ct := range allTypes {
		codec, err := GetCodec(ct)
		require.NoError(t, err)

		for name, payload := range payloads {
			t.Run(ct.String()+"/"+name, func(t *testing.T) {
				compressed, err := codec.Compress(payload)
				require.NoError(t, err)

				restored, err := codec.Decompress(compressed)
				require.NoError(t, err)
				require.True(t, bytes.Equal(payload, restored))
			})
		}
	}
}

func TestCodec_EmptyInput(t *testing.T) {
	for _, ct := range []format.CompressionType{format.CompressionZstd, format.CompressionS2, format.CompressionLZ4} {
		codec, err := GetCodec(ct)
		require.NoError(t, err)

		compressed, err := codec.Compress(nil)
		require.NoError(t, err)
		require.Nil(t, compressed)

		restored, err := codec.Decompress(nil)
		require.NoError(t, err)
		require.Nil(t, restored)
	}
}

func TestCodec_ShrinksPatternPayload(t *testing.T) {
	payload := densePayload(2000, 7)

	for _, ct := range []format.CompressionType{format.CompressionZstd, format.CompressionS2, format.CompressionLZ4} {
		codec, err := GetCodec(ct)
		require.NoError(t, err)

		compressed, err := codec.Compress(payload)
		require.NoError(t, err)
		require.Less(t, len(compressed), len(payload)/2, ct.String())
	}
}

func TestCodec_CorruptInput(t *testing.T) {
	garbage := []byte{0xFF, 0xFE, 0xFD, 0xFC, 0xFB, 0xFA, 0x00, 0x11}

	zstdCodec := NewZstdCompressor()
	_, err := zstdCodec.Decompress(garbage)
	require.Error(t, err)

	lz4Codec := NewLZ4Compressor()
	_, err = lz4Codec.Decompress([]byte{0x09, 0x01, 0x00})
	require.Error(t, err)
	_, err = lz4Codec.Decompress([]byte{lz4ModeRaw, 0x05, 0x01})
	require.Error(t, err)
}

func TestCodec_RejectsOversizedDecodedLength(t *testing.T) {
	huge := binary.AppendUvarint(nil, MaxDecodedSize+1)

	s2Input := append(huge, 0x00, 0x01, 0x02)
	_, err := NewS2Compressor().Decompress(s2Input)
	require.Error(t, err)

	lz4Input := append([]byte{lz4ModeBlock}, huge...)
	lz4Input = append(lz4Input, 0x10, 0x41)
	_, err = NewLZ4Compressor().Decompress(lz4Input)
	require.ErrorContains(t, err, "exceeds")
}

func TestNoOpCompressor_SharesMemory(t *testing.T) {
	codec := NewNoOpCompressor()
	data := []byte{1, 2, 3}

	out, err := codec.Compress(data)
	require.NoError(t, err)
	require.Equal(t, &data[0], &out[0])
}
