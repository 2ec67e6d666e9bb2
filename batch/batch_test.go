package batch

import (
	"testing"

	"github.com/arloliu/scalarsdr/adaptive"
	"github.com/arloliu/scalarsdr/compress"
	"github.com/arloliu/scalarsdr/errs"
	"github.com/arloliu/scalarsdr/format"
	"github.com/arloliu/scalarsdr/scalar"
	"github.com/arloliu/scalarsdr/sdr"
	"github.com/stretchr/testify/require"
)

var (
	allLayouts      = []format.LayoutType{format.LayoutDense, format.LayoutSparse}
	allCompressions = []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	}
)

// encodeStream runs a drifting series through an adaptive encoder.
func encodeStream(t *testing.T, count int) [][]uint8 {
	t.Helper()
	enc, err := adaptive.NewEncoder(7, 61)
	require.NoError(t, err)

	patterns := make([][]uint8, 0, count)
	for i := 0; i < count; i++ {
		x := float64(i%50) + float64(i)/10
		if i%13 == 0 {
			x = scalar.MissingData
		}
		patterns = append(patterns, enc.Encode(x))
	}

	return patterns
}

func writeBatch(t *testing.T, n int, patterns [][]uint8, opts ...WriterOption) []byte {
	t.Helper()
	w, err := NewWriter(n, opts...)
	require.NoError(t, err)
	for _, p := range patterns {
		require.NoError(t, w.Add(p))
	}
	require.Equal(t, len(patterns), w.Len())

	data, err := w.Finish()
	require.NoError(t, err)

	return data
}

func TestBatch_RoundTrip(t *testing.T) {
	patterns := encodeStream(t, 300)

	for _, layout := range allLayouts {
		for _, comp := range allCompressions {
			t.Run(layout.String()+"/"+comp.String(), func(t *testing.T) {
				data := writeBatch(t, 61, patterns, WithLayout(layout), WithCompression(comp))

				b, err := Decode(data)
				require.NoError(t, err)
				require.Equal(t, 61, b.N())
				require.Equal(t, len(patterns), b.Len())
				require.Equal(t, layout, b.Layout())
				require.Equal(t, comp, b.Compression())

				for i, p := range b.All() {
					require.True(t, sdr.Equal(patterns[i], p), "pattern %d", i)
				}
				require.Equal(t, patterns[5], b.At(5))
			})
		}
	}
}

func TestBatch_BigEndian(t *testing.T) {
	patterns := encodeStream(t, 20)
	data := writeBatch(t, 61, patterns, WithBigEndian())

	b, err := Decode(data)
	require.NoError(t, err)
	require.True(t, b.Header().BigEndian())
	require.Equal(t, 20, b.Len())

	little := writeBatch(t, 61, patterns, WithBigEndian(), WithLittleEndian())
	lb, err := Decode(little)
	require.NoError(t, err)
	require.False(t, lb.Header().BigEndian())
	require.NotEqual(t, data[8:12], little[8:12])
}

func TestBatch_Empty(t *testing.T) {
	for _, comp := range allCompressions {
		data := writeBatch(t, 16, nil, WithCompression(comp))
		b, err := Decode(data)
		require.NoError(t, err)
		require.Zero(t, b.Len())
		require.Equal(t, 16, b.N())
	}
}

func TestBatch_SparseIsSmaller(t *testing.T) {
	patterns := encodeStream(t, 200)
	dense := writeBatch(t, 61, patterns, WithLayout(format.LayoutDense), WithCompression(format.CompressionNone))
	sparse := writeBatch(t, 61, patterns, WithLayout(format.LayoutSparse), WithCompression(format.CompressionNone))

	require.Less(t, len(sparse), len(dense))
}

func TestAllIteratorStopsEarly(t *testing.T) {
	data := writeBatch(t, 61, encodeStream(t, 10))
	b, err := Decode(data)
	require.NoError(t, err)

	seen := 0
	for i := range b.All() {
		seen++
		if i == 2 {
			break
		}
	}
	require.Equal(t, 3, seen)
}

func TestNewWriter_Invalid(t *testing.T) {
	_, err := NewWriter(0)
	require.ErrorIs(t, err, errs.ErrInvalidBatch)

	_, err = NewWriter(MaxWidth + 1)
	require.ErrorIs(t, err, errs.ErrInvalidBatch)

	_, err = NewWriter(8, WithLayout(format.LayoutType(9)))
	require.ErrorIs(t, err, errs.ErrUnsupportedLayout)

	_, err = NewWriter(8, WithCompression(format.CompressionType(9)))
	require.ErrorIs(t, err, errs.ErrUnsupportedCompression)
}

func TestWriter_Add(t *testing.T) {
	w, err := NewWriter(8)
	require.NoError(t, err)
	require.Equal(t, 8, w.N())

	require.ErrorIs(t, w.Add(make([]uint8, 7)), errs.ErrInvalidBufferSize)
	require.NoError(t, w.Add(make([]uint8, 8)))

	_, err = w.Finish()
	require.NoError(t, err)

	require.ErrorIs(t, w.Add(make([]uint8, 8)), errs.ErrBatchFinished)
	_, err = w.Finish()
	require.ErrorIs(t, err, errs.ErrBatchFinished)
}

func TestDecode_Corruption(t *testing.T) {
	patterns := encodeStream(t, 40)

	t.Run("truncated header", func(t *testing.T) {
		data := writeBatch(t, 61, patterns)
		_, err := Decode(data[:HeaderSize-1])
		require.ErrorIs(t, err, errs.ErrInvalidHeader)
	})

	t.Run("bad magic", func(t *testing.T) {
		data := writeBatch(t, 61, patterns)
		data[0] = 'X'
		_, err := Decode(data)
		require.ErrorIs(t, err, errs.ErrInvalidHeader)
	})

	t.Run("bad version", func(t *testing.T) {
		data := writeBatch(t, 61, patterns)
		data[4] = 99
		_, err := Decode(data)
		require.ErrorIs(t, err, errs.ErrInvalidHeader)
	})

	t.Run("unknown layout", func(t *testing.T) {
		data := writeBatch(t, 61, patterns)
		data[5] = 0x7
		_, err := Decode(data)
		require.ErrorIs(t, err, errs.ErrInvalidHeader)
		require.ErrorIs(t, err, errs.ErrUnsupportedLayout)
	})

	t.Run("unknown compression", func(t *testing.T) {
		data := writeBatch(t, 61, patterns)
		data[6] = 0x7
		_, err := Decode(data)
		require.ErrorIs(t, err, errs.ErrUnsupportedCompression)
	})

	t.Run("truncated payload", func(t *testing.T) {
		data := writeBatch(t, 61, patterns)
		_, err := Decode(data[:len(data)-1])
		require.ErrorIs(t, err, errs.ErrInvalidBatch)
	})

	t.Run("flipped payload bit", func(t *testing.T) {
		data := writeBatch(t, 61, patterns, WithCompression(format.CompressionNone))
		data[HeaderSize+3] ^= 0x01
		_, err := Decode(data)
		require.ErrorIs(t, err, errs.ErrChecksumMismatch)
	})

	t.Run("inconsistent count", func(t *testing.T) {
		data := writeBatch(t, 61, patterns, WithLayout(format.LayoutDense), WithCompression(format.CompressionNone))
		header, err := ParseHeader(data)
		require.NoError(t, err)
		header.Count++
		copy(data, header.Bytes())

		_, err = Decode(data)
		require.ErrorIs(t, err, errs.ErrInvalidBatch)
	})
}

func TestHeader_RoundTrip(t *testing.T) {
	h := Header{
		Version:     Version,
		Layout:      format.LayoutSparse,
		Compression: format.CompressionS2,
		Flags:       flagBigEndian,
		N:           2048,
		Count:       17,
		RawLen:      4000,
		StoredLen:   1200,
		Checksum:    0x0123456789ABCDEF,
	}

	b := h.Bytes()
	require.Len(t, b, HeaderSize)

	parsed, err := ParseHeader(b)
	require.NoError(t, err)
	require.Equal(t, h, parsed)
}

func TestDecode_RejectsOversizedDeclarations(t *testing.T) {
	tests := []struct {
		name   string
		header Header
	}{
		{
			name:   "too many pattern bits",
			header: Header{N: MaxWidth, Count: 64, RawLen: 64, StoredLen: 0},
		},
		{
			name:   "width past limit",
			header: Header{N: MaxWidth + 1, Count: 1},
		},
		{
			name:   "decoded payload past limit",
			header: Header{N: 8, Count: 1, RawLen: compress.MaxDecodedSize + 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := tt.header
			h.Version = Version
			h.Layout = format.LayoutSparse
			h.Compression = format.CompressionZstd

			_, err := Decode(h.Bytes())
			require.ErrorIs(t, err, errs.ErrInvalidHeader)
		})
	}
}

func TestWriter_RejectsPastMaxBits(t *testing.T) {
	w, err := NewWriter(MaxWidth)
	require.NoError(t, err)

	pattern := make([]uint8, MaxWidth)
	for i := 0; i < MaxBits/MaxWidth; i++ {
		require.NoError(t, w.Add(pattern))
	}
	require.ErrorIs(t, w.Add(pattern), errs.ErrInvalidBatch)

	data, err := w.Finish()
	require.NoError(t, err)

	b, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, MaxBits/MaxWidth, b.Len())
	require.True(t, sdr.IsZero(b.At(3)))
}

func TestBatch_AtOutOfRangePanics(t *testing.T) {
	data := writeBatch(t, 8, [][]uint8{make([]uint8, 8)})
	b, err := Decode(data)
	require.NoError(t, err)

	require.Panics(t, func() { b.At(1) })
	require.Panics(t, func() { b.At(-1) })
}
