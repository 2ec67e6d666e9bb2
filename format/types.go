// Package format defines the enumerations stored in pattern batch headers.
package format

type (
	LayoutType      uint8
	CompressionType uint8
)

const (
	LayoutDense  LayoutType = 0x1 // LayoutDense stores each pattern as packed bits, N bits per pattern.
	LayoutSparse LayoutType = 0x2 // LayoutSparse stores the delta-coded active bit indices of each pattern.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (l LayoutType) String() string {
	switch l {
	case LayoutDense:
		return "Dense"
	case LayoutSparse:
		return "Sparse"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseLayout converts a case-sensitive name such as "dense" or "sparse" to a LayoutType.
func ParseLayout(name string) (LayoutType, bool) {
	switch name {
	case "dense", "Dense":
		return LayoutDense, true
	case "sparse", "Sparse":
		return LayoutSparse, true
	default:
		return 0, false
	}
}

// ParseCompression converts a name such as "none", "zstd", "s2" or "lz4" to a CompressionType.
func ParseCompression(name string) (CompressionType, bool) {
	switch name {
	case "none", "None":
		return CompressionNone, true
	case "zstd", "Zstd":
		return CompressionZstd, true
	case "s2", "S2":
		return CompressionS2, true
	case "lz4", "LZ4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}
