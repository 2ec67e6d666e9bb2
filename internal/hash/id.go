package hash

import "github.com/cespare/xxhash/v2"

// Sum computes the xxHash64 of data.
func Sum(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Pattern computes the xxHash64 of a dense bit pattern.
// Any nonzero element counts as an active bit, so patterns that differ only in
// how they spell "on" hash identically.
func Pattern(bits []uint8) uint64 {
	d := xxhash.New()

	var chunk [64]byte
	for start := 0; start < len(bits); start += len(chunk) {
		end := min(start+len(chunk), len(bits))
		for i, b := range bits[start:end] {
			if b != 0 {
				chunk[i] = 1
			} else {
				chunk[i] = 0
			}
		}
		_, _ = d.Write(chunk[:end-start])
	}

	return d.Sum64()
}
