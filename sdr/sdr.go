// Package sdr provides helpers for the dense bit patterns produced by the
// scalar and adaptive encoders.
//
// Patterns are []uint8 slices where 0 means inactive and any other value means
// active. Encoders in this module only ever write 0 or 1.
package sdr

import (
	"strings"

	"github.com/arloliu/scalarsdr/internal/hash"
)

// ActiveBits returns the indices of the active bits in ascending order.
func ActiveBits(pattern []uint8) []int {
	out := make([]int, 0, Count(pattern))
	for i, b := range pattern {
		if b != 0 {
			out = append(out, i)
		}
	}

	return out
}

// FromActiveBits builds a dense pattern of width n with the given indices set.
// Indices outside [0, n) are ignored.
func FromActiveBits(n int, indices []int) []uint8 {
	out := make([]uint8, n)
	for _, idx := range indices {
		if idx >= 0 && idx < n {
			out[idx] = 1
		}
	}

	return out
}

// Count returns the number of active bits.
func Count(pattern []uint8) int {
	c := 0
	for _, b := range pattern {
		if b != 0 {
			c++
		}
	}

	return c
}

// Density returns the fraction of active bits, or 0 for an empty pattern.
func Density(pattern []uint8) float64 {
	if len(pattern) == 0 {
		return 0
	}

	return float64(Count(pattern)) / float64(len(pattern))
}

// Overlap returns the number of positions active in both a and b.
// Patterns of different widths are compared over their common prefix.
func Overlap(a, b []uint8) int {
	n := min(len(a), len(b))
	c := 0
	for i := 0; i < n; i++ {
		if a[i] != 0 && b[i] != 0 {
			c++
		}
	}

	return c
}

// Equal reports whether a and b have the same width and the same active bits.
func Equal(a, b []uint8) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if (a[i] != 0) != (b[i] != 0) {
			return false
		}
	}

	return true
}

// IsZero reports whether no bit is active.
func IsZero(pattern []uint8) bool {
	for _, b := range pattern {
		if b != 0 {
			return false
		}
	}

	return true
}

// Fingerprint returns a 64-bit xxHash fingerprint of the pattern.
// Equal patterns always have equal fingerprints.
func Fingerprint(pattern []uint8) uint64 {
	return hash.Pattern(pattern)
}

// String renders the pattern as a string of '0' and '1' characters.
func String(pattern []uint8) string {
	var sb strings.Builder
	sb.Grow(len(pattern))
	for _, b := range pattern {
		if b != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}

	return sb.String()
}
