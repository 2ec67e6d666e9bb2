package adaptive

import (
	"fmt"
	"testing"
)

// generateBenchmarkValues creates a slowly widening series that keeps the encoder adapting.
func generateBenchmarkValues(size int) []float64 {
	values := make([]float64, size)
	for i := range values {
		values[i] = float64(i%97) * (1 + float64(i)/float64(size))
	}

	return values
}

func BenchmarkEncoder_EncodeInto(b *testing.B) {
	values := generateBenchmarkValues(4096)

	for _, n := range []int{64, 400, 2048} {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			enc, err := NewEncoder(21, n)
			if err != nil {
				b.Fatal(err)
			}
			dst := make([]uint8, n)

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = enc.EncodeInto(values[i%len(values)], dst)
			}
		})
	}
}

func BenchmarkEncoder_Decode(b *testing.B) {
	enc, err := NewEncoder(21, 400, WithBounds(0, 100), WithLearningEnabled(false))
	if err != nil {
		b.Fatal(err)
	}
	pattern := enc.Encode(42)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = enc.Decode(pattern)
	}
}
