// Package scalar implements a fixed-range scalar bucket encoder.
//
// Given concrete bounds and a resolution, the encoder maps a value x to a
// pattern of N bits in which exactly W contiguous bits are active, starting at
// bit round((x - MinVal) / Resolution). The N - W + 1 possible starting
// positions are the encoder's buckets.
//
// The adaptive package layers online range tracking on top of this encoder;
// use scalar directly when the value range is known in advance.
package scalar

import (
	"fmt"
	"math"

	"github.com/arloliu/scalarsdr/errs"
	"github.com/arloliu/scalarsdr/internal/options"
)

// Result is the reconstruction of a bucket: its representative value, the
// scalar form of that value, and the bucket's bit pattern.
type Result struct {
	Value    float64
	Scalar   float64
	Encoding []uint8
}

// Encoder encodes scalars within a fixed [MinVal, MaxVal] range.
//
// Note: The Encoder is NOT thread-safe; the bucket value table is built lazily.
type Encoder struct {
	params    Params
	clipInput bool

	// bucketValues caches the representative value of every bucket.
	// It is dropped whenever the parameters change.
	bucketValues []float64
}

// EncoderOption configures an Encoder.
type EncoderOption = options.Option[*Encoder]

// WithClipInput makes out-of-range inputs encode as the nearest bound instead
// of returning ErrOutOfRange.
func WithClipInput(clip bool) EncoderOption {
	return options.NoError(func(e *Encoder) {
		e.clipInput = clip
	})
}

// NewEncoder creates an encoder for the given parameters.
//
// Returns ErrInvalidConfiguration if the parameters are degenerate.
func NewEncoder(p Params, opts ...EncoderOption) (*Encoder, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	e := &Encoder{params: p}
	if err := options.Apply(e, opts...); err != nil {
		return nil, err
	}

	return e, nil
}

// Params returns the current encoding parameters.
func (e *Encoder) Params() Params {
	return e.params
}

// SetParams replaces the encoding parameters and invalidates the bucket value table.
// The total width N must not change.
func (e *Encoder) SetParams(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.N != e.params.N || p.W != e.params.W {
		return fmt.Errorf("%w: width cannot change from n=%d,w=%d to n=%d,w=%d",
			errs.ErrInvalidConfiguration, e.params.N, e.params.W, p.N, p.W)
	}

	e.params = p
	e.bucketValues = nil

	return nil
}

// NumBuckets returns the number of buckets.
func (e *Encoder) NumBuckets() int {
	return e.params.NumBuckets()
}

// Encode returns the pattern for x in a newly allocated slice.
func (e *Encoder) Encode(x float64) ([]uint8, error) {
	out := make([]uint8, e.params.N)
	if err := e.EncodeInto(x, out); err != nil {
		return nil, err
	}

	return out, nil
}

// EncodeInto writes the pattern for x into dst, which must have length N.
// Missing data produces an all-zero pattern.
func (e *Encoder) EncodeInto(x float64, dst []uint8) error {
	if len(dst) != e.params.N {
		return fmt.Errorf("%w: expected %d, got %d", errs.ErrInvalidBufferSize, e.params.N, len(dst))
	}

	if IsMissing(x) {
		clear(dst)
		return nil
	}

	first, err := e.firstOnBit(x)
	if err != nil {
		return err
	}

	clear(dst)
	fillRow(dst, first, e.params.W)

	return nil
}

// BucketIndices returns the bucket index of x as a single-element slice.
// Missing data returns nil.
func (e *Encoder) BucketIndices(x float64) ([]int, error) {
	if IsMissing(x) {
		return nil, nil
	}

	first, err := e.firstOnBit(x)
	if err != nil {
		return nil, err
	}

	return []int{first}, nil
}

// BucketValues returns the representative value of every bucket, in bucket order.
// The slice is cached until the parameters change and must not be modified.
func (e *Encoder) BucketValues() []float64 {
	if e.bucketValues == nil {
		p := e.params
		values := make([]float64, p.NumBuckets())
		for i := range values {
			values[i] = math.Min(p.MinVal+float64(i)*p.Resolution, p.MaxVal)
		}
		e.bucketValues = values
	}

	return e.bucketValues
}

// BucketInfo reconstructs the bucket addressed by buckets[0].
//
// Returns ErrInvalidInput if buckets is empty or the index is out of range.
func (e *Encoder) BucketInfo(buckets []int) (Result, error) {
	if len(buckets) == 0 {
		return Result{}, fmt.Errorf("%w: no bucket index given", errs.ErrInvalidInput)
	}

	idx := buckets[0]
	if idx < 0 || idx >= e.NumBuckets() {
		return Result{}, fmt.Errorf("%w: bucket index %d out of range [0, %d)", errs.ErrInvalidInput, idx, e.NumBuckets())
	}

	value := e.BucketValues()[idx]
	encoding := make([]uint8, e.params.N)
	fillRow(encoding, idx, e.params.W)

	return Result{Value: value, Scalar: value, Encoding: encoding}, nil
}

// Decode finds the bucket whose pattern overlaps encoded the most and returns
// its reconstruction. Ties resolve to the lowest bucket.
func (e *Encoder) Decode(encoded []uint8) (Result, error) {
	if len(encoded) != e.params.N {
		return Result{}, fmt.Errorf("%w: expected %d, got %d", errs.ErrInvalidBufferSize, e.params.N, len(encoded))
	}

	w := e.params.W
	overlap := 0
	for i := 0; i < w; i++ {
		if encoded[i] != 0 {
			overlap++
		}
	}

	best, bestOverlap := 0, overlap
	for i := 1; i < e.NumBuckets(); i++ {
		if encoded[i-1] != 0 {
			overlap--
		}
		if encoded[i+w-1] != 0 {
			overlap++
		}
		if overlap > bestOverlap {
			best, bestOverlap = i, overlap
		}
	}

	return e.BucketInfo([]int{best})
}

// firstOnBit returns the index of the first active bit for x.
func (e *Encoder) firstOnBit(x float64) (int, error) {
	p := e.params
	if x < p.MinVal || x > p.MaxVal {
		if !e.clipInput {
			return 0, fmt.Errorf("%w: %g not in [%g, %g]", errs.ErrOutOfRange, x, p.MinVal, p.MaxVal)
		}
		x = math.Max(p.MinVal, math.Min(x, p.MaxVal))
	}

	first := int(math.Floor((x-p.MinVal)/p.Resolution + 0.5))

	// guard against rounding at the upper bound
	return max(0, min(first, p.N-p.W)), nil
}

func fillRow(dst []uint8, first, w int) {
	for i := first; i < first+w; i++ {
		dst[i] = 1
	}
}
