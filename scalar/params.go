package scalar

import (
	"fmt"
	"math"

	"github.com/arloliu/scalarsdr/errs"
)

// MissingData is the reserved input value meaning "no observation".
// Encoders map it to an all-zero pattern instead of a numeric encoding.
const MissingData = -math.MaxFloat64

// IsMissing reports whether x must be treated as missing data: the MissingData
// sentinel, NaN, or an infinity.
func IsMissing(x float64) bool {
	return x == MissingData || math.IsNaN(x) || math.IsInf(x, 0)
}

// Params holds the concrete encoding parameters of a fixed-range encoder.
type Params struct {
	W       int // number of active bits per pattern
	N       int // total pattern width
	Padding int // margin bits excluded from the addressable bucket space

	MinVal float64
	MaxVal float64

	Resolution     float64 // value-space width of one bit position
	Radius         float64 // value-space width spanned by the active bits, W * Resolution
	Range          float64 // MaxVal - MinVal + Resolution
	EffectiveWidth int     // N - 2*Padding
}

// Validate checks that p describes a usable, non-degenerate encoding.
func (p Params) Validate() error {
	switch {
	case p.W < 1:
		return fmt.Errorf("%w: w must be at least 1, got %d", errs.ErrInvalidConfiguration, p.W)
	case p.N <= p.W:
		return fmt.Errorf("%w: n (%d) must be greater than w (%d)", errs.ErrInvalidConfiguration, p.N, p.W)
	case p.Padding < 0 || 2*p.Padding >= p.N:
		return fmt.Errorf("%w: padding %d out of range for n=%d", errs.ErrInvalidConfiguration, p.Padding, p.N)
	case !(p.MaxVal > p.MinVal):
		return fmt.Errorf("%w: maxval (%g) must be greater than minval (%g)", errs.ErrInvalidConfiguration, p.MaxVal, p.MinVal)
	case !(p.Resolution > 0) || math.IsInf(p.Resolution, 0):
		return fmt.Errorf("%w: resolution must be positive, got %g", errs.ErrInvalidConfiguration, p.Resolution)
	}

	return nil
}

// NumBuckets returns the number of distinct bucket positions, N - W + 1.
func (p Params) NumBuckets() int {
	return p.N - p.W + 1
}
