package adaptive

import (
	"fmt"

	"github.com/arloliu/scalarsdr/errs"
	"github.com/arloliu/scalarsdr/scalar"
)

// ComputeParams derives the encoding parameters for the bounds [minVal, maxVal]
// at a fixed total width n and active width w:
//
//	resolution     = (maxVal - minVal) / (n - w)
//	radius         = w * resolution
//	range          = (maxVal - minVal) + resolution
//	effectiveWidth = n - 2*padding
//
// Equal bounds yield a zero resolution, which describes an encoder that has
// not seen any data yet.
//
// Returns ErrInvalidConfiguration if n <= w or maxVal < minVal.
func ComputeParams(minVal, maxVal float64, n, w, padding int) (scalar.Params, error) {
	if n <= w {
		return scalar.Params{}, fmt.Errorf("%w: n (%d) must be greater than w (%d)", errs.ErrInvalidConfiguration, n, w)
	}
	if maxVal < minVal {
		return scalar.Params{}, fmt.Errorf("%w: maxval (%g) less than minval (%g)", errs.ErrInvalidConfiguration, maxVal, minVal)
	}

	rangeInternal := maxVal - minVal
	resolution := rangeInternal / float64(n-w)

	return scalar.Params{
		W:              w,
		N:              n,
		Padding:        padding,
		MinVal:         minVal,
		MaxVal:         maxVal,
		Resolution:     resolution,
		Radius:         float64(w) * resolution,
		Range:          rangeInternal + resolution,
		EffectiveWidth: n - 2*padding,
	}, nil
}
