// Package adaptive implements a scalar encoder that learns its value range
// from the data stream.
//
// An Encoder is created with a fixed total width n and active width w. It
// needs no prior knowledge of the input's minimum or maximum: the first
// observation x establishes the range [x, x+1], and every later observation
// is pushed into a sliding window whose literal minimum and maximum widen the
// range whenever they exceed it. Each widening recomputes the resolution,
// radius and range while n stays constant, so the pattern width is fixed for
// the encoder's lifetime even though the value-to-pattern mapping moves.
//
// Missing data (scalar.MissingData, NaN or an infinity) always produces an
// all-zero pattern and never influences the range. Until a range exists,
// Encode emits all-zero patterns and Decode returns a zero-valued result.
//
// Basic usage:
//
//	enc, err := adaptive.NewEncoder(5, 50)
//	if err != nil {
//	    return err
//	}
//	for _, v := range readings {
//	    pattern := enc.Encode(v)
//	    // feed pattern downstream
//	}
package adaptive

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arloliu/scalarsdr/errs"
	"github.com/arloliu/scalarsdr/internal/options"
	"github.com/arloliu/scalarsdr/scalar"
)

// Encoder is a scalar encoder whose bounds adapt to the observed values.
//
// Note: The Encoder is NOT thread-safe. Every operation, including Decode,
// reads and updates shared state; callers sharing an encoder across goroutines
// must serialize access themselves.
type Encoder struct {
	cfg     *EncoderConfig
	tracker *rangeTracker

	// base performs the fixed-range encoding; nil while Uninitialized.
	base   *scalar.Encoder
	params scalar.Params

	adaptBounds bool
	recordNum   int
}

// NewEncoder creates an adaptive encoder with w active bits out of n total bits.
//
// Parameters:
//   - w: Number of active bits per pattern (must be at least 1)
//   - n: Total pattern width (required, must be greater than w)
//   - opts: Optional configuration functions
//
// Returns:
//   - *Encoder: The created encoder
//   - error: ErrInvalidConfiguration if periodic encoding is requested, n is
//     omitted (zero), n <= w, or any option is out of range
func NewEncoder(w, n int, opts ...EncoderOption) (*Encoder, error) {
	cfg := newEncoderConfig(w, n)
	if err := options.ApplyAndValidate(cfg, opts...); err != nil {
		return nil, err
	}

	tracker, err := newRangeTracker(cfg)
	if err != nil {
		return nil, err
	}

	e := &Encoder{
		cfg:         cfg,
		tracker:     tracker,
		adaptBounds: cfg.learningEnabled,
	}

	params, err := ComputeParams(tracker.minVal, tracker.maxVal, n, w, cfg.padding)
	if err != nil {
		return nil, err
	}
	e.params = params

	if tracker.state != Uninitialized {
		base, err := scalar.NewEncoder(params, scalar.WithClipInput(true))
		if err != nil {
			return nil, err
		}
		e.base = base
	}

	return e, nil
}

// Encode returns the pattern for x in a newly allocated slice of length N.
func (e *Encoder) Encode(x float64) []uint8 {
	out := make([]uint8, e.cfg.n)
	e.encodeInto(x, out)

	return out
}

// EncodeInto writes the pattern for x into dst.
//
// Returns ErrInvalidBufferSize if len(dst) != N; the encoder state is left
// untouched in that case.
func (e *Encoder) EncodeInto(x float64, dst []uint8) error {
	if len(dst) != e.cfg.n {
		return fmt.Errorf("%w: expected %d, got %d", errs.ErrInvalidBufferSize, e.cfg.n, len(dst))
	}
	e.encodeInto(x, dst)

	return nil
}

func (e *Encoder) encodeInto(x float64, dst []uint8) {
	e.recordNum++

	if scalar.IsMissing(x) {
		clear(dst)
		return
	}

	e.observe(x)

	if e.base == nil {
		clear(dst)
		return
	}

	// the base encoder clips and dst is sized, so this only fails on a broken invariant
	if err := e.base.EncodeInto(x, dst); err != nil {
		clear(dst)
	}
}

// BucketIndices returns the bucket index of x, adapting the range first.
// Missing data, and any input while no range exists, yields a zero slice of length N.
func (e *Encoder) BucketIndices(x float64) []int {
	e.recordNum++

	if scalar.IsMissing(x) {
		return make([]int, e.cfg.n)
	}

	e.observe(x)

	if e.base == nil {
		return make([]int, e.cfg.n)
	}

	indices, err := e.base.BucketIndices(x)
	if err != nil {
		e.cfg.logger.Warn("bucket lookup failed",
			"name", e.cfg.name, "input", x, "minval", e.params.MinVal, "maxval", e.params.MaxVal, "error", err)

		return make([]int, e.cfg.n)
	}

	return indices
}

// BucketIndicesString parses s as a number and returns BucketIndices of it.
//
// Returns ErrInvalidInput if s is not a number; the encoder state is left
// untouched in that case.
func (e *Encoder) BucketIndicesString(s string) ([]int, error) {
	x, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a number", errs.ErrInvalidInput, s)
	}

	return e.BucketIndices(x), nil
}

// Decode reconstructs the value represented by pattern.
//
// An uninitialized encoder returns a zero value, zero scalar and all-zero
// encoding of length N without inspecting pattern.
func (e *Encoder) Decode(pattern []uint8) (scalar.Result, error) {
	if e.base == nil {
		return e.degenerateResult(), nil
	}

	return e.base.Decode(pattern)
}

// BucketInfo reconstructs the bucket addressed by buckets[0].
// It short-circuits like Decode while the encoder is uninitialized.
func (e *Encoder) BucketInfo(buckets []int) (scalar.Result, error) {
	if e.base == nil {
		return e.degenerateResult(), nil
	}

	return e.base.BucketInfo(buckets)
}

// BucketValues returns the representative value of every bucket under the
// current range, or nil while uninitialized. The table is rebuilt after every
// range change and must not be modified.
func (e *Encoder) BucketValues() []float64 {
	if e.base == nil {
		return nil
	}

	return e.base.BucketValues()
}

// SetLearningEnabled turns range adaptation on or off.
func (e *Encoder) SetLearningEnabled(enabled bool) {
	e.adaptBounds = enabled
}

// LearningEnabled reports whether observations widen the range.
func (e *Encoder) LearningEnabled() bool {
	return e.adaptBounds
}

// Name returns the configured encoder name.
func (e *Encoder) Name() string { return e.cfg.name }

// W returns the number of active bits per pattern.
func (e *Encoder) W() int { return e.cfg.w }

// N returns the total pattern width.
func (e *Encoder) N() int { return e.cfg.n }

// Padding returns the configured margin bits.
func (e *Encoder) Padding() int { return e.cfg.padding }

// MinVal returns the current lower bound.
func (e *Encoder) MinVal() float64 { return e.tracker.minVal }

// MaxVal returns the current upper bound.
func (e *Encoder) MaxVal() float64 { return e.tracker.maxVal }

// Resolution returns the value-space width of one bit position.
func (e *Encoder) Resolution() float64 { return e.params.Resolution }

// Radius returns the value-space width spanned by the active bits.
func (e *Encoder) Radius() float64 { return e.params.Radius }

// Range returns MaxVal - MinVal + Resolution.
func (e *Encoder) Range() float64 { return e.params.Range }

// EffectiveWidth returns N - 2*Padding.
func (e *Encoder) EffectiveWidth() int { return e.params.EffectiveWidth }

// Params returns a copy of the current derived parameters.
func (e *Encoder) Params() scalar.Params { return e.params }

// State returns the lifecycle stage of the value range.
func (e *Encoder) State() State { return e.tracker.state }

// Bootstrapped reports whether the encoder has a usable value range, either
// from configured bounds or from its first observation.
func (e *Encoder) Bootstrapped() bool { return e.tracker.state != Uninitialized }

// RecordNum returns the number of Encode, EncodeInto and BucketIndices calls
// that were accepted, including those with missing data.
func (e *Encoder) RecordNum() int { return e.recordNum }

// WindowLen returns the number of observations currently in the sliding window.
func (e *Encoder) WindowLen() int { return e.tracker.window.Len() }

// WindowCapacity returns the sliding window capacity.
func (e *Encoder) WindowCapacity() int { return e.tracker.window.Cap() }

// observe widens the range with x when adaptation is enabled. A widening
// whose parameters cannot be installed is rolled back, so the tracker bounds
// always match Params.
func (e *Encoder) observe(x float64) {
	if !e.adaptBounds {
		return
	}

	prev := e.tracker.snapshot()
	if e.tracker.Observe(x) && !e.recompute() {
		e.tracker.restore(prev)
	}
}

// recompute derives parameters for the tracker's bounds and installs them.
// It reports whether the new parameters are in force.
func (e *Encoder) recompute() bool {
	params, err := ComputeParams(e.tracker.minVal, e.tracker.maxVal, e.cfg.n, e.cfg.w, e.cfg.padding)
	if err == nil {
		err = e.install(params)
	}
	if err != nil {
		e.cfg.logger.Warn("keeping previous encoding parameters",
			"name", e.cfg.name, "minval", e.tracker.minVal, "maxval", e.tracker.maxVal, "error", err)

		return false
	}

	return true
}

func (e *Encoder) install(params scalar.Params) error {
	if e.base == nil {
		base, err := scalar.NewEncoder(params, scalar.WithClipInput(true))
		if err != nil {
			return err
		}
		e.base = base
	} else if err := e.base.SetParams(params); err != nil {
		return err
	}

	e.params = params

	return nil
}

func (e *Encoder) degenerateResult() scalar.Result {
	return scalar.Result{Value: 0, Scalar: 0, Encoding: make([]uint8, e.cfg.n)}
}
