package adaptive

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/arloliu/scalarsdr/errs"
	"github.com/arloliu/scalarsdr/internal/options"
	"github.com/arloliu/scalarsdr/window"
)

// EncoderConfig holds the fixed configuration of an adaptive Encoder.
// It is populated by EncoderOption values and never changes once the encoder
// has been constructed.
type EncoderConfig struct {
	name    string
	w       int
	n       int
	padding int

	// initial bounds; minVal == maxVal means "unset"
	minVal float64
	maxVal float64

	windowCapacity  int
	learningEnabled bool
	periodic        bool
	verbosity       int
	logger          *slog.Logger
}

func newEncoderConfig(w, n int) *EncoderConfig {
	return &EncoderConfig{
		w:               w,
		n:               n,
		windowCapacity:  window.DefaultCapacity,
		learningEnabled: true,
		logger:          slog.New(slog.DiscardHandler),
	}
}

// Validate checks the configuration as a whole once all options are applied.
func (c *EncoderConfig) Validate() error {
	switch {
	case c.periodic:
		return fmt.Errorf("%w: adaptive encoder does not encode periodic inputs", errs.ErrInvalidConfiguration)
	case c.n == 0:
		return fmt.Errorf("%w: n is required; adaptive encoders cannot be sized by radius or resolution", errs.ErrInvalidConfiguration)
	case c.w < 1:
		return fmt.Errorf("%w: w must be at least 1, got %d", errs.ErrInvalidConfiguration, c.w)
	case c.n <= c.w:
		return fmt.Errorf("%w: n (%d) must be greater than w (%d)", errs.ErrInvalidConfiguration, c.n, c.w)
	case c.padding < 0 || 2*c.padding >= c.n:
		return fmt.Errorf("%w: padding %d out of range for n=%d", errs.ErrInvalidConfiguration, c.padding, c.n)
	case c.minVal > c.maxVal:
		return fmt.Errorf("%w: minval (%g) greater than maxval (%g)", errs.ErrInvalidConfiguration, c.minVal, c.maxVal)
	}

	return nil
}

// EncoderOption configures an adaptive Encoder.
type EncoderOption = options.Option[*EncoderConfig]

// WithName sets the name reported in diagnostic log records.
func WithName(name string) EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.name = name
	})
}

// WithPadding sets the number of margin bits excluded from the addressable
// bucket space at each end of the pattern. The default is 0.
func WithPadding(padding int) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		if padding < 0 {
			return fmt.Errorf("%w: padding cannot be negative, got %d", errs.ErrInvalidConfiguration, padding)
		}
		c.padding = padding

		return nil
	})
}

// WithBounds sets initial value bounds. Equal bounds, including the default
// 0/0, leave the encoder uninitialized until its first observation.
func WithBounds(minVal, maxVal float64) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		if math.IsNaN(minVal) || math.IsInf(minVal, 0) || math.IsNaN(maxVal) || math.IsInf(maxVal, 0) {
			return fmt.Errorf("%w: bounds must be finite, got [%g, %g]", errs.ErrInvalidConfiguration, minVal, maxVal)
		}
		c.minVal = minVal
		c.maxVal = maxVal

		return nil
	})
}

// WithWindowCapacity sets how many recent observations drive range
// expansion. The default is 300.
func WithWindowCapacity(capacity int) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		if capacity < 1 {
			return fmt.Errorf("%w: window capacity must be at least 1, got %d", errs.ErrInvalidConfiguration, capacity)
		}
		c.windowCapacity = capacity

		return nil
	})
}

// WithLearningEnabled controls whether observations widen the value range.
// It is enabled by default.
func WithLearningEnabled(enabled bool) EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.learningEnabled = enabled
	})
}

// WithPeriodic exists so callers porting periodic configurations get an
// explicit error; periodic encoding is not supported and true fails construction.
func WithPeriodic(periodic bool) EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.periodic = periodic
	})
}

// WithVerbosity sets the diagnostic level. 1 logs range bootstrap, 2 and
// above also log every bound expansion. It never affects encoding.
func WithVerbosity(level int) EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.verbosity = level
	})
}

// WithLogger sets the logger used for diagnostics. A nil logger discards output.
func WithLogger(logger *slog.Logger) EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		if logger == nil {
			logger = slog.New(slog.DiscardHandler)
		}
		c.logger = logger
	})
}
