package adaptive

import (
	"log/slog"
	"math"

	"github.com/arloliu/scalarsdr/scalar"
	"github.com/arloliu/scalarsdr/window"
)

// State is the lifecycle stage of an adaptive encoder's value range.
type State uint8

const (
	// Uninitialized means no valid range exists yet; encodings are all zero.
	Uninitialized State = iota
	// Bootstrapped means a range exists but the window has not been fed yet:
	// either the first observation set [x, x+1] or initial bounds were configured.
	Bootstrapped
	// Adapting means observations are flowing through the window and may widen the range.
	Adapting
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case Bootstrapped:
		return "Bootstrapped"
	case Adapting:
		return "Adapting"
	default:
		return "Unknown"
	}
}

// Verbosity levels at which the tracker emits diagnostics.
const (
	verbosityBootstrap = 1
	verbosityExpand    = 2
)

// rangeTracker owns the known bounds and the window of recent observations.
// Bounds only ever widen.
type rangeTracker struct {
	minVal float64
	maxVal float64
	state  State
	window *window.Window

	name      string
	verbosity int
	logger    *slog.Logger
}

func newRangeTracker(cfg *EncoderConfig) (*rangeTracker, error) {
	win, err := window.New(cfg.windowCapacity)
	if err != nil {
		return nil, err
	}

	t := &rangeTracker{
		window:    win,
		name:      cfg.name,
		verbosity: cfg.verbosity,
		logger:    cfg.logger,
	}

	if cfg.minVal < cfg.maxVal {
		t.minVal, t.maxVal = cfg.minVal, cfg.maxVal
		t.state = Bootstrapped
	}

	return t, nil
}

// bounds is a snapshot of the tracker's range, used to undo a widening the
// encoder could not install.
type bounds struct {
	minVal float64
	maxVal float64
	state  State
}

func (t *rangeTracker) snapshot() bounds {
	return bounds{minVal: t.minVal, maxVal: t.maxVal, state: t.state}
}

// restore reverts the range to b. The window keeps its contents, so the next
// observation retries the widening.
func (t *rangeTracker) restore(b bounds) {
	t.minVal, t.maxVal, t.state = b.minVal, b.maxVal, b.state
}

// Observe feeds v into the tracker and reports whether the bounds changed.
// Missing data (sentinel, NaN, infinities) is ignored entirely.
func (t *rangeTracker) Observe(v float64) bool {
	if scalar.IsMissing(v) {
		return false
	}

	if t.state == Uninitialized {
		t.minVal = v
		// v+1 is absorbed for very large magnitudes
		t.maxVal = math.Max(v+1, math.Nextafter(v, math.Inf(1)))
		t.state = Bootstrapped

		if t.verbosity >= verbosityBootstrap {
			t.logger.Debug("bootstrapped value range",
				"name", t.name, "input", v, "minval", t.minVal, "maxval", t.maxVal)
		}

		return true
	}

	t.window.Push(v)
	t.state = Adapting

	changed := false
	if winMin, _ := t.window.Min(); winMin < t.minVal {
		if t.verbosity >= verbosityExpand {
			t.logger.Debug("input smaller than minval, adjusting minval",
				"name", t.name, "input", v, "minval", t.minVal, "new_minval", winMin)
		}
		t.minVal = winMin
		changed = true
	}
	if winMax, _ := t.window.Max(); winMax > t.maxVal {
		if t.verbosity >= verbosityExpand {
			t.logger.Debug("input greater than maxval, adjusting maxval",
				"name", t.name, "input", v, "maxval", t.maxVal, "new_maxval", winMax)
		}
		t.maxVal = winMax
		changed = true
	}

	return changed
}
