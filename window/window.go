// Package window provides a fixed-capacity sliding window of recent
// observations.
//
// The window is a ring buffer: pushing into a full window evicts the oldest
// value first, so its length never exceeds its capacity. Duplicates are kept.
// The window is not a statistical sample; it only answers the literal minimum
// and maximum of the values it currently holds.
//
// A Window is NOT thread-safe.
package window

import (
	"fmt"

	"github.com/arloliu/scalarsdr/errs"
)

// DefaultCapacity is the window capacity used by the adaptive encoder when none is configured.
const DefaultCapacity = 300

// Window is a bounded FIFO buffer of float64 values.
type Window struct {
	values []float64
	head   int // index of the oldest value
	size   int
}

// New creates a window holding at most capacity values.
//
// Returns ErrInvalidConfiguration if capacity is less than 1.
func New(capacity int) (*Window, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: window capacity must be at least 1, got %d", errs.ErrInvalidConfiguration, capacity)
	}

	return &Window{values: make([]float64, capacity)}, nil
}

// Push appends v, evicting the oldest value if the window is full.
func (w *Window) Push(v float64) {
	capacity := len(w.values)
	if w.size == capacity {
		w.values[w.head] = v
		w.head = (w.head + 1) % capacity

		return
	}

	w.values[(w.head+w.size)%capacity] = v
	w.size++
}

// Len returns the number of values currently held.
func (w *Window) Len() int {
	return w.size
}

// Cap returns the maximum number of values the window can hold.
func (w *Window) Cap() int {
	return len(w.values)
}

// Min returns the smallest value in the window.
// ok is false when the window is empty.
func (w *Window) Min() (minVal float64, ok bool) {
	if w.size == 0 {
		return 0, false
	}

	minVal = w.at(0)
	for i := 1; i < w.size; i++ {
		if v := w.at(i); v < minVal {
			minVal = v
		}
	}

	return minVal, true
}

// Max returns the largest value in the window.
// ok is false when the window is empty.
func (w *Window) Max() (maxVal float64, ok bool) {
	if w.size == 0 {
		return 0, false
	}

	maxVal = w.at(0)
	for i := 1; i < w.size; i++ {
		if v := w.at(i); v > maxVal {
			maxVal = v
		}
	}

	return maxVal, true
}

// Values returns a copy of the window contents, oldest first.
func (w *Window) Values() []float64 {
	out := make([]float64, w.size)
	for i := range out {
		out[i] = w.at(i)
	}

	return out
}

// Reset empties the window without releasing its storage.
func (w *Window) Reset() {
	w.head = 0
	w.size = 0
}

// at returns the i-th oldest value.
func (w *Window) at(i int) float64 {
	return w.values[(w.head+i)%len(w.values)]
}
