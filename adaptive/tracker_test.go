package adaptive

import (
	"math"
	"testing"

	"github.com/arloliu/scalarsdr/internal/options"
	"github.com/arloliu/scalarsdr/scalar"
	"github.com/stretchr/testify/require"
)

func newTestTracker(t *testing.T, opts ...EncoderOption) *rangeTracker {
	t.Helper()
	cfg := newEncoderConfig(5, 50)
	require.NoError(t, options.Apply(cfg, opts...))
	tr, err := newRangeTracker(cfg)
	require.NoError(t, err)

	return tr
}

func TestRangeTracker_Observe(t *testing.T) {
	t.Run("bootstrap", func(t *testing.T) {
		tr := newTestTracker(t)
		require.Equal(t, Uninitialized, tr.state)

		require.True(t, tr.Observe(10))
		require.Equal(t, 10.0, tr.minVal)
		require.Equal(t, 11.0, tr.maxVal)
		require.Equal(t, Bootstrapped, tr.state)
		require.Equal(t, 0, tr.window.Len())
	})

	t.Run("inside range is unchanged", func(t *testing.T) {
		tr := newTestTracker(t)
		tr.Observe(10)

		require.False(t, tr.Observe(10.5))
		require.Equal(t, Adapting, tr.state)
		require.Equal(t, 1, tr.window.Len())
	})

	t.Run("widens both bounds", func(t *testing.T) {
		tr := newTestTracker(t)
		tr.Observe(10)

		require.True(t, tr.Observe(20))
		require.Equal(t, 20.0, tr.maxVal)
		require.True(t, tr.Observe(-1))
		require.Equal(t, -1.0, tr.minVal)
		require.False(t, tr.Observe(5))
	})

	t.Run("ignores missing data", func(t *testing.T) {
		tr := newTestTracker(t)
		for _, x := range []float64{scalar.MissingData, math.NaN(), math.Inf(1), math.Inf(-1)} {
			require.False(t, tr.Observe(x))
		}
		require.Equal(t, Uninitialized, tr.state)

		tr.Observe(3)
		for _, x := range []float64{scalar.MissingData, math.NaN()} {
			require.False(t, tr.Observe(x))
		}
		require.Equal(t, 0, tr.window.Len())
		require.Equal(t, 3.0, tr.minVal)
		require.Equal(t, 4.0, tr.maxVal)
	})

	t.Run("configured bounds skip bootstrap", func(t *testing.T) {
		tr := newTestTracker(t, WithBounds(-5, 5))
		require.Equal(t, Bootstrapped, tr.state)

		require.False(t, tr.Observe(0))
		require.Equal(t, 1, tr.window.Len())
		require.True(t, tr.Observe(6))
		require.Equal(t, 6.0, tr.maxVal)
	})

	t.Run("evicted values no longer drive expansion", func(t *testing.T) {
		tr := newTestTracker(t, WithWindowCapacity(2))
		tr.Observe(0)
		tr.Observe(0.5)
		tr.Observe(0.25)
		tr.Observe(0.75)

		require.Equal(t, []float64{0.25, 0.75}, tr.window.Values())
		require.Equal(t, 0.0, tr.minVal)
		require.Equal(t, 1.0, tr.maxVal)
	})
}

func TestState_String(t *testing.T) {
	require.Equal(t, "Uninitialized", Uninitialized.String())
	require.Equal(t, "Bootstrapped", Bootstrapped.String())
	require.Equal(t, "Adapting", Adapting.String())
	require.Equal(t, "Unknown", State(9).String())
}
