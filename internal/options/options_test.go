package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

var errNegativeWidth = errors.New("width cannot be negative")

type widthConfig struct {
	W        int
	N        int
	Name     string
	LastCall string
}

func (c *widthConfig) setW(w int) error {
	if w < 0 {
		return errNegativeWidth
	}
	c.W = w
	c.LastCall = "setW"

	return nil
}

func (c *widthConfig) Validate() error {
	if c.N <= c.W {
		return errors.New("n must exceed w")
	}

	return nil
}

func withW(w int) Option[*widthConfig] {
	return New(func(c *widthConfig) error { return c.setW(w) })
}

func withN(n int) Option[*widthConfig] {
	return NoError(func(c *widthConfig) { c.N = n; c.LastCall = "withN" })
}

func withName(name string) Option[*widthConfig] {
	return NoError(func(c *widthConfig) { c.Name = name; c.LastCall = "withName" })
}

func TestNew(t *testing.T) {
	t.Run("applies value", func(t *testing.T) {
		cfg := &widthConfig{}
		require.NoError(t, withW(5).apply(cfg))
		require.Equal(t, 5, cfg.W)
		require.Equal(t, "setW", cfg.LastCall)
	})

	t.Run("propagates error", func(t *testing.T) {
		cfg := &widthConfig{}
		err := withW(-1).apply(cfg)
		require.ErrorIs(t, err, errNegativeWidth)
		require.Equal(t, 0, cfg.W)
	})
}

func TestNoError(t *testing.T) {
	cfg := &widthConfig{}
	require.NoError(t, withName("load").apply(cfg))
	require.Equal(t, "load", cfg.Name)
}

func TestApply(t *testing.T) {
	t.Run("applies in order", func(t *testing.T) {
		cfg := &widthConfig{}
		err := Apply(cfg, withW(5), withN(50), withName("cpu"))
		require.NoError(t, err)
		require.Equal(t, 5, cfg.W)
		require.Equal(t, 50, cfg.N)
		require.Equal(t, "withName", cfg.LastCall)
	})

	t.Run("stops at first error", func(t *testing.T) {
		cfg := &widthConfig{}
		err := Apply(cfg, withW(3), withW(-2), withName("never"))
		require.ErrorIs(t, err, errNegativeWidth)
		require.Equal(t, 3, cfg.W)
		require.Empty(t, cfg.Name)
	})

	t.Run("skips nil options", func(t *testing.T) {
		cfg := &widthConfig{}
		require.NoError(t, Apply(cfg, nil, withN(7)))
		require.Equal(t, 7, cfg.N)
	})

	t.Run("no options", func(t *testing.T) {
		cfg := &widthConfig{}
		require.NoError(t, Apply(cfg))
		require.Equal(t, widthConfig{}, *cfg)
	})
}

func TestApplyAndValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg := &widthConfig{}
		require.NoError(t, ApplyAndValidate(cfg, withW(5), withN(50)))
	})

	t.Run("validation failure", func(t *testing.T) {
		cfg := &widthConfig{}
		require.Error(t, ApplyAndValidate(cfg, withW(5), withN(5)))
	})

	t.Run("option error skips validation", func(t *testing.T) {
		cfg := &widthConfig{}
		err := ApplyAndValidate(cfg, withW(-1))
		require.ErrorIs(t, err, errNegativeWidth)
	})
}
