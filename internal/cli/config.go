package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/arloliu/scalarsdr"
	"github.com/arloliu/scalarsdr/adaptive"
	"github.com/arloliu/scalarsdr/errs"
	"github.com/arloliu/scalarsdr/window"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables that override config keys,
// e.g. SDRENC_ENCODER_W for encoder.w.
const EnvPrefix = "SDRENC"

// Config is the complete sdrenc configuration.
type Config struct {
	Encoder EncoderConfig `mapstructure:"encoder"`
}

// EncoderConfig holds the adaptive encoder settings.
type EncoderConfig struct {
	// Name labels the encoder in diagnostics
	Name string `mapstructure:"name"`
	// W is the number of active bits per pattern
	W int `mapstructure:"w"`
	// N is the total pattern width
	N int `mapstructure:"n"`
	// Window is the number of recent values the range tracker keeps
	Window int `mapstructure:"window"`
	// Padding is reserved bucket room on each side
	Padding int `mapstructure:"padding"`
	// Learning enables online range adaptation
	Learning bool `mapstructure:"learning"`
	// Verbosity controls diagnostic logging (0 = off, 1 = bootstrap, 2 = every expansion)
	Verbosity int `mapstructure:"verbosity"`
}

// SetDefaults registers default values for every config key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("encoder.name", "sdrenc")
	v.SetDefault("encoder.w", scalarsdr.DefaultW)
	v.SetDefault("encoder.n", scalarsdr.DefaultN)
	v.SetDefault("encoder.window", window.DefaultCapacity)
	v.SetDefault("encoder.padding", 0)
	v.SetDefault("encoder.learning", true)
	v.SetDefault("encoder.verbosity", 0)
}

// ConfigDir returns the directory searched for config.yaml.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "sdrenc")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(home, ".config", "sdrenc")
}

// initConfig prepares v with defaults, the config file and the environment.
// An explicitly named config file must exist; the default one is optional.
func initConfig(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(ConfigDir())
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	return nil
}

// Load unmarshals and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidConfiguration, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings the encoder cannot check itself.
func (c *Config) Validate() error {
	if c.Encoder.Verbosity < 0 {
		return fmt.Errorf("%w: encoder.verbosity must be >= 0, got %d", errs.ErrInvalidConfiguration, c.Encoder.Verbosity)
	}

	return nil
}

// NewEncoder builds the adaptive encoder described by the config. Diagnostics
// go to logger, which may be nil.
func (c *EncoderConfig) NewEncoder(logger *slog.Logger) (*adaptive.Encoder, error) {
	return adaptive.NewEncoder(c.W, c.N,
		adaptive.WithName(c.Name),
		adaptive.WithWindowCapacity(c.Window),
		adaptive.WithPadding(c.Padding),
		adaptive.WithLearningEnabled(c.Learning),
		adaptive.WithVerbosity(c.Verbosity),
		adaptive.WithLogger(logger),
	)
}
