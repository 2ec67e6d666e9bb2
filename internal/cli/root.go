// Package cli implements the sdrenc command line tool.
package cli

import (
	"context"
	"log/slog"

	"github.com/arloliu/scalarsdr"
	"github.com/arloliu/scalarsdr/window"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app carries the state shared by every subcommand of one command tree.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     *Config
}

// NewRootCmd builds the sdrenc command tree. Each tree owns its own viper
// instance, so trees built in tests do not share flags or config.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "sdrenc",
		Short: "Encode scalar streams into sparse binary patterns",
		Long: `sdrenc turns a stream of numeric readings into fixed-width sparse
binary patterns with an adaptive scalar encoder. The encoder learns the value
range online, so no min/max has to be known in advance.

Settings are read from flags, SDRENC_* environment variables and an optional
config.yaml, in that order of precedence.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(a.v, a.cfgFile); err != nil {
				return err
			}
			cfg, err := Load(a.v)
			if err != nil {
				return err
			}
			a.cfg = cfg

			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is $HOME/.config/sdrenc/config.yaml)")
	flags.String("name", "sdrenc", "encoder name used in diagnostics")
	flags.Int("w", scalarsdr.DefaultW, "number of active bits per pattern")
	flags.Int("n", scalarsdr.DefaultN, "total pattern width in bits")
	flags.Int("window", window.DefaultCapacity, "number of recent values used for range tracking")
	flags.Int("padding", 0, "reserved buckets on each side of the range")
	flags.Bool("learning", true, "adapt the value range while encoding")
	flags.CountP("verbose", "v", "diagnostic verbosity; repeat for more detail")

	for key, flag := range map[string]string{
		"encoder.name":      "name",
		"encoder.w":         "w",
		"encoder.n":         "n",
		"encoder.window":    "window",
		"encoder.padding":   "padding",
		"encoder.learning":  "learning",
		"encoder.verbosity": "verbose",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(newEncodeCmd(a), newDecodeCmd())

	return root
}

// Execute runs the sdrenc command tree.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// logger returns a text logger on the command's stderr. Warnings are always
// shown; encoder diagnostics need verbosity >= 1.
func (a *app) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if a.cfg.Encoder.Verbosity > 0 {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
