package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/arloliu/scalarsdr/batch"
	"github.com/arloliu/scalarsdr/errs"
	"github.com/spf13/cobra"
)

func newDecodeCmd() *cobra.Command {
	var outputFormat string
	var header bool

	cmd := &cobra.Command{
		Use:   "decode <batch-file>",
		Short: "Print the patterns stored in a batch file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputFormat != formatBits && outputFormat != formatIndices {
				return fmt.Errorf("%w: unknown format %q", errs.ErrInvalidConfiguration, outputFormat)
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read batch: %w", err)
			}
			b, err := batch.Decode(data)
			if err != nil {
				return err
			}

			out := bufio.NewWriter(cmd.OutOrStdout())
			if header {
				fmt.Fprintf(out, "# n=%d count=%d layout=%s compression=%s\n", b.N(), b.Len(),
					strings.ToLower(b.Layout().String()), strings.ToLower(b.Compression().String()))
			}
			for _, pattern := range b.All() {
				fmt.Fprintln(out, formatPattern(pattern, outputFormat))
			}

			return out.Flush()
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", formatBits, "printed pattern format: bits or indices")
	cmd.Flags().BoolVar(&header, "header", false, "print a summary line before the patterns")

	return cmd
}
