package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/arloliu/scalarsdr/batch"
	"github.com/arloliu/scalarsdr/errs"
	"github.com/arloliu/scalarsdr/format"
	"github.com/arloliu/scalarsdr/scalar"
	"github.com/arloliu/scalarsdr/sdr"
	"github.com/spf13/cobra"
)

// Output formats for printed patterns.
const (
	formatBits    = "bits"
	formatIndices = "indices"
)

type encodeOptions struct {
	input       string
	format      string
	out         string
	compression string
	layout      string
}

func newEncodeCmd(a *app) *cobra.Command {
	var opts encodeOptions

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode one value per line into patterns",
		Long: `Encode reads one numeric value per line from stdin or --input.
Empty lines and "nan" are treated as missing data and produce an all-zero
pattern.

Patterns are printed one per line, or packed into a batch file with --out.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(cmd, a, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "-", "input file, - for stdin")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatBits, "printed pattern format: bits or indices")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "write a batch file instead of printing")
	cmd.Flags().StringVar(&opts.compression, "compression", "zstd", "batch compression: none, zstd, s2 or lz4")
	cmd.Flags().StringVar(&opts.layout, "layout", "sparse", "batch layout: dense or sparse")

	return cmd
}

func runEncode(cmd *cobra.Command, a *app, opts *encodeOptions) error {
	if opts.format != formatBits && opts.format != formatIndices {
		return fmt.Errorf("%w: unknown format %q", errs.ErrInvalidConfiguration, opts.format)
	}

	enc, err := a.cfg.Encoder.NewEncoder(a.logger(cmd))
	if err != nil {
		return err
	}

	var writer *batch.Writer
	if opts.out != "" {
		layout, ok := format.ParseLayout(opts.layout)
		if !ok {
			return fmt.Errorf("%w: %q", errs.ErrUnsupportedLayout, opts.layout)
		}
		compression, ok := format.ParseCompression(opts.compression)
		if !ok {
			return fmt.Errorf("%w: %q", errs.ErrUnsupportedCompression, opts.compression)
		}
		writer, err = batch.NewWriter(enc.N(), batch.WithLayout(layout), batch.WithCompression(compression))
		if err != nil {
			return err
		}
	}

	in, closeInput, err := openInput(cmd, opts.input)
	if err != nil {
		return err
	}
	defer closeInput()

	out := bufio.NewWriter(cmd.OutOrStdout())
	pattern := make([]uint8, enc.N())

	scanner := bufio.NewScanner(in)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		x, err := parseValue(scanner.Text())
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNum, err)
		}
		if err := enc.EncodeInto(x, pattern); err != nil {
			return err
		}

		if writer != nil {
			if err := writer.Add(pattern); err != nil {
				return err
			}

			continue
		}
		if _, err := fmt.Fprintln(out, formatPattern(pattern, opts.format)); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	if writer == nil {
		return out.Flush()
	}

	data, err := writer.Finish()
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.out, data, 0o644); err != nil {
		return fmt.Errorf("write batch: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d patterns (%d bytes) to %s\n", writer.Len(), len(data), opts.out)

	return nil
}

// parseValue parses one input line. Empty lines and "nan" mean missing data.
func parseValue(line string) (float64, error) {
	s := strings.TrimSpace(line)
	if s == "" || strings.EqualFold(s, "nan") {
		return scalar.MissingData, nil
	}

	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", errs.ErrInvalidInput, s)
	}

	return x, nil
}

func formatPattern(pattern []uint8, outputFormat string) string {
	if outputFormat == formatBits {
		return sdr.String(pattern)
	}

	active := sdr.ActiveBits(pattern)
	parts := make([]string, len(active))
	for i, idx := range active {
		parts[i] = strconv.Itoa(idx)
	}

	return strings.Join(parts, ",")
}

func openInput(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}

	return f, func() { _ = f.Close() }, nil
}
