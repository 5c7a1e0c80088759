package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/typedbuf/pkg/errors"
	"github.com/ajitpratap0/typedbuf/pkg/histogram"
)

func (a *App) histCommand() *cobra.Command {
	var (
		bins   int
		lo, hi float64
		format string
	)
	cmd := &cobra.Command{
		Use:   "hist",
		Short: "Compute a fixed-width histogram of a JSON number array",
		Long: `Read a JSON array of numbers from stdin and count them into equal-width
bins. Without --min and --max the range is the smallest and largest finite
value. Values outside the range are reported on stderr and skipped.

Example:
  echo '[1, 2, 2, 3, 9]' | typedbuf hist --bins 4 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.run(cmd, func(context.Context) error {
				if !cmd.Flags().Changed("bins") {
					bins = a.cfg.HistogramBins()
				}
				opts := &histogram.Options{Logger: a.log}
				minSet, maxSet := cmd.Flags().Changed("min"), cmd.Flags().Changed("max")
				if minSet != maxSet {
					return errors.New(errors.ErrorTypeValidation, "--min and --max must be given together")
				}
				if minSet {
					opts.Range = &histogram.Range{Min: lo, Max: hi}
				}

				var values []any
				if err := readJSON(a.in, &values); err != nil {
					return err
				}
				h, err := histogram.Compute(values, bins, opts)
				if err != nil {
					return err
				}
				a.log.Debug("histogram computed",
					zap.Int("values", len(values)),
					zap.Int("bins", h.Params.Bins),
					zap.Int("out_of_range", h.OutOfRange))

				switch format {
				case "json":
					return writeJSON(a.out, h)
				case "table", "":
					return renderHistogram(a.out, h)
				}
				return errors.Newf(errors.ErrorTypeValidation, "unknown format %q", format)
			})
		},
	}
	cmd.Flags().IntVarP(&bins, "bins", "b", 0, "Number of bins (default histogram.bins)")
	cmd.Flags().Float64Var(&lo, "min", 0, "Lower bound of the first bin")
	cmd.Flags().Float64Var(&hi, "max", 0, "Upper bound of the last bin")
	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format: table or json")
	return cmd
}

func renderHistogram(w io.Writer, h *histogram.Histogram) error {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Bin", "From", "To", "Count"})
	for i, c := range h.Counts {
		lo, hi := h.BinRange(i)
		t.AppendRow(table.Row{i, formatBound(lo), formatBound(hi), c})
	}
	t.AppendFooter(table.Row{"", "", "Total", h.Total()})
	if h.OutOfRange > 0 {
		t.AppendFooter(table.Row{"", "", "Out of range", h.OutOfRange})
	}
	t.SetStyle(table.StyleDefault)
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
