package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/plotgen/internal/model"
	"github.com/sells-group/plotgen/internal/report"
)

var (
	statsPlots  string
	statsFormat string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show review progress for a plot collection",
	RunE: func(cmd *cobra.Command, _ []string) error {
		plots, err := model.LoadPlots(statsPlots)
		if err != nil {
			return err
		}
		return printStats(cmd.OutOrStdout(), report.ComputeStats(plots), len(plots), statsFormat)
	},
}

func init() {
	statsCmd.Flags().StringVar(&statsPlots, "plots", "", "path to plot-data-<id>.json (required)")
	statsCmd.Flags().StringVar(&statsFormat, "format", "json", "output format: json or table")
	_ = statsCmd.MarkFlagRequired("plots")
	rootCmd.AddCommand(statsCmd)
}

func printStats(out io.Writer, s report.Stats, total int, format string) error {
	switch format {
	case "json":
		return writeJSON(out, s)
	case "table":
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "PLOTS\tFLAGGED\tANALYZED\tUNANALYZED\tCONTRIBUTORS")
		_, _ = fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\n", total, s.FlaggedPlots, s.AnalyzedPlots, s.UnanalyzedPlots, s.Contributors)
		return w.Flush()
	default:
		return eris.Errorf("stats: unsupported format %q", format)
	}
}
