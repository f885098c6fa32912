package main

import (
	"encoding/json"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/plotgen/internal/model"
	"github.com/sells-group/plotgen/internal/review"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Reviewer operations on a plot collection",
	Long:  "Commands for flagging plots, recording sample values, picking the next plot to review and thinning a collection for display.",
}

// -- review flag --

var reviewFlagCmd = &cobra.Command{
	Use:   "flag",
	Short: "Flag a plot and save the collection",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, _ := cmd.Flags().GetString("plots")
		plotID, _ := cmd.Flags().GetInt("plot-id")

		return updatePlots(path, func(plots []model.Plot) error {
			return review.Flag(plots, plotID)
		})
	},
}

// -- review record --

var reviewRecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a reviewer's sample values for a plot and save the collection",
	Long:  "Stores one value per sample, given as --values 0=1,1=1,2=2 (sampleId=valueId), and counts one more analysis for the plot.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, _ := cmd.Flags().GetString("plots")
		plotID, _ := cmd.Flags().GetInt("plot-id")
		user, _ := cmd.Flags().GetString("user")
		raw, _ := cmd.Flags().GetStringToInt("values")

		values, err := sampleValues(raw)
		if err != nil {
			return err
		}
		return updatePlots(path, func(plots []model.Plot) error {
			return review.RecordSamples(plots, plotID, user, values)
		})
	},
}

// -- review next --

var reviewNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Print a random unflagged, unanalyzed plot",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, _ := cmd.Flags().GetString("plots")

		plots, err := model.LoadPlots(path)
		if err != nil {
			return err
		}
		p, ok := review.NextUnanalyzed(plots, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
		if !ok {
			_, err := io.WriteString(cmd.OutOrStdout(), "done\n")
			return err
		}
		return writeJSON(cmd.OutOrStdout(), p)
	},
}

// -- review thin --

var reviewThinCmd = &cobra.Command{
	Use:   "thin",
	Short: "Print at most --max plots spread over the collection",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, _ := cmd.Flags().GetString("plots")
		maxPlots, _ := cmd.Flags().GetInt("max")

		plots, err := model.LoadPlots(path)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), review.Thin(plots, maxPlots))
	},
}

func init() {
	for _, c := range []*cobra.Command{reviewFlagCmd, reviewRecordCmd, reviewNextCmd, reviewThinCmd} {
		c.Flags().String("plots", "", "path to plot-data-<id>.json (required)")
		_ = c.MarkFlagRequired("plots")
		reviewCmd.AddCommand(c)
	}
	reviewFlagCmd.Flags().Int("plot-id", 0, "id of the plot to flag")
	_ = reviewFlagCmd.MarkFlagRequired("plot-id")
	reviewRecordCmd.Flags().Int("plot-id", 0, "id of the reviewed plot")
	reviewRecordCmd.Flags().String("user", "", "reviewer name")
	reviewRecordCmd.Flags().StringToInt("values", nil, "sampleId=valueId pairs covering every sample, e.g. 0=1,1=2")
	for _, name := range []string{"plot-id", "user", "values"} {
		_ = reviewRecordCmd.MarkFlagRequired(name)
	}
	reviewThinCmd.Flags().Int("max", 1000, "max number of plots to print")

	rootCmd.AddCommand(reviewCmd)
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "encode json")
	}
	return nil
}

// updatePlots loads the collection at path, applies fn and writes it back.
// Nothing is written when fn fails.
func updatePlots(path string, fn func([]model.Plot) error) error {
	plots, err := model.LoadPlots(path)
	if err != nil {
		return err
	}
	if err := fn(plots); err != nil {
		return err
	}
	return model.WriteJSON(path, plots)
}

// sampleValues converts the --values flag's string keys to sample ids.
func sampleValues(raw map[string]int) (map[int]int, error) {
	if len(raw) == 0 {
		return nil, eris.New("review: no sample values given")
	}
	values := make(map[int]int, len(raw))
	for k, v := range raw {
		sampleID, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			return nil, eris.Wrapf(err, "review: sample id %q", k)
		}
		if _, dup := values[sampleID]; dup {
			return nil, eris.Errorf("review: sample %d given more than once", sampleID)
		}
		values[sampleID] = v
	}
	return values, nil
}
