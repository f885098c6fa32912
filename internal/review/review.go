// Package review applies reviewer actions to a generated plot collection:
// flagging, recording sample values and choosing the next plot to review.
package review

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/plotgen/internal/model"
)

var (
	// ErrPlotNotFound is returned when no plot has the requested id.
	ErrPlotNotFound = eris.New("review: plot not found")

	// ErrInvalidSamples is returned when recorded values do not cover exactly
	// the samples of the plot.
	ErrInvalidSamples = eris.New("review: sample values do not match plot samples")
)

func find(plots []model.Plot, plotID int) (*model.Plot, error) {
	for i := range plots {
		if plots[i].ID == plotID {
			return &plots[i], nil
		}
	}
	return nil, eris.Wrapf(ErrPlotNotFound, "review: plot %d", plotID)
}

// Flag marks a plot as unusable for review.
func Flag(plots []model.Plot, plotID int) error {
	p, err := find(plots, plotID)
	if err != nil {
		return err
	}
	p.Flagged = true
	zap.L().Debug("plot flagged", zap.Int("plot_id", plotID))
	return nil
}

// RecordSamples stores one reviewer's answers for a plot. values maps sample
// id to sample value id and must name every sample of the plot and nothing
// else. On error the plot is left unchanged.
func RecordSamples(plots []model.Plot, plotID int, user string, values map[int]int) error {
	p, err := find(plots, plotID)
	if err != nil {
		return err
	}

	known := make(map[int]struct{}, len(p.Samples))
	var missing []int
	for _, s := range p.Samples {
		known[s.ID] = struct{}{}
		if _, ok := values[s.ID]; !ok {
			missing = append(missing, s.ID)
		}
	}
	var unknown []int
	for id := range values {
		if _, ok := known[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	if len(missing) > 0 || len(unknown) > 0 {
		sort.Ints(unknown)
		return eris.Wrapf(ErrInvalidSamples, "review: plot %d: missing samples %v, unknown samples %v", plotID, missing, unknown)
	}

	for i := range p.Samples {
		v := values[p.Samples[i].ID]
		p.Samples[i].Value = &v
	}
	p.Analyses++
	p.User = &user

	zap.L().Debug("samples recorded",
		zap.Int("plot_id", plotID),
		zap.String("user", user),
		zap.Int("analyses", p.Analyses),
	)
	return nil
}

// NextUnanalyzed picks uniformly among unflagged plots nobody has analyzed.
// It returns false once every plot is flagged or analyzed.
func NextUnanalyzed(plots []model.Plot, rng *rand.Rand) (*model.Plot, bool) {
	var open []int
	for i := range plots {
		if !plots[i].Flagged && plots[i].Analyses == 0 {
			open = append(open, i)
		}
	}
	if len(open) == 0 {
		return nil, false
	}
	return &plots[open[rng.IntN(len(open))]], true
}

// Thin returns at most maxPlots plots spread evenly over the collection, for
// map display of large projects. Collections within the limit are returned as is.
func Thin(plots []model.Plot, maxPlots int) []model.Plot {
	n := len(plots)
	if n <= maxPlots {
		return plots
	}
	if maxPlots <= 0 {
		return []model.Plot{}
	}

	step := float64(n) / float64(maxPlots)
	out := make([]model.Plot, maxPlots)
	for k := range out {
		// round half up
		out[k] = plots[int(math.Floor(float64(k)*step+0.5))]
	}
	return out
}
