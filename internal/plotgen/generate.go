// Package plotgen assembles a project's plot collection: plot centers from the
// selected distribution, a sample set per plot, and dense sequential ids.
package plotgen

import (
	"context"
	"io"
	"math"
	"math/rand/v2"
	"os"
	"runtime"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/plotgen/internal/geodesy"
	"github.com/sells-group/plotgen/internal/model"
	"github.com/sells-group/plotgen/internal/placement"
)

// ErrRegionTooSmall is returned when padding the region by half the plot size
// leaves a box with negative width or height.
var ErrRegionTooSmall = eris.New("plotgen: region too small for plot size")

// centerStream is the PCG stream used for random plot centers. Per-plot sample
// streams use the plot index, so this value never collides with them.
const centerStream = math.MaxUint64

// Options controls a single generation run.
type Options struct {
	// Seed for all random draws. Zero draws a fresh seed.
	Seed uint64
	// Concurrency bounds parallel sample generation. Zero means runtime.NumCPU().
	Concurrency int
	// OpenCSV opens the project's csv reference. Defaults to os.Open.
	OpenCSV func(name string) (io.ReadCloser, error)
}

// Result is the output of Generate.
type Result struct {
	RunID   string
	Seed    uint64
	Project *model.Project
	Plots   []model.Plot
}

// Generate places plots and samples for project. The input project is not
// modified; Result.Project carries the boundary and actual counts.
func Generate(ctx context.Context, project *model.Project, opts Options) (*Result, error) {
	params, err := project.Params()
	if err != nil {
		return nil, err
	}

	seed := opts.Seed
	for seed == 0 {
		seed = rand.Uint64()
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	runID := uuid.New().String()
	log := zap.L().With(
		zap.String("run_id", runID),
		zap.Int("project_id", project.ID),
	)
	start := time.Now()
	log.Info("generating plots",
		zap.String("plot_distribution", string(params.PlotDistribution)),
		zap.String("sample_distribution", string(params.SampleDistribution)),
		zap.String("plot_shape", string(params.PlotShape)),
		zap.Float64("plot_size", params.PlotSize),
		zap.Uint64("seed", seed),
	)

	bounds, centers, err := plotCenters(ctx, params, seed, opts.OpenCSV)
	if err != nil {
		return nil, err
	}
	log.Debug("plot centers placed", zap.Int("plots", len(centers)))

	sampleSets := make([][]geodesy.Coord, len(centers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, center := range centers {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewPCG(seed, uint64(i)))
			pts, err := placement.SampleSet(rng, center, params)
			if err != nil {
				return eris.Wrapf(err, "plotgen: samples for plot %d", i)
			}
			sampleSets[i] = pts
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "plotgen: generate samples")
	}
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "plotgen: generation cancelled")
	}

	plots := assemble(centers, sampleSets)

	samplesPerPlot := 0
	if len(plots) > 0 {
		samplesPerPlot = len(plots[0].Samples)
	}

	out := *project
	out.SampleValues = slices.Clone(project.SampleValues)
	out.LonMin, out.LatMin, out.LonMax, out.LatMax = nil, nil, nil, nil
	boundary := model.Boundary(bounds)
	out.Boundary = &boundary
	numPlots := len(plots)
	out.NumPlots = &numPlots
	out.SamplesPerPlot = &samplesPerPlot

	log.Info("generation complete",
		zap.Int("plots", numPlots),
		zap.Int("samples_per_plot", samplesPerPlot),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &Result{
		RunID:   runID,
		Seed:    seed,
		Project: &out,
		Plots:   plots,
	}, nil
}

// plotCenters returns the unpadded region in WGS84 and the plot centers for it.
func plotCenters(ctx context.Context, params model.Params, seed uint64, openCSV func(string) (io.ReadCloser, error)) (geodesy.Bounds, []geodesy.Coord, error) {
	buffer := params.PlotSize / 2

	if params.PlotDistribution == model.PlotCSV {
		points, err := readCSV(ctx, params.CSV, openCSV)
		if err != nil {
			return geodesy.Bounds{}, nil, err
		}
		bounds, err := geodesy.BoundsFromPoints(points, buffer)
		if err != nil {
			return geodesy.Bounds{}, nil, eris.Wrapf(err, "plotgen: bounds of %s", params.CSV)
		}
		return bounds, points, nil
	}

	meters, err := geodesy.ReprojectBounds(params.Bounds, geodesy.WGS84, geodesy.WebMercator)
	if err != nil {
		return geodesy.Bounds{}, nil, eris.Wrap(err, "plotgen: project region")
	}
	padded := meters.Pad(buffer)
	if padded.Empty() {
		return geodesy.Bounds{}, nil, eris.Wrapf(ErrRegionTooSmall,
			"plotgen: %.1fm x %.1fm region, plot size %gm", meters.Width(), meters.Height(), params.PlotSize)
	}

	var centers []geodesy.Coord
	switch params.PlotDistribution {
	case model.PlotRandom:
		rng := rand.New(rand.NewPCG(seed, centerStream))
		centers, err = placement.RandomPoints(rng, padded, params.NumPlots)
	case model.PlotGridded:
		centers, err = placement.GriddedPoints(padded, params.PlotSpacing)
	default:
		err = eris.Errorf("plotgen: unsupported plot distribution %q", params.PlotDistribution)
	}
	if err != nil {
		return geodesy.Bounds{}, nil, eris.Wrap(err, "plotgen: place plot centers")
	}
	return params.Bounds, centers, nil
}

func readCSV(ctx context.Context, name string, openCSV func(string) (io.ReadCloser, error)) ([]geodesy.Coord, error) {
	if openCSV == nil {
		openCSV = func(name string) (io.ReadCloser, error) { return os.Open(name) }
	}
	f, err := openCSV(name)
	if err != nil {
		return nil, eris.Wrapf(err, "plotgen: open csv %s", name)
	}
	defer f.Close() //nolint:errcheck

	points, err := placement.ReadCSVPoints(ctx, f)
	if err != nil {
		return nil, eris.Wrapf(err, "plotgen: read csv %s", name)
	}
	return points, nil
}

// assemble numbers plots in center order and samples in generation order.
func assemble(centers []geodesy.Coord, sampleSets [][]geodesy.Coord) []model.Plot {
	plots := make([]model.Plot, len(centers))
	for i, c := range centers {
		samples := make([]model.Sample, len(sampleSets[i]))
		for j, p := range sampleSets[i] {
			samples[j] = model.Sample{ID: j, Point: model.PointFrom(p)}
		}
		plots[i] = model.Plot{
			ID:      i,
			Center:  model.PointFrom(c),
			Samples: samples,
		}
	}
	return plots
}
