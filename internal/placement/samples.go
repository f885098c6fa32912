package placement

import (
	"math"
	"math/rand/v2"

	"github.com/rotisserie/eris"

	"github.com/sells-group/plotgen/internal/geodesy"
	"github.com/sells-group/plotgen/internal/model"
)

// SampleSet places sample points inside the plot centered at center (WGS84)
// using the shape, size and sample mode in params.
//
// Random circle sampling draws the radius uniformly, not the area, so points
// cluster toward the center. Existing projects were generated this way.
func SampleSet(rng *rand.Rand, center geodesy.Coord, params model.Params) ([]geodesy.Coord, error) {
	c, err := geodesy.ReprojectPoint(center, geodesy.WGS84, geodesy.WebMercator)
	if err != nil {
		return nil, eris.Wrap(err, "placement: project plot center")
	}

	radius := params.PlotSize / 2
	square := geodesy.Bounds{
		Left:   c.X - radius,
		Bottom: c.Y - radius,
		Right:  c.X + radius,
		Top:    c.Y + radius,
	}

	var pts []geodesy.Coord
	switch params.SampleDistribution {
	case model.SampleRandom:
		if err := checkCount(params.SamplesPerPlot); err != nil {
			return nil, err
		}
		if params.PlotShape == model.ShapeCircle {
			pts = randomInCircle(rng, c, radius, params.SamplesPerPlot)
		} else {
			pts = randomInBox(rng, square, params.SamplesPerPlot)
		}
	case model.SampleGridded:
		// Range is PlotSize itself, not Right-Left, so the step count is exact.
		grid, err := lattice(square.Left, square.Bottom, params.PlotSize, params.PlotSize, params.SampleResolution)
		if err != nil {
			return nil, err
		}
		if params.PlotShape == model.ShapeCircle {
			grid = insideCircle(grid, c, radius)
		}
		pts = grid
	default:
		return nil, eris.Errorf("placement: unsupported sample distribution %q", params.SampleDistribution)
	}

	return unproject(pts)
}

func randomInCircle(rng *rand.Rand, c geodesy.Coord, radius float64, n int) []geodesy.Coord {
	pts := make([]geodesy.Coord, 0, max(n, 0))
	for range n {
		angle := 2 * math.Pi * rng.Float64()
		r := radius * rng.Float64()
		pts = append(pts, geodesy.Coord{
			X: c.X + r*math.Cos(angle),
			Y: c.Y + r*math.Sin(angle),
		})
	}
	return pts
}

// insideCircle keeps points strictly closer than radius to c.
func insideCircle(pts []geodesy.Coord, c geodesy.Coord, radius float64) []geodesy.Coord {
	r2 := radius * radius
	kept := pts[:0]
	for _, p := range pts {
		if SquareDistance(p, c) < r2 {
			kept = append(kept, p)
		}
	}
	return kept
}

// SquareDistance returns the squared planar distance between a and b.
func SquareDistance(a, b geodesy.Coord) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	return dx*dx + dy*dy
}
