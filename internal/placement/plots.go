// Package placement generates plot centers inside a region and sample points inside a plot.
//
// Generators take inputs in Web Mercator meters, where spacing and radius are
// meaningful, and return WGS84 lon/lat coordinates.
package placement

import (
	"math"
	"math/rand/v2"

	"github.com/rotisserie/eris"

	"github.com/sells-group/plotgen/internal/geodesy"
)

// MaxPoints caps a single layout, random or gridded.
const MaxPoints = 10_000_000

var (
	// ErrInvalidSpacing is returned for a non-positive or non-finite lattice spacing.
	ErrInvalidSpacing = eris.New("placement: spacing must be a positive finite number")

	// ErrTooManyPoints is returned when a layout would exceed MaxPoints.
	ErrTooManyPoints = eris.New("placement: layout exceeds point limit")
)

// RandomPoints draws n points uniformly inside box (meters). Points may coincide.
func RandomPoints(rng *rand.Rand, box geodesy.Bounds, n int) ([]geodesy.Coord, error) {
	if err := checkCount(n); err != nil {
		return nil, err
	}
	return unproject(randomInBox(rng, box, n))
}

// GriddedPoints lays a lattice with the given spacing (meters) over box, centered
// by splitting the leftover range evenly on both sides of each axis.
func GriddedPoints(box geodesy.Bounds, spacing float64) ([]geodesy.Coord, error) {
	pts, err := lattice(box.Left, box.Bottom, box.Width(), box.Height(), spacing)
	if err != nil {
		return nil, err
	}
	return unproject(pts)
}

func randomInBox(rng *rand.Rand, box geodesy.Bounds, n int) []geodesy.Coord {
	width, height := box.Width(), box.Height()
	pts := make([]geodesy.Coord, 0, max(n, 0))
	for range n {
		pts = append(pts, geodesy.Coord{
			X: box.Left + rng.Float64()*width,
			Y: box.Bottom + rng.Float64()*height,
		})
	}
	return pts
}

// lattice emits (steps_x+1)*(steps_y+1) points, x in the outer loop. A negative
// range on either axis yields no points; a zero range yields one row or column.
func lattice(left, bottom, xRange, yRange, spacing float64) ([]geodesy.Coord, error) {
	if !(spacing > 0) || math.IsInf(spacing, 0) {
		return nil, ErrInvalidSpacing
	}

	xSteps := math.Floor(xRange / spacing)
	ySteps := math.Floor(yRange / spacing)
	if xSteps < 0 || ySteps < 0 {
		return []geodesy.Coord{}, nil
	}
	if (xSteps+1)*(ySteps+1) > MaxPoints {
		return nil, eris.Wrapf(ErrTooManyPoints, "placement: %.0f x %.0f lattice at spacing %g", xSteps+1, ySteps+1, spacing)
	}

	nx, ny := int(xSteps)+1, int(ySteps)+1
	xPad := (xRange - xSteps*spacing) / 2
	yPad := (yRange - ySteps*spacing) / 2

	pts := make([]geodesy.Coord, 0, nx*ny)
	for i := range nx {
		x := left + xPad + float64(i)*spacing
		for j := range ny {
			pts = append(pts, geodesy.Coord{X: x, Y: bottom + yPad + float64(j)*spacing})
		}
	}
	return pts, nil
}

func checkCount(n int) error {
	if n > MaxPoints {
		return eris.Wrapf(ErrTooManyPoints, "placement: %d random points", n)
	}
	return nil
}

func unproject(pts []geodesy.Coord) ([]geodesy.Coord, error) {
	out := make([]geodesy.Coord, len(pts))
	for i, p := range pts {
		ll, err := geodesy.ReprojectPoint(p, geodesy.WebMercator, geodesy.WGS84)
		if err != nil {
			return nil, err
		}
		out[i] = ll
	}
	return out, nil
}
