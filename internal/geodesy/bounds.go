package geodesy

import (
	"math"

	"github.com/rotisserie/eris"
)

// ErrNoPoints is returned when bounds are requested for an empty point set.
var ErrNoPoints = eris.New("geodesy: no points to bound")

// Bounds is an axis-aligned box in a single reference system.
type Bounds struct {
	Left   float64 `json:"left"`
	Bottom float64 `json:"bottom"`
	Right  float64 `json:"right"`
	Top    float64 `json:"top"`
}

// Width returns Right-Left. Negative for an inverted box.
func (b Bounds) Width() float64 { return b.Right - b.Left }

// Height returns Top-Bottom. Negative for an inverted box.
func (b Bounds) Height() float64 { return b.Top - b.Bottom }

// Empty reports whether the box is inverted on either axis.
// A zero-width or zero-height box is not empty.
func (b Bounds) Empty() bool {
	return b.Width() < 0 || b.Height() < 0
}

// Pad moves every edge inward by buffer. A negative buffer grows the box.
func (b Bounds) Pad(buffer float64) Bounds {
	return Bounds{
		Left:   b.Left + buffer,
		Bottom: b.Bottom + buffer,
		Right:  b.Right - buffer,
		Top:    b.Top - buffer,
	}
}

// Contains reports whether p lies inside the box, allowing tol of slack on every edge.
func (b Bounds) Contains(p Coord, tol float64) bool {
	return p.X >= b.Left-tol && p.X <= b.Right+tol &&
		p.Y >= b.Bottom-tol && p.Y <= b.Top+tol
}

// BoundsFromPoints returns the WGS84 box enclosing points, grown by buffer meters on every side.
func BoundsFromPoints(points []Coord, buffer float64) (Bounds, error) {
	if len(points) == 0 {
		return Bounds{}, ErrNoPoints
	}

	raw := Bounds{
		Left:   math.Inf(1),
		Bottom: math.Inf(1),
		Right:  math.Inf(-1),
		Top:    math.Inf(-1),
	}
	for _, p := range points {
		raw.Left = math.Min(raw.Left, p.X)
		raw.Bottom = math.Min(raw.Bottom, p.Y)
		raw.Right = math.Max(raw.Right, p.X)
		raw.Top = math.Max(raw.Top, p.Y)
	}

	meters, err := ReprojectBounds(raw, WGS84, WebMercator)
	if err != nil {
		return Bounds{}, eris.Wrap(err, "geodesy: project point bounds")
	}
	grown, err := ReprojectBounds(meters.Pad(-buffer), WebMercator, WGS84)
	if err != nil {
		return Bounds{}, eris.Wrap(err, "geodesy: unproject point bounds")
	}
	return grown, nil
}
