// Package geodesy reprojects points and bounding boxes between WGS84 and Web Mercator.
package geodesy

import (
	"math"

	"github.com/rotisserie/eris"
)

// CRS is an EPSG coordinate reference system code.
type CRS int

// Supported reference systems.
const (
	WGS84       CRS = 4326 // geographic lon/lat degrees
	WebMercator CRS = 3857 // spherical Mercator meters
)

// Spherical Mercator constants.
const (
	earthRadius = 6378137.0
	degToRad    = math.Pi / 180

	// MaxLatitude is the latitude at which Web Mercator becomes a square.
	// Inputs beyond it are clamped before projection.
	MaxLatitude = 85.05112877980659

	// MaxLongitude bounds the projected domain east and west.
	MaxLongitude = 180.0
)

// ErrUnsupportedCRS is returned for any EPSG code other than WGS84 or WebMercator.
var ErrUnsupportedCRS = eris.New("geodesy: unsupported CRS")

// Coord is an (x, y) pair: lon/lat in WGS84, easting/northing in Web Mercator.
type Coord struct {
	X float64
	Y float64
}

// InMercatorDomain reports whether a WGS84 coordinate projects without clamping.
func InMercatorDomain(c Coord) bool {
	return math.Abs(c.X) <= MaxLongitude && math.Abs(c.Y) <= MaxLatitude
}

func (c CRS) valid() bool {
	return c == WGS84 || c == WebMercator
}

// ReprojectPoint converts p from one reference system to another.
func ReprojectPoint(p Coord, from, to CRS) (Coord, error) {
	if !from.valid() {
		return Coord{}, eris.Wrapf(ErrUnsupportedCRS, "geodesy: source EPSG:%d", int(from))
	}
	if !to.valid() {
		return Coord{}, eris.Wrapf(ErrUnsupportedCRS, "geodesy: target EPSG:%d", int(to))
	}
	switch {
	case from == to:
		return p, nil
	case from == WGS84:
		return toMercator(p), nil
	default:
		return toWGS84(p), nil
	}
}

// ReprojectBounds reprojects the lower-left and upper-right corners independently.
// This is exact for the WGS84/Web Mercator pair since both keep axes aligned.
func ReprojectBounds(b Bounds, from, to CRS) (Bounds, error) {
	ll, err := ReprojectPoint(Coord{X: b.Left, Y: b.Bottom}, from, to)
	if err != nil {
		return Bounds{}, err
	}
	ur, err := ReprojectPoint(Coord{X: b.Right, Y: b.Top}, from, to)
	if err != nil {
		return Bounds{}, err
	}
	return Bounds{Left: ll.X, Bottom: ll.Y, Right: ur.X, Top: ur.Y}, nil
}

func toMercator(p Coord) Coord {
	lat := math.Max(-MaxLatitude, math.Min(MaxLatitude, p.Y))
	return Coord{
		X: earthRadius * p.X * degToRad,
		Y: earthRadius * math.Log(math.Tan(math.Pi/4+lat*degToRad/2)),
	}
}

func toWGS84(p Coord) Coord {
	return Coord{
		X: p.X / earthRadius / degToRad,
		Y: (2*math.Atan(math.Exp(p.Y/earthRadius)) - math.Pi/2) / degToRad,
	}
}
