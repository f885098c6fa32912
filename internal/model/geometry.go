package model

import (
	"bytes"
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkt"

	"github.com/sells-group/plotgen/internal/geodesy"
)

// GeoPoint is a WGS84 position encoded as a GeoJSON Point.
type GeoPoint struct {
	Lon float64
	Lat float64
}

// PointFrom converts a WGS84 coordinate to a GeoPoint.
func PointFrom(c geodesy.Coord) GeoPoint {
	return GeoPoint{Lon: c.X, Lat: c.Y}
}

// Coord returns the point as a geodesy coordinate.
func (p GeoPoint) Coord() geodesy.Coord {
	return geodesy.Coord{X: p.Lon, Y: p.Lat}
}

// Geom returns the point as a go-geom Point with SRID 4326.
func (p GeoPoint) Geom() *geom.Point {
	return geom.NewPointFlat(geom.XY, []float64{p.Lon, p.Lat}).SetSRID(int(geodesy.WGS84))
}

// MarshalJSON encodes the point as a GeoJSON geometry.
func (p GeoPoint) MarshalJSON() ([]byte, error) {
	data, err := geojson.Marshal(p.Geom())
	if err != nil {
		return nil, eris.Wrap(err, "model: encode point")
	}
	return data, nil
}

// UnmarshalJSON decodes a GeoJSON Point.
func (p *GeoPoint) UnmarshalJSON(data []byte) error {
	g, err := decodeGeometry(data)
	if err != nil {
		return err
	}
	pt, ok := g.(*geom.Point)
	if !ok {
		return eris.Errorf("model: expected GeoJSON Point, got %T", g)
	}
	if len(pt.FlatCoords()) < 2 {
		return eris.New("model: empty GeoJSON Point")
	}
	p.Lon, p.Lat = pt.X(), pt.Y()
	return nil
}

// Boundary is a project's WGS84 extent encoded as a closed GeoJSON Polygon.
type Boundary geodesy.Bounds

// Bounds returns the boundary as a geodesy box.
func (b Boundary) Bounds() geodesy.Bounds {
	return geodesy.Bounds(b)
}

// Polygon returns the five-position ring lower-left, upper-left, upper-right,
// lower-right, lower-left.
func (b Boundary) Polygon() *geom.Polygon {
	flat := []float64{
		b.Left, b.Bottom,
		b.Left, b.Top,
		b.Right, b.Top,
		b.Right, b.Bottom,
		b.Left, b.Bottom,
	}
	return geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)}).SetSRID(int(geodesy.WGS84))
}

// WKT renders the boundary polygon as well-known text.
func (b Boundary) WKT() (string, error) {
	s, err := wkt.Marshal(b.Polygon())
	if err != nil {
		return "", eris.Wrap(err, "model: encode boundary wkt")
	}
	return s, nil
}

// MarshalJSON encodes the boundary as a GeoJSON Polygon.
func (b Boundary) MarshalJSON() ([]byte, error) {
	data, err := geojson.Marshal(b.Polygon())
	if err != nil {
		return nil, eris.Wrap(err, "model: encode boundary")
	}
	return data, nil
}

// UnmarshalJSON decodes a GeoJSON Polygon and keeps its envelope.
func (b *Boundary) UnmarshalJSON(data []byte) error {
	g, err := decodeGeometry(data)
	if err != nil {
		return err
	}
	poly, ok := g.(*geom.Polygon)
	if !ok {
		return eris.Errorf("model: expected GeoJSON Polygon, got %T", g)
	}
	if poly.NumLinearRings() == 0 {
		return eris.New("model: empty GeoJSON Polygon")
	}
	env := poly.Bounds()
	*b = Boundary{Left: env.Min(0), Bottom: env.Min(1), Right: env.Max(0), Top: env.Max(1)}
	return nil
}

// decodeGeometry accepts a GeoJSON geometry object or a JSON string containing one,
// which is how older plot files stored centers and boundaries.
func decodeGeometry(data []byte) (geom.T, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return nil, eris.Wrap(err, "model: decode geometry string")
		}
		data = []byte(inner)
	}
	var g geom.T
	if err := geojson.Unmarshal(data, &g); err != nil {
		return nil, eris.Wrap(err, "model: decode geojson")
	}
	return g, nil
}
