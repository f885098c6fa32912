package placement

import (
	"context"
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/plotgen/internal/geodesy"
)

// ErrMalformedRow is returned for a CSV row without two numeric leading fields.
var ErrMalformedRow = eris.New("placement: malformed csv row")

// ReadCSVPoints parses plot centers from CSV. The first row is a header and is
// skipped; every other row must start with lon,lat in WGS84 degrees inside the
// Web Mercator domain. Extra columns are ignored. Any bad row fails the whole read.
func ReadCSVPoints(ctx context.Context, r io.Reader) ([]geodesy.Coord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable fields
	reader.ReuseRecord = true

	var points []geodesy.Coord
	first := true
	for {
		if ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "placement: csv context cancelled")
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "placement: read csv row")
		}

		if first {
			first = false
			continue
		}

		line, _ := reader.FieldPos(0)
		if len(record) < 2 {
			return nil, eris.Wrapf(ErrMalformedRow, "placement: line %d: expected lon,lat, got %d field(s)", line, len(record))
		}
		lon, err := parseCoord(record[0])
		if err != nil {
			return nil, eris.Wrapf(ErrMalformedRow, "placement: line %d: invalid longitude %q", line, record[0])
		}
		lat, err := parseCoord(record[1])
		if err != nil {
			return nil, eris.Wrapf(ErrMalformedRow, "placement: line %d: invalid latitude %q", line, record[1])
		}
		c := geodesy.Coord{X: lon, Y: lat}
		if !geodesy.InMercatorDomain(c) {
			return nil, eris.Wrapf(ErrMalformedRow, "placement: line %d: %g,%g is outside lon ±%g and lat ±%g",
				line, lon, lat, geodesy.MaxLongitude, geodesy.MaxLatitude)
		}
		points = append(points, c)
	}

	return points, nil
}

func parseCoord(field string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, eris.New("not finite")
	}
	return v, nil
}
