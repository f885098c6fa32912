package report

import (
	"os"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"

	"github.com/sells-group/plotgen/internal/model"
)

// Shapefile attribute layout. VALUE is -1 for an unlabeled sample.
const (
	fieldPlotID = iota
	fieldSampleID
	fieldValue
)

// WriteShapefile writes every sample point as a POINT record with PLOT_ID,
// SAMPLE_ID and VALUE attributes. path names the .shp file; the .shx and .dbf
// siblings are written next to it.
func WriteShapefile(path string, plots []model.Plot) error {
	if err := writeSamplePoints(path, plots); err != nil {
		return err
	}

	// go-shp v0.1.1 names the attribute table "<base>dbf".
	base := shapefileBase(path)
	if _, err := os.Stat(base + "dbf"); err == nil {
		if err := os.Rename(base+"dbf", base+".dbf"); err != nil {
			return eris.Wrapf(err, "report: rename attribute table for %s", path)
		}
	}
	return nil
}

func writeSamplePoints(path string, plots []model.Plot) error {
	w, err := shp.Create(path, shp.POINT)
	if err != nil {
		return eris.Wrapf(err, "report: create shapefile %s", path)
	}
	defer w.Close()

	err = w.SetFields([]shp.Field{
		shp.NumberField("PLOT_ID", 10),
		shp.NumberField("SAMPLE_ID", 10),
		shp.NumberField("VALUE", 10),
	})
	if err != nil {
		return eris.Wrapf(err, "report: set shapefile fields for %s", path)
	}

	for _, p := range plots {
		for _, s := range p.Samples {
			row := int(w.Write(&shp.Point{X: s.Point.Lon, Y: s.Point.Lat}))

			value := -1
			if s.Value != nil {
				value = *s.Value
			}
			attrs := [...]int{fieldPlotID: p.ID, fieldSampleID: s.ID, fieldValue: value}
			for field, v := range attrs {
				if err := w.WriteAttribute(row, field, v); err != nil {
					return eris.Wrapf(err, "report: write attributes for plot %d sample %d", p.ID, s.ID)
				}
			}
		}
	}
	return nil
}

// shapefileBase mirrors how shp.Create derives the sibling file names.
func shapefileBase(path string) string {
	if strings.HasSuffix(strings.ToLower(path), ".shp") {
		return path[:len(path)-len(".shp")]
	}
	return path
}
