// Package model defines project specifications and the generated plot collection.
package model

import (
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/plotgen/internal/geodesy"
)

// ErrInvalidProject wraps every project configuration problem.
var ErrInvalidProject = eris.New("model: invalid project")

// PlotDistribution selects how plot centers are placed.
type PlotDistribution string

// Plot distribution modes.
const (
	PlotRandom  PlotDistribution = "random"
	PlotGridded PlotDistribution = "gridded"
	PlotCSV     PlotDistribution = "csv"
)

// PlotShape is the footprint of a plot around its center.
type PlotShape string

// Plot shapes.
const (
	ShapeCircle PlotShape = "circle"
	ShapeSquare PlotShape = "square"
)

// SampleDistribution selects how sample points are placed inside a plot.
type SampleDistribution string

// Sample distribution modes.
const (
	SampleRandom  SampleDistribution = "random"
	SampleGridded SampleDistribution = "gridded"
)

// SampleValue is one categorical answer reviewers can assign to a sample.
type SampleValue struct {
	ID    int     `json:"id" yaml:"id"`
	Name  string  `json:"name" yaml:"name"`
	Color string  `json:"color,omitempty" yaml:"color"`
	Image *string `json:"image,omitempty" yaml:"image"`
}

// Project is the specification a plot collection is generated from.
// Numeric fields are nullable; absent values read as zero unless the
// selected distribution mode requires them.
type Project struct {
	ID          int    `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description"`

	LonMin *float64 `json:"lonMin,omitempty" yaml:"lonMin"`
	LatMin *float64 `json:"latMin,omitempty" yaml:"latMin"`
	LonMax *float64 `json:"lonMax,omitempty" yaml:"lonMax"`
	LatMax *float64 `json:"latMax,omitempty" yaml:"latMax"`
	CSV    string   `json:"csv,omitempty" yaml:"csv"`

	PlotDistribution PlotDistribution `json:"plotDistribution" yaml:"plotDistribution"`
	NumPlots         *int             `json:"numPlots,omitempty" yaml:"numPlots"`
	PlotSpacing      *float64         `json:"plotSpacing,omitempty" yaml:"plotSpacing"`
	PlotShape        PlotShape        `json:"plotShape" yaml:"plotShape"`
	PlotSize         *float64         `json:"plotSize,omitempty" yaml:"plotSize"`

	SampleDistribution SampleDistribution `json:"sampleDistribution" yaml:"sampleDistribution"`
	SamplesPerPlot     *int               `json:"samplesPerPlot,omitempty" yaml:"samplesPerPlot"`
	SampleResolution   *float64           `json:"sampleResolution,omitempty" yaml:"sampleResolution"`

	SampleValues []SampleValue `json:"sampleValues" yaml:"sampleValues"`

	// Boundary is set by generation and supersedes the lon/lat bounds.
	Boundary *Boundary `json:"boundary,omitempty" yaml:"-"`
}

// Params holds the validated, non-nullable generation inputs of a Project.
type Params struct {
	Bounds             geodesy.Bounds
	PlotDistribution   PlotDistribution
	NumPlots           int
	PlotSpacing        float64
	CSV                string
	PlotShape          PlotShape
	PlotSize           float64
	SampleDistribution SampleDistribution
	SamplesPerPlot     int
	SampleResolution   float64
}

// Validate reports every configuration problem in the project at once.
func (p *Project) Validate() error {
	_, err := p.Params()
	return err
}

// Params validates the project and resolves nullable fields.
func (p *Project) Params() (Params, error) {
	var problems []string
	fail := func(msg string) { problems = append(problems, msg) }

	params := Params{
		Bounds: geodesy.Bounds{
			Left:   orZero(p.LonMin),
			Bottom: orZero(p.LatMin),
			Right:  orZero(p.LonMax),
			Top:    orZero(p.LatMax),
		},
		PlotDistribution:   p.PlotDistribution,
		NumPlots:           orZero(p.NumPlots),
		PlotSpacing:        orZero(p.PlotSpacing),
		CSV:                p.CSV,
		PlotShape:          p.PlotShape,
		PlotSize:           orZero(p.PlotSize),
		SampleDistribution: p.SampleDistribution,
		SamplesPerPlot:     orZero(p.SamplesPerPlot),
		SampleResolution:   orZero(p.SampleResolution),
	}

	switch p.PlotDistribution {
	case PlotRandom:
		if p.NumPlots == nil {
			fail("numPlots is required for random plot distribution")
		} else if *p.NumPlots < 0 {
			fail("numPlots must be >= 0")
		}
	case PlotGridded:
		if p.PlotSpacing == nil {
			fail("plotSpacing is required for gridded plot distribution")
		} else if !positive(*p.PlotSpacing) {
			fail("plotSpacing must be > 0")
		}
	case PlotCSV:
		if strings.TrimSpace(p.CSV) == "" {
			fail("csv is required for csv plot distribution")
		}
	default:
		fail(fmt.Sprintf("unsupported plotDistribution %q", p.PlotDistribution))
	}

	if p.PlotDistribution == PlotRandom || p.PlotDistribution == PlotGridded {
		b := params.Bounds
		finite := true
		for _, v := range []float64{b.Left, b.Bottom, b.Right, b.Top} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				fail("bounds must be finite")
				finite = false
				break
			}
		}
		if b.Left > b.Right {
			fail("lonMin must not exceed lonMax")
		}
		if b.Bottom > b.Top {
			fail("latMin must not exceed latMax")
		}
		if finite && (!geodesy.InMercatorDomain(geodesy.Coord{X: b.Left, Y: b.Bottom}) ||
			!geodesy.InMercatorDomain(geodesy.Coord{X: b.Right, Y: b.Top})) {
			fail(fmt.Sprintf("bounds must lie within lon ±%g and lat ±%g", geodesy.MaxLongitude, geodesy.MaxLatitude))
		}
	}

	switch p.PlotShape {
	case ShapeCircle, ShapeSquare:
	default:
		fail(fmt.Sprintf("unsupported plotShape %q", p.PlotShape))
	}

	if p.PlotSize == nil {
		fail("plotSize is required")
	} else if !(*p.PlotSize >= 0) || math.IsInf(*p.PlotSize, 0) {
		fail("plotSize must be a finite value >= 0")
	}

	switch p.SampleDistribution {
	case SampleRandom:
		if p.SamplesPerPlot == nil {
			fail("samplesPerPlot is required for random sample distribution")
		} else if *p.SamplesPerPlot < 0 {
			fail("samplesPerPlot must be >= 0")
		}
	case SampleGridded:
		if p.SampleResolution == nil {
			fail("sampleResolution is required for gridded sample distribution")
		} else if !positive(*p.SampleResolution) {
			fail("sampleResolution must be > 0")
		}
	default:
		fail(fmt.Sprintf("unsupported sampleDistribution %q", p.SampleDistribution))
	}

	ids := make(map[int]struct{}, len(p.SampleValues))
	names := make(map[string]struct{}, len(p.SampleValues))
	for _, v := range p.SampleValues {
		if _, dup := ids[v.ID]; dup {
			fail(fmt.Sprintf("duplicate sampleValue id %d", v.ID))
		}
		ids[v.ID] = struct{}{}
		key := strings.ToUpper(strings.TrimSpace(v.Name))
		if _, dup := names[key]; dup {
			fail(fmt.Sprintf("duplicate sampleValue name %q", v.Name))
		}
		names[key] = struct{}{}
	}

	if len(problems) > 0 {
		return Params{}, eris.Wrapf(ErrInvalidProject, "model: %s", strings.Join(problems, "; "))
	}
	return params, nil
}

// SampleValueNames maps sample value ids to names. Later duplicates win;
// Params rejects duplicates, but saved projects are read without validation.
func (p *Project) SampleValueNames() map[int]string {
	names := make(map[int]string, len(p.SampleValues))
	for _, v := range p.SampleValues {
		names[v.ID] = v.Name
	}
	return names
}

func orZero[T int | float64](v *T) T {
	if v == nil {
		return 0
	}
	return *v
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
