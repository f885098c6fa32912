package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func validProject() *Project {
	return &Project{
		ID:                 7,
		Name:               "Mekong Delta",
		LonMin:             ptr(105.0),
		LatMin:             ptr(9.5),
		LonMax:             ptr(106.0),
		LatMax:             ptr(10.5),
		PlotDistribution:   PlotRandom,
		NumPlots:           ptr(20),
		PlotShape:          ShapeCircle,
		PlotSize:           ptr(200.0),
		SampleDistribution: SampleRandom,
		SamplesPerPlot:     ptr(10),
		SampleValues: []SampleValue{
			{ID: 1, Name: "Forest"},
			{ID: 2, Name: "Water"},
		},
	}
}

func TestParams_Valid(t *testing.T) {
	p := validProject()
	params, err := p.Params()
	require.NoError(t, err)

	assert.Equal(t, 105.0, params.Bounds.Left)
	assert.Equal(t, 9.5, params.Bounds.Bottom)
	assert.Equal(t, 106.0, params.Bounds.Right)
	assert.Equal(t, 10.5, params.Bounds.Top)
	assert.Equal(t, 20, params.NumPlots)
	assert.Equal(t, 200.0, params.PlotSize)
	assert.Equal(t, 10, params.SamplesPerPlot)
	assert.Zero(t, params.PlotSpacing)
	assert.Zero(t, params.SampleResolution)
}

func TestParams_NullBoundsReadAsZero(t *testing.T) {
	p := validProject()
	p.LonMin, p.LatMin = nil, nil

	params, err := p.Params()
	require.NoError(t, err)
	assert.Zero(t, params.Bounds.Left)
	assert.Zero(t, params.Bounds.Bottom)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Project)
		wantErr string
	}{
		{
			name:    "unknown plot distribution",
			mutate:  func(p *Project) { p.PlotDistribution = "stratified" },
			wantErr: `unsupported plotDistribution "stratified"`,
		},
		{
			name:    "random without numPlots",
			mutate:  func(p *Project) { p.NumPlots = nil },
			wantErr: "numPlots is required",
		},
		{
			name:    "negative numPlots",
			mutate:  func(p *Project) { p.NumPlots = ptr(-1) },
			wantErr: "numPlots must be >= 0",
		},
		{
			name: "gridded without spacing",
			mutate: func(p *Project) {
				p.PlotDistribution = PlotGridded
			},
			wantErr: "plotSpacing is required",
		},
		{
			name: "gridded zero spacing",
			mutate: func(p *Project) {
				p.PlotDistribution = PlotGridded
				p.PlotSpacing = ptr(0.0)
			},
			wantErr: "plotSpacing must be > 0",
		},
		{
			name:    "csv without file",
			mutate:  func(p *Project) { p.PlotDistribution = PlotCSV },
			wantErr: "csv is required",
		},
		{
			name:    "inverted longitude",
			mutate:  func(p *Project) { p.LonMin = ptr(107.0) },
			wantErr: "lonMin must not exceed lonMax",
		},
		{
			name:    "inverted latitude",
			mutate:  func(p *Project) { p.LatMax = ptr(9.0) },
			wantErr: "latMin must not exceed latMax",
		},
		{
			name:    "infinite bound",
			mutate:  func(p *Project) { p.LonMax = ptr(math.Inf(1)) },
			wantErr: "bounds must be finite",
		},
		{
			name:    "polar latitude",
			mutate:  func(p *Project) { p.LatMin, p.LatMax = ptr(86.0), ptr(89.0) },
			wantErr: "bounds must lie within lon ±180 and lat ±85.05112877980659",
		},
		{
			name:    "south of mercator domain",
			mutate:  func(p *Project) { p.LatMin = ptr(-85.1) },
			wantErr: "bounds must lie within",
		},
		{
			name:    "longitude past antimeridian",
			mutate:  func(p *Project) { p.LonMax = ptr(181.0) },
			wantErr: "bounds must lie within",
		},
		{
			name: "duplicate sample value id",
			mutate: func(p *Project) {
				p.SampleValues = append(p.SampleValues, SampleValue{ID: 2, Name: "Wetland"})
			},
			wantErr: "duplicate sampleValue id 2",
		},
		{
			name: "duplicate sample value name",
			mutate: func(p *Project) {
				p.SampleValues = append(p.SampleValues, SampleValue{ID: 3, Name: "forest"})
			},
			wantErr: `duplicate sampleValue name "forest"`,
		},
		{
			name: "duplicate sample value name with padding",
			mutate: func(p *Project) {
				p.SampleValues = append(p.SampleValues, SampleValue{ID: 3, Name: " Water "})
			},
			wantErr: `duplicate sampleValue name " Water "`,
		},
		{
			name:    "unknown shape",
			mutate:  func(p *Project) { p.PlotShape = "hexagon" },
			wantErr: `unsupported plotShape "hexagon"`,
		},
		{
			name:    "missing plot size",
			mutate:  func(p *Project) { p.PlotSize = nil },
			wantErr: "plotSize is required",
		},
		{
			name:    "negative plot size",
			mutate:  func(p *Project) { p.PlotSize = ptr(-5.0) },
			wantErr: "plotSize must be a finite value >= 0",
		},
		{
			name:    "NaN plot size",
			mutate:  func(p *Project) { p.PlotSize = ptr(math.NaN()) },
			wantErr: "plotSize must be a finite value >= 0",
		},
		{
			name:    "random samples without count",
			mutate:  func(p *Project) { p.SamplesPerPlot = nil },
			wantErr: "samplesPerPlot is required",
		},
		{
			name: "gridded samples without resolution",
			mutate: func(p *Project) {
				p.SampleDistribution = SampleGridded
			},
			wantErr: "sampleResolution is required",
		},
		{
			name: "gridded samples negative resolution",
			mutate: func(p *Project) {
				p.SampleDistribution = SampleGridded
				p.SampleResolution = ptr(-1.0)
			},
			wantErr: "sampleResolution must be > 0",
		},
		{
			name:    "unknown sample distribution",
			mutate:  func(p *Project) { p.SampleDistribution = "" },
			wantErr: `unsupported sampleDistribution ""`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProject()
			tt.mutate(p)
			err := p.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidProject)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	p := &Project{PlotDistribution: PlotRandom, PlotShape: ShapeSquare, SampleDistribution: SampleGridded}
	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "numPlots is required")
	assert.Contains(t, err.Error(), "plotSize is required")
	assert.Contains(t, err.Error(), "sampleResolution is required")
}

func TestValidate_MercatorEdgeIsValid(t *testing.T) {
	p := validProject()
	p.LonMin, p.LonMax = ptr(-180.0), ptr(180.0)
	p.LatMin, p.LatMax = ptr(-85.05112877980659), ptr(85.05112877980659)
	assert.NoError(t, p.Validate())
}

func TestValidate_CSVIgnoresBounds(t *testing.T) {
	p := validProject()
	p.PlotDistribution = PlotCSV
	p.CSV = "points.csv"
	p.LonMin = ptr(200.0)
	assert.NoError(t, p.Validate())
}

func TestSampleValueNames(t *testing.T) {
	p := validProject()
	p.SampleValues = append(p.SampleValues, SampleValue{ID: 2, Name: "Wetland"})

	names := p.SampleValueNames()
	assert.Equal(t, map[int]string{1: "Forest", 2: "Wetland"}, names)
}
