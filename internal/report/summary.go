// Package report aggregates reviewer annotations on a plot collection and
// renders them as CSV, XLSX or shapefile exports.
package report

import (
	"sort"
	"strconv"
	"strings"

	"github.com/sells-group/plotgen/internal/model"
)

// Stats counts review progress across a plot collection.
type Stats struct {
	FlaggedPlots    int `json:"flaggedPlots"`
	AnalyzedPlots   int `json:"analyzedPlots"`
	UnanalyzedPlots int `json:"unanalyzedPlots"`
	Contributors    int `json:"contributors"`
}

// ComputeStats counts flagged, analyzed and remaining plots and the distinct
// users who submitted any of them.
func ComputeStats(plots []model.Plot) Stats {
	var s Stats
	users := make(map[string]struct{})
	for i := range plots {
		p := &plots[i]
		if p.Flagged {
			s.FlaggedPlots++
		}
		if p.Analyzed() {
			s.AnalyzedPlots++
		}
		if p.User != nil {
			users[*p.User] = struct{}{}
		}
	}
	// A plot that is both flagged and analyzed is subtracted twice.
	s.UnanalyzedPlots = max(0, len(plots)-s.FlaggedPlots-s.AnalyzedPlots)
	s.Contributors = len(users)
	return s
}

// PlotSummary is one row of the aggregate export.
type PlotSummary struct {
	PlotID       int
	CenterLon    float64
	CenterLat    float64
	SizeM        float64
	Shape        model.PlotShape
	Flagged      bool
	Analyses     int
	SamplePoints int
	UserID       *string
	// Distribution maps configured value ids to the percentage of samples.
	Distribution map[int]float64
	// NoValue is the percentage of samples that are unlabeled or carry an
	// id the project does not configure.
	NoValue      float64
}

// Summarize builds a PlotSummary per plot, in plot order.
func Summarize(project *model.Project, plots []model.Plot) []PlotSummary {
	names := project.SampleValueNames()
	var size float64
	if project.PlotSize != nil {
		size = *project.PlotSize
	}

	out := make([]PlotSummary, len(plots))
	for i := range plots {
		p := &plots[i]
		out[i] = PlotSummary{
			PlotID:       p.ID,
			CenterLon:    p.Center.Lon,
			CenterLat:    p.Center.Lat,
			SizeM:        size,
			Shape:        project.PlotShape,
			Flagged:      p.Flagged,
			Analyses:     p.Analyses,
			SamplePoints: len(p.Samples),
			UserID:       p.User,
		}
		out[i].Distribution, out[i].NoValue = distribution(p.Samples, names)
	}
	return out
}

func distribution(samples []model.Sample, names map[int]string) (map[int]float64, float64) {
	counts := make(map[int]int)
	missing := 0
	for _, s := range samples {
		if s.Value == nil {
			missing++
			continue
		}
		if _, ok := names[*s.Value]; !ok {
			missing++
			continue
		}
		counts[*s.Value]++
	}

	dist := make(map[int]float64, len(counts))
	for id, n := range counts {
		dist[id] = 100 * float64(n) / float64(len(samples))
	}
	var noValue float64
	if missing > 0 {
		noValue = 100 * float64(missing) / float64(len(samples))
	}
	return dist, noValue
}

// ValueLabel is one configured sample value column of the export.
type ValueLabel struct {
	ID     int
	Name   string
	// Column is the uppercased header, suffixed with _<id> when it would
	// repeat a fixed column or an earlier label.
	Column string
}

// ValueLabels returns the configured sample values ordered by id.
func ValueLabels(project *model.Project) []ValueLabel {
	names := project.SampleValueNames()
	ids := make([]int, 0, len(names))
	for id := range names {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	seen := make(map[string]struct{}, len(Columns)+len(ids))
	for _, c := range Columns {
		seen[c] = struct{}{}
	}

	labels := make([]ValueLabel, len(ids))
	for i, id := range ids {
		col := strings.ToUpper(names[id])
		if _, dup := seen[col]; dup {
			col += "_" + strconv.Itoa(id)
		}
		seen[col] = struct{}{}
		labels[i] = ValueLabel{ID: id, Name: names[id], Column: col}
	}
	return labels
}
