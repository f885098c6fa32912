package report

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/plotgen/internal/model"
)

// Columns is the fixed leading header of every export.
var Columns = []string{
	"PLOT_ID", "CENTER_LON", "CENTER_LAT", "SIZE_M", "SHAPE",
	"FLAGGED", "ANALYSES", "SAMPLE_POINTS", "USER_ID",
}

// Header returns Columns followed by one column per configured value.
func Header(project *model.Project) []string {
	labels := ValueLabels(project)
	header := make([]string, 0, len(Columns)+len(labels))
	header = append(header, Columns...)
	for _, l := range labels {
		header = append(header, l.Column)
	}
	return header
}

// WriteCSV writes the aggregate table: one row per plot, then one percentage
// column per configured sample value. A null user is written empty and a value
// missing from a plot as 0.0.
func WriteCSV(w io.Writer, project *model.Project, plots []model.Plot) error {
	labels := ValueLabels(project)
	cw := csv.NewWriter(w)

	if err := cw.Write(Header(project)); err != nil {
		return eris.Wrap(err, "report: write csv header")
	}

	for _, s := range Summarize(project, plots) {
		user := ""
		if s.UserID != nil {
			user = *s.UserID
		}
		record := []string{
			strconv.Itoa(s.PlotID),
			formatFloat(s.CenterLon),
			formatFloat(s.CenterLat),
			formatFloat(s.SizeM),
			string(s.Shape),
			strconv.FormatBool(s.Flagged),
			strconv.Itoa(s.Analyses),
			strconv.Itoa(s.SamplePoints),
			user,
		}
		for _, l := range labels {
			record = append(record, formatFloat(s.Distribution[l.ID]))
		}
		if err := cw.Write(record); err != nil {
			return eris.Wrapf(err, "report: write csv row for plot %d", s.PlotID)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "report: flush csv")
	}
	return nil
}

// formatFloat renders the shortest decimal form, keeping a trailing ".0" on
// whole numbers so 50 prints as 50.0.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if math.IsInf(v, 0) || math.IsNaN(v) || strings.ContainsRune(s, '.') {
		return s
	}
	return s + ".0"
}
