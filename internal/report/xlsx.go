package report

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/plotgen/internal/model"
)

// SheetName is the worksheet WriteXLSX fills.
const SheetName = "Plots"

// WriteXLSX saves the aggregate table as a single-sheet workbook at path.
// Numeric columns are stored as numbers, not text.
func WriteXLSX(path string, project *model.Project, plots []model.Plot) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return eris.Wrap(err, "report: add sheet")
	}

	row := sheet.AddRow()
	for _, h := range Header(project) {
		row.AddCell().SetString(h)
	}

	labels := ValueLabels(project)
	for _, s := range Summarize(project, plots) {
		row := sheet.AddRow()
		row.AddCell().SetInt(s.PlotID)
		row.AddCell().SetFloat(s.CenterLon)
		row.AddCell().SetFloat(s.CenterLat)
		row.AddCell().SetFloat(s.SizeM)
		row.AddCell().SetString(string(s.Shape))
		row.AddCell().SetBool(s.Flagged)
		row.AddCell().SetInt(s.Analyses)
		row.AddCell().SetInt(s.SamplePoints)
		user := row.AddCell()
		if s.UserID != nil {
			user.SetString(*s.UserID)
		}
		for _, l := range labels {
			row.AddCell().SetFloat(s.Distribution[l.ID])
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "report: save %s", path)
	}
	return nil
}
