package report

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/leapmetrics-cli/internal/analysis"
)

// WorkbookFileName is the combined summary workbook written per run.
const WorkbookFileName = "summary.xlsx"

// WriteWorkbook saves one sheet per result, each holding the long-format
// summary table. Undefined values are left as empty cells.
func WriteWorkbook(results []*analysis.Result, path string) error {
	if len(results) == 0 {
		return fmt.Errorf("workbook: no results")
	}
	f := excelize.NewFile()
	defer f.Close()

	first := f.GetSheetName(0)
	for i, res := range results {
		sheet := sheetName(res.Exercise)
		if i == 0 {
			if err := f.SetSheetName(first, sheet); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("new sheet %q: %w", sheet, err)
		}
		header := make([]interface{}, len(SummaryHeader))
		for j, h := range SummaryHeader {
			header[j] = h
		}
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			return fmt.Errorf("sheet %q header: %w", sheet, err)
		}
		for r, rec := range res.Long() {
			row := []interface{}{rec.Session, rec.Metric, nil}
			if !math.IsNaN(rec.Value) {
				row[2] = rec.Value
			}
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				return fmt.Errorf("sheet %q row %d: %w", sheet, r+2, err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// sheetName trims an exercise name to Excel's 31-character sheet limit.
func sheetName(exercise string) string {
	if len(exercise) > 31 {
		return exercise[:31]
	}
	return exercise
}
