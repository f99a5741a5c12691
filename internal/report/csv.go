package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"strconv"

	"github.com/KaramelBytes/leapmetrics-cli/internal/analysis"
	"github.com/KaramelBytes/leapmetrics-cli/internal/utils"
)

// SummaryHeader is the header row of every summary export.
var SummaryHeader = []string{"Session Number", "Metric", "Value"}

// PlotFileName and SummaryFileName name the per-exercise outputs.
func PlotFileName(exercise string) string    { return exercise + "_plot.png" }
func SummaryFileName(exercise string) string { return exercise + "_summary.csv" }

// WriteSummaryCSV exports res in long format. Undefined values are left blank.
func WriteSummaryCSV(res *analysis.Result, path string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(SummaryHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range res.Long() {
		if err := w.Write([]string{strconv.Itoa(rec.Session), rec.Metric, FormatValue(rec.Value)}); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}

// FormatValue renders a metric value, using an empty string for NaN.
func FormatValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
