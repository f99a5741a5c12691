package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/KaramelBytes/leapmetrics-cli/internal/analysis"
	"github.com/KaramelBytes/leapmetrics-cli/internal/logging"
	"github.com/KaramelBytes/leapmetrics-cli/internal/report"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fistCSV writes sessions x frames rows of make_a_fist with a rising closure.
func fistCSV(t *testing.T, dir, client, hand string, sessions, frames int) {
	t.Helper()
	header := append([]string{"Client Name", "Session Number", "Exercise Name", "Hand"}, analysis.HandClosureColumns...)
	var b strings.Builder
	b.WriteString(strings.Join(header, ",") + "\n")
	for s := 1; s <= sessions; s++ {
		for f := 0; f < frames; f++ {
			cells := []string{client, fmt.Sprint(s), "make_a_fist", hand}
			for range analysis.HandClosureColumns {
				cells = append(cells, fmt.Sprint(s*10+f))
			}
			b.WriteString(strings.Join(cells, ",") + "\n")
		}
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, client+"_fist.csv"), []byte(b.String()), 0o644))
}

func options(dir string) Options {
	return Options{
		DataDir:        dir,
		ExcludePattern: "metrics",
		Plot:           report.PlotOptions{WidthInches: 4, HeightInches: 3},
		Workbook:       true,
		Manifest:       true,
		Logger:         logging.Discard(),
	}
}

func TestRun_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	fistCSV(t, dir, "Ana", "Right", 2, 10)
	// Pronation rows without Hand Roll fail validation for that exercise only.
	pron := "Client Name,Session Number,Exercise Name,Palm Roll\nAna,1,pronation_supination,0\nAna,1,pronation_supination,5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Ana_pron.csv"), []byte(pron), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old_metrics.csv"), []byte("garbage"), 0o644))

	res, err := Run(options(dir))
	require.NoError(t, err)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, "Ana", res.Client)
	assert.Equal(t, 22, res.Rows)
	assert.Len(t, res.Files, 2, "metrics file is excluded")

	require.Len(t, res.Exercises, len(analysis.Exercises))
	fist := res.Exercises[0]
	assert.Equal(t, "make_a_fist", fist.Name)
	assert.NoError(t, fist.Err)
	assert.Equal(t, []int{1, 2}, fist.Sessions)

	b, err := os.ReadFile(fist.SummaryPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	assert.Len(t, lines, 11)
	assert.Equal(t, "Session Number,Metric,Value", lines[0])

	info, err := os.Stat(fist.PlotPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	for _, ex := range res.Exercises[1:4] {
		assert.True(t, ex.Skipped, ex.Name)
	}
	pronRes := res.Exercises[4]
	assert.True(t, errors.Is(pronRes.Err, analysis.ErrMissingColumn))
	assert.Empty(t, pronRes.PlotPath)

	runErr := res.Err()
	require.Error(t, runErr)
	assert.Contains(t, runErr.Error(), "pronation_supination")

	assert.FileExists(t, res.WorkbookPath)
	mb, err := os.ReadFile(res.ManifestPath)
	require.NoError(t, err)
	m, err := report.ReadManifest(mb)
	require.NoError(t, err)
	assert.Equal(t, res.RunID, m.RunID)
	assert.Len(t, m.Files, 2)
	assert.Len(t, m.Exercises, 5)
	assert.Equal(t, "make_a_fist_plot.png", m.Exercises[0].Plot)
	assert.NotEmpty(t, m.Exercises[4].Error)
}

func TestRun_Filters(t *testing.T) {
	dir := t.TempDir()
	fistCSV(t, dir, "Ana", "Right", 1, 4)
	fistCSV(t, dir, "Ben", "Left", 2, 4)

	opt := options(dir)
	opt.Hand = "left"
	opt.Manifest = false
	opt.Workbook = false
	res, err := Run(opt)
	require.NoError(t, err)
	assert.Equal(t, "Ben", res.Client)
	assert.Equal(t, 8, res.Rows)
	assert.Empty(t, res.ManifestPath)

	opt.Client = "Cara"
	_, err = Run(opt)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestRun_NoData(t *testing.T) {
	dir := t.TempDir()
	res, err := Run(options(dir))
	assert.ErrorIs(t, err, ErrNoData)
	require.NotNil(t, res)
	assert.DirExists(t, filepath.Join(dir, "plots"))
}

func TestRun_OutputDirUnusable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "plots")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, err := Run(options(dir))
	assert.ErrorIs(t, err, ErrOutputDir)
}
