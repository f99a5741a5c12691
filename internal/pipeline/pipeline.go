package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/KaramelBytes/leapmetrics-cli/internal/analysis"
	"github.com/KaramelBytes/leapmetrics-cli/internal/recording"
	"github.com/KaramelBytes/leapmetrics-cli/internal/report"
	"github.com/KaramelBytes/leapmetrics-cli/internal/utils"
)

var (
	// ErrOutputDir means the output directory could not be created or written.
	ErrOutputDir = errors.New("output directory unusable")
	// ErrNoData means no rows survived loading and filtering.
	ErrNoData = errors.New("no recording data")
)

// ColHand is the recorder's handedness column.
const ColHand = "Hand"

// Options configures one analysis run.
type Options struct {
	DataDir        string
	OutputDir      string
	ExcludePattern string
	Client         string
	Hand           string
	FirstFrame     analysis.FirstFramePolicy
	Plot           report.PlotOptions
	Workbook       bool
	Manifest       bool
	Logger         logrus.FieldLogger
}

// ExerciseResult is the outcome of one exercise unit.
type ExerciseResult struct {
	Name        string
	Rows        int
	Sessions    []int
	PlotPath    string
	SummaryPath string
	// Skipped is set when the exercise had no rows.
	Skipped bool
	Err     error
	Result  *analysis.Result
}

// Result describes a completed run.
type Result struct {
	RunID        string
	OutputDir    string
	Client       string
	Rows         int
	Files        []recording.FileResult
	Exercises    []ExerciseResult
	WorkbookPath string
	ManifestPath string
	// ArtifactErr holds a workbook or manifest failure.
	ArtifactErr error
}

// Err combines every per-unit error of the run, or nil.
func (r *Result) Err() error {
	var err error
	for _, f := range r.Files {
		if f.Err != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", filepath.Base(f.Path), f.Err))
		}
	}
	for _, ex := range r.Exercises {
		if ex.Err != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", ex.Name, ex.Err))
		}
	}
	return multierr.Append(err, r.ArtifactErr)
}

// Analyzed returns the results of exercises that produced metrics.
func (r *Result) Analyzed() []*analysis.Result {
	var out []*analysis.Result
	for _, ex := range r.Exercises {
		if ex.Result != nil {
			out = append(out, ex.Result)
		}
	}
	return out
}

// Run loads the recordings in opt.DataDir, analyses every registered exercise
// and writes its plot and summary into the output directory. Only output
// directory and empty-input problems abort the run; everything else is
// reported on the returned Result.
func Run(opt Options) (*Result, error) {
	log := opt.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	started := time.Now().UTC()
	outDir := opt.OutputDir
	if outDir == "" {
		outDir = filepath.Join(opt.DataDir, "plots")
	}
	res := &Result{RunID: uuid.NewString(), OutputDir: outDir}
	log = log.WithField("run", res.RunID)

	created, err := utils.EnsureDir(outDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutputDir, err)
	}
	if created {
		log.WithField("dir", outDir).Info("created output directory")
	}
	if err := utils.CheckWritable(outDir); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutputDir, err)
	}

	table, files, err := recording.Load(opt.DataDir, recording.LoadOptions{
		ExcludePattern: opt.ExcludePattern,
		Logger:         log,
	})
	if err != nil {
		return nil, fmt.Errorf("load recordings: %w", err)
	}
	res.Files = files
	if table.Len() == 0 {
		return res, ErrNoData
	}

	table = applyFilters(table, opt)
	if table.Len() == 0 {
		return res, fmt.Errorf("%w: no rows match the client/hand filters", ErrNoData)
	}
	recording.NormalizeTime(table)
	res.Rows = table.Len()
	res.Client = opt.Client
	if res.Client == "" {
		res.Client = table.Rows[0].Client
	}

	aopt := analysis.Options{FirstFrame: opt.FirstFrame}
	for _, ex := range analysis.Exercises {
		res.Exercises = append(res.Exercises, runExercise(ex, table, outDir, res.Client, aopt, opt.Plot, log))
	}

	if opt.Workbook {
		if analyzed := res.Analyzed(); len(analyzed) > 0 {
			path := filepath.Join(outDir, report.WorkbookFileName)
			if err := report.WriteWorkbook(analyzed, path); err != nil {
				log.WithError(err).Warn("workbook not written")
				res.ArtifactErr = multierr.Append(res.ArtifactErr, err)
			} else {
				res.WorkbookPath = path
			}
		}
	}
	if opt.Manifest {
		path := filepath.Join(outDir, report.ManifestFileName)
		m := buildManifest(res, opt.DataDir, started)
		if err := report.WriteManifest(m, path); err != nil {
			log.WithError(err).Warn("manifest not written")
			res.ArtifactErr = multierr.Append(res.ArtifactErr, err)
		} else {
			res.ManifestPath = path
		}
	}
	return res, nil
}

func applyFilters(t *recording.Table, opt Options) *recording.Table {
	if opt.Client != "" {
		t = t.Filter(func(r recording.Row) bool { return r.Client == opt.Client })
	}
	if opt.Hand != "" {
		t = t.Filter(func(r recording.Row) bool { return strings.EqualFold(r.Attrs[ColHand], opt.Hand) })
	}
	return t
}

func runExercise(ex analysis.Exercise, table *recording.Table, outDir, client string, aopt analysis.Options, popt report.PlotOptions, log logrus.FieldLogger) ExerciseResult {
	el := log.WithField("exercise", ex.Name)
	sub := table.ForExercise(ex.Name)
	out := ExerciseResult{Name: ex.Name, Rows: sub.Len()}
	if sub.Len() == 0 {
		out.Skipped = true
		el.Debug("no data")
		return out
	}
	out.Sessions = sub.Sessions()

	ar, err := ex.Analyze(sub, aopt)
	if err != nil {
		el.WithError(err).Error("analysis failed")
		out.Err = err
		return out
	}
	out.Result = ar

	plotPath := filepath.Join(outDir, report.PlotFileName(ex.Name))
	if err := report.RenderBoxPlot(ar, client, plotPath, popt); err != nil {
		el.WithError(err).Error("plot failed")
		out.Err = multierr.Append(out.Err, fmt.Errorf("plot: %w", err))
	} else {
		out.PlotPath = plotPath
	}

	summaryPath := filepath.Join(outDir, report.SummaryFileName(ex.Name))
	if err := report.WriteSummaryCSV(ar, summaryPath); err != nil {
		el.WithError(err).Error("summary failed")
		out.Err = multierr.Append(out.Err, fmt.Errorf("summary: %w", err))
	} else {
		out.SummaryPath = summaryPath
	}
	el.WithFields(logrus.Fields{"rows": out.Rows, "sessions": len(out.Sessions)}).Info("analyzed")
	return out
}

func buildManifest(res *Result, dataDir string, started time.Time) *report.Manifest {
	m := &report.Manifest{
		RunID:      res.RunID,
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
		InputDir:   dataDir,
		OutputDir:  res.OutputDir,
		Client:     res.Client,
		Rows:       res.Rows,
	}
	if res.WorkbookPath != "" {
		m.Workbook = filepath.Base(res.WorkbookPath)
	}
	for _, f := range res.Files {
		mf := report.ManifestFile{Path: f.Path, Rows: f.Rows}
		if f.Err != nil {
			mf.Error = f.Err.Error()
		}
		m.Files = append(m.Files, mf)
	}
	for _, ex := range res.Exercises {
		me := report.ManifestEntry{Name: ex.Name, Rows: ex.Rows, Sessions: ex.Sessions, Skipped: ex.Skipped}
		if ex.PlotPath != "" {
			me.Plot = filepath.Base(ex.PlotPath)
		}
		if ex.SummaryPath != "" {
			me.Summary = filepath.Base(ex.SummaryPath)
		}
		if ex.Err != nil {
			me.Error = ex.Err.Error()
		}
		m.Exercises = append(m.Exercises, me)
	}
	return m
}
