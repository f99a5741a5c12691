package recording

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// DefaultExcludePattern skips exported summaries sitting next to the recordings.
const DefaultExcludePattern = "metrics"

// LoadOptions controls file discovery.
type LoadOptions struct {
	// ExcludePattern skips any file whose name contains it. Empty disables.
	ExcludePattern string
	Logger         logrus.FieldLogger
}

// FileResult reports the outcome of reading one discovered file.
type FileResult struct {
	Path    string
	Rows    int
	Columns []string
	Err     error
}

// Included reports whether the file contributed rows to the combined table.
func (r FileResult) Included() bool { return r.Err == nil }

// Discover lists the readable recording files directly inside dir, sorted by name.
func Discover(dir string, excludePattern string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if excludePattern != "" && strings.Contains(name, excludePattern) {
			continue
		}
		if ReaderFor(name) == nil {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files, nil
}

// Load reads every recording file in dir and concatenates the valid ones.
// Files that fail to parse or lack the identifying columns are reported in
// the returned results and skipped; the error is non-nil only when dir
// itself cannot be listed.
func Load(dir string, opt LoadOptions) (*Table, []FileResult, error) {
	log := opt.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	files, err := Discover(dir, opt.ExcludePattern)
	if err != nil {
		return nil, nil, err
	}
	combined := NewTable(nil)
	results := make([]FileResult, 0, len(files))
	for _, path := range files {
		fl := log.WithField("file", filepath.Base(path))
		t, err := ReadFile(path)
		if err != nil {
			fl.WithError(err).Warn("skipping file")
			results = append(results, FileResult{Path: path, Err: err})
			continue
		}
		fl.WithFields(logrus.Fields{"rows": t.Len(), "columns": len(t.Columns)}).Debug("loaded file")
		combined.Append(t)
		results = append(results, FileResult{Path: path, Rows: t.Len(), Columns: t.Columns})
	}
	if combined.Len() == 0 {
		log.Warn("no valid data files found")
	} else {
		log.WithField("rows", combined.Len()).Info("combined recordings")
	}
	return combined, results, nil
}
