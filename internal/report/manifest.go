package report

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/leapmetrics-cli/internal/utils"
)

// ManifestFileName is the run record written next to the plots.
const ManifestFileName = "manifest.yaml"

// Manifest records what one run read and produced.
type Manifest struct {
	RunID      string          `yaml:"run_id"`
	StartedAt  time.Time       `yaml:"started_at"`
	FinishedAt time.Time       `yaml:"finished_at"`
	InputDir   string          `yaml:"input_dir"`
	OutputDir  string          `yaml:"output_dir"`
	Client     string          `yaml:"client,omitempty"`
	Rows       int             `yaml:"rows"`
	Files      []ManifestFile  `yaml:"files"`
	Exercises  []ManifestEntry `yaml:"exercises"`
	Workbook   string          `yaml:"workbook,omitempty"`
}

type ManifestFile struct {
	Path  string `yaml:"path"`
	Rows  int    `yaml:"rows"`
	Error string `yaml:"error,omitempty"`
}

type ManifestEntry struct {
	Name     string `yaml:"name"`
	Rows     int    `yaml:"rows"`
	Sessions []int  `yaml:"sessions,flow,omitempty"`
	Plot     string `yaml:"plot,omitempty"`
	Summary  string `yaml:"summary,omitempty"`
	Skipped  bool   `yaml:"skipped,omitempty"`
	Error    string `yaml:"error,omitempty"`
}

// WriteManifest marshals m to YAML at path.
func WriteManifest(m *Manifest, path string) error {
	b, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	return utils.SafeWriteFile(path, b)
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(b []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}
