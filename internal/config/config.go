package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// DataDir holds the recording files; empty means the working directory.
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`
	// OutputDir receives plots and summaries; relative paths resolve against DataDir.
	OutputDir      string `mapstructure:"output_dir" yaml:"output_dir"`
	ExcludePattern string `mapstructure:"exclude_pattern" yaml:"exclude_pattern"`

	// Filters applied after loading
	Client string `mapstructure:"client" yaml:"client"`
	Hand   string `mapstructure:"hand" yaml:"hand"`

	// FirstFrame is "pronation" or "unclassified".
	FirstFrame string `mapstructure:"first_frame" yaml:"first_frame"`

	PlotWidthIn  float64 `mapstructure:"plot_width_in" yaml:"plot_width_in"`
	PlotHeightIn float64 `mapstructure:"plot_height_in" yaml:"plot_height_in"`
	Workbook     bool    `mapstructure:"workbook" yaml:"workbook"`
	Manifest     bool    `mapstructure:"manifest" yaml:"manifest"`

	// Logging
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	LogFile  string `mapstructure:"log_file" yaml:"log_file"`
	LogJSON  bool   `mapstructure:"log_json" yaml:"log_json"`
}

// FirstFrame policies accepted in config.
const (
	FirstFramePronation    = "pronation"
	FirstFrameUnclassified = "unclassified"
)

// Validate checks enumerated fields and numeric ranges.
func (c *Global) Validate() error {
	switch strings.ToLower(c.FirstFrame) {
	case FirstFramePronation, FirstFrameUnclassified:
	default:
		return fmt.Errorf("invalid first_frame: %s (use pronation or unclassified)", c.FirstFrame)
	}
	if c.PlotWidthIn <= 0 || c.PlotHeightIn <= 0 {
		return fmt.Errorf("plot size must be positive, got %gx%g", c.PlotWidthIn, c.PlotHeightIn)
	}
	return nil
}

// ResolveDataDir returns DataDir, or "." when unset.
func (c *Global) ResolveDataDir() string {
	if c.DataDir == "" {
		return "."
	}
	return c.DataDir
}

// ResolveOutputDir returns OutputDir, joined onto the data directory when relative.
func (c *Global) ResolveOutputDir() string {
	if filepath.IsAbs(c.OutputDir) {
		return c.OutputDir
	}
	return filepath.Join(c.ResolveDataDir(), c.OutputDir)
}

// DefaultPath returns ~/.leapmetrics/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".leapmetrics", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.leapmetrics/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (applied by the caller) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("LEAPMETRICS")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data_dir", "")
	v.SetDefault("output_dir", "plots")
	v.SetDefault("exclude_pattern", "metrics")
	v.SetDefault("client", "")
	v.SetDefault("hand", "")
	v.SetDefault("first_frame", FirstFramePronation)
	v.SetDefault("plot_width_in", 14.0)
	v.SetDefault("plot_height_in", 10.0)
	v.SetDefault("workbook", true)
	v.SetDefault("manifest", true)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("log_json", false)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, ".leapmetrics"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
