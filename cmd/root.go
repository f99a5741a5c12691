package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/leapmetrics-cli/internal/config"
	"github.com/KaramelBytes/leapmetrics-cli/internal/logging"
)

var (
	// Global flags
	cfgFile  string
	debug    bool
	logLevel string
	logFile  string
	logJSON  bool

	// Loaded configuration
	cfg *cfgpkg.Global
	log *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "leapmetrics",
	Short: "leapmetrics: rehabilitation metrics from Leap Motion recordings",
	Long: `leapmetrics reads per-session hand tracking recordings (CSV or XLSX), computes
exercise metrics per session, and writes box plots and summary tables for each exercise.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("✗ Error:"), err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.leapmetrics/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace|debug|info|warn|error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write logs to this rotated file (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "emit logs as JSON")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to defaults via currentConfig
		warnf(os.Stderr, "failed to load config: %v", err)
	} else {
		cfg = c
	}
	log = newLogger()
}

// currentConfig returns the loaded configuration, loading it if the
// initializer did not run or failed.
func currentConfig() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg = c
	return cfg, nil
}

func newLogger() *logrus.Logger {
	params := logging.SetupParams{LogToStderr: true}
	if cfg != nil {
		params.LogLevel = cfg.LogLevel
		params.LogFileName = cfg.LogFile
		params.LogFormatJSON = cfg.LogJSON
	}
	f := rootCmd.PersistentFlags()
	if f.Changed("log-level") {
		params.LogLevel = logLevel
	}
	if f.Changed("log-file") {
		params.LogFileName = logFile
	}
	if f.Changed("log-json") {
		params.LogFormatJSON = logJSON
	}
	if debug {
		params.LogLevel = "debug"
	}
	return logging.Setup(params)
}

func logger() *logrus.Logger {
	if log == nil {
		log = newLogger()
	}
	return log
}

func okf(w io.Writer, format string, a ...interface{}) {
	fmt.Fprintln(w, color.GreenString("✓ "+format, a...))
}

func warnf(w io.Writer, format string, a ...interface{}) {
	fmt.Fprintln(w, color.YellowString("⚠ "+format, a...))
}

func failf(w io.Writer, format string, a ...interface{}) {
	fmt.Fprintln(w, color.RedString("✗ "+format, a...))
}
