package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/leapmetrics-cli/internal/analysis"
	cfgpkg "github.com/KaramelBytes/leapmetrics-cli/internal/config"
	"github.com/KaramelBytes/leapmetrics-cli/internal/pipeline"
	"github.com/KaramelBytes/leapmetrics-cli/internal/report"
)

var (
	anaOutputDir  string
	anaExclude    string
	anaClient     string
	anaHand       string
	anaFirstFrame string
	anaWidth      float64
	anaHeight     float64
	anaNoWorkbook bool
	anaNoManifest bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [data-dir]",
	Short: "Compute per-session exercise metrics and write plots and summaries",
	Long: `Reads every recording in the data directory (default: configured data_dir or
the working directory), skips files whose name contains the exclude pattern,
and writes <exercise>_plot.png and <exercise>_summary.csv for each exercise
into the output directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		run := *c
		if len(args) == 1 {
			run.DataDir = args[0]
		}
		applyAnalyzeFlags(cmd, &run)
		if err := run.Validate(); err != nil {
			return err
		}

		opt := pipeline.Options{
			DataDir:        run.ResolveDataDir(),
			OutputDir:      run.ResolveOutputDir(),
			ExcludePattern: run.ExcludePattern,
			Client:         run.Client,
			Hand:           run.Hand,
			FirstFrame:     firstFramePolicy(run.FirstFrame),
			Plot:           report.PlotOptions{WidthInches: run.PlotWidthIn, HeightInches: run.PlotHeightIn},
			Workbook:       run.Workbook,
			Manifest:       run.Manifest,
			Logger:         logger(),
		}
		out := cmd.OutOrStdout()
		res, err := pipeline.Run(opt)
		if err != nil {
			if errors.Is(err, pipeline.ErrNoData) {
				warnf(out, "No valid data files found in %s", run.ResolveDataDir())
			}
			return err
		}

		for _, f := range res.Files {
			if f.Err != nil {
				warnf(out, "Skipped %s: %v", filepath.Base(f.Path), f.Err)
			}
		}
		fmt.Fprintf(out, "Loaded %d rows for client %s\n", res.Rows, res.Client)
		for _, ex := range res.Exercises {
			switch {
			case ex.Skipped:
				fmt.Fprintln(out, color.New(color.Faint).Sprintf("- %s: no data", ex.Name))
			case ex.Err != nil:
				failf(out, "%s: %v", ex.Name, ex.Err)
			default:
				okf(out, "%s: %d sessions -> %s, %s", ex.Name, len(ex.Sessions),
					filepath.Base(ex.PlotPath), filepath.Base(ex.SummaryPath))
			}
		}
		if res.WorkbookPath != "" {
			okf(out, "Wrote workbook %s", res.WorkbookPath)
		}
		if res.ManifestPath != "" {
			okf(out, "Wrote manifest %s (run %s)", res.ManifestPath, res.RunID)
		}
		if res.ArtifactErr != nil {
			warnf(out, "%v", res.ArtifactErr)
		}
		fmt.Fprintf(out, "Outputs in %s\n", res.OutputDir)
		return nil
	},
}

func applyAnalyzeFlags(cmd *cobra.Command, c *cfgpkg.Global) {
	f := cmd.Flags()
	if f.Changed("output") {
		c.OutputDir = anaOutputDir
	}
	if f.Changed("exclude") {
		c.ExcludePattern = anaExclude
	}
	if f.Changed("client") {
		c.Client = anaClient
	}
	if f.Changed("hand") {
		c.Hand = anaHand
	}
	if f.Changed("first-frame") {
		c.FirstFrame = anaFirstFrame
	}
	if f.Changed("width") {
		c.PlotWidthIn = anaWidth
	}
	if f.Changed("height") {
		c.PlotHeightIn = anaHeight
	}
	if anaNoWorkbook {
		c.Workbook = false
	}
	if anaNoManifest {
		c.Manifest = false
	}
}

func firstFramePolicy(s string) analysis.FirstFramePolicy {
	if strings.EqualFold(s, cfgpkg.FirstFrameUnclassified) {
		return analysis.FirstFrameUnclassified
	}
	return analysis.FirstFramePronation
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputDir, "output", "o", "", "output directory (default <data-dir>/plots)")
	analyzeCmd.Flags().StringVar(&anaExclude, "exclude", "", "skip files whose name contains this text (default \"metrics\")")
	analyzeCmd.Flags().StringVar(&anaClient, "client", "", "only analyze rows for this client")
	analyzeCmd.Flags().StringVar(&anaHand, "hand", "", "only analyze rows for this hand (left|right)")
	analyzeCmd.Flags().StringVar(&anaFirstFrame, "first-frame", "", "pronation first-frame policy: pronation|unclassified")
	analyzeCmd.Flags().Float64Var(&anaWidth, "width", 0, "plot width in inches")
	analyzeCmd.Flags().Float64Var(&anaHeight, "height", 0, "plot height in inches")
	analyzeCmd.Flags().BoolVar(&anaNoWorkbook, "no-workbook", false, "do not write summary.xlsx")
	analyzeCmd.Flags().BoolVar(&anaNoManifest, "no-manifest", false, "do not write manifest.yaml")
}
