package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/leapmetrics-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set leapmetrics configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "data_dir: %s\n", cfg.DataDir)
		fmt.Fprintf(out, "output_dir: %s\n", cfg.OutputDir)
		fmt.Fprintf(out, "exclude_pattern: %s\n", cfg.ExcludePattern)
		if cfg.Client != "" {
			fmt.Fprintf(out, "client: %s\n", cfg.Client)
		}
		if cfg.Hand != "" {
			fmt.Fprintf(out, "hand: %s\n", cfg.Hand)
		}
		fmt.Fprintf(out, "first_frame: %s\n", cfg.FirstFrame)
		fmt.Fprintf(out, "plot_width_in: %g\n", cfg.PlotWidthIn)
		fmt.Fprintf(out, "plot_height_in: %g\n", cfg.PlotHeightIn)
		fmt.Fprintf(out, "workbook: %t\n", cfg.Workbook)
		fmt.Fprintf(out, "manifest: %t\n", cfg.Manifest)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		if cfg.LogFile != "" {
			fmt.Fprintf(out, "log_file: %s\n", cfg.LogFile)
		}
		fmt.Fprintf(out, "log_json: %t\n", cfg.LogJSON)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c, err := currentConfig()
		if err != nil {
			return err
		}
		switch key {
		case "data_dir":
			c.DataDir = val
		case "output_dir":
			c.OutputDir = val
		case "exclude_pattern":
			c.ExcludePattern = val
		case "client":
			c.Client = val
		case "hand":
			c.Hand = val
		case "first_frame":
			c.FirstFrame = strings.ToLower(val)
		case "plot_width_in", "plot_height_in":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid float for %s: %v", key, val)
			}
			if key == "plot_width_in" {
				c.PlotWidthIn = f
			} else {
				c.PlotHeightIn = f
			}
		case "workbook", "manifest", "log_json":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool for %s: %w", key, err)
			}
			switch key {
			case "workbook":
				c.Workbook = b
			case "manifest":
				c.Manifest = b
			default:
				c.LogJSON = b
			}
		case "log_level":
			c.LogLevel = strings.ToLower(val)
		case "log_file":
			c.LogFile = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		okf(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
