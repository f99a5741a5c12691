package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/leapmetrics-cli/internal/recording"
)

var (
	insExclude    string
	insSampleRows int
	insOutputPath string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [data-dir]",
	Short: "Load the recordings and print a profile of the combined table",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := currentConfig()
		if err != nil {
			return err
		}
		dir := c.ResolveDataDir()
		if len(args) == 1 {
			dir = args[0]
		}
		exclude := c.ExcludePattern
		if cmd.Flags().Changed("exclude") {
			exclude = insExclude
		}
		out := cmd.OutOrStdout()
		table, files, err := recording.Load(dir, recording.LoadOptions{ExcludePattern: exclude, Logger: logger()})
		if err != nil {
			return err
		}
		for _, f := range files {
			if f.Err != nil {
				warnf(out, "Skipped %s: %v", f.Path, f.Err)
			}
		}
		if table.Len() == 0 {
			warnf(out, "No valid data files found in %s", dir)
			return nil
		}
		recording.NormalizeTime(table)
		md := recording.ProfileTable(table, insSampleRows).Markdown()

		if insOutputPath != "" {
			if err := os.WriteFile(insOutputPath, []byte(md), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			okf(out, "Wrote profile to %s", insOutputPath)
			return nil
		}
		fmt.Fprintln(out, md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&insExclude, "exclude", "", "skip files whose name contains this text")
	inspectCmd.Flags().IntVar(&insSampleRows, "sample-rows", 5, "number of sample rows to include")
	inspectCmd.Flags().StringVarP(&insOutputPath, "output", "o", "", "optional path to write the profile (Markdown)")
}
