package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/leapmetrics-cli/internal/analysis"
)

var exercisesVerbose bool

var exercisesCmd = &cobra.Command{
	Use:   "exercises [name]",
	Short: "List the analyzed exercises and the columns each needs",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		list := analysis.Exercises
		if len(args) == 1 {
			ex, ok := analysis.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown exercise: %s", args[0])
			}
			list = []analysis.Exercise{ex}
		}
		for _, ex := range list {
			fmt.Fprintf(out, "%-22s %s\n", ex.Name, ex.Quantity)
			if exercisesVerbose || len(args) == 1 {
				fmt.Fprintf(out, "  columns: %s\n", strings.Join(ex.Columns, ", "))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exercisesCmd)
	exercisesCmd.Flags().BoolVarP(&exercisesVerbose, "verbose", "v", false, "show required columns")
}
