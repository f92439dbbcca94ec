package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newScoreCommand(ctx *commandContext) *cobra.Command {
	var details bool

	cmd := &cobra.Command{
		Use:   "score HYPOTHESIS REFERENCE",
		Short: "Score a hypothesis sign string against a reference",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			metric, err := ctx.similarity()
			if err != nil {
				return err
			}

			result := metric.Compute(cmd.Context(), args[0], args[1])
			out := cmd.OutOrStdout()
			if !details {
				fmt.Fprintf(out, "%.6f\n", result.Score)
				return nil
			}

			rows := [][]string{
				{"Metric", result.Name},
				{"Score", fmt.Sprintf("%.6f", result.Score)},
				{"Passed", fmt.Sprintf("%t", result.Passed)},
				{"Threshold", fmt.Sprintf("%.2f", result.Threshold)},
				{"Hypothesis signs", fmt.Sprintf("%d", result.HypothesisSigns)},
				{"Reference signs", fmt.Sprintf("%d", result.ReferenceSigns)},
			}
			fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&details, "details", "d", false, "Show a table with the full result")
	return cmd
}
