package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCorpusCommand(ctx *commandContext) *cobra.Command {
	var hypothesesPath string
	var referencePaths []string

	cmd := &cobra.Command{
		Use:   "corpus",
		Short: "Score a corpus of hypotheses against one or more reference files",
		Long: "Each file holds one sign string per line. Line i of every reference file\n" +
			"is a reference for line i of the hypotheses file; the best reference counts.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(hypothesesPath) == "" {
				return errors.New("--hypotheses is required")
			}
			if len(referencePaths) == 0 {
				return errors.New("at least one --references file is required")
			}

			hypotheses, err := readLines(hypothesesPath)
			if err != nil {
				return err
			}
			references := make([][]string, 0, len(referencePaths))
			for _, path := range referencePaths {
				lines, err := readLines(path)
				if err != nil {
					return err
				}
				references = append(references, lines)
			}

			metric, err := ctx.similarity()
			if err != nil {
				return err
			}

			score, err := metric.CorpusScore(cmd.Context(), hypotheses, references)
			if err != nil {
				return fmt.Errorf("corpus score: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %.6f (%d hypotheses, %d reference sets)\n",
				metric.Name(), score, len(hypotheses), len(references))
			return nil
		},
	}

	cmd.Flags().StringVar(&hypothesesPath, "hypotheses", "", "File with one hypothesis per line")
	cmd.Flags().StringArrayVar(&referencePaths, "references", nil, "File with one reference per line (repeatable)")
	return cmd
}
