package main

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newClosestCommand(ctx *commandContext) *cobra.Command {
	var signsPath string
	var query string
	var top int

	cmd := &cobra.Command{
		Use:   "closest",
		Short: "Rank the signs of a file by similarity",
		Long: "With --query, lists the signs of the file closest to the query.\n" +
			"Without it, lists the nearest neighbour of every sign in the file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(signsPath) == "" {
				return errors.New("--signs is required")
			}
			signs, err := readLines(signsPath)
			if err != nil {
				return err
			}

			metric, err := ctx.similarity()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if query == "" {
				scores, err := metric.ScoreSelf(cmd.Context(), signs)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, renderNeighbours(signs, scores))
				return nil
			}

			scores, err := metric.ScoreAll(cmd.Context(), []string{query}, signs)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, renderRanking(signs, scores[0], top))
			return nil
		},
	}

	cmd.Flags().StringVar(&signsPath, "signs", "", "File with one sign string per line")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Sign string to rank the file against")
	cmd.Flags().IntVarP(&top, "top", "n", 10, "Number of matches to show (0 shows all)")
	return cmd
}

type match struct {
	index int
	score float64
}

// rank orders candidates by descending score; ties keep file order.
func rank(scores []float64, skip int) []match {
	matches := make([]match, 0, len(scores))
	for i, score := range scores {
		if i == skip {
			continue
		}
		matches = append(matches, match{index: i, score: score})
	}
	sort.SliceStable(matches, func(a, b int) bool {
		return matches[a].score > matches[b].score
	})
	return matches
}

func renderRanking(signs []string, scores []float64, top int) string {
	matches := rank(scores, -1)
	if top > 0 && top < len(matches) {
		matches = matches[:top]
	}

	rows := make([][]string, 0, len(matches))
	for i, m := range matches {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(m.index + 1),
			fmt.Sprintf("%.4f", m.score),
			signs[m.index],
		})
	}
	return renderTable([]string{"Rank", "Line", "Score", "Sign"}, rows,
		[]columnAlignment{alignRight, alignRight, alignRight, alignLeft})
}

func renderNeighbours(signs []string, scores [][]float64) string {
	rows := make([][]string, 0, len(signs))
	for i := range signs {
		matches := rank(scores[i], i)
		if len(matches) == 0 {
			continue
		}
		best := matches[0]
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			signs[i],
			strconv.Itoa(best.index + 1),
			fmt.Sprintf("%.4f", best.score),
		})
	}
	return renderTable([]string{"Line", "Sign", "Closest", "Score"}, rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignRight})
}
