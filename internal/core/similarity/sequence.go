package similarity

import (
	"gonum.org/v1/gonum/stat"

	"github.com/baditaflorin/go_sign_similarity/internal/core/assignment"
	"github.com/baditaflorin/go_sign_similarity/internal/core/domain"
)

// ScoreSequence aligns two sign sequences one-to-one and returns the mean
// similarity of the aligned pairs. The shorter side is padded with empty
// signs, which score 0 against anything.
func (c *Calculator) ScoreSequence(hypotheses, references []domain.Sign) float64 {
	n := max(len(hypotheses), len(references))
	if n == 0 {
		return 0
	}
	hypotheses = pad(hypotheses, n)
	references = pad(references, n)

	scores := c.matrices.Get(n, n)
	defer c.matrices.Put(scores)
	costs := c.matrices.Get(n, n)
	defer c.matrices.Put(costs)

	for i, hyp := range hypotheses {
		for j, ref := range references {
			score := c.ScoreSign(hyp, ref)
			scores.Rows[i][j] = score
			costs.Rows[i][j] = 1 - score
		}
	}

	assign := assignment.Solve(costs.Rows)
	return stat.Mean(assignment.Matched(scores.Rows, assign), nil)
}

func pad(signs []domain.Sign, n int) []domain.Sign {
	if len(signs) >= n {
		return signs
	}
	padded := make([]domain.Sign, n)
	copy(padded, signs)
	return padded
}
