package similarity

import (
	"context"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/baditaflorin/go_sign_similarity/internal/core/assignment"
	"github.com/baditaflorin/go_sign_similarity/internal/core/domain"
	"github.com/baditaflorin/go_sign_similarity/internal/core/glyph"
	"github.com/baditaflorin/go_sign_similarity/internal/pool"
	"github.com/baditaflorin/go_sign_similarity/internal/ports"
)

// Cells per pooled cost-matrix buffer; larger signs grow the buffer.
const defaultMatrixCells = 64

// Calculator implements the structural similarity metric.
type Calculator struct {
	config      SimilarityConfig
	fingerprint string
	logger      ports.Logger
	normalizer  ports.NotationNormalizer
	parser      ports.SignParser
	measurer    *glyph.Measurer
	splits      ports.Cache[string, []string]
	matrices    *pool.MatrixPool
}

// NewCalculator creates a new structural similarity calculator. The split
// cache memoizes notation text to per-sign strings and may be nil.
func NewCalculator(
	config SimilarityConfig,
	logger ports.Logger,
	normalizer ports.NotationNormalizer,
	parser ports.SignParser,
	splits ports.Cache[string, []string],
) (*Calculator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	measurer, err := glyph.NewMeasurer(config.Weights, config.NormalizationExponent)
	if err != nil {
		return nil, err
	}

	return &Calculator{
		config:      config,
		fingerprint: config.Fingerprint(),
		logger:      logger,
		normalizer:  normalizer,
		parser:      parser,
		measurer:    measurer,
		splits:      splits,
		matrices:    pool.NewMatrixPool(defaultMatrixCells),
	}, nil
}

// Name returns the metric name.
func (c *Calculator) Name() string {
	return MetricName
}

// Symmetric reports that Score(a, b) == Score(b, a).
func (c *Calculator) Symmetric() bool {
	return true
}

// Fingerprint identifies the scoring parameters of this calculator.
func (c *Calculator) Fingerprint() string {
	return c.fingerprint
}

// Config returns the configuration the calculator was built with.
func (c *Calculator) Config() SimilarityConfig {
	return c.config
}

// MaxDistance returns the glyph distance normalization constant.
func (c *Calculator) MaxDistance() float64 {
	return c.measurer.MaxDistance()
}

// Score returns the similarity in [0, 1] of two notation strings. An empty
// string stands for an absent input and scores 0.
func (c *Calculator) Score(hypothesis, reference string) float64 {
	if hypothesis == "" || reference == "" {
		return 0
	}

	hypSigns := c.parseAll(hypothesis)
	refSigns := c.parseAll(reference)
	if len(hypSigns) == 0 || len(refSigns) == 0 {
		return 0
	}
	if len(hypSigns) == 1 && len(refSigns) == 1 {
		return c.ScoreSign(hypSigns[0], refSigns[0])
	}
	return c.ScoreSequence(hypSigns, refSigns)
}

// Compute scores two notation strings and reports the outcome as a Result.
func (c *Calculator) Compute(ctx context.Context, hypothesis, reference string) domain.Result {
	c.logger.Debug("Starting sign similarity computation",
		"hypothesis", hypothesis,
		"reference", reference,
	)

	details := make(map[string]interface{})

	select {
	case <-ctx.Done():
		c.logger.Error("Computation cancelled", "error", ctx.Err())
		details["error"] = "computation cancelled"
		return domain.Result{
			Name:    MetricName,
			Score:   0,
			Passed:  false,
			Details: details,
		}
	default:
	}

	hypSigns := c.split(hypothesis)
	refSigns := c.split(reference)
	score := c.Score(hypothesis, reference)
	passed := score >= c.config.Threshold

	details["hypothesis_signs"] = len(hypSigns)
	details["reference_signs"] = len(refSigns)
	details["max_distance"] = c.measurer.MaxDistance()
	details["threshold"] = c.config.Threshold

	c.logger.Debug("Computed sign similarity",
		"score", score,
		"passed", passed,
		"details", details,
	)

	return domain.Result{
		Name:            MetricName,
		Score:           score,
		Passed:          passed,
		HypothesisSigns: len(hypSigns),
		ReferenceSigns:  len(refSigns),
		Threshold:       c.config.Threshold,
		Details:         details,
	}
}

// ScoreSign returns the similarity of two parsed signs.
func (c *Calculator) ScoreSign(hypothesis, reference domain.Sign) float64 {
	errorRate := math.Min(c.ErrorRate(hypothesis, reference), 1)
	return (1 - errorRate) * (1 - errorRate)
}

// ErrorRate returns the blended error of two parsed signs. A sign without
// glyphs on either side, including both, is a total mismatch.
func (c *Calculator) ErrorRate(hypothesis, reference domain.Sign) float64 {
	if hypothesis.Empty() || reference.Empty() {
		return 1
	}

	hyp, ref := hypothesis.Glyphs, reference.Glyphs
	matrix := c.matrices.Get(len(hyp), len(ref))
	defer c.matrices.Put(matrix)

	for i := range hyp {
		for j := range ref {
			matrix.Rows[i][j] = c.measurer.Normalized(hyp[i], ref[j])
		}
	}

	matched := assignment.Matched(matrix.Rows, assignment.Solve(matrix.Rows))
	meanCost := stat.Mean(matched, nil)

	weight := LengthWeight(LengthRatio(len(hyp), len(ref)), c.config.LengthExponent)
	return BlendErrorRate(weight, meanCost)
}

func (c *Calculator) split(text string) []string {
	if c.splits == nil {
		return c.normalizer.Split(text)
	}
	if signs, ok := c.splits.Get(text); ok {
		return signs
	}
	signs := c.normalizer.Split(text)
	c.splits.Add(text, signs)
	return signs
}

func (c *Calculator) parseAll(text string) []domain.Sign {
	parts := c.split(text)
	signs := make([]domain.Sign, len(parts))
	for i, part := range parts {
		signs[i] = c.parser.Parse(part)
	}
	return signs
}
