// Package metric implements the batch scoring protocol shared by every
// similarity metric: single pairs, all pairs, best-of-many references, corpus
// aggregation and the symmetric self-similarity shortcut.
package metric

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/baditaflorin/go_sign_similarity/internal/ports"
)

// MaxScore is the score of an item against itself.
const MaxScore = 1.0

var (
	// ErrReferenceLength is returned when a reference list does not have one
	// entry per hypothesis.
	ErrReferenceLength = errors.New("reference list length does not match hypotheses")
	// ErrNoReferences is returned when a corpus is scored without references.
	ErrNoReferences = errors.New("at least one reference list is required")
)

// Option configures a Protocol.
type Option func(*Protocol)

// WithWorkers caps the number of rows scored concurrently. Values below one
// select GOMAXPROCS.
func WithWorkers(workers int) Option {
	return func(p *Protocol) {
		if workers < 1 {
			workers = runtime.GOMAXPROCS(0)
		}
		p.workers = workers
	}
}

// WithProgress reports batch progress to reporter.
func WithProgress(reporter ports.ProgressReporter) Option {
	return func(p *Protocol) {
		p.progress = reporter
	}
}

// WithScoreCache consults cache before scoring a pair and fills it afterwards.
func WithScoreCache(cache ports.ScoreCache) Option {
	return func(p *Protocol) {
		p.cache = cache
	}
}

// Protocol runs batch operations over a pairwise scorer.
type Protocol struct {
	scorer   ports.SimilarityCalculator
	logger   ports.Logger
	workers  int
	progress ports.ProgressReporter
	cache    ports.ScoreCache

	// namespace partitions the score cache by metric and parameters.
	namespace string
}

// NewProtocol wraps scorer with the batch operations.
func NewProtocol(scorer ports.SimilarityCalculator, logger ports.Logger, opts ...Option) *Protocol {
	p := &Protocol{
		scorer:  scorer,
		logger:  logger,
		workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.namespace = cacheNamespace(scorer)
	return p
}

// cacheNamespace is the metric name, suffixed with the parameter fingerprint
// when the scorer has one.
func cacheNamespace(scorer ports.SimilarityCalculator) string {
	name := scorer.Name()
	if f, ok := scorer.(ports.Fingerprinter); ok {
		if fp := f.Fingerprint(); fp != "" {
			return name + "@" + fp
		}
	}
	return name
}

// Name returns the wrapped metric name.
func (p *Protocol) Name() string {
	return p.scorer.Name()
}

// Symmetric reports whether the wrapped metric is symmetric.
func (p *Protocol) Symmetric() bool {
	return p.scorer.Symmetric()
}

// Score scores a single pair.
func (p *Protocol) Score(hypothesis, reference string) float64 {
	return p.score(context.Background(), hypothesis, reference)
}

// ScoreAll scores every hypothesis against every reference. Row i holds the
// scores of hypotheses[i].
func (p *Protocol) ScoreAll(ctx context.Context, hypotheses, references []string) ([][]float64, error) {
	scores := make([][]float64, len(hypotheses))
	if len(hypotheses) == 0 {
		return scores, nil
	}

	progress := p.start(len(hypotheses), "Scoring "+p.scorer.Name())
	defer progress.Finish()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, hyp := range hypotheses {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			row := make([]float64, len(references))
			for j, ref := range references {
				row[j] = p.score(gctx, hyp, ref)
			}
			scores[i] = row
			progress.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return scores, nil
}

// ScoreMax returns the best score of hypothesis over references, or 0 when
// there are no references.
func (p *Protocol) ScoreMax(ctx context.Context, hypothesis string, references []string) (float64, error) {
	if len(references) == 0 {
		return 0, nil
	}
	scores, err := p.ScoreAll(ctx, []string{hypothesis}, references)
	if err != nil {
		return 0, err
	}
	return floats.Max(scores[0]), nil
}

// CorpusScore averages, over all hypotheses, the best score against the
// references at the same position. Each entry of references is one complete
// reference variant of the corpus.
func (p *Protocol) CorpusScore(ctx context.Context, hypotheses []string, references [][]string) (float64, error) {
	if err := ValidateCorpusInput(hypotheses, references); err != nil {
		return 0, err
	}
	if len(hypotheses) == 0 {
		return 0, nil
	}

	p.logger.Debug("Scoring corpus",
		"metric", p.scorer.Name(),
		"hypotheses", len(hypotheses),
		"reference_sets", len(references),
	)

	progress := p.start(len(hypotheses), "Scoring corpus")
	defer progress.Finish()

	best := make([]float64, len(hypotheses))
	candidates := make([]string, len(references))
	for i, hyp := range hypotheses {
		for k, set := range references {
			candidates[k] = set[i]
		}
		score, err := p.ScoreMax(ctx, hyp, candidates)
		if err != nil {
			return 0, err
		}
		best[i] = score
		progress.Add(1)
	}

	return stat.Mean(best, nil), nil
}

// ScoreSelf scores every item against every other item. Symmetric metrics
// only compute the upper triangle and report MaxScore on the diagonal.
func (p *Protocol) ScoreSelf(ctx context.Context, items []string) ([][]float64, error) {
	if !p.scorer.Symmetric() {
		return p.ScoreAll(ctx, items, items)
	}

	n := len(items)
	scores := make([][]float64, n)
	for i := range scores {
		scores[i] = make([]float64, n)
		scores[i][i] = MaxScore
	}
	if n == 0 {
		return scores, nil
	}

	progress := p.start(n, "Scoring "+p.scorer.Name())
	defer progress.Finish()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i := range items {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// Each worker owns row i to the right of the diagonal and column i
			// below it, so writes never overlap.
			for j := i + 1; j < n; j++ {
				score := p.score(gctx, items[i], items[j])
				scores[i][j] = score
				scores[j][i] = score
			}
			progress.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return scores, nil
}

// ValidateCorpusInput checks that there is at least one reference list and
// that every list has one entry per hypothesis.
func ValidateCorpusInput(hypotheses []string, references [][]string) error {
	if len(references) == 0 {
		return ErrNoReferences
	}
	for i, set := range references {
		if len(set) != len(hypotheses) {
			return fmt.Errorf("%w: reference list %d has %d items, expected %d",
				ErrReferenceLength, i, len(set), len(hypotheses))
		}
	}
	return nil
}

func (p *Protocol) score(ctx context.Context, hypothesis, reference string) float64 {
	if p.cache == nil {
		return p.scorer.Score(hypothesis, reference)
	}

	name := p.namespace
	if score, ok, err := p.cache.Get(ctx, name, hypothesis, reference); err != nil {
		p.logger.Warn("Score cache lookup failed", "metric", name, "error", err)
	} else if ok {
		return score
	}

	score := p.scorer.Score(hypothesis, reference)
	if err := p.cache.Set(ctx, name, hypothesis, reference, score); err != nil {
		p.logger.Warn("Score cache store failed", "metric", name, "error", err)
	}
	return score
}

// start begins progress reporting; single items and unset reporters skip it.
func (p *Protocol) start(total int, description string) ports.Progress {
	if p.progress == nil || total <= 1 {
		return nopProgress{}
	}
	return p.progress.Start(total, description)
}

type nopProgress struct{}

func (nopProgress) Add(int) {}
func (nopProgress) Finish() {}
