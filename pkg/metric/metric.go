// Package metric runs the batch scoring operations over any pairwise metric,
// so that external metrics plug into the same evaluation tooling as the
// structural sign metric.
package metric

import (
	"context"
	"io"

	"github.com/baditaflorin/l"

	"github.com/baditaflorin/go_sign_similarity/internal/adapters/logger"
	"github.com/baditaflorin/go_sign_similarity/internal/adapters/progress"
	"github.com/baditaflorin/go_sign_similarity/internal/core/metric"
	"github.com/baditaflorin/go_sign_similarity/internal/ports"
)

// Metric scores a hypothesis against a reference. Symmetric metrics promise
// Score(a, b) == Score(b, a). A metric with tunable parameters may also
// implement Fingerprint() string; a shared ScoreCache then keeps scores of
// differently configured instances apart.
type Metric interface {
	Name() string
	Symmetric() bool
	Score(hypothesis, reference string) float64
}

// ScoreCache stores computed pair scores.
type ScoreCache = ports.ScoreCache

// MaxScore is the score of an item against itself.
const MaxScore = metric.MaxScore

var (
	// ErrReferenceLength is returned when a reference list does not have one
	// entry per hypothesis.
	ErrReferenceLength = metric.ErrReferenceLength
	// ErrNoReferences is returned when a corpus is scored without references.
	ErrNoReferences = metric.ErrNoReferences
)

// Option configures a Protocol.
type Option func(*protocolConfig)

type protocolConfig struct {
	logger ports.Logger
	opts   []metric.Option
}

// WithWorkers caps the number of rows scored concurrently.
func WithWorkers(n int) Option {
	return func(cfg *protocolConfig) {
		cfg.opts = append(cfg.opts, metric.WithWorkers(n))
	}
}

// WithLogger sets a custom logger.
func WithLogger(l l.Logger) Option {
	return func(cfg *protocolConfig) {
		cfg.logger = logger.FromExisting(l)
	}
}

// WithProgress shows batch progress on stderr when it is a terminal.
func WithProgress() Option {
	return func(cfg *protocolConfig) {
		cfg.opts = append(cfg.opts, metric.WithProgress(progress.NewTerminalReporter()))
	}
}

// WithProgressWriter renders batch progress to w.
func WithProgressWriter(w io.Writer) Option {
	return func(cfg *protocolConfig) {
		cfg.opts = append(cfg.opts, metric.WithProgress(progress.NewBarReporter(w)))
	}
}

// WithScoreCache stores pair scores in c.
func WithScoreCache(c ScoreCache) Option {
	return func(cfg *protocolConfig) {
		cfg.opts = append(cfg.opts, metric.WithScoreCache(c))
	}
}

// Protocol wraps a Metric with the batch operations.
type Protocol struct {
	protocol *metric.Protocol
}

// New wraps m. Without WithLogger the protocol does not log.
func New(m Metric, opts ...Option) *Protocol {
	cfg := &protocolConfig{logger: logger.NewNop()}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Protocol{protocol: metric.NewProtocol(m, cfg.logger, cfg.opts...)}
}

// Name returns the wrapped metric name.
func (p *Protocol) Name() string {
	return p.protocol.Name()
}

// Symmetric reports whether the wrapped metric is symmetric.
func (p *Protocol) Symmetric() bool {
	return p.protocol.Symmetric()
}

// Score scores a single pair.
func (p *Protocol) Score(hypothesis, reference string) float64 {
	return p.protocol.Score(hypothesis, reference)
}

// ScoreAll scores every hypothesis against every reference.
func (p *Protocol) ScoreAll(ctx context.Context, hypotheses, references []string) ([][]float64, error) {
	return p.protocol.ScoreAll(ctx, hypotheses, references)
}

// ScoreMax returns the best score of hypothesis over references.
func (p *Protocol) ScoreMax(ctx context.Context, hypothesis string, references []string) (float64, error) {
	return p.protocol.ScoreMax(ctx, hypothesis, references)
}

// CorpusScore averages the best per-item score over every reference list.
func (p *Protocol) CorpusScore(ctx context.Context, hypotheses []string, references [][]string) (float64, error) {
	return p.protocol.CorpusScore(ctx, hypotheses, references)
}

// ScoreSelf scores every item against every other item.
func (p *Protocol) ScoreSelf(ctx context.Context, items []string) ([][]float64, error) {
	return p.protocol.ScoreSelf(ctx, items)
}

// ValidateCorpusInput checks the corpus shape for metrics that aggregate
// a corpus themselves.
func ValidateCorpusInput(hypotheses []string, references [][]string) error {
	return metric.ValidateCorpusInput(hypotheses, references)
}
