// Package similarity provides the structural SignWriting similarity metric
// together with its batch scoring operations.
package similarity

import (
	"context"
	"io"
	"time"

	"github.com/baditaflorin/l"

	"github.com/baditaflorin/go_sign_similarity/internal/adapters/cache"
	"github.com/baditaflorin/go_sign_similarity/internal/adapters/logger"
	"github.com/baditaflorin/go_sign_similarity/internal/adapters/normalizer"
	"github.com/baditaflorin/go_sign_similarity/internal/adapters/parser"
	"github.com/baditaflorin/go_sign_similarity/internal/adapters/progress"
	"github.com/baditaflorin/go_sign_similarity/internal/core/domain"
	"github.com/baditaflorin/go_sign_similarity/internal/core/glyph"
	"github.com/baditaflorin/go_sign_similarity/internal/core/metric"
	"github.com/baditaflorin/go_sign_similarity/internal/core/similarity"
	"github.com/baditaflorin/go_sign_similarity/internal/ports"
	"github.com/baditaflorin/go_sign_similarity/internal/warmup"
)

type (
	// Weights scale each attribute delta of the glyph distance.
	Weights = glyph.Weights
	// Config holds the tunable constants of the metric.
	Config = similarity.SimilarityConfig
	// Result holds the outcome of a single similarity computation.
	Result = domain.Result
	// ScoreCache stores computed pair scores.
	ScoreCache = ports.ScoreCache
	// RedisConfig configures a Redis backed score cache.
	RedisConfig = cache.RedisConfig
	// WarmupConfig configures cache warm-up.
	WarmupConfig = warmup.WarmupConfig
)

// MetricName identifies the structural metric.
const MetricName = similarity.MetricName

var (
	// ErrReferenceLength is returned when a reference list does not have one
	// entry per hypothesis.
	ErrReferenceLength = metric.ErrReferenceLength
	// ErrNoReferences is returned when a corpus is scored without references.
	ErrNoReferences = metric.ErrNoReferences
)

// Default cache limits. Zero keeps every entry.
const (
	DefaultAttributeCacheSize = 0
	DefaultSignCacheSize      = 10000
	DefaultSplitCacheSize     = 10000
)

const redisConnectTimeout = 5 * time.Second

// DefaultWeights returns the default distance weights.
func DefaultWeights() Weights {
	return glyph.DefaultWeights()
}

// DominantCategoryPenalty returns the smallest CategoryPenalty for which every
// cross-category glyph pair is farther apart than any same-category pair.
// The default penalty is below it.
func DominantCategoryPenalty(w Weights) float64 {
	return glyph.DominantCategoryPenalty(w)
}

// DefaultConfig returns the default metric configuration.
func DefaultConfig() Config {
	return similarity.DefaultConfig()
}

// DefaultWarmupConfig returns the default warm-up configuration.
func DefaultWarmupConfig() WarmupConfig {
	return warmup.DefaultWarmupConfig()
}

// SignSimilarity scores SignWriting notation strings.
type SignSimilarity struct {
	calculator *similarity.Calculator
	protocol   *metric.Protocol
	logger     ports.Logger
	normalizer ports.NotationNormalizer
	scoreCache ports.ScoreCache
	ownsCache  bool
	warmed     bool
}

// SignSimilarityOption defines a functional option for configuring SignSimilarity.
type SignSimilarityOption func(*signSimilarityConfig)

type signSimilarityConfig struct {
	Metric         Config
	Logger         ports.Logger
	AttributeCache int
	SignCache      int
	SplitCache     int
	Workers        int
	Progress       ports.ProgressReporter
	ScoreCache     ports.ScoreCache
	ScoreCacheSize int
	Redis          *RedisConfig
	WarmUp         bool
	WarmUpConfig   WarmupConfig
	WarmUpSamples  []string
}

// WithConfig replaces the whole metric configuration.
func WithConfig(c Config) SignSimilarityOption {
	return func(cfg *signSimilarityConfig) {
		cfg.Metric = c
	}
}

// WithWeights sets custom glyph distance weights.
func WithWeights(w Weights) SignSimilarityOption {
	return func(cfg *signSimilarityConfig) {
		cfg.Metric.Weights = w
	}
}

// WithThreshold sets the score a result needs to pass.
func WithThreshold(th float64) SignSimilarityOption {
	return func(cfg *signSimilarityConfig) {
		cfg.Metric.Threshold = th
	}
}

// WithNormalizationExponent sets the exponent applied to normalized glyph distances.
func WithNormalizationExponent(e float64) SignSimilarityOption {
	return func(cfg *signSimilarityConfig) {
		cfg.Metric.NormalizationExponent = e
	}
}

// WithLengthExponent sets the exponent applied to the glyph-count mismatch ratio.
func WithLengthExponent(e float64) SignSimilarityOption {
	return func(cfg *signSimilarityConfig) {
		cfg.Metric.LengthExponent = e
	}
}

// WithLogger sets a custom logger.
func WithLogger(l l.Logger) SignSimilarityOption {
	return func(cfg *signSimilarityConfig) {
		cfg.Logger = logger.FromExisting(l)
	}
}

// WithoutLogging discards all log output.
func WithoutLogging() SignSimilarityOption {
	return func(cfg *signSimilarityConfig) {
		cfg.Logger = logger.NewNop()
	}
}

// WithCacheSizes bounds the attribute, parsed sign and split caches. Zero
// keeps every entry.
func WithCacheSizes(attributes, signs, splits int) SignSimilarityOption {
	return func(cfg *signSimilarityConfig) {
		cfg.AttributeCache = attributes
		cfg.SignCache = signs
		cfg.SplitCache = splits
	}
}

// WithWorkers caps how many rows batch operations score concurrently.
func WithWorkers(n int) SignSimilarityOption {
	return func(cfg *signSimilarityConfig) {
		cfg.Workers = n
	}
}

// WithProgress shows a progress bar on stderr for batch operations when
// stderr is a terminal.
func WithProgress(enable bool) SignSimilarityOption {
	return func(cfg *signSimilarityConfig) {
		if enable {
			cfg.Progress = progress.NewTerminalReporter()
		} else {
			cfg.Progress = nil
		}
	}
}

// WithProgressWriter renders batch progress to w.
func WithProgressWriter(w io.Writer) SignSimilarityOption {
	return func(cfg *signSimilarityConfig) {
		cfg.Progress = progress.NewBarReporter(w)
	}
}

// WithScoreCache stores pair scores in c. The caller keeps ownership of c.
func WithScoreCache(c ScoreCache) SignSimilarityOption {
	return func(cfg *signSimilarityConfig) {
		cfg.ScoreCache = c
	}
}

// WithMemoryScoreCache keeps up to size pair scores in memory.
func WithMemoryScoreCache(size int) SignSimilarityOption {
	return func(cfg *signSimilarityConfig) {
		cfg.ScoreCacheSize = size
		cfg.Redis = nil
	}
}

// WithRedisScoreCache shares pair scores through Redis.
func WithRedisScoreCache(rc RedisConfig) SignSimilarityOption {
	return func(cfg *signSimilarityConfig) {
		cfg.Redis = &rc
		cfg.ScoreCacheSize = 0
	}
}

// WithWarmUp enables cache warm-up on initialization.
func WithWarmUp(enable bool) SignSimilarityOption {
	return func(cfg *signSimilarityConfig) {
		cfg.WarmUp = enable
	}
}

// WithWarmUpConfig sets a custom warm-up configuration.
func WithWarmUpConfig(config WarmupConfig) SignSimilarityOption {
	return func(cfg *signSimilarityConfig) {
		cfg.WarmUpConfig = config
		cfg.WarmUp = true
	}
}

// WithWarmUpSamples adds notation strings scored during warm-up.
func WithWarmUpSamples(samples ...string) SignSimilarityOption {
	return func(cfg *signSimilarityConfig) {
		cfg.WarmUpSamples = append(cfg.WarmUpSamples, samples...)
		cfg.WarmUp = true
	}
}

// New creates a new SignSimilarity instance.
func New(opts ...SignSimilarityOption) (*SignSimilarity, error) {
	config := &signSimilarityConfig{
		Metric:         similarity.DefaultConfig(),
		AttributeCache: DefaultAttributeCacheSize,
		SignCache:      DefaultSignCacheSize,
		SplitCache:     DefaultSplitCacheSize,
		WarmUpConfig:   warmup.DefaultWarmupConfig(),
	}

	for _, opt := range opts {
		opt(config)
	}

	if config.Logger == nil {
		var err error
		config.Logger, err = logger.NewStdLogger()
		if err != nil {
			return nil, err
		}
	}

	attributes, err := cache.New[string, domain.Attributes](config.AttributeCache)
	if err != nil {
		return nil, err
	}
	signs, err := cache.New[string, domain.Sign](config.SignCache)
	if err != nil {
		return nil, err
	}
	splits, err := cache.New[string, []string](config.SplitCache)
	if err != nil {
		return nil, err
	}

	norm := normalizer.NewNotationNormalizer()
	fsw := parser.NewFSWParser(glyph.NewExtractor(attributes), signs)
	calculator, err := similarity.NewCalculator(config.Metric, config.Logger, norm, fsw, splits)
	if err != nil {
		return nil, err
	}

	scoreCache, owned, err := buildScoreCache(config)
	if err != nil {
		return nil, err
	}

	protocolOpts := []metric.Option{metric.WithWorkers(config.Workers)}
	if config.Progress != nil {
		protocolOpts = append(protocolOpts, metric.WithProgress(config.Progress))
	}
	if scoreCache != nil {
		protocolOpts = append(protocolOpts, metric.WithScoreCache(scoreCache))
	}

	ss := &SignSimilarity{
		calculator: calculator,
		protocol:   metric.NewProtocol(calculator, config.Logger, protocolOpts...),
		logger:     config.Logger,
		normalizer: norm,
		scoreCache: scoreCache,
		ownsCache:  owned,
	}

	if config.WarmUp {
		ss.WarmUp(context.Background(), config.WarmUpConfig, config.WarmUpSamples...)
	}

	return ss, nil
}

func buildScoreCache(config *signSimilarityConfig) (ports.ScoreCache, bool, error) {
	switch {
	case config.ScoreCache != nil:
		return config.ScoreCache, false, nil
	case config.Redis != nil:
		ctx, cancel := context.WithTimeout(context.Background(), redisConnectTimeout)
		defer cancel()
		rc, err := cache.NewRedisScoreCache(ctx, *config.Redis)
		if err != nil {
			return nil, false, err
		}
		return rc, true, nil
	case config.ScoreCacheSize > 0:
		mc, err := cache.NewMemoryScoreCache(config.ScoreCacheSize)
		if err != nil {
			return nil, false, err
		}
		return mc, true, nil
	}
	return nil, false, nil
}

// Name returns the metric name.
func (ss *SignSimilarity) Name() string {
	return ss.calculator.Name()
}

// Symmetric reports that scores do not depend on argument order.
func (ss *SignSimilarity) Symmetric() bool {
	return ss.calculator.Symmetric()
}

// Config returns the metric configuration in use.
func (ss *SignSimilarity) Config() Config {
	return ss.calculator.Config()
}

// MaxDistance returns the glyph distance used for normalization.
func (ss *SignSimilarity) MaxDistance() float64 {
	return ss.calculator.MaxDistance()
}

// Normalize converts notation text to canonical FSW.
func (ss *SignSimilarity) Normalize(text string) string {
	return ss.normalizer.Normalize(text)
}

// Score returns the similarity in [0, 1] of two notation strings. Both FSW
// and SWU input is accepted; an empty string scores 0.
func (ss *SignSimilarity) Score(hypothesis, reference string) float64 {
	return ss.protocol.Score(hypothesis, reference)
}

// Compute scores two notation strings and reports the details.
func (ss *SignSimilarity) Compute(ctx context.Context, hypothesis, reference string) Result {
	return ss.calculator.Compute(ctx, hypothesis, reference)
}

// ScoreAll scores every hypothesis against every reference.
func (ss *SignSimilarity) ScoreAll(ctx context.Context, hypotheses, references []string) ([][]float64, error) {
	return ss.protocol.ScoreAll(ctx, hypotheses, references)
}

// ScoreMax returns the best score of hypothesis over references.
func (ss *SignSimilarity) ScoreMax(ctx context.Context, hypothesis string, references []string) (float64, error) {
	return ss.protocol.ScoreMax(ctx, hypothesis, references)
}

// CorpusScore averages the best per-item score over every reference list.
func (ss *SignSimilarity) CorpusScore(ctx context.Context, hypotheses []string, references [][]string) (float64, error) {
	return ss.protocol.CorpusScore(ctx, hypotheses, references)
}

// ScoreSelf scores every item against every other item.
func (ss *SignSimilarity) ScoreSelf(ctx context.Context, items []string) ([][]float64, error) {
	return ss.protocol.ScoreSelf(ctx, items)
}

// WarmUp populates the caches by scoring generated and given samples.
func (ss *SignSimilarity) WarmUp(ctx context.Context, config WarmupConfig, samples ...string) {
	if ss.warmed {
		ss.logger.Debug("Caches already warmed up, skipping")
		return
	}

	warmupMgr := warmup.NewManager(ss.logger, config)
	warmupMgr.RegisterCalculator(ss.calculator)
	warmupMgr.RegisterNormalizer(ss.normalizer)
	warmupMgr.AddSamples(samples...)

	warmupMgr.WarmUp(ctx)
	ss.warmed = true
}

// Close releases the score cache when it was created by New.
func (ss *SignSimilarity) Close() error {
	if ss.ownsCache && ss.scoreCache != nil {
		return ss.scoreCache.Close()
	}
	return nil
}
