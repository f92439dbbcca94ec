// Package signsimilarity computes a structural similarity score between two
// SignWriting notation strings. Glyphs of two signs are matched one-to-one
// under an optimal assignment, their attribute and position distances are
// averaged, and a glyph-count penalty is blended in:
//
//	error = w + meanDistance * (1 - w),  w = (|n-m| / (max(n,m)+1)) ^ 1.5
//	score = (1 - error) ^ 2
//
// Strings holding several signs are aligned sign-to-sign the same way. Both
// Formal SignWriting (FSW) and SignWriting in Unicode (SWU) are accepted.
package signsimilarity

import (
	"context"

	"github.com/baditaflorin/go_sign_similarity/pkg/similarity"
)

type (
	// SignSimilarity scores SignWriting notation strings.
	SignSimilarity = similarity.SignSimilarity
	// Option configures a SignSimilarity.
	Option = similarity.SignSimilarityOption
	// Result holds the outcome of a single similarity computation.
	Result = similarity.Result
	// Weights scale each attribute delta of the glyph distance.
	Weights = similarity.Weights
	// Config holds the tunable constants of the metric.
	Config = similarity.Config
)

// Functional options, see package similarity.
var (
	WithConfig           = similarity.WithConfig
	WithWeights          = similarity.WithWeights
	WithThreshold        = similarity.WithThreshold
	WithLogger           = similarity.WithLogger
	WithoutLogging       = similarity.WithoutLogging
	WithCacheSizes       = similarity.WithCacheSizes
	WithWorkers          = similarity.WithWorkers
	WithProgress         = similarity.WithProgress
	WithScoreCache       = similarity.WithScoreCache
	WithMemoryScoreCache = similarity.WithMemoryScoreCache
	WithRedisScoreCache  = similarity.WithRedisScoreCache
	WithWarmUp           = similarity.WithWarmUp
	WithWarmUpSamples    = similarity.WithWarmUpSamples
)

var (
	DefaultWeights     = similarity.DefaultWeights
	DefaultConfig      = similarity.DefaultConfig
	ErrReferenceLength = similarity.ErrReferenceLength
	ErrNoReferences    = similarity.ErrNoReferences
)

// New creates a SignSimilarity with the provided functional options.
// If no logger is provided, a default logger is created.
func New(opts ...Option) (*SignSimilarity, error) {
	return similarity.New(opts...)
}

// ComputeWithDefaults scores two notation strings with the default
// configuration, logging to stderr.
func ComputeWithDefaults(hypothesis, reference string) Result {
	logger, err := createDefaultLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Close()

	ss, err := New(WithLogger(logger))
	if err != nil {
		panic(err)
	}
	defer ss.Close()

	return ss.Compute(context.Background(), hypothesis, reference)
}
