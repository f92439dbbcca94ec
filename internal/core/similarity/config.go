// Package similarity implements the structural SignWriting similarity metric:
// glyphs are matched one-to-one under an optimal assignment, the mean matched
// distance is blended with a glyph-count penalty, and multi-sign strings are
// aligned sign-to-sign the same way.
//
//	error      = w + meanCost * (1 - w),  w = (|n-m| / (max(n,m)+1)) ^ lengthExponent
//	similarity = (1 - error) ^ 2
package similarity

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"

	"github.com/baditaflorin/go_sign_similarity/internal/core/glyph"
)

// MetricName identifies the structural metric.
const MetricName = "SymbolsDistancesMetric"

// Default scoring parameters.
const (
	DefaultLengthExponent = 1.5
	DefaultThreshold      = 0.5
)

// SimilarityConfig holds the tunable constants of the metric.
type SimilarityConfig struct {
	Weights               glyph.Weights
	NormalizationExponent float64
	LengthExponent        float64
	// Threshold only drives Result.Passed.
	Threshold float64
}

// DefaultConfig returns a default configuration.
func DefaultConfig() SimilarityConfig {
	return SimilarityConfig{
		Weights:               glyph.DefaultWeights(),
		NormalizationExponent: glyph.DefaultNormalizationExponent,
		LengthExponent:        DefaultLengthExponent,
		Threshold:             DefaultThreshold,
	}
}

// Validate checks if the configuration is valid.
func (c SimilarityConfig) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if c.NormalizationExponent <= 0 {
		return errors.New("normalization exponent must be greater than 0")
	}
	if c.LengthExponent <= 0 {
		return errors.New("length exponent must be greater than 0")
	}
	if c.Threshold < 0 || c.Threshold > 1 {
		return errors.New("threshold must be between 0 and 1")
	}
	return nil
}

// Fingerprint identifies the parameters that affect scores. Threshold is
// excluded since it only drives Result.Passed.
func (c SimilarityConfig) Fingerprint() string {
	w := c.Weights
	values := []float64{
		w.Shape, w.Facing, w.Angle, w.Parallel, w.Position, w.CategoryPenalty,
		c.NormalizationExponent, c.LengthExponent,
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, ",")))
	return hex.EncodeToString(sum[:8])
}
