package config

import (
	"github.com/baditaflorin/go_sign_similarity/internal/adapters/cache"
	"github.com/baditaflorin/go_sign_similarity/internal/core/glyph"
	"github.com/baditaflorin/go_sign_similarity/internal/core/similarity"
)

// Default cache limits.
const (
	DefaultSignCacheSize  = 10000
	DefaultSplitCacheSize = 10000
	DefaultScoreCacheSize = 100000
)

// Default server settings.
const (
	DefaultServerAddress   = ":8080"
	DefaultTimeoutSeconds  = 30
	DefaultMaxRequestBytes = 10 * 1024 * 1024
	DefaultRedisTTLSeconds = 24 * 60 * 60
)

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Metric: Metric{
			Threshold:             similarity.DefaultThreshold,
			NormalizationExponent: glyph.DefaultNormalizationExponent,
			LengthExponent:        similarity.DefaultLengthExponent,
			Weights: Weights{
				Shape:           glyph.DefaultShapeWeight,
				Facing:          glyph.DefaultFacingWeight,
				Angle:           glyph.DefaultAngleWeight,
				Parallel:        glyph.DefaultParallelWeight,
				Position:        glyph.DefaultPositionWeight,
				CategoryPenalty: glyph.DefaultCategoryPenalty,
			},
		},
		Cache: Cache{
			SignSize:  DefaultSignCacheSize,
			SplitSize: DefaultSplitCacheSize,
			ScoreSize: DefaultScoreCacheSize,
		},
		Batch: Batch{
			Progress: true,
		},
		Redis: Redis{
			Address:    "localhost:6379",
			Prefix:     cache.DefaultRedisPrefix,
			TTLSeconds: DefaultRedisTTLSeconds,
		},
		Server: Server{
			Address:             DefaultServerAddress,
			ReadTimeoutSeconds:  DefaultTimeoutSeconds,
			WriteTimeoutSeconds: DefaultTimeoutSeconds,
			MaxRequestBytes:     DefaultMaxRequestBytes,
		},
		Logging: Logging{
			Format: "text",
		},
	}
}
