package config

import (
	"github.com/baditaflorin/l"

	"github.com/baditaflorin/go_sign_similarity/pkg/similarity"
)

// Options translates the configuration into similarity options. The score
// cache is Redis when enabled, otherwise an in-memory cache of
// Cache.ScoreSize entries.
func (c *Config) Options(logger l.Logger) []similarity.SignSimilarityOption {
	opts := []similarity.SignSimilarityOption{
		similarity.WithConfig(c.SimilarityConfig()),
		similarity.WithCacheSizes(c.Cache.AttributeSize, c.Cache.SignSize, c.Cache.SplitSize),
		similarity.WithWorkers(c.Batch.Workers),
		similarity.WithProgress(c.Batch.Progress),
		similarity.WithWarmUp(c.Batch.WarmUp),
	}

	if logger != nil {
		opts = append(opts, similarity.WithLogger(logger))
	} else {
		opts = append(opts, similarity.WithoutLogging())
	}

	switch {
	case c.Redis.Enabled:
		opts = append(opts, similarity.WithRedisScoreCache(c.RedisConfig()))
	case c.Cache.ScoreSize > 0:
		opts = append(opts, similarity.WithMemoryScoreCache(c.Cache.ScoreSize))
	}
	return opts
}
