package cache

import (
	"context"

	"github.com/baditaflorin/go_sign_similarity/internal/ports"
)

type scoreKey struct {
	metric     string
	hypothesis string
	reference  string
}

// MemoryScoreCache keeps pair scores in process memory.
type MemoryScoreCache struct {
	entries ports.Cache[scoreKey, float64]
}

// NewMemoryScoreCache creates an in-memory score cache; size <= 0 is unbounded.
func NewMemoryScoreCache(size int) (*MemoryScoreCache, error) {
	entries, err := New[scoreKey, float64](size)
	if err != nil {
		return nil, err
	}
	return &MemoryScoreCache{entries: entries}, nil
}

// Get returns the cached score of a pair.
func (c *MemoryScoreCache) Get(_ context.Context, metric, hypothesis, reference string) (float64, bool, error) {
	score, ok := c.entries.Get(scoreKey{metric, hypothesis, reference})
	return score, ok, nil
}

// Set stores the score of a pair.
func (c *MemoryScoreCache) Set(_ context.Context, metric, hypothesis, reference string, score float64) error {
	c.entries.Add(scoreKey{metric, hypothesis, reference}, score)
	return nil
}

// Close releases nothing.
func (c *MemoryScoreCache) Close() error {
	return nil
}
