package ports

import "context"

// Cache memoizes the result of a pure function. Implementations must be safe
// for concurrent use; dropping entries only affects performance.
type Cache[K comparable, V any] interface {
	Get(key K) (V, bool)
	Add(key K, value V)
	Len() int
	Purge()
}

// ScoreCache stores computed pair scores, possibly outside the process.
type ScoreCache interface {
	Get(ctx context.Context, metric, hypothesis, reference string) (float64, bool, error)
	Set(ctx context.Context, metric, hypothesis, reference string, score float64) error
	Close() error
}
