// Package cache provides the memoization and score cache backends.
package cache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/baditaflorin/go_sign_similarity/internal/ports"
)

// LRU is a bounded, thread-safe cache with least-recently-used eviction.
type LRU[K comparable, V any] struct {
	cache *lru.Cache[K, V]
}

// NewLRU creates a bounded cache holding at most size entries.
func NewLRU[K comparable, V any](size int) (*LRU[K, V], error) {
	c, err := lru.New[K, V](size)
	if err != nil {
		return nil, err
	}
	return &LRU[K, V]{cache: c}, nil
}

// Get returns the cached value for key.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	return c.cache.Get(key)
}

// Add stores value under key, evicting the oldest entry when full.
func (c *LRU[K, V]) Add(key K, value V) {
	c.cache.Add(key, value)
}

// Len returns the number of cached entries.
func (c *LRU[K, V]) Len() int {
	return c.cache.Len()
}

// Purge drops every entry.
func (c *LRU[K, V]) Purge() {
	c.cache.Purge()
}

// Unbounded is a thread-safe cache that never evicts.
type Unbounded[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]V
}

// NewUnbounded creates an empty unbounded cache.
func NewUnbounded[K comparable, V any]() *Unbounded[K, V] {
	return &Unbounded[K, V]{entries: make(map[K]V)}
}

// Get returns the cached value for key.
func (c *Unbounded[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

// Add stores value under key.
func (c *Unbounded[K, V]) Add(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

// Len returns the number of cached entries.
func (c *Unbounded[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Purge drops every entry.
func (c *Unbounded[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[K]V)
}

// New returns an LRU cache of the given size, or an unbounded cache when
// size is zero or negative.
func New[K comparable, V any](size int) (ports.Cache[K, V], error) {
	if size <= 0 {
		return NewUnbounded[K, V](), nil
	}
	return NewLRU[K, V](size)
}
