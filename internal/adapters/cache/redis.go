package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces score keys.
const DefaultRedisPrefix = "signsim:"

// RedisConfig configures the shared score cache.
type RedisConfig struct {
	// Address is either host:port or a redis:// / rediss:// URL.
	Address  string
	Username string
	Password string
	DB       int
	Prefix   string
	// TTL of zero keeps scores forever.
	TTL time.Duration
}

// RedisScoreCache shares pair scores between processes through Redis.
type RedisScoreCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func redisOptions(cfg RedisConfig) (*redis.Options, error) {
	var opts *redis.Options
	if strings.HasPrefix(cfg.Address, "redis://") || strings.HasPrefix(cfg.Address, "rediss://") {
		parsed, err := redis.ParseURL(cfg.Address)
		if err != nil {
			return nil, fmt.Errorf("invalid Redis URL: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: cfg.Address}
	}

	if cfg.Username != "" {
		opts.Username = cfg.Username
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}
	return opts, nil
}

// NewRedisScoreCache connects to Redis and verifies the connection.
func NewRedisScoreCache(ctx context.Context, cfg RedisConfig) (*RedisScoreCache, error) {
	if cfg.Address == "" {
		return nil, errors.New("redis address is required")
	}
	opts, err := redisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisScoreCache{client: client, prefix: prefix, ttl: cfg.TTL}, nil
}

// Key returns the Redis key of a pair. Notation strings are hashed to keep
// keys short.
func (c *RedisScoreCache) Key(metric, hypothesis, reference string) string {
	h := sha256.New()
	h.Write([]byte(hypothesis))
	h.Write([]byte{0})
	h.Write([]byte(reference))
	return c.prefix + metric + ":" + hex.EncodeToString(h.Sum(nil))
}

// Get returns the stored score of a pair.
func (c *RedisScoreCache) Get(ctx context.Context, metric, hypothesis, reference string) (float64, bool, error) {
	value, err := c.client.Get(ctx, c.Key(metric, hypothesis, reference)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("redis get: %w", err)
	}
	score, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false, fmt.Errorf("decode cached score: %w", err)
	}
	return score, true, nil
}

// Set stores the score of a pair.
func (c *RedisScoreCache) Set(ctx context.Context, metric, hypothesis, reference string, score float64) error {
	value := strconv.FormatFloat(score, 'g', -1, 64)
	if err := c.client.Set(ctx, c.Key(metric, hypothesis, reference), value, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Flush removes every key under the cache prefix.
func (c *RedisScoreCache) Flush(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("redis del: %w", err)
		}
	}
	return iter.Err()
}

// Close closes the Redis client.
func (c *RedisScoreCache) Close() error {
	return c.client.Close()
}
