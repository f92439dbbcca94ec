// Package config loads the TOML configuration shared by the server and CLI.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/baditaflorin/go_sign_similarity/internal/adapters/cache"
	"github.com/baditaflorin/go_sign_similarity/internal/core/glyph"
	"github.com/baditaflorin/go_sign_similarity/internal/core/similarity"
)

//go:embed sample_config.toml
var sampleConfig string

// Weights mirrors the glyph distance weights.
type Weights struct {
	Shape           float64 `toml:"shape"`
	Facing          float64 `toml:"facing"`
	Angle           float64 `toml:"angle"`
	Parallel        float64 `toml:"parallel"`
	Position        float64 `toml:"position"`
	CategoryPenalty float64 `toml:"category_penalty"`
}

// Metric contains the scoring constants.
type Metric struct {
	Threshold             float64 `toml:"threshold"`
	NormalizationExponent float64 `toml:"normalization_exponent"`
	LengthExponent        float64 `toml:"length_exponent"`
	Weights               Weights `toml:"weights"`
}

// Cache contains memoization limits. Zero means unbounded.
type Cache struct {
	AttributeSize int `toml:"attribute_size"`
	SignSize      int `toml:"sign_size"`
	SplitSize     int `toml:"split_size"`
	ScoreSize     int `toml:"score_size"`
}

// Batch contains batch scoring settings.
type Batch struct {
	Workers  int  `toml:"workers"`
	Progress bool `toml:"progress"`
	WarmUp   bool `toml:"warm_up"`
}

// Redis contains the shared score cache connection.
type Redis struct {
	Enabled    bool   `toml:"enabled"`
	Address    string `toml:"address"`
	Username   string `toml:"username"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	Prefix     string `toml:"prefix"`
	TTLSeconds int    `toml:"ttl_seconds"`
}

// Server contains HTTP listener settings.
type Server struct {
	Address             string `toml:"address"`
	ReadTimeoutSeconds  int    `toml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `toml:"write_timeout_seconds"`
	MaxRequestBytes     int    `toml:"max_request_bytes"`
}

// Logging contains log output settings.
type Logging struct {
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// Config is the complete configuration.
type Config struct {
	Metric  Metric  `toml:"metric"`
	Cache   Cache   `toml:"cache"`
	Batch   Batch   `toml:"batch"`
	Redis   Redis   `toml:"redis"`
	Server  Server  `toml:"server"`
	Logging Logging `toml:"logging"`
}

// Load reads the configuration at path on top of the defaults. An empty path
// returns the defaults. The second return value reports whether a file was read.
func Load(path string) (*Config, bool, error) {
	cfg := Default()

	if strings.TrimSpace(path) == "" {
		return &cfg, false, nil
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, fmt.Errorf("config file %s not found", path)
		}
		return nil, false, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	if err := Decode(file, &cfg); err != nil {
		return nil, false, err
	}
	return &cfg, true, nil
}

// Decode reads TOML from r into cfg, then normalizes and validates it.
func Decode(r io.Reader, cfg *Config) error {
	decoder := toml.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	cfg.normalize()
	return cfg.Validate()
}

// Sample returns the annotated sample configuration.
func Sample() string {
	return sampleConfig
}

// CreateSample writes the sample configuration to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// SimilarityConfig converts the metric section for the calculator.
func (c *Config) SimilarityConfig() similarity.SimilarityConfig {
	return similarity.SimilarityConfig{
		Weights: glyph.Weights{
			Shape:           c.Metric.Weights.Shape,
			Facing:          c.Metric.Weights.Facing,
			Angle:           c.Metric.Weights.Angle,
			Parallel:        c.Metric.Weights.Parallel,
			Position:        c.Metric.Weights.Position,
			CategoryPenalty: c.Metric.Weights.CategoryPenalty,
		},
		NormalizationExponent: c.Metric.NormalizationExponent,
		LengthExponent:        c.Metric.LengthExponent,
		Threshold:             c.Metric.Threshold,
	}
}

// RedisConfig converts the redis section for the score cache.
func (c *Config) RedisConfig() cache.RedisConfig {
	return cache.RedisConfig{
		Address:  c.Redis.Address,
		Username: c.Redis.Username,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
		Prefix:   c.Redis.Prefix,
		TTL:      time.Duration(c.Redis.TTLSeconds) * time.Second,
	}
}

// ReadTimeout returns the server read timeout.
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.Server.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the server write timeout.
func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.Server.WriteTimeoutSeconds) * time.Second
}

// JSONLogs reports whether logs are written as JSON.
func (c *Config) JSONLogs() bool {
	return c.Logging.Format == "json"
}
