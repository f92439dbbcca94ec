package config

import (
	"errors"
	"fmt"
	"strings"
)

func (c *Config) normalize() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	c.Redis.Address = strings.TrimSpace(c.Redis.Address)
	if c.Server.Address == "" {
		c.Server.Address = DefaultServerAddress
	}
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.SimilarityConfig().Validate(); err != nil {
		return fmt.Errorf("metric: %w", err)
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if c.Batch.Workers < 0 {
		return errors.New("batch.workers must not be negative")
	}
	if err := c.validateRedis(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.AttributeSize < 0 || c.Cache.SignSize < 0 || c.Cache.SplitSize < 0 || c.Cache.ScoreSize < 0 {
		return errors.New("cache sizes must not be negative")
	}
	return nil
}

func (c *Config) validateRedis() error {
	if !c.Redis.Enabled {
		return nil
	}
	if c.Redis.Address == "" {
		return errors.New("redis.address is required when redis is enabled")
	}
	if c.Redis.DB < 0 {
		return errors.New("redis.db must not be negative")
	}
	if c.Redis.TTLSeconds < 0 {
		return errors.New("redis.ttl_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.ReadTimeoutSeconds < 0 || c.Server.WriteTimeoutSeconds < 0 {
		return errors.New("server timeouts must not be negative")
	}
	if c.Server.MaxRequestBytes < 0 {
		return errors.New("server.max_request_bytes must not be negative")
	}
	return nil
}
