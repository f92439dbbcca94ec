package main

import (
	"os"
	"strings"
	"sync"

	"github.com/baditaflorin/l"

	"github.com/baditaflorin/go_sign_similarity/internal/config"
	"github.com/baditaflorin/go_sign_similarity/pkg/similarity"
)

type commandContext struct {
	configFlag  *string
	verboseFlag *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	metric *similarity.SignSimilarity
	logger l.Logger
}

func newCommandContext(configFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		verboseFlag: verboseFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// similarity builds the metric on first use.
func (c *commandContext) similarity() (*similarity.SignSimilarity, error) {
	if c.metric != nil {
		return c.metric, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	if c.verboseFlag != nil && *c.verboseFlag {
		logger, err := l.NewStandardFactory().CreateLogger(l.Config{
			Output:     os.Stderr,
			JsonFormat: cfg.JSONLogs(),
		})
		if err != nil {
			return nil, err
		}
		c.logger = logger
	}

	metric, err := similarity.New(cfg.Options(c.logger)...)
	if err != nil {
		return nil, err
	}
	c.metric = metric
	return metric, nil
}

func (c *commandContext) close() error {
	var err error
	if c.metric != nil {
		err = c.metric.Close()
		c.metric = nil
	}
	if c.logger != nil {
		if closeErr := c.logger.Close(); err == nil {
			err = closeErr
		}
		c.logger = nil
	}
	return err
}
