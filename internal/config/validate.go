package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Validate ensures the configuration is usable. Credentials are checked by the
// Require* helpers because each command needs a different subset of them.
func (c *Config) Validate() error {
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateLLM() error {
	if !slices.Contains(SupportedModels, c.LLM.Model) {
		return fmt.Errorf("llm.model must be one of %s, got %q", strings.Join(SupportedModels, ", "), c.LLM.Model)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return errors.New("llm.temperature must be between 0 and 2")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	if c.Recommend.CandidateCount <= 0 {
		return errors.New("recommend.candidate_count must be positive")
	}
	if c.Recommend.FactLimit <= 0 {
		return errors.New("recommend.fact_limit must be positive")
	}
	if c.Recommend.FactLimit > c.Recommend.CandidateCount {
		return fmt.Errorf("recommend.fact_limit (%d) must not exceed recommend.candidate_count (%d)",
			c.Recommend.FactLimit, c.Recommend.CandidateCount)
	}
	return nil
}

func (c *Config) validateCache() error {
	switch c.Cache.Backend {
	case "sqlite", "memory", "off":
		return nil
	case "redis":
		if c.Cache.RedisURL == "" {
			return errors.New("cache.redis_url must be set when cache.backend is redis")
		}
		return nil
	default:
		return fmt.Errorf("cache.backend: unsupported value %q", c.Cache.Backend)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
