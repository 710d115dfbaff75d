package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"playmate/internal/catalog/rawg"
	"playmate/internal/catalog/tmdb"
	"playmate/internal/catalogcache"
	"playmate/internal/config"
	"playmate/internal/logging"
	"playmate/internal/services/llm"
)

type commandContext struct {
	configFlag *string
	envFlag    *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, envFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		envFlag:    envFlag,
	}
}

// loadEnv reads the dotenv file into the process environment without
// overriding variables that are already set.
func (c *commandContext) loadEnv() error {
	if c.envFlag == nil {
		return nil
	}
	path := strings.TrimSpace(*c.envFlag)
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = fmt.Errorf("init logger: %w", err)
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// textGenerator builds the chat-completions client, optionally overriding the
// configured model.
func (c *commandContext) textGenerator(model string) (*llm.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireLLM(); err != nil {
		return nil, err
	}
	llmCfg := cfg.LLM
	if model = strings.TrimSpace(model); model != "" {
		probe := *cfg
		probe.LLM.Model = model
		if err := probe.Validate(); err != nil {
			return nil, err
		}
		llmCfg.Model = model
	}
	return llm.NewClient(llm.Config{
		APIKey:         llmCfg.APIKey,
		BaseURL:        llmCfg.BaseURL,
		Model:          llmCfg.Model,
		Temperature:    float32(llmCfg.Temperature),
		TimeoutSeconds: llmCfg.TimeoutSeconds,
	}), nil
}

// catalogCache opens the configured read-through cache. A disabled cache
// yields a nil store, which the read-through layer treats as a bypass.
func (c *commandContext) catalogCache(ctx context.Context) (*catalogcache.ReadThrough, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, func() {}, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, func() {}, err
	}
	store, err := catalogcache.Open(ctx, cfg.Cache)
	if errors.Is(err, catalogcache.ErrDisabled) {
		return catalogcache.NewReadThrough(nil, cfg.CacheTTL(), logger), func() {}, nil
	}
	if err != nil {
		logging.WarnWithContext(logger, "catalog cache unavailable; continuing without it", "catalog_cache_unavailable",
			logging.String("backend", cfg.Cache.Backend),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check cache.path or cache.redis_url"),
			logging.String(logging.FieldImpact, "every catalog lookup goes to the network"),
		)
		return catalogcache.NewReadThrough(nil, cfg.CacheTTL(), logger), func() {}, nil
	}
	return catalogcache.NewReadThrough(store, cfg.CacheTTL(), logger), func() { _ = store.Close() }, nil
}

func (c *commandContext) gameCatalog(cache *catalogcache.ReadThrough) (*rawg.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireRAWG(); err != nil {
		return nil, err
	}
	return rawg.New(cfg.RAWG.APIKey, cfg.RAWG.BaseURL,
		rawg.WithTimeout(time.Duration(cfg.RAWG.TimeoutSeconds)*time.Second),
		rawg.WithRateLimit(cfg.RAWG.RequestsPerSecond),
		rawg.WithCache(cache),
	)
}

func (c *commandContext) movieCatalog(cache *catalogcache.ReadThrough) (*tmdb.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireTMDB(); err != nil {
		return nil, err
	}
	return tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language,
		tmdb.WithTimeout(time.Duration(cfg.TMDB.TimeoutSeconds)*time.Second),
		tmdb.WithRegion(cfg.TMDB.Region),
		tmdb.WithImageBaseURL(cfg.TMDB.ImageBaseURL),
		tmdb.WithCache(cache),
	)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
