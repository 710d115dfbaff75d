package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"playmate/internal/services"
)

//go:embed sample_config.toml
var sampleConfig string

// LLM contains the text-generation service settings.
type LLM struct {
	APIKey         string  `toml:"api_key"`
	BaseURL        string  `toml:"base_url"`
	Model          string  `toml:"model"`
	Temperature    float64 `toml:"temperature"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

// RAWG contains configuration for the RAWG game catalog API.
type RAWG struct {
	APIKey            string  `toml:"api_key"`
	BaseURL           string  `toml:"base_url"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// TMDB contains configuration for The Movie Database API.
type TMDB struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	ImageBaseURL   string `toml:"image_base_url"`
	Language       string `toml:"language"`
	Region         string `toml:"region"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Recommend contains the pipeline sizing knobs.
type Recommend struct {
	CandidateCount int `toml:"candidate_count"`
	FactLimit      int `toml:"fact_limit"`
	Workers        int `toml:"workers"`
}

// Cache contains configuration for the catalog lookup cache.
type Cache struct {
	Backend  string `toml:"backend"` // sqlite, redis, memory, off
	Path     string `toml:"path"`
	RedisURL string `toml:"redis_url"`
	TTLHours int    `toml:"ttl_hours"`
}

// Server contains configuration for the HTTP API.
type Server struct {
	Bind  string `toml:"bind"`
	Token string `toml:"token"` // optional bearer token for /api routes
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"`
}

// Config encapsulates all configuration values for playmate.
//
// Configuration sections by subsystem:
//   - LLM: text-generation service used for candidates, selection and chat
//   - RAWG: game catalog used to fact-check candidates
//   - TMDB: movie catalog used by the quiz
//   - Recommend: candidate count, fact cap, resolver workers
//   - Cache: read-through cache for catalog lookups
//   - Server: HTTP API bind address
//   - Logging: log format, level, and optional file
type Config struct {
	LLM       LLM       `toml:"llm"`
	RAWG      RAWG      `toml:"rawg"`
	TMDB      TMDB      `toml:"tmdb"`
	Recommend Recommend `toml:"recommend"`
	Cache     Cache     `toml:"cache"`
	Server    Server    `toml:"server"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("playmate.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// CacheTTL returns the catalog cache expiry as a duration.
func (c *Config) CacheTTL() time.Duration {
	if c.Cache.TTLHours <= 0 {
		return defaultCacheTTLHours * time.Hour
	}
	return time.Duration(c.Cache.TTLHours) * time.Hour
}

// RequireLLM reports a configuration error when the text-generation credential is missing.
func (c *Config) RequireLLM() error {
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return services.Wrap(services.ErrConfiguration, "config", "llm", missingKeyHint("llm.api_key", "OPENAI_API_KEY"), nil)
	}
	return nil
}

// RequireRAWG reports a configuration error when the game catalog credential is missing.
func (c *Config) RequireRAWG() error {
	if strings.TrimSpace(c.RAWG.APIKey) == "" {
		return services.Wrap(services.ErrConfiguration, "config", "rawg", missingKeyHint("rawg.api_key", "RAWG_API_KEY"), nil)
	}
	return nil
}

// RequireTMDB reports a configuration error when the movie catalog credential is missing.
func (c *Config) RequireTMDB() error {
	if strings.TrimSpace(c.TMDB.APIKey) == "" {
		return services.Wrap(services.ErrConfiguration, "config", "tmdb", missingKeyHint("tmdb.api_key", "TMDB_API_KEY"), nil)
	}
	return nil
}

func missingKeyHint(field, env string) string {
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = defaultConfigPath
	}
	return fmt.Sprintf("%s is required. Set %s env var or edit %s (create with 'playmate config init')", field, env, defaultPath)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
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
