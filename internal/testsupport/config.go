package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"playmate/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with a unique temp directory per test.
// Credentials are placeholders and every remote URL points at an unroutable
// address until a With*Server option replaces it.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.LLM.APIKey = "test"
	cfgVal.LLM.BaseURL = "http://127.0.0.1:1/v1"
	cfgVal.RAWG.APIKey = "test"
	cfgVal.RAWG.BaseURL = "http://127.0.0.1:1"
	cfgVal.RAWG.RequestsPerSecond = 0
	cfgVal.TMDB.APIKey = "test"
	cfgVal.TMDB.BaseURL = "http://127.0.0.1:1"
	cfgVal.Cache.Backend = "sqlite"
	cfgVal.Cache.Path = filepath.Join(base, "cache", "catalog.db")
	cfgVal.Server.Bind = "127.0.0.1:0"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithLLMServer points the text-generation client at a fake server.
func WithLLMServer(server *LLMServer) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LLM.BaseURL = server.BaseURL()
	}
}

// WithRAWGServer points the game catalog at a fake server.
func WithRAWGServer(server *RAWGServer) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.RAWG.BaseURL = server.URL()
	}
}

// WithTMDBServer points the movie catalog at a fake server.
func WithTMDBServer(server *TMDBServer) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.TMDB.BaseURL = server.URL()
	}
}

// WithCacheBackend overrides cache.backend.
func WithCacheBackend(backend string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cache.Backend = backend
	}
}

// WithoutCredentials clears every API key.
func WithoutCredentials() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LLM.APIKey = ""
		b.cfg.RAWG.APIKey = ""
		b.cfg.TMDB.APIKey = ""
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(filepath.Dir(cfg.Cache.Path))
}

// WriteConfig encodes cfg as TOML under the config's base directory and
// returns the file path.
func WriteConfig(t testing.TB, cfg *config.Config) string {
	t.Helper()

	path := filepath.Join(BaseDir(cfg), "config.toml")
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
