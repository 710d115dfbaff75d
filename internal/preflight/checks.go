package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"playmate/internal/catalog/rawg"
	"playmate/internal/catalog/tmdb"
	"playmate/internal/catalogcache"
	"playmate/internal/config"
	"playmate/internal/services/llm"
)

const catalogTimeout = 10 * time.Second

// CheckLLM verifies that the text-generation API is reachable and the key is
// valid. It uses a 30-second timeout and a single attempt (no retries).
func CheckLLM(ctx context.Context, cfg config.LLM) Result {
	name := "LLM (" + cfg.Model + ")"
	if strings.TrimSpace(cfg.APIKey) == "" {
		return Result{Name: name, Detail: "API key missing (llm.api_key or OPENAI_API_KEY)"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client := llm.NewClient(llm.Config{
		APIKey:         cfg.APIKey,
		BaseURL:        cfg.BaseURL,
		Model:          cfg.Model,
		TimeoutSeconds: cfg.TimeoutSeconds,
	}, llm.WithRetryMaxAttempts(1))

	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "API reachable"}
}

// CheckRAWG runs one uncached search against the game catalog.
func CheckRAWG(ctx context.Context, cfg config.RAWG) Result {
	const name = "RAWG"
	client, err := rawg.New(cfg.APIKey, cfg.BaseURL, rawg.WithTimeout(catalogTimeout))
	if err != nil {
		return Result{Name: name, Detail: "API key missing (rawg.api_key or RAWG_API_KEY)"}
	}
	checkCtx, cancel := context.WithTimeout(ctx, catalogTimeout)
	defer cancel()
	if _, err := client.Search(checkCtx, "portal", 1, false); err != nil {
		return Result{Name: name, Detail: summarizeError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "Reachable"}
}

// CheckTMDB runs one uncached discover call against the movie catalog.
func CheckTMDB(ctx context.Context, cfg config.TMDB) Result {
	const name = "TMDB"
	client, err := tmdb.New(cfg.APIKey, cfg.BaseURL, cfg.Language, tmdb.WithTimeout(catalogTimeout))
	if err != nil {
		return Result{Name: name, Detail: "API key missing (tmdb.api_key or TMDB_API_KEY)"}
	}
	checkCtx, cancel := context.WithTimeout(ctx, catalogTimeout)
	defer cancel()
	if _, err := client.DiscoverMovies(checkCtx, 18); err != nil {
		return Result{Name: name, Detail: summarizeError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "Reachable"}
}

// CheckCache opens the configured cache backend and closes it again. A
// disabled cache passes.
func CheckCache(ctx context.Context, cfg config.Cache) Result {
	name := "Cache (" + cfg.Backend + ")"
	switch cfg.Backend {
	case "off":
		return Result{Name: name, Passed: true, Detail: "disabled"}
	case "", "sqlite":
		dir := filepath.Dir(cfg.Path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: create: %v)", dir, err)}
		}
		if access := CheckDirectoryAccess(name, dir); !access.Passed {
			return access
		}
	}

	checkCtx, cancel := context.WithTimeout(ctx, catalogTimeout)
	defer cancel()
	store, err := catalogcache.Open(checkCtx, cfg)
	if err != nil {
		return Result{Name: name, Detail: summarizeError(err)}
	}
	defer store.Close()
	entries, err := store.List(checkCtx)
	if err != nil {
		return Result{Name: name, Detail: summarizeError(err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d entries", len(entries))}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// summarizeError produces a human-readable summary for a failed probe.
func summarizeError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "check timed out (service unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "check timed out (service unreachable)"
	}
	var rawgStatus *rawg.StatusError
	if errors.As(err, &rawgStatus) && isAuthStatus(rawgStatus.StatusCode) {
		return "auth failed (invalid api key)"
	}
	var tmdbStatus *tmdb.StatusError
	if errors.As(err, &tmdbStatus) && isAuthStatus(tmdbStatus.StatusCode) {
		return "auth failed (invalid api key)"
	}
	return err.Error()
}

func isAuthStatus(code int) bool {
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}
