package testsupport

import (
	"context"
	"testing"

	"playmate/internal/catalogcache"
	"playmate/internal/config"
)

// MustOpenCache opens the configured catalog cache for tests and registers
// cleanup.
func MustOpenCache(t testing.TB, cfg *config.Config) catalogcache.Store {
	t.Helper()

	store, err := catalogcache.Open(context.Background(), cfg.Cache)
	if err != nil {
		t.Fatalf("catalogcache.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
