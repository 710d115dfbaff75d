package catalogcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"playmate/internal/config"
)

// Entry describes a stored cache record without its payload.
type Entry struct {
	Namespace string    `json:"namespace"`
	Key       string    `json:"key"`
	Size      int       `json:"size"`
	StoredAt  time.Time `json:"stored_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the entry is past its expiry at now.
func (e Entry) Expired(now time.Time) bool {
	return !e.ExpiresAt.After(now)
}

// Store is a TTL key/value store for serialized catalog payloads.
type Store interface {
	Get(ctx context.Context, namespace, key string) ([]byte, bool, error)
	Put(ctx context.Context, namespace, key string, payload []byte, ttl time.Duration) error
	List(ctx context.Context) ([]Entry, error)
	Clear(ctx context.Context) (int, error)
	Prune(ctx context.Context) (int, error)
	Close() error
}

// ErrDisabled is returned by Open when the configured backend is "off".
var ErrDisabled = errors.New("catalog cache disabled")

// Open builds the store selected by cfg.Backend.
func Open(ctx context.Context, cfg config.Cache) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", "sqlite":
		store, err := OpenSQLite(ctx, cfg.Path)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "redis":
		store, err := OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "memory":
		return NewMemory(), nil
	case "off":
		return nil, ErrDisabled
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// Key builds a cache key from the service credential and query parts. Only a
// short hash of the credential is kept.
func Key(serviceKey string, parts ...string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(serviceKey)))
	var b strings.Builder
	b.WriteString(hex.EncodeToString(sum[:8]))
	for _, part := range parts {
		b.WriteByte('|')
		b.WriteString(strings.ToLower(strings.TrimSpace(part)))
	}
	return b.String()
}
