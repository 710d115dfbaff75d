package catalogcache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"playmate/internal/logging"
)

// ReadThrough serves lookups from a Store and falls back to the loader on a
// miss. Cache failures never fail the lookup; they are logged and the loader
// result is returned.
type ReadThrough struct {
	store  Store
	ttl    time.Duration
	logger *slog.Logger
}

// NewReadThrough wraps store. A nil store disables caching.
func NewReadThrough(store Store, ttl time.Duration, logger *slog.Logger) *ReadThrough {
	if logger == nil {
		logger = logging.NewNop()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ReadThrough{
		store:  store,
		ttl:    ttl,
		logger: logging.NewComponentLogger(logger, "catalogcache"),
	}
}

// Fetch returns the cached value for (namespace, key) or calls load and stores
// its result.
func Fetch[T any](ctx context.Context, rt *ReadThrough, namespace, key string, load func(context.Context) (T, error)) (T, error) {
	if rt == nil || rt.store == nil {
		return load(ctx)
	}

	payload, ok, err := rt.store.Get(ctx, namespace, key)
	if err != nil {
		logging.WarnWithContext(rt.logger, "catalog cache read failed", "cache_read_failed",
			logging.String("namespace", namespace),
			logging.Error(err),
			logging.String(logging.FieldImpact, "lookup goes to the remote catalog"),
		)
	}
	if ok {
		var cached T
		if err := json.Unmarshal(payload, &cached); err == nil {
			rt.logger.Debug("catalog cache hit", logging.Args(logging.String("namespace", namespace))...)
			return cached, nil
		}
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return value, nil
	}
	if err := rt.store.Put(ctx, namespace, key, encoded, rt.ttl); err != nil {
		logging.WarnWithContext(rt.logger, "catalog cache write failed", "cache_write_failed",
			logging.String("namespace", namespace),
			logging.Error(err),
			logging.String(logging.FieldImpact, "next lookup goes to the remote catalog again"),
		)
	}
	return value, nil
}
