package catalogcache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "playmate:catalog:"

// RedisStore shares cache entries between processes through Redis. Expiry is
// delegated to Redis key TTLs.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

// OpenRedis connects to the Redis server at rawURL and verifies it responds.
func OpenRedis(ctx context.Context, rawURL string) (*RedisStore, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, errors.New("redis url required")
	}
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return NewRedis(client), nil
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func redisKey(namespace, key string) string {
	return redisKeyPrefix + namespace + ":" + key
}

func (r *RedisStore) Get(ctx context.Context, namespace, key string) ([]byte, bool, error) {
	payload, err := r.client.HGet(ctx, redisKey(namespace, key), "payload").Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cache entry: %w", err)
	}
	return payload, true, nil
}

func (r *RedisStore) Put(ctx context.Context, namespace, key string, payload []byte, ttl time.Duration) error {
	full := redisKey(namespace, key)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, full, "payload", payload, "size", len(payload), "stored_at", r.now().UnixNano())
		pipe.PExpire(ctx, full, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

func (r *RedisStore) keys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, redisKeyPrefix+"*", 200).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan cache keys: %w", err)
	}
	return keys, nil
}

func (r *RedisStore) List(ctx context.Context) ([]Entry, error) {
	keys, err := r.keys(ctx)
	if err != nil {
		return nil, err
	}
	now := r.now()
	entries := make([]Entry, 0, len(keys))
	for _, full := range keys {
		rest := strings.TrimPrefix(full, redisKeyPrefix)
		namespace, key, _ := strings.Cut(rest, ":")
		fields, err := r.client.HMGet(ctx, full, "size", "stored_at").Result()
		if err != nil {
			return nil, fmt.Errorf("inspect cache entry: %w", err)
		}
		size, stored, ok := parseRedisMeta(fields)
		if !ok {
			continue
		}
		ttl, err := r.client.PTTL(ctx, full).Result()
		if err != nil {
			return nil, fmt.Errorf("inspect cache entry: %w", err)
		}
		entries = append(entries, Entry{
			Namespace: namespace,
			Key:       key,
			Size:      size,
			StoredAt:  time.Unix(0, stored).UTC(),
			ExpiresAt: now.Add(ttl).UTC(),
		})
	}
	sortEntries(entries)
	return entries, nil
}

// parseRedisMeta reads the HMGET reply for size and stored_at. Keys that
// expired between SCAN and HMGET come back as nils and report !ok.
func parseRedisMeta(fields []any) (size int, storedAt int64, ok bool) {
	if len(fields) != 2 {
		return 0, 0, false
	}
	storedRaw, isString := fields[1].(string)
	if !isString {
		return 0, 0, false
	}
	storedAt, err := strconv.ParseInt(storedRaw, 10, 64)
	if err != nil {
		return 0, 0, false
	}
	if sizeRaw, isString := fields[0].(string); isString {
		size, _ = strconv.Atoi(sizeRaw)
	}
	return size, storedAt, true
}

func (r *RedisStore) Clear(ctx context.Context) (int, error) {
	keys, err := r.keys(ctx)
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	n, err := r.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("clear cache: %w", err)
	}
	return int(n), nil
}

// Prune is a no-op: Redis drops expired keys itself.
func (r *RedisStore) Prune(context.Context) (int, error) {
	return 0, nil
}

func (r *RedisStore) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Close()
}
