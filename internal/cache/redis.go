package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Store backed by Redis. When Redis is unreachable at
// startup every call is a cache miss.
type RedisStore struct {
	client *redis.Client
	prefix string
	logger *slog.Logger

	warnedUnavailable atomic.Bool
}

// NewRedisStore connects to the Redis server at url (redis://...). Keys are
// stored under prefix.
func NewRedisStore(ctx context.Context, url, prefix string, logger *slog.Logger) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unavailable, bypassing cache", "error", err)
		_ = client.Close()
		return &RedisStore{prefix: prefix, logger: logger}, nil
	}

	return &RedisStore{client: client, prefix: prefix, logger: logger}, nil
}

// NewRedisStoreWithClient wraps an existing client
func NewRedisStoreWithClient(client *redis.Client, prefix string, logger *slog.Logger) *RedisStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisStore{client: client, prefix: prefix, logger: logger}
}

// Available reports whether the store talks to a live server
func (r *RedisStore) Available() bool {
	return r != nil && r.client != nil
}

func (r *RedisStore) warnUnavailableOnce(err error) {
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		r.logger.Warn("redis unavailable, bypassing cache", "error", err)
	}
}

// Get returns the value stored under key
func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if !r.Available() {
		return nil, false, nil
	}
	b, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		r.warnUnavailableOnce(err)
		return nil, false, err
	}
	return b, len(b) > 0, nil
}

// Set stores value under key
func (r *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if !r.Available() {
		return nil
	}
	if err := r.client.Set(ctx, r.prefix+key, value, ttl).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

// Close closes the underlying client
func (r *RedisStore) Close() error {
	if !r.Available() {
		return nil
	}
	return r.client.Close()
}
