// Package cache stores computed values, such as text embeddings, keyed by a
// hash of the content they were computed from.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultTTL is used when REDIS_TTL is unset or invalid
const DefaultTTL = 24 * time.Hour

// Store is a byte-oriented key/value cache
type Store interface {
	// Get returns the value for key and whether it was present
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key. A zero ttl keeps the value until evicted.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Key derives a cache key from a namespace and content
func Key(namespace, content string) string {
	sum := sha256.Sum256([]byte(content))
	return namespace + ":" + hex.EncodeToString(sum[:])
}

// GetOrCompute returns the cached value for key, or computes and stores it.
// Store failures never fail the call; the value is computed instead.
func GetOrCompute(ctx context.Context, store Store, key string, ttl time.Duration, compute func(context.Context) ([]byte, error)) ([]byte, error) {
	if store != nil {
		if value, ok, err := store.Get(ctx, key); err == nil && ok {
			return value, nil
		}
	}

	value, err := compute(ctx)
	if err != nil {
		return nil, err
	}

	if store != nil {
		_ = store.Set(ctx, key, value, ttl)
	}
	return value, nil
}

// TTLFromEnv reads REDIS_TTL in seconds
func TTLFromEnv() time.Duration {
	raw := strings.TrimSpace(os.Getenv("REDIS_TTL"))
	if raw == "" {
		return DefaultTTL
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return DefaultTTL
	}
	return time.Duration(v) * time.Second
}
