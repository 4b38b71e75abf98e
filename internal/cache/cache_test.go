package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingStore returns errors from every call
type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (failingStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection refused")
}

func TestKey(t *testing.T) {
	a := Key("embedding", "Led migration using Python")
	b := Key("embedding", "Led migration using Python")
	c := Key("embedding", "Led migration using Go")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Contains(t, a, "embedding:")
	assert.Len(t, a, len("embedding:")+64)
}

func TestGetOrCompute(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	calls := 0
	compute := func(context.Context) ([]byte, error) {
		calls++
		return []byte("value"), nil
	}

	v, err := GetOrCompute(ctx, store, "k", 0, compute)
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), v)

	v, err = GetOrCompute(ctx, store, "k", 0, compute)
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), v)
	assert.Equal(t, 1, calls)
}

func TestGetOrCompute_ComputeError(t *testing.T) {
	store := NewMemoryStore()
	_, err := GetOrCompute(context.Background(), store, "k", 0, func(context.Context) ([]byte, error) {
		return nil, errors.New("backend down")
	})
	assert.EqualError(t, err, "backend down")
	assert.Equal(t, 0, store.Len())
}

func TestGetOrCompute_StoreFailuresIgnored(t *testing.T) {
	v, err := GetOrCompute(context.Background(), failingStore{}, "k", 0, func(context.Context) ([]byte, error) {
		return []byte("fresh"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("fresh"), v)
}

func TestGetOrCompute_NilStore(t *testing.T) {
	v, err := GetOrCompute(context.Background(), nil, "k", 0, func(context.Context) ([]byte, error) {
		return []byte("x"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), v)
}

func TestMemoryStore_TTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(ctx, "short", []byte("a"), time.Minute))
	require.NoError(t, store.Set(ctx, "forever", []byte("b"), 0))

	_, ok, err := store.Get(ctx, "short")
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok, _ = store.Get(ctx, "short")
	assert.False(t, ok)

	v, ok, _ := store.Get(ctx, "forever")
	assert.True(t, ok)
	assert.Equal(t, []byte("b"), v)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	value := []byte("abc")
	require.NoError(t, store.Set(ctx, "k", value, 0))
	value[0] = 'z'

	got, _, _ := store.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), got)
	got[1] = 'z'

	again, _, _ := store.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), again)
}

func TestTTLFromEnv(t *testing.T) {
	t.Setenv("REDIS_TTL", "")
	assert.Equal(t, DefaultTTL, TTLFromEnv())

	t.Setenv("REDIS_TTL", "120")
	assert.Equal(t, 2*time.Minute, TTLFromEnv())

	t.Setenv("REDIS_TTL", "-5")
	assert.Equal(t, DefaultTTL, TTLFromEnv())

	t.Setenv("REDIS_TTL", "abc")
	assert.Equal(t, DefaultTTL, TTLFromEnv())
}
