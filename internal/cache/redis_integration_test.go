package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raftlab/userdir/internal/model"
	"github.com/raftlab/userdir/internal/testutil"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()

	redisURL := testutil.RequireEnv(t, "REDIS_URL")
	ctx := context.Background()

	store, err := NewRedisStore(ctx, redisURL, testutil.UniqueID("userdir-test")+":")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestRedisStore_GetSet(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, store.Set(ctx, "k", []byte(`{"id":1}`), time.Minute))

	data, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1}`, string(data))
}

func TestRedisStore_Expiry(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "short", []byte("v"), time.Second))
	time.Sleep(1500 * time.Millisecond)

	_, err := store.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisStore_GetOrFetch(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	calls := 0
	fetch := func(context.Context) (model.User, error) {
		calls++
		return model.User{ID: 4, FirstName: "Eve", LastName: "Holt"}, nil
	}

	for i := 0; i < 2; i++ {
		got, _, err := GetOrFetch(ctx, store, UserKey(4), time.Minute, fetch)
		require.NoError(t, err)
		assert.Equal(t, "Eve", got.FirstName)
	}
	assert.Equal(t, 1, calls)
}
