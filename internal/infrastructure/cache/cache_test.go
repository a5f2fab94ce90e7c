package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInMemoryStore_GetSet(t *testing.T) {
	store := NewInMemoryStore(0, 0)
	defer store.Close()
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Minute))
	value, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), value)
}

func TestInMemoryStore_Expiry(t *testing.T) {
	store := NewInMemoryStore(0, 0)
	defer store.Close()
	ctx := context.Background()

	now := time.Now()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Minute))
	now = now.Add(time.Minute)

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestInMemoryStore_NonPositiveTTLNotStored(t *testing.T) {
	store := NewInMemoryStore(0, 0)
	defer store.Close()

	require.NoError(t, store.Set(context.Background(), "k", []byte("v"), 0))
	assert.Zero(t, store.Len())
}

func TestInMemoryStore_MaxEntries(t *testing.T) {
	store := NewInMemoryStore(3, 0)
	defer store.Close()
	ctx := context.Background()

	for i := range 3 {
		require.NoError(t, store.Set(ctx, fmt.Sprintf("k%d", i), []byte("v"), time.Duration(i+1)*time.Minute))
	}
	require.NoError(t, store.Set(ctx, "k3", []byte("v"), time.Hour))

	assert.Equal(t, 3, store.Len())
	_, err := store.Get(ctx, "k0")
	assert.ErrorIs(t, err, ErrMiss, "entry closest to expiry is evicted")
	_, err = store.Get(ctx, "k3")
	assert.NoError(t, err)

	// overwriting an existing key never evicts
	require.NoError(t, store.Set(ctx, "k3", []byte("v2"), time.Hour))
	assert.Equal(t, 3, store.Len())
}

func TestInMemoryStore_CleanupLoop(t *testing.T) {
	store := NewInMemoryStore(0, 5*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Millisecond))
	assert.Eventually(t, func() bool { return store.Len() == 0 }, time.Second, 5*time.Millisecond)

	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}

func TestNewStore_Fallback(t *testing.T) {
	t.Run("nil client", func(t *testing.T) {
		store := NewStore(context.Background(), nil, "catalog:", zap.NewNop())
		defer store.Close()
		assert.IsType(t, &InMemoryStore{}, store)
	})

	t.Run("unreachable redis", func(t *testing.T) {
		client := redis.NewClient(&redis.Options{
			Addr:        "127.0.0.1:1",
			DialTimeout: 100 * time.Millisecond,
			MaxRetries:  -1,
		})
		defer client.Close()

		store := NewStore(context.Background(), client, "catalog:", zap.NewNop())
		defer store.Close()
		assert.IsType(t, &InMemoryStore{}, store)
	})
}
