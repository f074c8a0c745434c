package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocker(t *testing.T) (*RedisSlotLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisSlotLocker(client, 2*time.Second), mr
}

func TestWithSlotLock_RunsFunctionAndReleases(t *testing.T) {
	locker, mr := newTestLocker(t)
	ctx := context.Background()

	ran := false
	err := locker.WithSlotLock(ctx, "lock:slot:test", func(ctx context.Context) error {
		ran = true
		assert.True(t, mr.Exists("lock:slot:test"), "lock key must be held inside the critical section")
		return nil
	})
	require.NoError(t, err)
	assert.True(t, ran)
	assert.False(t, mr.Exists("lock:slot:test"), "lock must be released afterwards")
}

func TestWithSlotLock_SecondAcquirerRejected(t *testing.T) {
	locker, _ := newTestLocker(t)
	ctx := context.Background()

	err := locker.WithSlotLock(ctx, "lock:slot:busy", func(ctx context.Context) error {
		// Re-entry for the same key while held must fail, this is what keeps
		// two concurrent bookings of one slot from interleaving.
		inner := locker.WithSlotLock(ctx, "lock:slot:busy", func(ctx context.Context) error {
			return nil
		})
		assert.ErrorIs(t, inner, ErrLockNotAcquired)
		return nil
	})
	require.NoError(t, err)
}

func TestWithSlotLock_DistinctKeysIndependent(t *testing.T) {
	locker, _ := newTestLocker(t)
	ctx := context.Background()

	err := locker.WithSlotLock(ctx, "lock:slot:a", func(ctx context.Context) error {
		return locker.WithSlotLock(ctx, "lock:slot:b", func(ctx context.Context) error {
			return nil
		})
	})
	assert.NoError(t, err)
}

func TestWithSlotLock_DoesNotReleaseForeignLock(t *testing.T) {
	locker, mr := newTestLocker(t)
	ctx := context.Background()

	err := locker.WithSlotLock(ctx, "lock:slot:expire", func(ctx context.Context) error {
		// Simulate the lock expiring mid-section and another request taking it.
		mr.Del("lock:slot:expire")
		require.NoError(t, mr.Set("lock:slot:expire", "other-token"))
		return nil
	})
	require.NoError(t, err)

	// The deferred release must leave the other holder's lock in place.
	val, err := mr.Get("lock:slot:expire")
	require.NoError(t, err)
	assert.Equal(t, "other-token", val)
}
