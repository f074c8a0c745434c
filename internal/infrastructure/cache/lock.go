package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"healthcare-plus-api/internal/scheduling"
)

// ErrLockNotAcquired is returned when a competing request already holds the
// slot lock. Callers surface it as a slot conflict: the competitor is in the
// middle of booking the same slot.
var ErrLockNotAcquired = errors.New("slot lock not acquired")

// unlockScript releases the lock only if we still own it, preventing one
// request from deleting a lock that expired and was re-acquired by another.
var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

// RedisSlotLocker serializes the booking check-then-write critical section
// per slot key with a SET NX PX lock. Implements scheduling.Locker.
type RedisSlotLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSlotLocker(client *redis.Client, ttl time.Duration) *RedisSlotLocker {
	return &RedisSlotLocker{
		client: client,
		ttl:    ttl,
	}
}

var _ scheduling.Locker = (*RedisSlotLocker)(nil)

func (l *RedisSlotLocker) WithSlotLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire slot lock: %w", err)
	}
	if !ok {
		return ErrLockNotAcquired
	}

	defer func() {
		_ = l.release(ctx, key, token)
	}()

	ctxWithTimeout, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(ctxWithTimeout)
}

func (l *RedisSlotLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release slot lock: %w", err)
	}
	return nil
}
