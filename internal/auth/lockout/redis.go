package lockout

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	attemptsPrefix = "lockout:attempts:"
	lockPrefix     = "lockout:lock:"
)

// RedisTracker shares lockout state across replicas. The attempt counter
// carries the retention TTL so idle keys expire on their own; the lock key
// carries the lock duration as its TTL.
type RedisTracker struct {
	client       *redis.Client
	maxAttempts  int
	lockDuration time.Duration
}

func NewRedisTracker(client *redis.Client, maxAttempts int, lockDuration time.Duration) *RedisTracker {
	return &RedisTracker{
		client:       client,
		maxAttempts:  maxAttempts,
		lockDuration: lockDuration,
	}
}

func (t *RedisTracker) Check(ctx context.Context, key string) (Status, error) {
	ttl, err := t.client.PTTL(ctx, lockPrefix+key).Result()
	if err != nil {
		return Status{}, fmt.Errorf("lockout: check lock: %w", err)
	}

	attempts, err := t.client.Get(ctx, attemptsPrefix+key).Int()
	if err != nil && err != redis.Nil {
		return Status{}, fmt.Errorf("lockout: read attempts: %w", err)
	}

	st := Status{Attempts: attempts}
	if ttl > 0 {
		st.Locked = true
		st.LockedUntil = time.Now().Add(ttl)
	}
	return st, nil
}

func (t *RedisTracker) RecordFailure(ctx context.Context, key string) (Status, error) {
	attempts, err := t.client.Incr(ctx, attemptsPrefix+key).Result()
	if err != nil {
		return Status{}, fmt.Errorf("lockout: incr attempts: %w", err)
	}
	// Refresh the retention TTL on every failure.
	if err := t.client.Expire(ctx, attemptsPrefix+key, retention).Err(); err != nil {
		return Status{}, fmt.Errorf("lockout: expire attempts: %w", err)
	}

	st := Status{Attempts: int(attempts)}
	if int(attempts) >= t.maxAttempts {
		if err := t.client.Set(ctx, lockPrefix+key, "1", t.lockDuration).Err(); err != nil {
			return Status{}, fmt.Errorf("lockout: arm lock: %w", err)
		}
		st.Locked = true
		st.LockedUntil = time.Now().Add(t.lockDuration)
	}
	return st, nil
}

func (t *RedisTracker) Clear(ctx context.Context, key string) error {
	if err := t.client.Del(ctx, attemptsPrefix+key, lockPrefix+key).Err(); err != nil {
		return fmt.Errorf("lockout: clear: %w", err)
	}
	return nil
}

// Close is a no-op; the Redis client is owned by the caller.
func (t *RedisTracker) Close() {}
