package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ccabucoo/chick-n-needs/internal/auth/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	sessionPrefix  = "session:"
	userSetPrefix  = "usersessions:"
	userSetPadding = time.Hour
)

// RedisRegistry stores sessions as JSON blobs with the idle TTL applied by
// Redis itself; Touch re-arms the TTL. A per-user set supports listing and
// force logout. Set members may outlive their session blob, so readers
// drop dead members as they find them.
type RedisRegistry struct {
	client  *redis.Client
	idleTTL time.Duration
}

func NewRedisRegistry(client *redis.Client, idleTTL time.Duration) *RedisRegistry {
	return &RedisRegistry{client: client, idleTTL: idleTTL}
}

func (r *RedisRegistry) Create(ctx context.Context, userID, clientIP, userAgent string) (*domain.Session, error) {
	now := time.Now()
	s := &domain.Session{
		ID:             uuid.NewString(),
		UserID:         userID,
		ClientIP:       clientIP,
		UserAgent:      userAgent,
		CreatedAt:      now,
		LastActivityAt: now,
	}

	blob, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("session: marshal: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, sessionPrefix+s.ID, blob, r.idleTTL)
	pipe.SAdd(ctx, userSetPrefix+userID, s.ID)
	pipe.Expire(ctx, userSetPrefix+userID, r.idleTTL+userSetPadding)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("session: create: %w", err)
	}

	return s, nil
}

func (r *RedisRegistry) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	blob, err := r.client.Get(ctx, sessionPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: get: %w", err)
	}

	var s domain.Session
	if err := json.Unmarshal(blob, &s); err != nil {
		return nil, fmt.Errorf("session: unmarshal: %w", err)
	}
	return &s, nil
}

func (r *RedisRegistry) Touch(ctx context.Context, sessionID string) error {
	s, err := r.Get(ctx, sessionID)
	if err != nil || s == nil {
		return err
	}

	s.LastActivityAt = time.Now()
	blob, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}
	if err := r.client.Set(ctx, sessionPrefix+sessionID, blob, r.idleTTL).Err(); err != nil {
		return fmt.Errorf("session: touch: %w", err)
	}
	return nil
}

func (r *RedisRegistry) Destroy(ctx context.Context, sessionID string) error {
	s, err := r.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, sessionPrefix+sessionID)
	if s != nil {
		pipe.SRem(ctx, userSetPrefix+s.UserID, sessionID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("session: destroy: %w", err)
	}
	return nil
}

func (r *RedisRegistry) DestroyAllForUser(ctx context.Context, userID string) (int, error) {
	ids, err := r.client.SMembers(ctx, userSetPrefix+userID).Result()
	if err != nil {
		return 0, fmt.Errorf("session: list members: %w", err)
	}

	removed := 0
	for _, id := range ids {
		n, err := r.client.Del(ctx, sessionPrefix+id).Result()
		if err != nil {
			return removed, fmt.Errorf("session: destroy all: %w", err)
		}
		removed += int(n)
	}
	if err := r.client.Del(ctx, userSetPrefix+userID).Err(); err != nil {
		return removed, fmt.Errorf("session: drop user set: %w", err)
	}
	return removed, nil
}

func (r *RedisRegistry) ListByUser(ctx context.Context, userID string) ([]*domain.Session, error) {
	ids, err := r.client.SMembers(ctx, userSetPrefix+userID).Result()
	if err != nil {
		return nil, fmt.Errorf("session: list members: %w", err)
	}

	var out []*domain.Session
	for _, id := range ids {
		s, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if s == nil {
			// Blob expired; prune the stale member.
			_ = r.client.SRem(ctx, userSetPrefix+userID, id).Err()
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

// Close is a no-op; the Redis client is owned by the caller.
func (r *RedisRegistry) Close() {}
