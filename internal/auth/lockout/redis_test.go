package lockout

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisTracker(t *testing.T) (*RedisTracker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisTracker(client, 5, 15*time.Minute), mr
}

func TestRedisTracker_LocksAfterThreshold(t *testing.T) {
	tr, _ := newRedisTracker(t)
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		st, err := tr.RecordFailure(ctx, "203.0.113.7")
		require.NoError(t, err)
		assert.Equal(t, i, st.Attempts)
		assert.False(t, st.Locked)
	}

	st, err := tr.RecordFailure(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.Equal(t, 5, st.Attempts)
	assert.True(t, st.Locked)

	st, err = tr.Check(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.True(t, st.Locked)
	assert.Equal(t, 5, st.Attempts)
}

func TestRedisTracker_LockExpires(t *testing.T) {
	tr, mr := newRedisTracker(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := tr.RecordFailure(ctx, "203.0.113.7")
		require.NoError(t, err)
	}

	mr.FastForward(15*time.Minute + time.Second)

	st, err := tr.Check(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.False(t, st.Locked)
}

func TestRedisTracker_ClearResetsAttempts(t *testing.T) {
	tr, _ := newRedisTracker(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := tr.RecordFailure(ctx, "203.0.113.7")
		require.NoError(t, err)
	}

	require.NoError(t, tr.Clear(ctx, "203.0.113.7"))

	st, err := tr.Check(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.Zero(t, st.Attempts)
	assert.False(t, st.Locked)
}

func TestRedisTracker_AttemptsExpireWithRetention(t *testing.T) {
	tr, mr := newRedisTracker(t)
	ctx := context.Background()

	_, err := tr.RecordFailure(ctx, "203.0.113.7")
	require.NoError(t, err)

	mr.FastForward(retention + time.Minute)

	st, err := tr.Check(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.Zero(t, st.Attempts)
}

func TestRedisTracker_KeysAreIndependent(t *testing.T) {
	tr, _ := newRedisTracker(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := tr.RecordFailure(ctx, "203.0.113.7")
		require.NoError(t, err)
	}

	st, err := tr.Check(ctx, "198.51.100.4")
	require.NoError(t, err)
	assert.False(t, st.Locked)
	assert.Zero(t, st.Attempts)
}
