package lockout

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker(t *testing.T, base time.Time) (*MemoryTracker, *time.Time) {
	t.Helper()
	clock := base
	tr := NewMemoryTracker(5, 15*time.Minute)
	tr.now = func() time.Time { return clock }
	t.Cleanup(tr.Close)
	return tr, &clock
}

func TestMemoryTracker_LocksAfterThreshold(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tr, _ := newTestTracker(t, base)
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
	assert.Equal(t, base.Add(15*time.Minute), st.LockedUntil)

	st, err = tr.Check(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.True(t, st.Locked)
}

func TestMemoryTracker_LockExpires(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tr, clock := newTestTracker(t, base)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := tr.RecordFailure(ctx, "203.0.113.7")
		require.NoError(t, err)
	}

	*clock = base.Add(15*time.Minute + time.Second)

	st, err := tr.Check(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.False(t, st.Locked)
}

func TestMemoryTracker_ClearResetsAttempts(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tr, _ := newTestTracker(t, base)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := tr.RecordFailure(ctx, "203.0.113.7")
		require.NoError(t, err)
	}

	require.NoError(t, tr.Clear(ctx, "203.0.113.7"))

	st, err := tr.Check(ctx, "203.0.113.7")
	require.NoError(t, err)
	assert.Zero(t, st.Attempts)
	assert.False(t, st.Locked)
}

func TestMemoryTracker_KeysAreIndependent(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tr, _ := newTestTracker(t, base)
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

func TestMemoryTracker_SweepDropsExpiredLocks(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tr, clock := newTestTracker(t, base)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := tr.RecordFailure(ctx, "locked-key")
		require.NoError(t, err)
	}
	_, err := tr.RecordFailure(ctx, "idle-key")
	require.NoError(t, err)

	*clock = base.Add(25 * time.Hour)
	tr.sweep()

	tr.mu.Lock()
	defer tr.mu.Unlock()
	assert.Empty(t, tr.entries)
}

func TestMemoryTracker_SweepKeepsActiveEntries(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tr, clock := newTestTracker(t, base)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := tr.RecordFailure(ctx, "locked-key")
		require.NoError(t, err)
	}
	_, err := tr.RecordFailure(ctx, "recent-key")
	require.NoError(t, err)

	*clock = base.Add(5 * time.Minute)
	tr.sweep()

	tr.mu.Lock()
	defer tr.mu.Unlock()
	assert.Len(t, tr.entries, 2)
}

func TestStatus_Remaining(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	st := Status{Locked: true, LockedUntil: now.Add(10 * time.Minute)}
	assert.Equal(t, 10*time.Minute, st.Remaining(now))

	st = Status{Locked: true, LockedUntil: now.Add(-time.Minute)}
	assert.Zero(t, st.Remaining(now))

	st = Status{}
	assert.Zero(t, st.Remaining(now))
}
