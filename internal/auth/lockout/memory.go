package lockout

import (
	"context"
	"sync"
	"time"

	"github.com/ccabucoo/chick-n-needs/internal/auth/domain"
)

// MemoryTracker keeps attempt counts in a mutex-guarded map. State is
// process-local; replicas behind one load balancer should use the Redis
// tracker instead.
type MemoryTracker struct {
	mu      sync.Mutex
	entries map[string]domain.LockoutState

	maxAttempts  int
	lockDuration time.Duration

	now  func() time.Time
	done chan struct{}
	once sync.Once
}

// NewMemoryTracker builds a tracker and starts its janitor goroutine.
func NewMemoryTracker(maxAttempts int, lockDuration time.Duration) *MemoryTracker {
	t := &MemoryTracker{
		entries:      make(map[string]domain.LockoutState),
		maxAttempts:  maxAttempts,
		lockDuration: lockDuration,
		now:          time.Now,
		done:         make(chan struct{}),
	}
	go t.janitor(time.Minute)
	return t
}

func (t *MemoryTracker) Check(_ context.Context, key string) (Status, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[key]
	if !ok {
		return Status{}, nil
	}
	return statusOf(e, t.now()), nil
}

func (t *MemoryTracker) RecordFailure(_ context.Context, key string) (Status, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	e := t.entries[key]
	e.Attempts++
	e.LastAttempt = now
	if e.Attempts >= t.maxAttempts {
		e.LockedUntil = now.Add(t.lockDuration)
	}
	t.entries[key] = e

	return statusOf(e, now), nil
}

func (t *MemoryTracker) Clear(_ context.Context, key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.entries, key)
	return nil
}

// Close stops the janitor. The tracker remains usable afterwards, it just
// no longer sweeps.
func (t *MemoryTracker) Close() {
	t.once.Do(func() { close(t.done) })
}

func (t *MemoryTracker) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.done:
			return
		case <-ticker.C:
			t.sweep()
		}
	}
}

// sweep drops entries whose lock has expired and unlocked entries idle
// past the retention bound.
func (t *MemoryTracker) sweep() {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	for key, e := range t.entries {
		if !e.LockedUntil.IsZero() {
			if !e.Locked(now) {
				delete(t.entries, key)
			}
			continue
		}
		if now.Sub(e.LastAttempt) > retention {
			delete(t.entries, key)
		}
	}
}
