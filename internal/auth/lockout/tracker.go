// Package lockout tracks failed login attempts per client key (an IP
// address) and locks a key out once the attempt threshold is reached.
// Attempts accumulate until a successful login clears the key; there is no
// decay window. Locks expire on their own after the configured duration.
package lockout

import (
	"context"
	"time"

	"github.com/ccabucoo/chick-n-needs/internal/auth/domain"
)

// Status is the tracker's answer for one client key.
type Status struct {
	Attempts    int
	Locked      bool
	LockedUntil time.Time
}

// Remaining returns how long the lock still holds at the given instant.
func (s Status) Remaining(now time.Time) time.Duration {
	if !s.Locked || !now.Before(s.LockedUntil) {
		return 0
	}
	return s.LockedUntil.Sub(now)
}

// Tracker is the failed-attempt store. Implementations must be safe for
// concurrent use.
type Tracker interface {
	// Check reports the current lockout status without mutating state.
	Check(ctx context.Context, key string) (Status, error)
	// RecordFailure increments the attempt count and arms the lock when
	// the threshold is reached. It returns the post-increment status.
	RecordFailure(ctx context.Context, key string) (Status, error)
	// Clear removes all state for the key. Called on successful login.
	Clear(ctx context.Context, key string) error
	// Close stops any background maintenance.
	Close()
}

// retention bounds how long an idle, unlocked entry may linger before the
// sweep drops it. Without this the attempt map grows forever.
const retention = 24 * time.Hour

func statusOf(e domain.LockoutState, now time.Time) Status {
	return Status{
		Attempts:    e.Attempts,
		Locked:      e.Locked(now),
		LockedUntil: e.LockedUntil,
	}
}
