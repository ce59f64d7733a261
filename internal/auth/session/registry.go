// Package session holds server-side state for authenticated devices. A
// token is only honored while its session is still present here, so
// destroying a session revokes unexpired access tokens immediately.
package session

import (
	"context"

	"github.com/ccabucoo/chick-n-needs/internal/auth/domain"
)

// Registry is the session store. Implementations must be safe for
// concurrent use.
//
// Sessions have no lifetime of their own; token expiry is the authority.
// Implementations still evict sessions idle for longer than the
// access-token TTL so that the store stays bounded and a stale session can
// never outlive every token that references it.
type Registry interface {
	// Create opens a session for the user and returns it.
	Create(ctx context.Context, userID, clientIP, userAgent string) (*domain.Session, error)
	// Get returns the session or nil when it does not exist.
	Get(ctx context.Context, sessionID string) (*domain.Session, error)
	// Touch bumps the last-activity timestamp. Unknown IDs are ignored.
	Touch(ctx context.Context, sessionID string) error
	// Destroy removes the session. Removing an absent session is not an
	// error.
	Destroy(ctx context.Context, sessionID string) error
	// DestroyAllForUser removes every session the user holds and returns
	// how many were removed.
	DestroyAllForUser(ctx context.Context, userID string) (int, error)
	// ListByUser returns the user's live sessions.
	ListByUser(ctx context.Context, userID string) ([]*domain.Session, error)
	// Close stops any background maintenance.
	Close()
}
