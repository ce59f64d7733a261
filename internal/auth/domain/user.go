package domain

import "time"

// User is a credential-store record. Users are never hard-deleted.
type User struct {
	ID           string
	FirstName    string
	LastName     string
	Username     string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Phone        string
	Address      string
	Birthday     *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session is server-side state for one authenticated device. A user may
// hold any number of concurrent sessions.
type Session struct {
	ID             string
	UserID         string
	ClientIP       string
	UserAgent      string
	CreatedAt      time.Time
	LastActivityAt time.Time
}

// LockoutState is the failed-attempt tracker's view of one client key.
type LockoutState struct {
	Attempts    int
	LockedUntil time.Time
	LastAttempt time.Time
}

// Locked reports whether the key is locked out as of now.
func (s LockoutState) Locked(now time.Time) bool {
	return now.Before(s.LockedUntil)
}

// LoginAttempt is an audit-trail row; it carries no lockout semantics.
type LoginAttempt struct {
	ID          string
	Email       string
	IPAddress   string
	Successful  bool
	AttemptTime time.Time
}
