package errors

import (
	"errors"
)

// Authentication failures. Unknown-account and invalid-password are kept
// distinct because the storefront surfaces different messages for them.
var (
	ErrAccountNotFound    = errors.New("account does not exist")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("too many failed login attempts")
)

// Registration / profile failures.
var (
	ErrEmailAlreadyInUse    = errors.New("email is already registered")
	ErrUsernameAlreadyInUse = errors.New("username is already taken")
	ErrWeakPassword         = errors.New("password does not meet security requirements")
	ErrPasswordMismatch     = errors.New("passwords do not match")
	ErrUserNotFound         = errors.New("user not found")
)

// Token failures, each distinguishable so the auth gate can map them to
// distinct responses.
var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenMalformed = errors.New("token verification failed")
)

// Session failures.
var (
	ErrSessionExpired  = errors.New("session expired or invalid")
	ErrSessionNotFound = errors.New("session not found")
	ErrNotRefreshToken = errors.New("invalid refresh token")
)
