package domain

import "context"

// UserRepository is the credential store.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmailOrUsername(ctx context.Context, email, username string) ([]*User, error)
	Create(ctx context.Context, user *User) error
	UpdateProfile(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	UpdateRole(ctx context.Context, userID, role string) error
	ListUsers(ctx context.Context) ([]*User, error)
	RecordLoginAttempt(ctx context.Context, email, ip string, successful bool) error
}
