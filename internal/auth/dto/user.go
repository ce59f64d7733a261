package dto

import (
	"time"

	"github.com/ccabucoo/chick-n-needs/internal/auth/domain"
)

type UserOutput struct {
	ID        string     `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Username  string     `json:"username"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Phone     string     `json:"phone"`
	Address   string     `json:"address"`
	Birthday  *time.Time `json:"birthday"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewUserOutput strips the password hash and internal fields from a
// credential-store record.
func NewUserOutput(u *domain.User) UserOutput {
	return UserOutput{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Phone:     u.Phone,
		Address:   u.Address,
		Birthday:  u.Birthday,
		CreatedAt: u.CreatedAt,
	}
}

type UpdateProfileInput struct {
	Phone    string     `json:"phone"`
	Address  string     `json:"address"`
	Birthday *time.Time `json:"birthday"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

type UpdateRoleInput struct {
	Role string `json:"role"`
}

type SessionOutput struct {
	ID             string    `json:"id"`
	IPAddress      string    `json:"ip_address"`
	UserAgent      string    `json:"user_agent"`
	CreatedAt      time.Time `json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

// NewSessionOutput converts a registry entry for API responses.
func NewSessionOutput(s *domain.Session) SessionOutput {
	return SessionOutput{
		ID:             s.ID,
		IPAddress:      s.ClientIP,
		UserAgent:      s.UserAgent,
		CreatedAt:      s.CreatedAt,
		LastActivityAt: s.LastActivityAt,
	}
}
