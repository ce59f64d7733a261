package service

//go:generate mockgen -destination=../../mocks/mock_user_repository.go -package=mocks github.com/ccabucoo/chick-n-needs/internal/auth/domain UserRepository
//go:generate mockgen -destination=../../mocks/mock_session_registry.go -package=mocks github.com/ccabucoo/chick-n-needs/internal/auth/session Registry
//go:generate mockgen -destination=../../mocks/mock_lockout_tracker.go -package=mocks github.com/ccabucoo/chick-n-needs/internal/auth/lockout Tracker

import (
	"context"
	"strings"
	"time"

	"github.com/ccabucoo/chick-n-needs/config"
	"github.com/ccabucoo/chick-n-needs/internal/auth/domain"
	"github.com/ccabucoo/chick-n-needs/internal/auth/dto"
	"github.com/ccabucoo/chick-n-needs/internal/auth/lockout"
	"github.com/ccabucoo/chick-n-needs/internal/auth/session"
	autherror "github.com/ccabucoo/chick-n-needs/internal/errors"
	"github.com/ccabucoo/chick-n-needs/pkg/constant"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserService drives the login flow: lockout check, credential
// verification, session creation and token issuance. It also owns the
// account-lifecycle operations the storefront exposes.
type UserService struct {
	repo     domain.UserRepository
	tokens   TokenGenerator
	sessions session.Registry
	tracker  lockout.Tracker
	cfg      *config.Config
	log      *zap.Logger
}

func NewUserService(
	repo domain.UserRepository,
	tokens TokenGenerator,
	sessions session.Registry,
	tracker lockout.Tracker,
	cfg *config.Config,
	log *zap.Logger,
) *UserService {
	return &UserService{
		repo:     repo,
		tokens:   tokens,
		sessions: sessions,
		tracker:  tracker,
		cfg:      cfg,
		log:      log,
	}
}

func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) (*dto.LoginResult, error) {
	if verr := validateRegisterInput(&input); verr != nil {
		return nil, verr
	}

	if _, ok := weakPasswords[strings.ToLower(input.Password)]; ok {
		return nil, autherror.ErrWeakPassword
	}
	if _, ok := passwordStrength(input.Password); !ok {
		return nil, autherror.ErrWeakPassword
	}

	conflicts, err := s.repo.GetByEmailOrUsername(ctx, input.Email, input.Username)
	if err != nil {
		return nil, err
	}
	var fields []autherror.FieldError
	for _, c := range conflicts {
		if c.Email == input.Email {
			fields = append(fields, autherror.FieldError{Field: "email", Message: "Email is already registered"})
		}
		if c.Username == input.Username {
			fields = append(fields, autherror.FieldError{Field: "username", Message: "Username is already taken"})
		}
	}
	if len(fields) > 0 {
		return nil, autherror.NewValidationError(fields...)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.NewString(),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Username:     input.Username,
		Name:         strings.TrimSpace(input.FirstName + " " + input.LastName),
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Role:         constant.DefaultRole,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user registered",
		zap.String("user_id", user.ID),
		zap.String("username", user.Username))

	// The storefront logs new accounts straight in, so registration opens
	// a session and returns a token bound to it.
	return s.openSession(ctx, user, input.IPAddress, input.UserAgent, false)
}

func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*dto.LoginResult, error) {
	if verr := validateLoginInput(&input); verr != nil {
		return nil, verr
	}

	st, err := s.tracker.Check(ctx, input.IPAddress)
	if err != nil {
		return nil, err
	}
	if st.Locked {
		return nil, &autherror.LockedError{Until: st.LockedUntil}
	}

	user, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, s.loginFailure(ctx, input, autherror.ErrAccountNotFound)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		return nil, s.loginFailure(ctx, input, autherror.ErrInvalidCredentials)
	}

	if err := s.tracker.Clear(ctx, input.IPAddress); err != nil {
		s.log.Warn("failed to clear lockout state", zap.String("ip", input.IPAddress), zap.Error(err))
	}
	if err := s.repo.RecordLoginAttempt(ctx, input.Email, input.IPAddress, true); err != nil {
		s.log.Warn("failed to record login attempt", zap.Error(err))
	}

	return s.openSession(ctx, user, input.IPAddress, input.UserAgent, true)
}

// loginFailure charges the failed attempt to the client key and shapes the
// error: a lockout once the threshold is hit, otherwise the given reason
// with the attempts left.
func (s *UserService) loginFailure(ctx context.Context, input dto.LoginInput, reason error) error {
	st, err := s.tracker.RecordFailure(ctx, input.IPAddress)
	if err != nil {
		return err
	}
	if err := s.repo.RecordLoginAttempt(ctx, input.Email, input.IPAddress, false); err != nil {
		s.log.Warn("failed to record login attempt", zap.Error(err))
	}

	if st.Locked {
		s.log.Warn("client locked out",
			zap.String("ip", input.IPAddress),
			zap.Int("attempts", st.Attempts),
			zap.Time("locked_until", st.LockedUntil))
		return &autherror.LockedError{Until: st.LockedUntil}
	}

	remaining := s.cfg.LoginMaxAttempts - st.Attempts
	if remaining < 0 {
		remaining = 0
	}
	return &autherror.CredentialsError{Reason: reason, RemainingAttempts: remaining}
}

// openSession creates a registry entry and mints tokens bound to it.
func (s *UserService) openSession(ctx context.Context, user *domain.User, ip, userAgent string, withRefresh bool) (*dto.LoginResult, error) {
	sess, err := s.sessions.Create(ctx, user.ID, ip, userAgent)
	if err != nil {
		return nil, err
	}

	accessToken, _, err := s.tokens.GenerateAccessToken(user.ID, user.Email, user.Role, sess.ID)
	if err != nil {
		return nil, err
	}

	result := &dto.LoginResult{
		User:        dto.NewUserOutput(user),
		AccessToken: accessToken,
		ExpiresIn:   int(s.tokens.AccessTokenTTL().Seconds()),
		SessionID:   sess.ID,
	}

	if withRefresh {
		refreshToken, _, err := s.tokens.GenerateRefreshToken(user.ID)
		if err != nil {
			return nil, err
		}
		result.RefreshToken = refreshToken
	}

	return result, nil
}

// Authenticate is the gate behind every protected route: verify the
// token, require a live session, note (but do not block) an IP change,
// and bump last-activity.
func (s *UserService) Authenticate(ctx context.Context, tokenString, clientIP string) (*JWTCustomClaims, error) {
	claims, err := s.tokens.VerifyAccessToken(tokenString)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, autherror.ErrSessionExpired
	}

	if sess.ClientIP != clientIP {
		// Possible session hijack. The source design logs and lets the
		// request through; blocking is a product decision.
		s.log.Warn("session IP mismatch",
			zap.String("user_id", claims.UserID),
			zap.String("session_ip", sess.ClientIP),
			zap.String("request_ip", clientIP))
	}

	if err := s.sessions.Touch(ctx, sess.ID); err != nil {
		s.log.Warn("failed to touch session", zap.String("session_id", sess.ID), zap.Error(err))
	}

	return claims, nil
}

func (s *UserService) Refresh(ctx context.Context, input dto.RefreshInput) (*dto.RefreshResult, error) {
	claims, err := s.tokens.VerifyRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrUserNotFound
	}

	// A refresh opens a fresh session so the new access token passes the
	// gate's liveness check.
	sess, err := s.sessions.Create(ctx, user.ID, input.IPAddress, input.UserAgent)
	if err != nil {
		return nil, err
	}

	accessToken, _, err := s.tokens.GenerateAccessToken(user.ID, user.Email, user.Role, sess.ID)
	if err != nil {
		return nil, err
	}

	return &dto.RefreshResult{
		AccessToken: accessToken,
		ExpiresIn:   int(s.tokens.AccessTokenTTL().Seconds()),
		SessionID:   sess.ID,
	}, nil
}

// Logout destroys the session named by the token, when one is presented
// and still verifies. Logout never fails; clearing the refresh cookie is
// the part that matters.
func (s *UserService) Logout(ctx context.Context, accessToken string) {
	if accessToken == "" {
		return
	}
	claims, err := s.tokens.VerifyAccessToken(accessToken)
	if err != nil {
		return
	}
	if err := s.sessions.Destroy(ctx, claims.SessionID); err != nil {
		s.log.Warn("failed to destroy session on logout",
			zap.String("session_id", claims.SessionID), zap.Error(err))
	}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*dto.UserOutput, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrUserNotFound
	}
	out := dto.NewUserOutput(user)
	return &out, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, input dto.UpdateProfileInput) (*dto.UserOutput, error) {
	if verr := validateProfileInput(&input); verr != nil {
		return nil, verr
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrUserNotFound
	}

	user.Phone = input.Phone
	user.Address = input.Address
	user.Birthday = input.Birthday

	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	out := dto.NewUserOutput(user)
	return &out, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID string, input dto.ChangePasswordInput) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return autherror.ErrUserNotFound
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.CurrentPassword)) != nil {
		return autherror.ErrInvalidCredentials
	}
	if input.NewPassword != input.ConfirmPassword {
		return autherror.ErrPasswordMismatch
	}
	if _, ok := weakPasswords[strings.ToLower(input.NewPassword)]; ok {
		return autherror.ErrWeakPassword
	}
	if _, ok := passwordStrength(input.NewPassword); !ok {
		return autherror.ErrWeakPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), s.cfg.BcryptCost)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, userID, string(hashedPassword)); err != nil {
		return err
	}

	s.log.Info("password changed", zap.String("user_id", userID))
	return nil
}

func (s *UserService) ListSessions(ctx context.Context, userID string) ([]dto.SessionOutput, error) {
	sessions, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.SessionOutput, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, dto.NewSessionOutput(sess))
	}
	return out, nil
}

// DestroySession removes one of the caller's own sessions. Sessions owned
// by other users are reported as not found, not as forbidden.
func (s *UserService) DestroySession(ctx context.Context, userID, sessionID string) error {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess == nil || sess.UserID != userID {
		return autherror.ErrSessionNotFound
	}
	return s.sessions.Destroy(ctx, sessionID)
}

func (s *UserService) ListUsers(ctx context.Context) ([]dto.UserOutput, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]dto.UserOutput, 0, len(users))
	for _, u := range users {
		out = append(out, dto.NewUserOutput(u))
	}
	return out, nil
}

func (s *UserService) UpdateUserRole(ctx context.Context, userID, role string) error {
	if role != constant.RoleCustomer && role != constant.RoleAdmin {
		return autherror.NewValidationError(autherror.FieldError{
			Field:   "role",
			Message: "Role must be either customer or admin",
		})
	}
	return s.repo.UpdateRole(ctx, userID, role)
}

func (s *UserService) ListUserSessions(ctx context.Context, userID string) ([]dto.SessionOutput, error) {
	return s.ListSessions(ctx, userID)
}

// ForceLogout destroys every session a user holds.
func (s *UserService) ForceLogout(ctx context.Context, userID string) (int, error) {
	removed, err := s.sessions.DestroyAllForUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.log.Info("forced logout", zap.String("user_id", userID), zap.Int("sessions_removed", removed))
	return removed, nil
}
