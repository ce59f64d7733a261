package service

import (
	"testing"
	"time"

	autherror "github.com/ccabucoo/chick-n-needs/internal/errors"
	"github.com/ccabucoo/chick-n-needs/pkg/constant"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenService(t *testing.T) {
	tests := []struct {
		name           string
		secret         string
		accessMinutes  int
		refreshMinutes int
	}{
		{
			name:           "valid parameters",
			secret:         "shared-secret-key",
			accessMinutes:  120,
			refreshMinutes: 10080,
		},
		{
			name:           "empty secret",
			secret:         "",
			accessMinutes:  30,
			refreshMinutes: 2880,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := NewTokenService(tt.secret, tt.accessMinutes, tt.refreshMinutes)

			assert.NotNil(t, ts)
			assert.Equal(t, tt.secret, ts.Secret)
			assert.Equal(t, time.Duration(tt.accessMinutes)*time.Minute, ts.AccessTokenExpiry)
			assert.Equal(t, time.Duration(tt.refreshMinutes)*time.Minute, ts.RefreshTokenExpiry)
		})
	}
}

func TestTokenService_GenerateAccessToken(t *testing.T) {
	tests := []struct {
		name      string
		userID    string
		email     string
		role      string
		sessionID string
	}{
		{
			name:      "customer token",
			userID:    "user-123",
			email:     "test@example.com",
			role:      "customer",
			sessionID: "sess-abc",
		},
		{
			name:      "admin token",
			userID:    "admin-456",
			email:     "admin@example.com",
			role:      "admin",
			sessionID: "sess-def",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := NewTokenService("test-secret-key-123", 120, 10080)

			before := time.Now()
			token, expiresAt, err := ts.GenerateAccessToken(tt.userID, tt.email, tt.role, tt.sessionID)
			after := time.Now()

			require.NoError(t, err)
			assert.NotEmpty(t, token)
			assert.True(t, expiresAt.After(before.Add(ts.AccessTokenExpiry).Add(-time.Second)))
			assert.True(t, expiresAt.Before(after.Add(ts.AccessTokenExpiry).Add(time.Second)))

			claims, err := ts.VerifyAccessToken(token)
			require.NoError(t, err)
			assert.Equal(t, tt.userID, claims.UserID)
			assert.Equal(t, tt.email, claims.Email)
			assert.Equal(t, tt.role, claims.Role)
			assert.Equal(t, tt.sessionID, claims.SessionID)
			assert.Empty(t, claims.TokenType)
			assert.Equal(t, constant.TokenIssuer, claims.Issuer)
			assert.Contains(t, claims.Audience, constant.TokenAudience)
		})
	}
}

func TestTokenService_GenerateRefreshToken(t *testing.T) {
	ts := NewTokenService("test-secret-key-123", 120, 10080)

	token, expiresAt, err := ts.GenerateRefreshToken("user-123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.False(t, expiresAt.IsZero())

	claims, err := ts.VerifyRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, constant.TokenTypeRefresh, claims.TokenType)
	assert.Empty(t, claims.SessionID)
}

func TestTokenService_VerifyAccessToken_Errors(t *testing.T) {
	ts := NewTokenService("test-secret-key-123", 120, 10080)

	t.Run("malformed token", func(t *testing.T) {
		claims, err := ts.VerifyAccessToken("not-a-jwt")
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, autherror.ErrTokenMalformed)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenService("a-different-secret", 120, 10080)
		token, _, err := other.GenerateAccessToken("user-123", "test@example.com", "customer", "sess-abc")
		require.NoError(t, err)

		claims, err := ts.VerifyAccessToken(token)
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, autherror.ErrTokenInvalid)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := &TokenService{
			Secret:             ts.Secret,
			AccessTokenExpiry:  -time.Minute,
			RefreshTokenExpiry: -time.Minute,
		}
		token, _, err := expired.GenerateAccessToken("user-123", "test@example.com", "customer", "sess-abc")
		require.NoError(t, err)

		claims, err := ts.VerifyAccessToken(token)
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, autherror.ErrTokenExpired)
	})

	t.Run("unsigned algorithm rejected", func(t *testing.T) {
		claims := JWTCustomClaims{
			UserID: "user-123",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    constant.TokenIssuer,
				Audience:  jwt.ClaimStrings{constant.TokenAudience},
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		got, err := ts.VerifyAccessToken(token)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, autherror.ErrTokenInvalid)
	})

	t.Run("wrong issuer rejected", func(t *testing.T) {
		claims := JWTCustomClaims{
			UserID: "user-123",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "someone-else",
				Audience:  jwt.ClaimStrings{constant.TokenAudience},
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
			SignedString([]byte(ts.Secret))
		require.NoError(t, err)

		got, err := ts.VerifyAccessToken(token)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, autherror.ErrTokenInvalid)
	})
}

func TestTokenService_VerifyRefreshToken_RejectsAccessToken(t *testing.T) {
	ts := NewTokenService("test-secret-key-123", 120, 10080)

	accessToken, _, err := ts.GenerateAccessToken("user-123", "test@example.com", "customer", "sess-abc")
	require.NoError(t, err)

	claims, err := ts.VerifyRefreshToken(accessToken)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, autherror.ErrNotRefreshToken)
}

func TestTokenService_TTLs(t *testing.T) {
	ts := NewTokenService("test-secret-key-123", 120, 10080)

	assert.Equal(t, 2*time.Hour, ts.AccessTokenTTL())
	assert.Equal(t, 7*24*time.Hour, ts.RefreshTokenTTL())
}
