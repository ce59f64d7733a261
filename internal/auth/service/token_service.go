package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/ccabucoo/chick-n-needs/internal/auth/service TokenGenerator

import (
	"errors"
	"time"

	autherror "github.com/ccabucoo/chick-n-needs/internal/errors"
	"github.com/ccabucoo/chick-n-needs/pkg/constant"
	"github.com/golang-jwt/jwt/v5"
)

// TokenGenerator issues and verifies the two token kinds. Access tokens
// carry the session binding; refresh tokens only identify the user.
type TokenGenerator interface {
	GenerateAccessToken(userID, email, role, sessionID string) (string, time.Time, error)
	GenerateRefreshToken(userID string) (string, time.Time, error)
	VerifyAccessToken(tokenString string) (*JWTCustomClaims, error)
	VerifyRefreshToken(tokenString string) (*JWTCustomClaims, error)
	AccessTokenTTL() time.Duration
	RefreshTokenTTL() time.Duration
}

// TokenService signs both token kinds with one shared HMAC secret. The
// issuer, audience and algorithm are pinned at verification time, so a
// token minted with another algorithm (or for another audience) is
// rejected no matter what its claims say.
type TokenService struct {
	Secret             string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type JWTCustomClaims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	SessionID string `json:"session_id,omitempty"`
	TokenType string `json:"token_type,omitempty"`
}

var _ TokenGenerator = (*TokenService)(nil)

func NewTokenService(secret string, accessMinutes, refreshMinutes int) *TokenService {
	return &TokenService{
		Secret:             secret,
		AccessTokenExpiry:  time.Duration(accessMinutes) * time.Minute,
		RefreshTokenExpiry: time.Duration(refreshMinutes) * time.Minute,
	}
}

func (ts *TokenService) GenerateAccessToken(userID, email, role, sessionID string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ts.AccessTokenExpiry)

	claims := JWTCustomClaims{
		UserID:    userID,
		Email:     email,
		Role:      role,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    constant.TokenIssuer,
			Audience:  jwt.ClaimStrings{constant.TokenAudience},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(ts.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (ts *TokenService) GenerateRefreshToken(userID string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ts.RefreshTokenExpiry)

	claims := JWTCustomClaims{
		UserID:    userID,
		TokenType: constant.TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    constant.TokenIssuer,
			Audience:  jwt.ClaimStrings{constant.TokenAudience},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(ts.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// VerifyAccessToken parses and validates an access token. The returned
// error is one of the sentinel token errors, so callers can map expired,
// invalid and malformed tokens to distinct responses.
func (ts *TokenService) VerifyAccessToken(tokenString string) (*JWTCustomClaims, error) {
	return ts.verify(tokenString)
}

// VerifyRefreshToken validates a refresh token and rejects tokens of any
// other type, so an access token can never be replayed as a refresh token.
func (ts *TokenService) VerifyRefreshToken(tokenString string) (*JWTCustomClaims, error) {
	claims, err := ts.verify(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != constant.TokenTypeRefresh {
		return nil, autherror.ErrNotRefreshToken
	}
	return claims, nil
}

func (ts *TokenService) verify(tokenString string) (*JWTCustomClaims, error) {
	claims := &JWTCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (interface{}, error) {
			return []byte(ts.Secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(constant.TokenIssuer),
		jwt.WithAudience(constant.TokenAudience),
	)

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, autherror.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, autherror.ErrTokenMalformed
		default:
			// Bad signature, wrong algorithm, wrong issuer/audience.
			return nil, autherror.ErrTokenInvalid
		}
	}

	if !token.Valid {
		return nil, autherror.ErrTokenInvalid
	}
	return claims, nil
}

func (ts *TokenService) AccessTokenTTL() time.Duration {
	return ts.AccessTokenExpiry
}

func (ts *TokenService) RefreshTokenTTL() time.Duration {
	return ts.RefreshTokenExpiry
}
