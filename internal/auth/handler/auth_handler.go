package handler

import (
	"errors"
	"time"

	"github.com/ccabucoo/chick-n-needs/config"
	"github.com/ccabucoo/chick-n-needs/internal/auth/dto"
	"github.com/ccabucoo/chick-n-needs/internal/auth/service"
	autherror "github.com/ccabucoo/chick-n-needs/internal/errors"
	"github.com/ccabucoo/chick-n-needs/pkg/constant"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthHandler struct {
	userService *service.UserService
	cfg         *config.Config
	log         *zap.Logger
}

func NewAuthHandler(userService *service.UserService, cfg *config.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{userService: userService, cfg: cfg, log: log}
}

func (h *AuthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "OK",
		"message":   "Chick'N Needs API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input dto.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid input",
		})
	}

	input.IPAddress = c.IP()
	input.UserAgent = string(c.Request().Header.UserAgent())

	result, err := h.userService.Register(c.Context(), input)
	if err != nil {
		return h.mapError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User registered successfully",
		"user":    result.User,
		"token":   result.AccessToken,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input dto.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid input",
		})
	}

	input.IPAddress = c.IP()
	input.UserAgent = string(c.Request().Header.UserAgent())

	result, err := h.userService.Login(c.Context(), input)
	if err != nil {
		return h.mapError(c, err)
	}

	h.setRefreshCookie(c, result.RefreshToken)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":   true,
		"message":   "Login successful",
		"user":      result.User,
		"token":     result.AccessToken,
		"expiresIn": result.ExpiresIn,
	})
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	refreshToken := c.Cookies(constant.RefreshCookieName)
	if refreshToken == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "Refresh token required",
		})
	}

	input := dto.RefreshInput{
		RefreshToken: refreshToken,
		IPAddress:    c.IP(),
		UserAgent:    string(c.Request().Header.UserAgent()),
	}

	result, err := h.userService.Refresh(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, autherror.ErrNotRefreshToken):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid refresh token",
			})
		case errors.Is(err, autherror.ErrUserNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "User not found",
			})
		case errors.Is(err, autherror.ErrTokenExpired),
			errors.Is(err, autherror.ErrTokenInvalid),
			errors.Is(err, autherror.ErrTokenMalformed):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid refresh token",
			})
		default:
			return h.internalError(c, err)
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":   true,
		"message":   "Token refreshed successfully",
		"token":     result.AccessToken,
		"expiresIn": result.ExpiresIn,
	})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.userService.Logout(c.Context(), bearerToken(c))
	h.clearRefreshCookie(c)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Logged out successfully",
	})
}

func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	claims := currentClaims(c)

	user, err := h.userService.GetProfile(c.Context(), claims.UserID)
	if err != nil {
		return h.mapError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	claims := currentClaims(c)

	var input dto.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid input",
		})
	}

	user, err := h.userService.UpdateProfile(c.Context(), claims.UserID, input)
	if err != nil {
		return h.mapError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Profile updated successfully",
		"user":    user,
	})
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	claims := currentClaims(c)

	var input dto.ChangePasswordInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid input",
		})
	}

	if err := h.userService.ChangePassword(c.Context(), claims.UserID, input); err != nil {
		return h.mapError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Password changed successfully",
	})
}

func (h *AuthHandler) ListSessions(c *fiber.Ctx) error {
	claims := currentClaims(c)

	sessions, err := h.userService.ListSessions(c.Context(), claims.UserID)
	if err != nil {
		return h.mapError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":  true,
		"sessions": sessions,
	})
}

func (h *AuthHandler) DestroySession(c *fiber.Ctx) error {
	claims := currentClaims(c)
	sessionID := c.Params("id")

	if err := h.userService.DestroySession(c.Context(), claims.UserID, sessionID); err != nil {
		return h.mapError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Session destroyed",
	})
}

func (h *AuthHandler) GetAllUsers(c *fiber.Ctx) error {
	users, err := h.userService.ListUsers(c.Context())
	if err != nil {
		return h.mapError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"users":   users,
	})
}

func (h *AuthHandler) UpdateUserRole(c *fiber.Ctx) error {
	var input dto.UpdateRoleInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "invalid input",
		})
	}

	if err := h.userService.UpdateUserRole(c.Context(), c.Params("id"), input.Role); err != nil {
		return h.mapError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Role updated",
	})
}

func (h *AuthHandler) GetUserSessions(c *fiber.Ctx) error {
	sessions, err := h.userService.ListUserSessions(c.Context(), c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":  true,
		"sessions": sessions,
	})
}

func (h *AuthHandler) ForceLogout(c *fiber.Ctx) error {
	removed, err := h.userService.ForceLogout(c.Context(), c.Params("id"))
	if err != nil {
		return h.mapError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success":          true,
		"message":          "User logged out",
		"sessions_removed": removed,
	})
}

// mapError translates service errors into the storefront's response
// shapes. Anything unrecognized is an internal error.
func (h *AuthHandler) mapError(c *fiber.Ctx, err error) error {
	var verr *autherror.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"errors":  verr.Fields,
		})
	}

	var lerr *autherror.LockedError
	if errors.As(err, &lerr) {
		remaining := int(time.Until(lerr.Until).Minutes()) + 1
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"success":           false,
			"error":             "Account temporarily locked",
			"message":           "Too many failed attempts. Account locked for 15 minutes.",
			"lockedUntil":       lerr.Until.UnixMilli(),
			"remainingAttempts": 0,
			"retryAfterMinutes": remaining,
		})
	}

	var cerr *autherror.CredentialsError
	if errors.As(err, &cerr) {
		body := fiber.Map{
			"success":           false,
			"remainingAttempts": cerr.RemainingAttempts,
		}
		if errors.Is(cerr.Reason, autherror.ErrAccountNotFound) {
			body["error"] = "Account does not exist"
			body["message"] = "No account found with this email address. Please check your email or create a new account."
		} else {
			body["error"] = "Invalid email or password"
		}
		return c.Status(fiber.StatusUnauthorized).JSON(body)
	}

	switch {
	case errors.Is(err, autherror.ErrWeakPassword):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Password does not meet security requirements",
		})
	case errors.Is(err, autherror.ErrPasswordMismatch):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Passwords do not match",
		})
	case errors.Is(err, autherror.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid email or password",
		})
	case errors.Is(err, autherror.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "User not found",
		})
	case errors.Is(err, autherror.ErrSessionNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Session not found",
		})
	default:
		return h.internalError(c, err)
	}
}

func (h *AuthHandler) internalError(c *fiber.Ctx, err error) error {
	h.log.Error("request failed",
		zap.String("path", c.Path()),
		zap.Error(err))

	msg := "Something went wrong!"
	if !h.cfg.IsProduction() {
		msg = err.Error()
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"error":   msg,
	})
}

func (h *AuthHandler) setRefreshCookie(c *fiber.Ctx, refreshToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     constant.RefreshCookieName,
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   h.cfg.RefreshExpiryMin * 60,
		HTTPOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     constant.RefreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: fiber.CookieSameSiteStrictMode,
	})
}
