package handler

import (
	"errors"
	"strings"

	"github.com/ccabucoo/chick-n-needs/internal/auth/service"
	autherror "github.com/ccabucoo/chick-n-needs/internal/errors"
	"github.com/gofiber/fiber/v2"
)

const claimsLocalKey = "claims"

// Authenticate is the gate in front of every protected route: it verifies
// the bearer token, requires its session to still be alive, and stores
// the decoded claims in the request locals.
func (h *AuthHandler) Authenticate(c *fiber.Ctx) error {
	token := bearerToken(c)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "Access token required",
		})
	}

	claims, err := h.userService.Authenticate(c.Context(), token, c.IP())
	if err != nil {
		switch {
		case errors.Is(err, autherror.ErrTokenExpired):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   "Token expired",
			})
		case errors.Is(err, autherror.ErrTokenInvalid):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   "Invalid token",
			})
		case errors.Is(err, autherror.ErrTokenMalformed):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   "Token verification failed",
			})
		case errors.Is(err, autherror.ErrSessionExpired):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   "Session expired or invalid",
			})
		default:
			return h.internalError(c, err)
		}
	}

	c.Locals(claimsLocalKey, claims)
	return c.Next()
}

// RequireRole guards a route group behind a role claim. It must run after
// Authenticate.
func (h *AuthHandler) RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := currentClaims(c)
		if claims == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"error":   "Access token required",
			})
		}
		if claims.Role != role {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   "Insufficient permissions",
			})
		}
		return c.Next()
	}
}

func currentClaims(c *fiber.Ctx) *service.JWTCustomClaims {
	claims, _ := c.Locals(claimsLocalKey).(*service.JWTCustomClaims)
	return claims
}

func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
