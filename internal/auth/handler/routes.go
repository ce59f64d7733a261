package handler

import (
	"github.com/ccabucoo/chick-n-needs/pkg/constant"
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, h *AuthHandler) {
	api := app.Group("/api")

	api.Get("/health", h.Health)

	auth := api.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Post("/refresh", h.Refresh)
	auth.Post("/logout", h.Logout)

	auth.Get("/profile", h.Authenticate, h.GetProfile)
	auth.Put("/profile", h.Authenticate, h.UpdateProfile)
	auth.Put("/password", h.Authenticate, h.ChangePassword)
	auth.Get("/sessions", h.Authenticate, h.ListSessions)
	auth.Delete("/sessions/:id", h.Authenticate, h.DestroySession)

	// Admin-only endpoints
	admin := api.Group("/admin", h.Authenticate, h.RequireRole(constant.RoleAdmin))
	admin.Get("/users", h.GetAllUsers)
	admin.Patch("/users/:id/role", h.UpdateUserRole)
	admin.Get("/users/:id/sessions", h.GetUserSessions)
	admin.Delete("/users/:id/sessions", h.ForceLogout)
}
