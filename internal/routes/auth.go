package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-ride/campus_ride/internal/auth"
)

// RegisterAuthRoutes wires login and logout. Logout takes no token, so it is
// throttled like login.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, rateLimiter fiber.Handler) {
	group := r.Group("/auth")
	if rateLimiter != nil {
		group.Post("/login", rateLimiter, h.Login)
		group.Post("/logout", rateLimiter, h.Logout)
		return
	}
	group.Post("/login", h.Login)
	group.Post("/logout", h.Logout)
}
