package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-ride/campus_ride/internal/profile"
)

// RegisterProfileRoutes wires the self-service profile endpoints.
func RegisterProfileRoutes(r fiber.Router, h *profile.Handler) {
	r.Get("", h.Get)
	r.Patch("", h.Update)
}
