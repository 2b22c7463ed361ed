package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-ride/campus_ride/internal/registration"
)

// RegisterRegistrationRoutes wires the sign-up endpoints behind the idempotency guard.
func RegisterRegistrationRoutes(r fiber.Router, h *registration.Handler, idempotency fiber.Handler) {
	group := r.Group("/register", idempotency)
	group.Post("/student", h.RegisterStudent)
	group.Post("/driver", h.RegisterDriver)
}
