package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-ride/campus_ride/internal/admin"
)

// RegisterAdminRoutes wires the review queue and admin management endpoints.
func RegisterAdminRoutes(r fiber.Router, h *admin.Handler) {
	r.Get("/stats", h.Stats)
	r.Get("/users", h.Users)
	r.Get("/verifications/pending", h.Pending)
	r.Get("/verifications/verified", h.Verified)
	r.Post("/verifications/:userId/approve", h.Approve)
	r.Post("/verifications/:userId/reject", h.Reject)
	r.Get("/admins", h.Admins)
	r.Post("/admins", h.CreateAdmin)
}
