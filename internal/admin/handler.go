package admin

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-ride/campus_ride/internal/accounts"
	"github.com/campus-ride/campus_ride/internal/apperrors"
	"github.com/campus-ride/campus_ride/internal/notification"
)

// Handler exposes the admin review queue and admin management endpoints.
type Handler struct {
	store    *accounts.Store
	notifier notification.Notifier
	logger   *slog.Logger
}

// NewHandler builds an admin HTTP handler.
func NewHandler(store *accounts.Store, notifier notification.Notifier, logger *slog.Logger) *Handler {
	return &Handler{store: store, notifier: notifier, logger: logger}
}

type listResponse struct {
	Count int                    `json:"count"`
	Users []accounts.UserAccount `json:"users"`
}

// Pending lists accounts awaiting a decision.
func (h *Handler) Pending(c *fiber.Ctx) error {
	users := h.store.Pending()
	return c.JSON(listResponse{Count: len(users), Users: users})
}

// Verified lists approved accounts.
func (h *Handler) Verified(c *fiber.Ctx) error {
	users := h.store.Verified()
	return c.JSON(listResponse{Count: len(users), Users: users})
}

// Users lists every registered account.
func (h *Handler) Users(c *fiber.Ctx) error {
	users := h.store.Users()
	return c.JSON(listResponse{Count: len(users), Users: users})
}

// Approve marks the account verified.
func (h *Handler) Approve(c *fiber.Ctx) error {
	return h.decide(c, true)
}

// Reject records a rejection; the account stays unverified.
func (h *Handler) Reject(c *fiber.Ctx) error {
	return h.decide(c, false)
}

func (h *Handler) decide(c *fiber.Ctx, approved bool) error {
	userID := c.Params("userId")
	if !h.store.VerifyUser(userID, approved) {
		return fmt.Errorf("user %s: %w", userID, apperrors.ErrNotFound)
	}
	user, _ := h.store.User(userID)

	ctx := c.UserContext()
	h.logger.InfoContext(ctx, "verification decided",
		slog.String("user_id", user.ID),
		slog.String("status", string(user.Status)),
	)
	h.notify(ctx, user)

	message := "user has been rejected"
	if approved {
		message = "user has been approved"
	}
	return c.JSON(fiber.Map{"success": true, "message": message, "user": user})
}

func (h *Handler) notify(ctx context.Context, user accounts.UserAccount) {
	if h.notifier == nil {
		return
	}
	msg := notification.Message{
		Kind:        notification.KindVerificationRejected,
		Destination: user.Email,
		Body:        fmt.Sprintf("Hi %s, your registration was not approved", user.FullName),
	}
	if user.Verified {
		msg.Kind = notification.KindVerificationApproved
		msg.Body = fmt.Sprintf("Hi %s, your account is verified. You can now log in", user.FullName)
	}
	if err := h.notifier.Send(ctx, msg); err != nil {
		h.logger.WarnContext(ctx, "verification notification failed", slog.Any("error", err))
	}
}

// Admins lists admin accounts.
func (h *Handler) Admins(c *fiber.Ctx) error {
	admins := h.store.Admins()
	return c.JSON(fiber.Map{"count": len(admins), "admins": admins})
}

type createAdminRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateAdmin adds an admin account.
func (h *Handler) CreateAdmin(c *fiber.Ctx) error {
	var req createAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Password) == "" {
		return fiber.NewError(http.StatusBadRequest, "enter username and password")
	}

	admin, err := h.store.CreateAdmin(req.Username, req.Password)
	if err != nil {
		return err
	}
	h.logger.InfoContext(c.UserContext(), "admin created",
		slog.String("admin_id", admin.ID),
		slog.String("username", admin.Username),
	)
	return c.Status(http.StatusCreated).JSON(fiber.Map{"success": true, "admin": admin})
}

// Stats summarises the registry.
func (h *Handler) Stats(c *fiber.Ctx) error {
	return c.JSON(h.store.Stats())
}
