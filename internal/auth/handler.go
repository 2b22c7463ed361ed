package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-ride/campus_ride/internal/accounts"
)

// SessionLocal is the fiber.Ctx locals key holding the resolved accounts.Session.
const SessionLocal = "session"

// Handler exposes login/logout/session endpoints.
type Handler struct {
	svc *Service
}

// NewHandler builds the auth HTTP handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	Password   string `json:"password"`
}

func (r loginRequest) identifier() string {
	for _, v := range []string{r.Identifier, r.Email, r.Username} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

type loginResponse struct {
	Success   bool   `json:"success"`
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
	User      any    `json:"user"`
}

// Login authenticates an admin (by username) or a user (by email).
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	id := req.identifier()
	if id == "" || strings.TrimSpace(req.Password) == "" {
		return fiber.NewError(http.StatusBadRequest, "please enter email and password")
	}

	res, err := h.svc.Login(c.UserContext(), accounts.Credentials{Identifier: id, Password: req.Password})
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(loginResponse{
		Success:   true,
		Token:     res.Token,
		ExpiresIn: int64(time.Until(res.ExpiresAt).Seconds()),
		User:      PrincipalView(res.Session),
	})
}

// Logout clears the current session.
func (h *Handler) Logout(c *fiber.Ctx) error {
	h.svc.Logout(c.UserContext())
	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true, "status": "logged_out"})
}

// Session returns the session resolved by the session middleware.
func (h *Handler) Session(c *fiber.Ctx) error {
	session, ok := c.Locals(SessionLocal).(accounts.Session)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "not logged in")
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"session_id": session.ID,
		"started_at": session.StartedAt,
		"user":       PrincipalView(session),
	})
}

// PrincipalView renders the session principal: the account snapshot for
// students and drivers, a minimal descriptor for admins.
func PrincipalView(session accounts.Session) any {
	if session.IsAdmin() {
		return fiber.Map{
			"id":       session.PrincipalID,
			"username": session.Username,
			"role":     session.Role,
		}
	}
	return session.User
}
