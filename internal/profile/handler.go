package profile

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-ride/campus_ride/internal/accounts"
	"github.com/campus-ride/campus_ride/internal/apperrors"
	"github.com/campus-ride/campus_ride/internal/auth"
	"github.com/campus-ride/campus_ride/internal/registration"
)

// Handler lets a logged-in student or driver view and edit their profile.
type Handler struct {
	store  *accounts.Store
	logger *slog.Logger
}

// NewHandler builds a profile HTTP handler.
func NewHandler(store *accounts.Store, logger *slog.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// Get returns the session's account snapshot.
func (h *Handler) Get(c *fiber.Ctx) error {
	session, err := userSession(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "user": session.User})
}

// Update applies the patch to the session's account and returns the refreshed snapshot.
func (h *Handler) Update(c *fiber.Ctx) error {
	session, err := userSession(c)
	if err != nil {
		return err
	}

	var patch accounts.ProfilePatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if patch.Email != nil {
		email := strings.TrimSpace(*patch.Email)
		patch.Email = &email
	}
	if err := validatePatch(patch); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	user, ok := h.store.UpdateUserProfile(session.PrincipalID, patch)
	if !ok {
		return apperrors.ErrNotFound
	}
	h.logger.InfoContext(c.UserContext(), "profile updated", slog.String("user_id", user.ID))
	return c.JSON(fiber.Map{"success": true, "message": "profile updated successfully", "user": user})
}

func userSession(c *fiber.Ctx) (accounts.Session, error) {
	session, ok := c.Locals(auth.SessionLocal).(accounts.Session)
	if !ok {
		return accounts.Session{}, apperrors.ErrUnauthorized
	}
	if session.IsAdmin() {
		return accounts.Session{}, apperrors.ErrForbidden
	}
	return session, nil
}

// validatePatch rejects blanking out a field; omitting it leaves it unchanged.
// Email and password follow the sign-up rules.
func validatePatch(p accounts.ProfilePatch) error {
	fields := []struct {
		name  string
		value *string
	}{
		{"full_name", p.FullName},
		{"phone", p.Phone},
		{"email", p.Email},
		{"password", p.Password},
		{"student_id_image", p.StudentIDImage},
		{"driver_license_image", p.DriverLicenseImage},
		{"vehicle_type", p.VehicleType},
		{"plate_number", p.PlateNumber},
	}
	for _, f := range fields {
		if f.value != nil && strings.TrimSpace(*f.value) == "" {
			return errors.New(f.name + " cannot be empty")
		}
	}
	if p.Email != nil {
		if err := registration.ValidateEmail(*p.Email); err != nil {
			return err
		}
	}
	if p.Password != nil {
		if err := registration.ValidatePassword(*p.Password, ""); err != nil {
			return err
		}
	}
	return nil
}
