package registration

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-ride/campus_ride/internal/accounts"
	"github.com/campus-ride/campus_ride/internal/notification"
)

// Handler exposes the student and student-driver sign-up endpoints.
type Handler struct {
	store    *accounts.Store
	notifier notification.Notifier
	logger   *slog.Logger
}

// NewHandler builds a registration HTTP handler.
func NewHandler(store *accounts.Store, notifier notification.Notifier, logger *slog.Logger) *Handler {
	return &Handler{store: store, notifier: notifier, logger: logger}
}

type studentRequest struct {
	FullName        string `json:"full_name"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	StudentIDImage  string `json:"student_id_image"`
}

func (r *studentRequest) normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Email = strings.TrimSpace(r.Email)
	r.StudentIDImage = strings.TrimSpace(r.StudentIDImage)
}

func (r studentRequest) registration() accounts.StudentRegistration {
	return accounts.StudentRegistration{
		FullName:       r.FullName,
		Phone:          r.Phone,
		Email:          r.Email,
		Password:       r.Password,
		StudentIDImage: r.StudentIDImage,
	}
}

type driverRequest struct {
	studentRequest
	DriverLicenseImage string `json:"driver_license_image"`
	VehicleType        string `json:"vehicle_type"`
	PlateNumber        string `json:"plate_number"`
}

type registerResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	User    accounts.UserAccount `json:"user"`
}

// RegisterStudent queues a student sign-up for admin review.
func (h *Handler) RegisterStudent(c *fiber.Ctx) error {
	var req studentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	req.normalize()
	if err := validateStudent(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	user := h.store.RegisterStudent(req.registration())
	h.completed(c.UserContext(), user)
	return c.Status(http.StatusCreated).JSON(registerResponse{
		Success: true,
		Message: "registration submitted for verification",
		User:    user,
	})
}

// RegisterDriver queues a student-driver sign-up for admin review.
func (h *Handler) RegisterDriver(c *fiber.Ctx) error {
	var req driverRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	req.normalize()
	req.DriverLicenseImage = strings.TrimSpace(req.DriverLicenseImage)
	req.VehicleType = strings.TrimSpace(req.VehicleType)
	req.PlateNumber = strings.ToUpper(strings.TrimSpace(req.PlateNumber))
	if err := validateDriver(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	user := h.store.RegisterStudentDriver(accounts.DriverRegistration{
		StudentRegistration: req.registration(),
		DriverLicenseImage:  req.DriverLicenseImage,
		VehicleType:         req.VehicleType,
		PlateNumber:         req.PlateNumber,
	})
	h.completed(c.UserContext(), user)
	return c.Status(http.StatusCreated).JSON(registerResponse{
		Success: true,
		Message: "registration submitted for verification",
		User:    user,
	})
}

func (h *Handler) completed(ctx context.Context, user accounts.UserAccount) {
	h.logger.InfoContext(ctx, "registration completed",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
		slog.String("email", user.Email),
		slog.Int("status", http.StatusCreated),
	)
	if h.notifier == nil {
		return
	}
	if err := h.notifier.Send(ctx, notification.Message{
		Kind:        notification.KindRegistrationReceived,
		Destination: user.Email,
		Body:        fmt.Sprintf("Hi %s, your %s registration is awaiting admin verification", user.FullName, user.Role),
	}); err != nil {
		h.logger.WarnContext(ctx, "registration notification failed", slog.Any("error", err))
	}
}
