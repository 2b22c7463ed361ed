package apperrors

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-ride/campus_ride/internal/accounts"
)

// ErrNotFound is returned by handlers when an id matches no account.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the session role may not use a route.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized is returned when no valid session accompanies a request.
var ErrUnauthorized = errors.New("unauthorized")

// Classify maps an error to an HTTP status and a stable string code.
func Classify(err error) (int, string) {
	var fe *fiber.Error
	switch {
	case errors.Is(err, accounts.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials"
	case errors.Is(err, accounts.ErrNotVerified):
		return http.StatusForbidden, "not_verified"
	case errors.Is(err, accounts.ErrDuplicateAdmin):
		return http.StatusConflict, "duplicate_admin"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.As(err, &fe):
		return fe.Code, codeForStatus(fe.Code)
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "invalid_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusTooManyRequests:
		return "rate_limited"
	case http.StatusServiceUnavailable:
		return "unavailable"
	}
	if status >= 500 {
		return "internal"
	}
	return "error"
}

// Handler renders every error as {"success": false, "error": ..., "code": ...}.
func Handler(c *fiber.Ctx, err error) error {
	status, code := Classify(err)
	message := err.Error()
	var fe *fiber.Error
	if status == http.StatusInternalServerError && !errors.As(err, &fe) {
		message = "internal server error"
	}
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
		"code":    code,
	})
}
