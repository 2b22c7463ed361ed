package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-ride/campus_ride/internal/accounts"
	"github.com/campus-ride/campus_ride/internal/apperrors"
	"github.com/campus-ride/campus_ride/internal/auth"
)

// Audit emits one structured log line per request, tagged with the request id
// and, when a session was resolved, the principal behind it.
func Audit(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status, _ = apperrors.Classify(err)
		}

		attrs := []any{
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Duration("duration", time.Since(start)),
		}
		if requestID, _ := c.Locals(requestIDHeader).(string); requestID != "" {
			attrs = append(attrs, slog.String("request_id", requestID))
		}
		if session, ok := c.Locals(auth.SessionLocal).(accounts.Session); ok {
			attrs = append(attrs,
				slog.String("principal_id", session.PrincipalID),
				slog.String("role", string(session.Role)),
			)
		}

		switch {
		case status >= 500:
			attrs = append(attrs, slog.Any("error", err))
			logger.Error("request completed", attrs...)
		case err != nil:
			attrs = append(attrs, slog.String("error", err.Error()))
			logger.Warn("request completed", attrs...)
		default:
			logger.Info("request completed", attrs...)
		}
		return err
	}
}
