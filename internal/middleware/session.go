package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-ride/campus_ride/internal/accounts"
	"github.com/campus-ride/campus_ride/internal/apperrors"
	"github.com/campus-ride/campus_ride/internal/auth"
)

// SessionAuth resolves the bearer token to the store's live session and puts
// it in c.Locals(auth.SessionLocal). Tokens from a replaced or cleared session
// are rejected.
func SessionAuth(svc *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return apperrors.ErrUnauthorized
		}
		token := strings.TrimSpace(authz[len("Bearer "):])
		session, err := svc.Resolve(token)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}
		c.Locals(auth.SessionLocal, session)
		return c.Next()
	}
}

// RequireRole allows the request only when the resolved session has one of the roles.
func RequireRole(roles ...accounts.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, ok := c.Locals(auth.SessionLocal).(accounts.Session)
		if !ok {
			return apperrors.ErrUnauthorized
		}
		for _, role := range roles {
			if session.Role == role {
				return c.Next()
			}
		}
		return apperrors.ErrForbidden
	}
}
