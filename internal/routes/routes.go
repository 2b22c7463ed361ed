package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/campus-ride/campus_ride/internal/accounts"
	"github.com/campus-ride/campus_ride/internal/admin"
	"github.com/campus-ride/campus_ride/internal/auth"
	"github.com/campus-ride/campus_ride/internal/config"
	"github.com/campus-ride/campus_ride/internal/middleware"
	"github.com/campus-ride/campus_ride/internal/notification"
	"github.com/campus-ride/campus_ride/internal/profile"
	"github.com/campus-ride/campus_ride/internal/registration"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg      config.Config
	Store    *accounts.Store
	Cache    *redis.Client
	Notifier notification.Notifier
	Logger   *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	if d.Store == nil {
		return fmt.Errorf("account store is required")
	}
	if d.Logger == nil {
		return fmt.Errorf("logger is required")
	}
	if !d.Cfg.IsDev() && d.Cache == nil {
		return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
	}
	if d.Notifier == nil {
		d.Notifier = notification.NewLoggerNotifier(d.Logger)
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	if d.Cfg.IsDev() {
		// Plain text access log: [HH:MM:SS] 200 -  145ms METHOD /path
		app.Use(logger.New(logger.Config{
			Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
			TimeFormat: "15:04:05",
			TimeZone:   "Local",
		}))
	}
	app.Use(middleware.Audit(d.Logger))

	// Health
	RegisterHealthRoutes(app, d)

	// Services and handlers
	tokens := auth.NewTokens(d.Cfg.SessionSecret, d.Cfg.SessionTTL)
	authSvc := auth.NewService(d.Store, tokens, d.Logger)
	authHandler := auth.NewHandler(authSvc)
	registrationHandler := registration.NewHandler(d.Store, d.Notifier, d.Logger)
	adminHandler := admin.NewHandler(d.Store, d.Notifier, d.Logger)
	profileHandler := profile.NewHandler(d.Store, d.Logger)

	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	idempotency := middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger)
	RegisterRegistrationRoutes(api, registrationHandler, idempotency)
	rateLimiter := middleware.LoginRateLimit(d.Cache, d.Cfg.LoginAttempts, d.Logger)
	RegisterAuthRoutes(api, authHandler, rateLimiter)

	// Session routes
	session := middleware.SessionAuth(authSvc)
	api.Get("/auth/session", session, authHandler.Session)
	RegisterProfileRoutes(api.Group("/me", session, middleware.RequireRole(accounts.RoleStudent, accounts.RoleDriver)), profileHandler)
	RegisterAdminRoutes(api.Group("/admin", session, middleware.RequireRole(accounts.RoleAdmin)), adminHandler)

	return nil
}
