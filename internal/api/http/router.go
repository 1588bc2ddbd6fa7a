package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/api/http/handlers"
	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/auth"
	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Shifts         *handlers.ShiftsHandler
	Requests       *handlers.RequestsHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	api := app.Group("/api")
	authenticated := cfg.AuthMiddleware.Handle
	admin := auth.RequireAdmin()

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/forgot-password", cfg.Auth.ForgotPassword)
	authGroup.Post("/reset-password", cfg.Auth.ResetPassword)
	authGroup.Post("/change-password", authenticated, cfg.Auth.ChangePassword)

	users := api.Group("/users", authenticated)
	users.Get("/", admin, cfg.Users.List)
	users.Get("/work-summary", admin, cfg.Users.WorkSummary)
	users.Get("/me/work-summary", cfg.Users.MyWorkSummary)
	users.Post("/:id/forgot-password", admin, cfg.Users.SendPasswordReset)
	users.Delete("/:id", admin, cfg.Users.Delete)

	shifts := api.Group("/shifts", authenticated)
	requests := shifts.Group("/requests")
	requests.Post("/", cfg.Requests.Submit)
	requests.Get("/", admin, cfg.Requests.ListAll)
	requests.Get("/mine", cfg.Requests.ListMine)
	requests.Post("/bulk-approve", admin, cfg.Requests.BulkApprove)
	requests.Put("/:id", admin, cfg.Requests.Decide)
	requests.Patch("/:id", cfg.Requests.Edit)
	requests.Delete("/:id/own", cfg.Requests.DeleteOwn)
	requests.Delete("/:id", admin, cfg.Requests.AdminDelete)

	shifts.Get("/all", admin, cfg.Shifts.ListAll)
	shifts.Get("/my-shifts", cfg.Shifts.ListMine)
	shifts.Post("/", admin, cfg.Shifts.Create)
	shifts.Put("/:id", admin, cfg.Shifts.Update)
	shifts.Delete("/:id", admin, cfg.Shifts.Delete)
}
