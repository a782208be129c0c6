package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ejcents/schoolfix-minicapstone/internal/api/http/handlers"
	"github.com/ejcents/schoolfix-minicapstone/internal/auth"
	"github.com/ejcents/schoolfix-minicapstone/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Issues         *handlers.IssuesHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Auth.Logout)
	authGroup.Get("/session", cfg.AuthMiddleware.Handle, cfg.Auth.Session)

	issues := app.Group("/issues", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	issues.Post("/", cfg.Issues.CreateIssue)
	issues.Get("/", cfg.Issues.ListIssues)
	issues.Get("/:id", cfg.Issues.GetIssue)
	issues.Patch("/:id", cfg.Issues.UpdateIssue)
	issues.Patch("/:id/status", cfg.Issues.UpdateStatus)
	issues.Post("/:id/comments", cfg.Issues.AddComment)
	issues.Post("/:id/assign", auth.RequireAdmin(), cfg.Issues.AssignIssue)
	issues.Delete("/:id", auth.RequireAdmin(), cfg.Issues.DeleteIssue)

	admin := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	admin.Get("/accounts", cfg.Admin.ListAccounts)
	admin.Get("/accounts/maintenance", cfg.Admin.ListMaintenanceStaff)
	admin.Post("/accounts/maintenance", cfg.Admin.CreateMaintenanceAccount)
	admin.Get("/analytics", cfg.Admin.Analytics)
}
