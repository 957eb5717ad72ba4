package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)

	session := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	session.Post("/logout", cfg.Auth.Logout)
	session.Get("/me", cfg.Auth.Me)

	tickets := app.Group("/requests", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/stats", cfg.Tickets.Stats)
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Patch("/:id", auth.RequireAdmin(), cfg.Tickets.UpdateTicket)
	tickets.Delete("/:id", auth.RequireAdmin(), cfg.Tickets.DeleteTicket)

	divisions := app.Group("/divisions", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	divisions.Get("", cfg.Users.ListDivisions)
	divisions.Post("", auth.RequireAdmin(), cfg.Users.CreateDivision)

	users := app.Group("/users", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	users.Get("", cfg.Users.ListUsers)
	users.Post("", cfg.Users.CreateUser)
	users.Delete("/:id", cfg.Users.DeleteUser)
}
