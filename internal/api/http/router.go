package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campusworks/repair-service/internal/api/http/handlers"
	"github.com/campusworks/repair-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Directory      *handlers.DirectoryHandler
	Tickets        *handlers.TicketsHandler
	StaffTickets   *handlers.StaffTicketsHandler
	AuthMiddleware *auth.AuthMiddleware
	UploadsDir     string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	if cfg.UploadsDir != "" {
		app.Static("/uploads", cfg.UploadsDir)
	}

	api := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())

	api.Get("/categories", cfg.Directory.ListCategories)
	api.Get("/buildings", cfg.Directory.ListBuildings)

	tickets := api.Group("/tickets")
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Put("/:id", cfg.Tickets.UpdateContent)
	tickets.Get("/:id/history", cfg.Tickets.History)

	staff := tickets.Group("", auth.RequireResponder())
	staff.Put("/:id/status", cfg.StaffTickets.UpdateStatus)
	staff.Post("/:id/reopen", cfg.StaffTickets.Reopen)
}
