package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/support-hub/helpdesk/internal/api/http/handlers"
	"github.com/support-hub/helpdesk/internal/auth"
)

// RouteConfig bundles handlers and middleware for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	StaffTickets   *handlers.StaffTicketsHandler
	Taxonomy       *handlers.TaxonomyHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes mounts all HTTP endpoints.
func RegisterRoutes(app *fiber.App, rc RouteConfig) {
	health := app.Group("/health")
	health.Get("/live", rc.Health.Live)
	health.Get("/ready", rc.Health.Ready)

	authGroup := app.Group("/auth/users")
	authGroup.Post("/register", rc.Users.Register)
	authGroup.Post("/login", rc.Users.Login)

	authed := app.Group("", rc.AuthMiddleware.Handle, auth.RequireAuthenticated())
	authed.Get("/users/me", rc.Users.Me)

	tickets := authed.Group("/tickets")
	tickets.Post("", rc.Tickets.CreateTicket)
	tickets.Get("", rc.Tickets.ListTickets)
	tickets.Get("/:id", rc.Tickets.GetTicket)
	tickets.Post("/:id/image", rc.Tickets.UploadImage)
	tickets.Post("/:id/comments", rc.Tickets.AddComment)
	tickets.Get("/:id/comments", rc.Tickets.ListComments)

	staff := authed.Group("/staff", auth.RequireStaff())

	staffTickets := staff.Group("/tickets")
	staffTickets.Get("", rc.StaffTickets.ListTickets)
	staffTickets.Post("", rc.StaffTickets.CreateTicket)
	staffTickets.Get("/:id", rc.StaffTickets.GetTicket)
	staffTickets.Patch("/:id/status", rc.StaffTickets.UpdateStatus)
	staffTickets.Patch("/:id/priority", rc.StaffTickets.UpdatePriority)
	staffTickets.Patch("/:id/team", rc.StaffTickets.AssignTeam)
	staffTickets.Patch("/:id/technician", rc.StaffTickets.AssignTechnician)
	staffTickets.Patch("/:id/category", rc.StaffTickets.AssignCategory)

	teams := staff.Group("/teams")
	teams.Post("", rc.Taxonomy.CreateTeam)
	teams.Get("", rc.Taxonomy.ListTeams)
	teams.Delete("/:id", rc.Taxonomy.DeleteTeam)

	categories := staff.Group("/categories")
	categories.Post("", rc.Taxonomy.CreateCategory)
	categories.Get("", rc.Taxonomy.ListCategories)
	categories.Delete("/:id", rc.Taxonomy.DeleteCategory)

	users := staff.Group("/users")
	users.Patch("/:id/staff", rc.Users.SetStaff)
	users.Patch("/:id/team", rc.Users.AssignTeam)
}
