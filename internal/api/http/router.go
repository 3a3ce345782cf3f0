package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/voting-service/internal/api/http/handlers"
	"github.com/spec-kit/voting-service/internal/auth"
)

// AdminLoginPath is where unauthenticated browser visits to /admin are sent.
const AdminLoginPath = "/admin/login"

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Candidates     *handlers.CandidatesHandler
	Accounts       *handlers.AccountsHandler
	Ballot         *handlers.BallotHandler
	Dashboard      *handlers.DashboardHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/admin/login", cfg.Auth.AdminLogin)
	authGroup.Post("/admin/logout", cfg.Auth.AdminLogout)
	authGroup.Post("/voter/login", cfg.Auth.VoterLogin)
	authGroup.Post("/voter/logout", cfg.Auth.VoterLogout)

	app.Get("/candidates", cfg.Candidates.List)

	app.Get(AdminLoginPath, cfg.Auth.AdminLoginPage)
	admin := app.Group("/admin", auth.RedirectBrowsersToLogin(AdminLoginPath), cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Get("/candidates", cfg.Candidates.List)
	admin.Post("/candidates", cfg.Candidates.Create)
	admin.Get("/candidates/:id", cfg.Candidates.Get)
	admin.Put("/candidates/:id", cfg.Candidates.Update)
	admin.Delete("/candidates/:id", cfg.Candidates.Delete)
	admin.Get("/accounts", cfg.Accounts.List)
	admin.Post("/accounts", cfg.Accounts.Create)
	admin.Get("/dashboard/tally", cfg.Dashboard.Tally)

	ballot := app.Group("/ballot", cfg.AuthMiddleware.Handle, auth.RequireVoter())
	ballot.Get("/", cfg.Ballot.Show)
	ballot.Post("/selection/:candidateId", cfg.Ballot.Toggle)
	ballot.Post("/submit", cfg.Ballot.Submit)
	ballot.Get("/receipt", cfg.Ballot.Receipt)
}
