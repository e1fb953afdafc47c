package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/worker-portal/internal/api/http/handlers"
	"github.com/spec-kit/worker-portal/internal/auth"
	"github.com/spec-kit/worker-portal/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Identity       *handlers.IdentityHandler
	Profile        *handlers.ProfileHandler
	Admin          *handlers.AdminHandler
	Tasks          *handlers.TasksHandler
	Documents      *handlers.DocumentsHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
	// FilesDir is served under /files when documents are stored locally.
	FilesDir string
}

// RegisterRoutes wires HTTP routes. The API is reachable both at the root
// and under /api.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}
	if cfg.FilesDir != "" {
		app.Static("/files", cfg.FilesDir)
	}

	mountAPI(app, cfg)
	mountAPI(app.Group("/api"), cfg)
}

func mountAPI(r fiber.Router, cfg RouteConfig) {
	authn := cfg.AuthMiddleware.Handle

	authGroup := r.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/verify-otp", cfg.Auth.VerifyEmail)
	authGroup.Post("/resend-otp", cfg.Auth.ResendCode)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", authn, cfg.Auth.Logout)

	identity := r.Group("/identity")
	identity.Post("/request-otp", cfg.Identity.RequestCode)
	identity.Post("/verify-otp", cfg.Identity.VerifyCode)

	users := r.Group("/users", authn)
	users.Get("/me", cfg.Profile.Me)
	users.Get("/profile", cfg.Profile.Me)
	users.Put("/profile", cfg.Profile.Update)

	tasks := r.Group("/tasks", authn)
	tasks.Get("/", cfg.Tasks.ListMine)
	tasks.Put("/:id/status", cfg.Tasks.UpdateStatus)

	documents := r.Group("/documents", authn)
	documents.Post("/", cfg.Documents.Upload)
	documents.Get("/", cfg.Documents.ListMine)
	documents.Delete("/:id", cfg.Documents.Delete)

	admin := r.Group("/admin", authn, auth.RequireAdmin())
	admin.Get("/workers", cfg.Admin.ListWorkers)
	admin.Put("/workers/:id/approve", cfg.Admin.Approve)
	admin.Put("/workers/:id/reject", cfg.Admin.Reject)
	admin.Get("/workers/:id/history", cfg.Admin.History)

	admin.Post("/tasks", cfg.Tasks.Create)
	admin.Get("/tasks", cfg.Tasks.ListAll)
	admin.Get("/tasks/worker/:workerId", cfg.Tasks.ListByWorker)
	admin.Put("/tasks/:id", cfg.Tasks.Update)
	admin.Delete("/tasks/:id", cfg.Tasks.Delete)

	admin.Get("/documents", cfg.Documents.ListAll)
	admin.Put("/documents/:id/approve", cfg.Documents.Approve)
	admin.Put("/documents/:id/reject", cfg.Documents.Reject)
}
