package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type Handlers struct {
	Auth    *handlers.AuthHandler
	Health  *handlers.HealthHandler
	Student *handlers.StudentHandler
	Worker  *handlers.WorkerHandler
	Admin   *handlers.AdminHandler
}

func Setup(app *fiber.App, cfg *config.Config, blacklist services.TokenBlacklist, h Handlers) {
	app.Get("/health", h.Health.Check)

	auth := app.Group("/auth", rateLimit(cfg.AuthRateLimitMax))
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/logout", h.Auth.Logout)

	api := app.Group("/api", rateLimit(cfg.RateLimitMax))
	protected := middleware.JWTProtected(cfg, blacklist)

	student := api.Group("/student", protected, middleware.RequireRole(models.RoleStudent))
	student.Get("/complaints", h.Student.ListComplaints)
	student.Post("/complaints", h.Student.CreateComplaint)
	student.Get("/complaints/:id", h.Student.GetComplaint)
	student.Post("/complaints/:id/feedback", h.Student.SubmitFeedback)

	worker := api.Group("/worker", protected, middleware.RequireRole(models.RoleWorker))
	worker.Get("/complaints", h.Worker.ListComplaints)
	worker.Get("/stats", h.Worker.Stats)
	worker.Get("/complaints/:id", h.Worker.GetComplaint)
	worker.Put("/complaints/:id/status", h.Worker.UpdateStatus)
	worker.Post("/complaints/:id/notes", h.Worker.AddNote)
	worker.Put("/complaints/:id/reassign", h.Worker.Reassign)

	admin := api.Group("/admin", protected, middleware.RequireRole(models.RoleAdmin))
	admin.Get("/overview", h.Admin.Overview)
	admin.Get("/complaints", h.Admin.ListComplaints)
	admin.Put("/complaints/:id/assign", h.Admin.AssignComplaint)
	admin.Get("/users", h.Admin.ListUsers)
	admin.Post("/users", h.Admin.CreateUser)
	admin.Put("/users/:id", h.Admin.UpdateUser)
	admin.Delete("/users/:id", h.Admin.DeleteUser)

	app.Use(handlers.NotFound)
}

// rateLimit allows max requests per minute per client IP. max <= 0 disables it.
func rateLimit(max int) fiber.Handler {
	if max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.Envelope{
				Success: false,
				Message: "Too many requests, please try again later",
			})
		},
	})
}
