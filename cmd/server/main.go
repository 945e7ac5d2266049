package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/joho/godotenv"

	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/advisor"
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/events"
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/crt-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	logging.Setup(cfg.AppEnv)
	if envErr != nil {
		slog.Warn("no .env file loaded, using process environment", "error", envErr)
	}

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBDriver != "sqlite" && cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(database.DB); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// ERROR+ records also go to system_logs
	dbLogHandler := logging.NewDBHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(slog.Default().Handler(), dbLogHandler)))

	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cleanupDone)

	// Optional collaborators
	rdb := database.NewRedis(cfg)
	blacklist := services.NewTokenBlacklist(rdb)
	publisher := events.New(cfg.AMQPURL, cfg.EventsQueue)

	adv := advisor.New(advisor.Config{
		Mode:              cfg.AIMode,
		ClassificationURL: cfg.AIClassificationURL,
		RoutingURL:        cfg.AIRoutingURL,
		SummarizationURL:  cfg.AISummarizationURL,
		AnalyticsURL:      cfg.AIAnalyticsURL,
		APIKey:            cfg.AIAPIKey,
		Timeout:           cfg.AITimeout,
	})
	slog.Info("advisor configured", "mode", cfg.AIMode)

	// Services
	authService := services.NewAuthService(database.DB, cfg, blacklist)
	complaintService := services.NewComplaintService(database.DB, adv, publisher)
	adminService := services.NewAdminService(database.DB, adv)
	userService := services.NewUserService(database.DB, cfg)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler(cfg.IsDevelopment()),
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	routes.Setup(app, cfg, blacklist, routes.Handlers{
		Auth:    handlers.NewAuthHandler(authService),
		Health:  handlers.NewHealthHandler(database.DB),
		Student: handlers.NewStudentHandler(complaintService),
		Worker:  handlers.NewWorkerHandler(complaintService),
		Admin:   handlers.NewAdminHandler(adminService, complaintService, userService),
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			slog.Error("redis close error", "error", err)
		}
	}
	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}
