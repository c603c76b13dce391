package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"

	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/cache"
	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/logging"
	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/store"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
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

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.AttachDatabase(database.DB)

	cleanup, err := logging.StartCleanup(database.DB, cfg.LogCleanupSchedule, cfg.LogRetentionDays)
	if err != nil {
		slog.Error("log cleanup scheduling failed", "error", err)
		os.Exit(1)
	}

	// Shared limiter counters when redis is configured
	var limiterStorage fiber.Storage
	if cfg.RedisAddr != "" {
		redisStorage, err := cache.Connect(cfg)
		if err != nil {
			slog.Warn("redis unavailable, rate limiting per instance", "error", err)
		} else {
			limiterStorage = redisStorage
			defer redisStorage.Close()
		}
	}

	// Services
	st := store.NewGormStore(database.DB)
	authService := services.NewAuthService(st, cfg)
	learningService := services.NewLearningService(st)
	statsService := services.NewStatisticsService(st)
	recService := services.NewRecommendationService(st, services.NewRecommender(cfg))
	adminService := services.NewAdminService(st, cfg)

	seedCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := authService.SeedAdmin(seedCtx); err != nil {
		slog.Error("admin seeding failed", "error", err)
	}
	cancel()

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, cfg)
	healthHandler := handlers.NewHealthHandler(database.Ping)
	learningHandler := handlers.NewLearningHandler(learningService)
	statsHandler := handlers.NewStatisticsHandler(statsService, recService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	routes.Setup(app, cfg, st, limiterStorage, authHandler, healthHandler, learningHandler, statsHandler, adminHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	<-cleanup.Stop().Done()
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := database.Close(); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}
