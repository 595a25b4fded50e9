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

	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/cache"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/config"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/database"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/events"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/logging"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/omdb"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/repository"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/routes"
	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/services"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"golang.org/x/crypto/bcrypt"
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

	// Database log handler (ERROR+ async batch)
	dbLogHandler := logging.NewDBHandler(database.DB, 5*time.Second)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		logging.NewStdoutHandler(),
		dbLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cleanupDone)

	tokens, err := services.NewTokenService(cfg)
	if err != nil {
		slog.Error("token service init failed", "error", err)
		os.Exit(1)
	}

	// Query cache: shared Redis when reachable, otherwise in-process
	var store cache.Store = cache.NewMemory(cfg.CacheTTL)
	if cfg.RedisAddr != "" {
		if client := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); client != nil {
			store = cache.NewRedis(client, "moviemanager", cfg.CacheTTL)
			defer client.Close()
			slog.Info("query cache backed by redis", "addr", cfg.RedisAddr)
		} else {
			slog.Warn("redis unreachable, using in-process cache", "addr", cfg.RedisAddr)
		}
	}

	// Movie change events
	var publisher events.Publisher = events.Noop{}
	if cfg.AMQPURL != "" {
		if p, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPQueue); err != nil {
			slog.Warn("amqp unavailable, movie events disabled", "error", err)
		} else {
			publisher = p
			slog.Info("movie events enabled", "queue", cfg.AMQPQueue)
		}
	}

	if cfg.OMDbAPIKey == "" {
		slog.Warn("OMDB_API_KEY is not set, imports will fail")
	}
	provider := omdb.NewClient(cfg.OMDbBaseURL, cfg.OMDbAPIKey, cfg.OMDbTimeout)

	// Repositories and services
	users := repository.NewUserRepository(database.DB)
	movies := repository.NewMovieRepository(database.DB)
	hasher := services.NewBcryptHasher(bcrypt.DefaultCost)

	authService := services.NewAuthService(users, hasher, tokens)
	movieService := services.NewMovieService(movies, store, cfg.CacheTTL, publisher)
	integrationService := services.NewIntegrationService(movies, provider, movieService)
	statsService := services.NewStatisticsService(movies, store, cfg.CacheTTL)
	seedService := services.NewSeedService(users, movies, hasher, integrationService)

	if cfg.SeedOnStartup {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		if _, err := seedService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			slog.Error("admin seed failed", "error", err)
		}
		if _, err := seedService.SeedMovies(ctx, services.SeedMovieIDs); err != nil {
			slog.Error("movie seed failed", "error", err)
		}
		cancel()
	}

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

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
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
		return c.Next()
	})

	routes.Setup(app, tokens, routes.Handlers{
		Auth:        handlers.NewAuthHandler(authService),
		Health:      handlers.NewHealthHandler(database.DB, provider),
		Movies:      handlers.NewMovieHandler(movieService),
		Integration: handlers.NewIntegrationHandler(integrationService),
		Statistics:  handlers.NewStatisticsHandler(statsService),
	}, routes.DefaultRateLimits)

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

	close(cleanupDone)
	dbLogHandler.Stop()
	_ = publisher.Close()

	if err := database.Close(database.DB); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}
