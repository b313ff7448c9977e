package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	httpapi "github.com/cartelera/cartelera/internal/http"
	"github.com/cartelera/cartelera/internal/service"
	"github.com/cartelera/cartelera/internal/store"
	"github.com/cartelera/cartelera/internal/store/drivers/sqlite"
	"github.com/cartelera/cartelera/internal/validate"
	"github.com/cartelera/cartelera/pkg/cryptox"
	"github.com/cartelera/cartelera/pkg/httpx"
	"github.com/cartelera/cartelera/pkg/jwtx"
	"github.com/cartelera/cartelera/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the API service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db     store.Store
	signer *jwtx.Signer
	rules  *validate.Rules

	// Services
	accountService *service.AccountService
	movieService   *service.MovieService
	reviewService  *service.ReviewService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "cartelera-api",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Hash cost parameters are process-wide and set once, before any request
	// can trigger a hash.
	cryptox.SetParams(cryptox.Params{
		Memory:      uint32(cfg.HashMemoryKiB),
		Iterations:  uint32(cfg.HashIterations),
		Parallelism: uint8(cfg.HashParallelism),
	})

	signer, err := jwtx.NewSigner([]byte(cfg.TokenSecret), cfg.Issuer, cfg.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token signer: %w", err)
	}
	app.signer = signer
	app.rules = validate.New()

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("api starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down api...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("api stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.accountService = &service.AccountService{
		Store:  app.db,
		Rules:  app.rules,
		Signer: app.signer,
	}
	app.movieService = &service.MovieService{Store: app.db}
	app.reviewService = &service.ReviewService{Store: app.db}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.signer,
		BuildVersion,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.AccountService = app.accountService
	router.MovieService = app.movieService
	router.ReviewService = app.reviewService
	router.LoginLimiter, router.ReviewLimiter = app.buildLimiters()
	router.TrustProxyHeaders = app.cfg.TrustProxyHeaders
	router.ApplyRoutes()

	app.router = router

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins: []string{app.cfg.CORSOrigin},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	})

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           corsMiddleware.Handler(router),
		ReadHeaderTimeout: 3 * time.Second,
	}
}

// buildLimiters picks the rate limit backend: Redis-backed counters when an
// address is configured, otherwise per-process in-memory windows.
func (app *Application) buildLimiters() (login, review httpx.Limiter) {
	loginPolicy := httpx.RatePolicy{Limit: app.cfg.LoginLimit, Window: app.cfg.LoginWindow}
	reviewPolicy := httpx.RatePolicy{Limit: app.cfg.ReviewLimit, Window: app.cfg.ReviewWindow}

	if app.cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: app.cfg.RedisAddr})
		app.logger.Info("rate limiting backed by redis", "addr", app.cfg.RedisAddr)
		return httpx.NewRedisLimiter(client, "login", loginPolicy),
			httpx.NewRedisLimiter(client, "review", reviewPolicy)
	}

	return httpx.NewFixedWindowLimiter(loginPolicy),
		httpx.NewFixedWindowLimiter(reviewPolicy)
}
