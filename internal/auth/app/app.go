package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/edunexia/edunexia-api/internal/auth/http"
	"github.com/edunexia/edunexia-api/internal/auth/provider"
	"github.com/edunexia/edunexia-api/internal/auth/service"
	"github.com/edunexia/edunexia-api/internal/auth/store"
	"github.com/edunexia/edunexia-api/internal/auth/store/drivers/postgres"
	"github.com/edunexia/edunexia-api/internal/auth/store/drivers/sqlite"
	"github.com/edunexia/edunexia-api/pkg/cryptox"
	"github.com/edunexia/edunexia-api/pkg/slogx"
)

// BuildVersion is overridden at build time via -ldflags "-X ...".
var BuildVersion = "1.0.0"

// Application encapsulates the API process with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db store.Store

	// Services
	tokenService      *service.TokenService
	credentialService *service.CredentialService
	federationService *service.FederationService
	guard             *service.Guard
	accountService    *service.AccountService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "edunexia-api",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if cfg.SecretKey == DefaultSecretKey {
		app.logger.Warn("using the development signing secret; set SECRET_KEY before deploying")
	}

	cryptox.SetPepper(cfg.PasswordPepper)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initServices(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Handler returns the root HTTP handler.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("api starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"db_driver", app.cfg.DatabaseDriver,
		"google_enabled", app.cfg.GoogleClientID != "",
		"cors_origins", len(app.cfg.CORSOrigins),
	)

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
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
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

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Close database connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("api stopped")
	return nil
}

// initDatabase opens the configured store and applies migrations
func (app *Application) initDatabase() error {
	var (
		db  store.Store
		err error
	)
	switch app.cfg.DatabaseDriver {
	case DriverPostgres:
		db, err = postgres.NewStore(app.cfg.DatabaseDSN)
	default:
		dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.DatabaseDSN)
		db, err = sqlite.NewStore(dsn)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DatabaseDriver)
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() error {
	tokens, err := service.NewTokenService(app.cfg.Algorithm, []byte(app.cfg.SecretKey), app.cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}
	app.tokenService = tokens

	app.credentialService = &service.CredentialService{
		Store:  app.db,
		Tokens: app.tokenService,
	}
	app.federationService = &service.FederationService{
		Store:  app.db,
		Tokens: app.tokenService,
		Provider: provider.NewGoogle(provider.GoogleConfig{
			ClientID:     app.cfg.GoogleClientID,
			ClientSecret: app.cfg.GoogleClientSecret,
		}),
		Redirects: service.RedirectResolver{
			APIPrefix:   app.cfg.APIPrefix,
			FrontendURL: app.cfg.FrontendURL,
			RedirectURI: app.cfg.GoogleRedirectURI,
		},
	}
	app.guard = &service.Guard{
		Store:  app.db,
		Tokens: app.tokenService,
	}
	app.accountService = &service.AccountService{Store: app.db}
	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.cfg.APIPrefix,
		app.cfg.ProjectName,
		BuildVersion,
		app.cfg.CORSOrigins,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.CredentialService = app.credentialService
	router.FederationService = app.federationService
	router.Guard = app.guard
	router.AccountService = app.accountService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
