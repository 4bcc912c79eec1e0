// Package app assembles the service: configuration, storage, services, the
// HTTP surface and the process lifecycle.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	httpapi "github.com/rackworks/rackdoc/internal/rackdoc/http"
	"github.com/rackworks/rackdoc/internal/rackdoc/mail"
	"github.com/rackworks/rackdoc/internal/rackdoc/service"
	"github.com/rackworks/rackdoc/internal/rackdoc/store"
	"github.com/rackworks/rackdoc/internal/rackdoc/store/drivers/sqlite"
	"github.com/rackworks/rackdoc/pkg/metricsx"
	"github.com/rackworks/rackdoc/pkg/sessiontoken"
	"github.com/rackworks/rackdoc/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the rackdoc service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db     store.Store
	signer *sessiontoken.Signer
	mailer mail.Mailer

	// Services
	sessionService    *service.SessionService
	inviteService     *service.InviteService
	userService       *service.UserService
	membershipService *service.MembershipService
	siteService       *service.SiteService
	overviewService   *service.OverviewService
	housekeeper       *service.Housekeeper

	// HTTP server
	server *http.Server
	router *httpapi.Router

	housekeepingStop context.CancelFunc
	housekeepingDone sync.WaitGroup
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "rackdoc",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	signer, err := sessiontoken.NewSigner(cfg.Issuer, cfg.SessionTTL)
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize session signer: %w", err)
	}
	app.signer = signer

	app.mailer = mail.NewSMTPMailer(mail.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})

	app.initServices()
	app.initHTTP()

	if cfg.BootstrapAdminEmail != "" {
		if err := service.EnsureBootstrapAdmin(context.Background(), app.db, app.logger,
			cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword); err != nil {
			_ = app.db.Close()
			return nil, fmt.Errorf("failed to bootstrap admin: %w", err)
		}
	}

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	// Start the housekeeping sweep in the background.
	hkCtx, cancel := context.WithCancel(context.Background())
	app.housekeepingStop = cancel
	app.housekeepingDone.Add(1)
	go func() {
		defer app.housekeepingDone.Done()
		app.housekeeper.Run(hkCtx)
	}()

	app.logger.Info("rackdoc starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

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

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down rackdoc...")

	// Give outstanding requests a deadline for completion.
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if app.housekeepingStop != nil {
		app.housekeepingStop()
		app.housekeepingDone.Wait()
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("rackdoc stopped")
	return nil
}

// initDatabase opens the SQLite store and applies migrations.
func (app *Application) initDatabase() error {
	db, err := sqlite.Open(app.cfg.DatabaseFile)
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

// initServices initializes all business logic services.
func (app *Application) initServices() {
	app.sessionService = service.NewSessionService(app.db, app.signer, app.cfg.Issuer)
	app.inviteService = service.NewInviteService(app.db, app.mailer, app.cfg.ExternalURL)
	app.userService = service.NewUserService(app.db)
	app.membershipService = service.NewMembershipService(app.db)
	app.siteService = service.NewSiteService(app.db)
	app.overviewService = service.NewOverviewService(app.db, app.mailer)

	app.housekeeper = service.NewHousekeeper(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.InviteRetention,
	)
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.signer,
		BuildVersion,
		app.db,
		app.logger,
		metricsx.New("rackdoc"),
	)

	// Wire services to router
	router.SessionService = app.sessionService
	router.InviteService = app.inviteService
	router.UserService = app.userService
	router.MembershipService = app.membershipService
	router.SiteService = app.siteService
	router.OverviewService = app.overviewService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
