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

	httpapi "github.com/triptab/triptab/internal/http"
	"github.com/triptab/triptab/internal/oauth"
	"github.com/triptab/triptab/internal/service"
	"github.com/triptab/triptab/internal/store"
	"github.com/triptab/triptab/internal/store/drivers/sqlite"
	"github.com/triptab/triptab/pkg/cryptox"
	"github.com/triptab/triptab/pkg/jwtx"
	"github.com/triptab/triptab/pkg/slogx"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application wires the store, services and HTTP surface together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	signer *jwtx.Signer

	loginService        *service.LoginService
	sessionService      *service.SessionService
	tripService         *service.TripService
	profileService      *service.ProfileService
	plannerService      *service.PlannerService
	sosService          *service.SOSService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New builds the full dependency graph from cfg.
func New(cfg Config) (*Application, error) {
	if cfg.SessionKey == "" {
		return nil, errors.New("TRIPTAB_SESSION_KEY must be set")
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "triptab",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(cfg.PepperFile)
	app.signer = jwtx.NewSigner(cfg.SessionKey, cfg.Issuer)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("triptab starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"providers", app.loginService.Available())

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// Shutdown drains in-flight requests, stops background workers and closes
// the database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down triptab...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("triptab stopped")
	return nil
}

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

func (app *Application) initServices() {
	registry := oauth.NewRegistry(providers(app.cfg)...)

	app.loginService = &service.LoginService{
		Providers: registry,
		Store:     app.db,
	}
	app.sessionService = &service.SessionService{
		Signer:     app.signer,
		Store:      app.db,
		AccessTTL:  app.cfg.AccessTTL,
		RefreshTTL: app.cfg.RefreshTTL,
	}
	app.tripService = &service.TripService{Store: app.db}
	app.profileService = &service.ProfileService{Store: app.db}
	app.plannerService = &service.PlannerService{Store: app.db}
	app.sosService = &service.SOSService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// providers builds the configured provider set; ones missing credentials
// come back nil and are skipped by the registry.
func providers(cfg Config) []oauth.Provider {
	var out []oauth.Provider
	if g := oauth.NewGoogle(oauth.GoogleConfig{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURI:  cfg.GoogleRedirectURI,
	}); g != nil {
		out = append(out, g)
	}
	if ig := oauth.NewInstagram(oauth.InstagramConfig{
		ClientID:     cfg.InstagramClientID,
		ClientSecret: cfg.InstagramClientSecret,
		RedirectURI:  cfg.InstagramRedirectURI,
	}); ig != nil {
		out = append(out, ig)
	}
	return out
}

func (app *Application) initHTTP() {
	app.router = httpapi.NewRouter(
		app.signer,
		BuildVersion,
		app.db,
		httpapi.CookieConfig{
			Secure:      app.cfg.CookieSecure,
			Domain:      app.cfg.CookieDomain,
			FrontendURL: app.cfg.FrontendURL,
		},
		app.logger,
	)

	app.router.LoginService = app.loginService
	app.router.SessionService = app.sessionService
	app.router.TripService = app.tripService
	app.router.ProfileService = app.profileService
	app.router.PlannerService = app.plannerService
	app.router.SOSService = app.sosService

	app.router.ApplyRoutes()

	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: app.router,
	}
}
