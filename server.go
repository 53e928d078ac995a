// Package nabulines assembles the creator-registry backend: key-value
// storage, repositories, OAuth bridges, the event bus and the HTTP API.
package nabulines

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/alisharafiiii/nabulines-backup/events"
	"github.com/alisharafiiii/nabulines-backup/internal/auth/oauth1"
	"github.com/alisharafiiii/nabulines-backup/internal/auth/tiktok"
	internalevents "github.com/alisharafiiii/nabulines-backup/internal/events"
	"github.com/alisharafiiii/nabulines-backup/internal/handlers"
	"github.com/alisharafiiii/nabulines-backup/internal/middleware"
	"github.com/alisharafiiii/nabulines-backup/internal/repositories"
	"github.com/alisharafiiii/nabulines-backup/internal/services"
	"github.com/alisharafiiii/nabulines-backup/internal/storage"
	"github.com/alisharafiiii/nabulines-backup/internal/util"
	"github.com/alisharafiiii/nabulines-backup/models"
)

// App is the assembled service. Build one with New, serve it with
// ListenAndServe or mount Handler() into an existing server.
type App struct {
	Config *models.Config

	logger models.Logger
	store  models.KeyValueStore
	bus    models.EventBus
	router chi.Router
}

// New wires storage, repositories, services and handlers from a config
// built by config.NewConfig. It panics on unusable wiring, matching the
// fail-fast startup of the config layer.
func New(config *models.Config) (*App, error) {
	util.InitValidator()

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	store, err := initStorage(config, logger)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	bus, err := initEventBus(config, logger)
	if err != nil {
		return nil, fmt.Errorf("init event bus: %w", err)
	}

	passports, err := services.NewPassportService(logger, config.Secret)
	if err != nil {
		return nil, fmt.Errorf("init passport service: %w", err)
	}

	h := handlers.New(handlers.Deps{
		Logger:     logger,
		Config:     config,
		Store:      store,
		Identities: repositories.NewKVIdentityRepository(store, logger),
		Socials:    repositories.NewKVSocialRepository(store, logger),
		Twitter:    repositories.NewKVTwitterRepository(store, logger),
		KOLs:       repositories.NewKVKOLRepository(store, logger),
		TwitterClient: oauth1.NewClient(
			oauth1.NewSigner(config.Twitter.APIKey, config.Twitter.APISecret),
		),
		TikTok: tiktok.NewProvider(
			config.TikTok.ClientKey,
			config.TikTok.ClientSecret,
			tiktokRedirectURL(config),
		),
		Passports: passports,
		Bus:       bus,
	})

	router := chi.NewRouter()
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.RequestLog(logger))
	if config.RateLimit.Enabled {
		router.Use(middleware.RateLimit(store, logger, config.RateLimit))
	}
	h.RegisterRoutes(router)

	return &App{
		Config: config,
		logger: logger,
		store:  store,
		bus:    bus,
		router: router,
	}, nil
}

func tiktokRedirectURL(config *models.Config) string {
	if config.TikTok.RedirectURL != "" {
		return config.TikTok.RedirectURL
	}
	return config.BaseURL + "/api/auth/tiktok/callback"
}

func initStorage(config *models.Config, logger models.Logger) (models.KeyValueStore, error) {
	if config.Storage.Store != nil {
		return config.Storage.Store, nil
	}

	switch config.Storage.Type {
	case models.StorageTypeRedis:
		store, err := storage.NewRedisStore(storage.RedisStoreOptions{
			URL:         config.Storage.RedisURL,
			MaxRetries:  config.Storage.MaxRetries,
			PoolSize:    config.Storage.PoolSize,
			PoolTimeout: config.Storage.PoolTimeout,
		})
		if err != nil {
			return nil, err
		}
		logger.Info("connected to redis store")
		return store, nil
	case models.StorageTypeMemory, "":
		logger.Info("using in-memory store")
		return storage.NewMemoryStore(nil), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", config.Storage.Type)
	}
}

func initEventBus(config *models.Config, logger models.Logger) (models.EventBus, error) {
	if config.EventBus.Provider == "" {
		return nil, nil
	}

	pubsub, err := internalevents.InitWatermillProvider(&config.EventBus, nil)
	if err != nil {
		return nil, err
	}

	logger.Info("event bus ready", "provider", config.EventBus.Provider)
	return events.NewEventBus(logger, pubsub), nil
}

// Handler returns the HTTP handler for mounting into an existing server.
func (app *App) Handler() http.Handler {
	return app.router
}

// Bus exposes the event bus for subscribing in-process handlers. Nil
// when the bus is disabled.
func (app *App) Bus() models.EventBus {
	return app.bus
}

// ListenAndServe runs the HTTP server until ctx is cancelled, then
// shuts down gracefully and releases storage and bus resources.
func (app *App) ListenAndServe(ctx context.Context) error {
	server := &http.Server{
		Addr:              ":" + app.Config.Port,
		Handler:           app.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		app.logger.Info("starting server", "app", app.Config.AppName, "port", app.Config.Port)
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil

	case <-ctx.Done():
		app.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			app.logger.Error("server shutdown error", "error", err)
		}
		return app.Close()
	}
}

// Close releases the event bus and storage.
func (app *App) Close() error {
	if app.bus != nil {
		if err := app.bus.Close(); err != nil {
			app.logger.Error("failed to close event bus", "error", err)
		}
	}
	return app.store.Close()
}
