package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Black-And-White-Club/strategy-ledger/app/modules/submission"
	submissionevents "github.com/Black-And-White-Club/strategy-ledger/app/modules/submission/infrastructure/events"
	"github.com/Black-And-White-Club/strategy-ledger/app/observability"
	"github.com/Black-And-White-Club/strategy-ledger/config"
	"github.com/Black-And-White-Club/strategy-ledger/db/bundb"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

const shutdownTimeout = 15 * time.Second

// App holds the process-wide dependencies and the HTTP server.
type App struct {
	Config           *config.Config
	Observability    *observability.Observability
	DB               *bundb.DBService
	Publisher        message.Publisher
	Router           chi.Router
	SubmissionModule *submission.Module

	server *http.Server
}

// NewApp initializes the application with the necessary services and configuration.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	obs := observability.Init(observability.Config{
		ServiceName:    cfg.Observability.ServiceName,
		Environment:    cfg.Observability.Environment,
		LogLevel:       cfg.Observability.LogLevel,
		MetricsAddress: cfg.Observability.MetricsAddress,
	})
	logger := obs.Logger

	dbService, err := bundb.NewBunDBService(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database service: %w", err)
	}

	var publisher message.Publisher
	if cfg.NATS.URL != "" {
		publisher, err = submissionevents.NewNATSPublisher(cfg.NATS.URL, watermill.NewSlogLogger(logger))
		if err != nil {
			dbService.Close()
			return nil, err
		}
		logger.InfoContext(ctx, "NATS publisher initialized", slog.String("subject", cfg.NATS.Subject))
	} else {
		logger.WarnContext(ctx, "NATS_URL not set, submission events are disabled")
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)

	app := &App{
		Config:        cfg,
		Observability: obs,
		DB:            dbService,
		Publisher:     publisher,
		Router:        router,
	}

	app.SubmissionModule, err = submission.NewSubmissionModule(ctx, cfg, obs, dbService.GetDB(), router, publisher)
	if err != nil {
		app.closeResources()
		return nil, fmt.Errorf("failed to initialize submission module: %w", err)
	}

	return app, nil
}

// Handler returns the router wrapped with CORS handling.
func (app *App) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   app.Config.HTTP.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	return c.Handler(app.Router)
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (app *App) Run(ctx context.Context) error {
	logger := app.Observability.Logger

	app.Observability.StartMetricsServer(app.Config.Observability.MetricsAddress)

	app.server = &http.Server{
		Addr:              app.Config.HTTP.Address,
		Handler:           app.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", slog.String("address", app.Config.HTTP.Address))
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			app.closeResources()
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return app.Shutdown(shutdownCtx)
}

// Shutdown stops the servers and releases the database and publisher.
func (app *App) Shutdown(ctx context.Context) error {
	logger := app.Observability.Logger
	var errs []error

	if app.server != nil {
		if err := app.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop HTTP server: %w", err))
		}
	}
	if err := app.Observability.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := app.closeResources(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		logger.Info("Application shut down gracefully")
	}
	return errors.Join(errs...)
}

func (app *App) closeResources() error {
	var errs []error
	if app.SubmissionModule != nil {
		if err := app.SubmissionModule.Close(); err != nil {
			errs = append(errs, err)
		}
		app.SubmissionModule = nil
	}
	if app.Publisher != nil {
		if err := app.Publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close publisher: %w", err))
		}
		app.Publisher = nil
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
		app.DB = nil
	}
	return errors.Join(errs...)
}
