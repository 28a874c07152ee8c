// Package internal provides the main application initialization and
// runtime logic.
package internal

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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/ansuz/internal/api"
	"github.com/starford/ansuz/internal/export"
	"github.com/starford/ansuz/internal/publish"
	"github.com/starford/ansuz/internal/sse"
	"github.com/starford/ansuz/internal/vault"
)

// setup applies options and builds the logger shared by every entry
// point.
func setup(opts []Option) (*Config, *slog.Logger, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, nil, fmt.Errorf("config is required")
	}

	cfg := app.config
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("graph_path", cfg.Graph.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	return cfg, logger, nil
}

// RunExport parses the graph once and rebuilds the export database.
func RunExport(ctx context.Context, opts ...Option) error {
	cfg, logger, err := setup(opts)
	if err != nil {
		return err
	}

	v, err := vault.Open(cfg.Graph.Path)
	if err != nil {
		return fmt.Errorf("open graph: %w", err)
	}

	db, err := export.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("open export db: %w", err)
	}
	defer db.Close()

	return export.Refresh(ctx, db, v, logger)
}

// RunPublish parses the graph once and writes its public pages to the
// static-site content directory.
func RunPublish(ctx context.Context, opts ...Option) error {
	cfg, logger, err := setup(opts)
	if err != nil {
		return err
	}

	v, err := vault.Open(cfg.Graph.Path)
	if err != nil {
		return fmt.Errorf("open graph: %w", err)
	}

	g, err := v.LoadGraph(ctx, logger)
	if err != nil {
		return fmt.Errorf("load graph: %w", err)
	}

	_, err = publish.New(g, logger).Publish(cfg.Publish.Dir)
	return err
}

// RunServe starts the HTTP API over the export database, with a vault
// watcher keeping the export fresh and an SSE broker announcing
// rebuilds.
func RunServe(ctx context.Context, opts ...Option) error {
	cfg, logger, err := setup(opts)
	if err != nil {
		return err
	}

	v, err := vault.Open(cfg.Graph.Path)
	if err != nil {
		return fmt.Errorf("open graph: %w", err)
	}

	db, err := export.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("open export db: %w", err)
	}
	defer db.Close()

	// Initial export so the API has data before the first file change.
	if err := export.Refresh(ctx, db, v, logger); err != nil {
		logger.Warn("initial export failed", slog.String("error", err.Error()))
	}

	broker := sse.NewBroker(2 * time.Second)

	svc := api.NewService(db)
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Vault watcher with SSE callback.
	g.Go(func() error {
		return export.Watch(gCtx, db, v, logger, broker.PublishRefresh)
	})

	// HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		broker.Close()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
