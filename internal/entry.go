// Package internal provides the main application initialization and runtime logic.
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

	"github.com/vportnov/lattice/internal/api"
	"github.com/vportnov/lattice/internal/kb"
	"github.com/vportnov/lattice/internal/mcpserver"
	"github.com/vportnov/lattice/internal/sse"
	"github.com/vportnov/lattice/internal/storage"
	"github.com/vportnov/lattice/internal/titler"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("data_backend", cfg.Data.Backend),
		slog.String("data_path", cfg.Data.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Initialize storage.
	var store storage.Provider
	switch cfg.Data.Backend {
	case BackendSQLite:
		db, err := storage.OpenSQLite(cfg.Data.SQLitePath)
		if err != nil {
			return fmt.Errorf("init sqlite storage: %w", err)
		}
		store = db
	default:
		fs, err := storage.NewFS(cfg.Data.Path)
		if err != nil {
			return fmt.Errorf("init file storage: %w", err)
		}
		store = fs
	}
	defer store.Close()

	// Title generator. Without an API key the knowledge base falls back
	// to deterministic title derivation.
	var gen titler.Generator
	if key := os.Getenv("OPENROUTER_API_KEY"); key != "" {
		timeout := time.Duration(cfg.Titler.TimeoutSeconds) * time.Second
		gen = titler.NewOpenRouter(cfg.Titler.Endpoint, key, cfg.Titler.Model, timeout)
		logger.Info("AI title generation enabled", slog.String("model", cfg.Titler.Model))
	}

	base := kb.New(store, gen, logger)

	if app.mcpMode {
		logger.Info("Starting MCP server on stdio")
		return mcpserver.New(base).ServeStdio()
	}

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	apiRouter := api.NewRouter(base, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
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

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the data directory and forward collection changes to SSE
	// clients. The SQLite backend has no files to watch.
	if cfg.Data.Backend == BackendFiles {
		g.Go(func() error {
			if err := storage.Watch(gCtx, cfg.Data.Path, logger, broker.PublishChange); err != nil {
				logger.Warn("data watcher stopped", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
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

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
