package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/johnwards/niyog/internal/api"
	"github.com/johnwards/niyog/internal/api/admin"
	"github.com/johnwards/niyog/internal/api/ai"
	"github.com/johnwards/niyog/internal/api/applications"
	"github.com/johnwards/niyog/internal/api/classify"
	"github.com/johnwards/niyog/internal/api/health"
	"github.com/johnwards/niyog/internal/api/sessions"
	"github.com/johnwards/niyog/internal/config"
	"github.com/johnwards/niyog/internal/database"
	"github.com/johnwards/niyog/internal/insights"
	"github.com/johnwards/niyog/internal/logging"
	"github.com/johnwards/niyog/internal/seed"
	"github.com/johnwards/niyog/internal/store"
	"github.com/johnwards/niyog/internal/sweep"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logging.Install(logger)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	if err := seed.Seed(ctx, db); err != nil {
		return fmt.Errorf("seed data: %w", err)
	}

	s := store.New(db)

	handler := newHandler(cfg, s, insights.NewOpenAICompleter(cfg.OpenAIKey, cfg.OpenAIModel))

	stopSweep, err := sweep.New(s.Applications, cfg.StallAfter).Start(cfg.SweepSchedule)
	if err != nil {
		return fmt.Errorf("start stalled sweep: %w", err)
	}
	defer stopSweep()

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("starting niyog server", "addr", cfg.Addr, "db", cfg.DBPath)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}

	return nil
}

// newHandler registers every route on a fresh mux and wraps it in the
// middleware chain.
func newHandler(cfg config.Config, s *store.Store, completer insights.Completer) http.Handler {
	mux := http.NewServeMux()

	health.RegisterRoutes(mux)
	applications.RegisterRoutes(mux, s)
	classify.RegisterRoutes(mux)
	sessions.RegisterRoutes(mux, s)
	ai.RegisterRoutes(mux, insights.NewStatic(), completer)

	// Admin API
	admin.RegisterRoutes(mux, s)

	// Catch-all: return 404 in the API error format.
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		corrID := api.CorrelationID(r.Context())
		api.WriteError(w, http.StatusNotFound, api.NewNotFoundError(
			fmt.Sprintf("No route found for %s %s", r.Method, r.URL.Path),
			corrID,
		))
	})

	return api.Chain(mux,
		api.Recovery(),
		api.RequestID(),
		api.CORS(cfg.AllowedOrigins),
		api.Auth(cfg.AuthToken),
		api.JSONContentType(),
		api.Logging(s.Requests),
	)
}
