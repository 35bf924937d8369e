package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MikeSquared-Agency/advisor/internal/api"
	"github.com/MikeSquared-Agency/advisor/internal/app"
	"github.com/MikeSquared-Agency/advisor/internal/config"
	"github.com/MikeSquared-Agency/advisor/internal/hermes"
	"github.com/MikeSquared-Agency/advisor/internal/observability"
	"github.com/MikeSquared-Agency/advisor/internal/prompt"
	"github.com/MikeSquared-Agency/advisor/internal/session"
)

const shutdownTimeout = 30 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	app.SetupLogging(cfg.LogLevel, os.Stdout)
	observability.InitMetrics()

	slog.Info("advisor api starting", "port", cfg.Port, "provider", cfg.Provider)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Catalog
	cat, err := app.LoadCatalog(ctx, cfg, slog.Default())
	if err != nil {
		slog.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}
	if err := app.CheckDirective(cat, cfg.DirectiveWarnBytes, slog.Default()); err != nil {
		slog.Error("failed to render directive", "error", err)
		os.Exit(1)
	}

	// Completion client
	adv, err := app.NewAdvisor(ctx, cfg, cat, slog.Default())
	if err != nil {
		slog.Error("cannot start advisor", "error", err)
		os.Exit(1)
	}

	// NATS (optional, the API works without turn events)
	var publisher session.Publisher
	if cfg.NatsURL != "" {
		hermesClient, err := hermes.NewClient(ctx, cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer hermesClient.Close()
		publisher = hermesClient
		slog.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS not configured, turn events disabled")
	}

	newSession := func() *session.Session {
		return session.New(adv, publisher, slog.Default())
	}
	limits := api.SessionLimits{Max: cfg.MaxSessions, IdleTTL: cfg.SessionIdleTTL}
	srv := api.NewServer(cfg.Port, cat, prompt.Greeting(cat), newSession, cfg.RateLimitPerMin, limits, slog.Default())
	go func() {
		if err := srv.Start(ctx); err != nil {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("advisor api ready", "port", cfg.Port, "postings", cat.Len())

	// Graceful shutdown: in-flight turns get shutdownTimeout to finish.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown", "error", err)
	}
	cancel()
	slog.Info("advisor api stopped")
}
