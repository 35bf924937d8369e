package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/MikeSquared-Agency/advisor/internal/app"
	"github.com/MikeSquared-Agency/advisor/internal/config"
	"github.com/MikeSquared-Agency/advisor/internal/hermes"
	"github.com/MikeSquared-Agency/advisor/internal/prompt"
	"github.com/MikeSquared-Agency/advisor/internal/session"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	// stdout carries the transcript; logs go to stderr.
	app.SetupLogging(cfg.LogLevel, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

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

	// NATS (optional)
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
	}

	sess := session.New(adv, publisher, slog.Default())
	loop := session.NewLoop(sess, os.Stdin, os.Stdout, prompt.Greeting(cat), adv.Provider())
	if err := loop.Run(ctx); err != nil {
		slog.Error("session ended with error", "error", err)
		os.Exit(1)
	}
	slog.Info("session ended", "turns", len(sess.Turns()))
}
