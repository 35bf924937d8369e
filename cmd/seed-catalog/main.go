// Command seed-catalog creates the internship_postings table and loads it
// from CATALOG_PATH, or from the bundled postings when that is unset.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/MikeSquared-Agency/advisor/internal/app"
	"github.com/MikeSquared-Agency/advisor/internal/catalog"
	"github.com/MikeSquared-Agency/advisor/internal/config"
	"github.com/MikeSquared-Agency/advisor/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	app.SetupLogging(cfg.LogLevel, os.Stdout)

	if cfg.CatalogDatabaseURL == "" {
		slog.Error("CATALOG_DATABASE_URL is required")
		os.Exit(1)
	}

	ctx := context.Background()

	var cat *catalog.Catalog
	if cfg.CatalogPath != "" {
		cat, err = catalog.LoadFile(cfg.CatalogPath)
	} else {
		cat, err = catalog.Default()
	}
	if err != nil {
		slog.Error("failed to load catalog", "error", err)
		os.Exit(1)
	}

	db, err := store.New(ctx, cfg.CatalogDatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
	if err := db.Seed(ctx, cat.Postings()); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
	slog.Info("catalog seeded", "postings", cat.Len())
}
