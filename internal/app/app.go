// Package app wires configuration into the components shared by the
// advisor binaries.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/MikeSquared-Agency/advisor/internal/advisor"
	"github.com/MikeSquared-Agency/advisor/internal/anthropic"
	"github.com/MikeSquared-Agency/advisor/internal/catalog"
	"github.com/MikeSquared-Agency/advisor/internal/config"
	"github.com/MikeSquared-Agency/advisor/internal/gemini"
	"github.com/MikeSquared-Agency/advisor/internal/groq"
	"github.com/MikeSquared-Agency/advisor/internal/prompt"
	"github.com/MikeSquared-Agency/advisor/internal/store"
)

// SetupLogging installs a JSON slog handler at the given level as default.
func SetupLogging(level string, w io.Writer) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}

// LoadCatalog picks the catalog source: Postgres, then a JSON file, then the
// bundled postings. Any failure is fatal to the caller.
func LoadCatalog(ctx context.Context, cfg config.Config, logger *slog.Logger) (*catalog.Catalog, error) {
	switch {
	case cfg.CatalogDatabaseURL != "":
		db, err := store.New(ctx, cfg.CatalogDatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("catalog database: %w", err)
		}
		defer db.Close()
		c, err := db.LoadCatalog(ctx)
		if err != nil {
			return nil, err
		}
		logger.Info("catalog loaded", "source", "postgres", "postings", c.Len())
		return c, nil

	case cfg.CatalogPath != "":
		c, err := catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			return nil, err
		}
		logger.Info("catalog loaded", "source", "file", "path", cfg.CatalogPath, "postings", c.Len())
		return c, nil

	default:
		c, err := catalog.Default()
		if err != nil {
			return nil, fmt.Errorf("bundled catalog: %w", err)
		}
		logger.Info("catalog loaded", "source", "bundled", "postings", c.Len())
		return c, nil
	}
}

// CheckDirective renders the directive once at startup and warns when it
// is larger than warnBytes. The directive is never truncated.
func CheckDirective(c *catalog.Catalog, warnBytes int, logger *slog.Logger) error {
	d, err := prompt.Build(c)
	if err != nil {
		return fmt.Errorf("render directive: %w", err)
	}
	if warnBytes > 0 && len(d) > warnBytes {
		logger.Warn("system directive is large; the whole catalog is sent on every turn",
			"bytes", len(d), "warn_bytes", warnBytes, "postings", c.Len())
		return nil
	}
	logger.Debug("system directive rendered", "bytes", len(d))
	return nil
}

// NewCompleter builds the remote client for the configured provider. It must
// only be called after cfg.Validate succeeded.
func NewCompleter(ctx context.Context, cfg config.Config) (advisor.Completer, string, error) {
	switch cfg.Provider {
	case config.ProviderGroq:
		c := groq.NewClient(cfg.GroqAPIKey, cfg.Model, cfg.Temperature)
		c.SetBaseURL(cfg.GroqBaseURL)
		c.SetMaxTokens(cfg.MaxTokens)
		return c, c.Model(), nil
	case config.ProviderAnthropic:
		c := anthropic.NewClient(cfg.AnthropicAPIKey, cfg.Model, cfg.Temperature, cfg.MaxTokens, cfg.AnthropicBaseURL)
		return c, c.Model(), nil
	case config.ProviderGemini:
		c, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.Model, cfg.Temperature, cfg.MaxTokens, cfg.GeminiBaseURL)
		if err != nil {
			return nil, "", err
		}
		return c, c.Model(), nil
	default:
		return nil, "", fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// NewAdvisor validates the credential and only then builds the completion
// client. A missing key never yields an Advisor.
func NewAdvisor(ctx context.Context, cfg config.Config, c *catalog.Catalog, logger *slog.Logger) (*advisor.Advisor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	llm, model, err := NewCompleter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("completion client: %w", err)
	}
	logger.Info("completion client ready", "provider", cfg.Provider, "model", model, "temperature", cfg.Temperature)
	return advisor.New(c, llm, cfg.ProviderName(), logger), nil
}
