// Package advisor turns a conversation into one completion call and always
// comes back with displayable text.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/advisor/internal/catalog"
	"github.com/MikeSquared-Agency/advisor/internal/conversation"
	"github.com/MikeSquared-Agency/advisor/internal/observability"
	"github.com/MikeSquared-Agency/advisor/internal/prompt"
)

// ErrorPrefix starts every reply synthesised from a failed call.
const ErrorPrefix = "API Error:"

// Completer is a remote completion endpoint. Implemented by the groq,
// anthropic and gemini clients.
type Completer interface {
	Complete(ctx context.Context, system string, turns []conversation.Turn) (string, error)
}

type Advisor struct {
	catalog  *catalog.Catalog
	llm      Completer
	provider string
	logger   *slog.Logger
}

// New wires a completer to the catalog. provider is the human-readable
// service name used in error replies, e.g. "Groq".
func New(c *catalog.Catalog, llm Completer, provider string, logger *slog.Logger) *Advisor {
	return &Advisor{catalog: c, llm: llm, provider: provider, logger: logger}
}

func (a *Advisor) Provider() string {
	return a.provider
}

// Respond rebuilds the directive, makes a single completion call and returns
// the model's text. Any failure, including a panic inside the completer, is
// returned as an error message instead, with failed set.
func (a *Advisor) Respond(ctx context.Context, turns []conversation.Turn) (reply string, failed bool) {
	start := time.Now()
	var err error
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("completion panicked: %v", r)
			reply, failed = a.failureText(err), true
		}
		observability.ObserveCompletion(a.provider, start, err)
		if err != nil {
			a.logger.Error("completion failed",
				"provider", a.provider,
				"turns", len(turns),
				"error", err,
			)
		}
	}()

	var text string
	text, err = a.complete(ctx, turns)
	if err != nil {
		return a.failureText(err), true
	}

	a.logger.Info("completion ok",
		"provider", a.provider,
		"turns", len(turns),
		"reply_len", len(text),
		"duration", time.Since(start),
	)
	return text, false
}

func (a *Advisor) complete(ctx context.Context, turns []conversation.Turn) (string, error) {
	system, err := prompt.Build(a.catalog)
	if err != nil {
		return "", fmt.Errorf("build directive: %w", err)
	}

	text, err := a.llm.Complete(ctx, system, turns)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", errors.New("empty reply from model")
	}
	return text, nil
}

func (a *Advisor) failureText(err error) string {
	return fmt.Sprintf("%s An error occurred while contacting %s. This is usually due to an "+
		"invalid or expired API key, or running out of free usage.\n\nDetails: %v", ErrorPrefix, a.provider, err)
}
