package anthropic

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/MikeSquared-Agency/advisor/internal/conversation"
)

const (
	DefaultModel     = "claude-haiku-4-5"
	defaultMaxTokens = 1024
)

type Client struct {
	client      anthropic.Client
	model       string
	temperature float64
	maxTokens   int64
}

// NewClient builds an Anthropic messages client. baseURL may be empty.
// SDK retries are disabled: a turn gets exactly one attempt.
func NewClient(apiKey, model string, temperature float64, maxTokens int, baseURL string) *Client {
	if model == "" {
		model = DefaultModel
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Client{
		client:      anthropic.NewClient(opts...),
		model:       model,
		temperature: temperature,
		maxTokens:   int64(maxTokens),
	}
}

func (c *Client) Model() string {
	return c.model
}

// Complete sends the directive as the system prompt plus the conversation
// and returns the first text block of the reply.
func (c *Client) Complete(ctx context.Context, system string, turns []conversation.Turn) (string, error) {
	params := make([]anthropic.MessageParam, 0, len(turns))
	for _, t := range turns {
		block := anthropic.NewTextBlock(t.Content)
		switch t.Role {
		case conversation.RoleUser:
			params = append(params, anthropic.NewUserMessage(block))
		case conversation.RoleAssistant:
			params = append(params, anthropic.NewAssistantMessage(block))
		}
	}

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   c.maxTokens,
		System:      []anthropic.TextBlockParam{{Text: system}},
		Messages:    params,
		Temperature: anthropic.Float(c.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: %w", err)
	}

	for _, block := range resp.Content {
		if block.Text != "" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("anthropic: empty response")
}
