// Package groq is a client for Groq's OpenAI-compatible chat completions
// endpoint.
package groq

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/MikeSquared-Agency/advisor/internal/conversation"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama-3.1-8b-instant"
)

type Client struct {
	config      openai.ClientConfig
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

func NewClient(apiKey, model string, temperature float64) *Client {
	if model == "" {
		model = DefaultModel
	}
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = DefaultBaseURL
	config.HTTPClient = &http.Client{Timeout: 120 * time.Second}

	return &Client{
		config:      config,
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: float32(temperature),
	}
}

// SetBaseURL points the client at another OpenAI-compatible endpoint.
func (c *Client) SetBaseURL(url string) {
	c.config.BaseURL = strings.TrimRight(url, "/")
	c.client = openai.NewClientWithConfig(c.config)
}

// SetMaxTokens caps the reply length. Zero leaves it to the endpoint.
func (c *Client) SetMaxTokens(n int) {
	c.maxTokens = n
}

func (c *Client) Model() string {
	return c.model
}

// Complete sends the system directive followed by the conversation and
// returns the first choice's text. One attempt, no retries.
func (c *Client) Complete(ctx context.Context, system string, turns []conversation.Turn) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(turns)+1)
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	for _, t := range turns {
		role := openai.ChatMessageRoleUser
		if t.Role == conversation.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: t.Content})
	}

	// go-openai omits a zero temperature, which the endpoint reads as 1.
	temperature := c.temperature
	if temperature == 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("api error %d: %s: %s", apiErr.HTTPStatusCode, apiErr.Type, apiErr.Message)
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return "", fmt.Errorf("api error %d: %w", reqErr.HTTPStatusCode, err)
		}
		return "", fmt.Errorf("api call: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response choices")
	}

	return resp.Choices[0].Message.Content, nil
}
