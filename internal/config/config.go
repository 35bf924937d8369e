package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

const (
	ProviderGroq      = "groq"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

type Config struct {
	Provider           string        `env:"ADVISOR_PROVIDER" envDefault:"groq"`
	GroqAPIKey         string        `env:"GROQ_API_KEY"`
	GroqBaseURL        string        `env:"GROQ_BASE_URL" envDefault:"https://api.groq.com/openai/v1"`
	AnthropicAPIKey    string        `env:"ANTHROPIC_API_KEY"`
	AnthropicBaseURL   string        `env:"ANTHROPIC_BASE_URL"`
	GeminiAPIKey       string        `env:"GEMINI_API_KEY"`
	GeminiBaseURL      string        `env:"GEMINI_BASE_URL"`
	Model              string        `env:"ADVISOR_MODEL"`
	Temperature        float64       `env:"ADVISOR_TEMPERATURE" envDefault:"0.2"`
	MaxTokens          int           `env:"ADVISOR_MAX_TOKENS" envDefault:"0"`
	CatalogPath        string        `env:"CATALOG_PATH"`
	CatalogDatabaseURL string        `env:"CATALOG_DATABASE_URL"`
	DirectiveWarnBytes int           `env:"DIRECTIVE_WARN_BYTES" envDefault:"32768"`
	NatsURL            string        `env:"NATS_URL"`
	NatsToken          string        `env:"NATS_TOKEN"`
	Port               int           `env:"ADVISOR_PORT" envDefault:"8760"`
	RateLimitPerMin    int           `env:"RATE_LIMIT_PER_MIN" envDefault:"30"`
	MaxSessions        int           `env:"MAX_SESSIONS" envDefault:"1000"`
	SessionIdleTTL     time.Duration `env:"SESSION_IDLE_TTL" envDefault:"30m"`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	return cfg, nil
}

// APIKeyName is the environment key holding the active provider's credential.
func (c Config) APIKeyName() string {
	switch c.Provider {
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case ProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return "GROQ_API_KEY"
	}
}

// APIKey returns the active provider's credential.
func (c Config) APIKey() string {
	switch c.Provider {
	case ProviderAnthropic:
		return c.AnthropicAPIKey
	case ProviderGemini:
		return c.GeminiAPIKey
	default:
		return c.GroqAPIKey
	}
}

// ProviderName is the display name used in replies and status lines.
func (c Config) ProviderName() string {
	switch c.Provider {
	case ProviderAnthropic:
		return "Anthropic"
	case ProviderGemini:
		return "Gemini"
	default:
		return "Groq"
	}
}

// Validate reports configuration that must stop the process before any
// completion client is built.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderGroq, ProviderAnthropic, ProviderGemini:
	default:
		return fmt.Errorf("unknown ADVISOR_PROVIDER %q (want groq, anthropic or gemini)", c.Provider)
	}
	if strings.TrimSpace(c.APIKey()) == "" {
		return fmt.Errorf("%s is required: define it in the environment or a .env file", c.APIKeyName())
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("ADVISOR_TEMPERATURE must be between 0 and 2, got %v", c.Temperature)
	}
	return nil
}
