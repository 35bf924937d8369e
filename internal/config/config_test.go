package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

var allKeys = []string{
	"ADVISOR_PROVIDER", "GROQ_API_KEY", "GROQ_BASE_URL", "ANTHROPIC_API_KEY",
	"ANTHROPIC_BASE_URL", "GEMINI_API_KEY", "GEMINI_BASE_URL", "ADVISOR_MODEL",
	"ADVISOR_TEMPERATURE", "ADVISOR_MAX_TOKENS", "CATALOG_PATH",
	"CATALOG_DATABASE_URL", "DIRECTIVE_WARN_BYTES", "NATS_URL", "NATS_TOKEN",
	"ADVISOR_PORT", "RATE_LIMIT_PER_MIN", "MAX_SESSIONS", "SESSION_IDLE_TTL",
	"LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allKeys {
		// Setenv registers the restore; Unsetenv makes the key truly absent.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Provider != ProviderGroq {
		t.Errorf("expected default provider groq, got %s", cfg.Provider)
	}
	if cfg.GroqBaseURL != "https://api.groq.com/openai/v1" {
		t.Errorf("expected default groq url, got %s", cfg.GroqBaseURL)
	}
	if cfg.Temperature != 0.2 {
		t.Errorf("expected default temperature 0.2, got %v", cfg.Temperature)
	}
	if cfg.MaxTokens != 0 {
		t.Errorf("expected default max tokens 0, got %d", cfg.MaxTokens)
	}
	if cfg.Port != 8760 {
		t.Errorf("expected default port 8760, got %d", cfg.Port)
	}
	if cfg.RateLimitPerMin != 30 {
		t.Errorf("expected default rate limit 30, got %d", cfg.RateLimitPerMin)
	}
	if cfg.MaxSessions != 1000 {
		t.Errorf("expected default session cap 1000, got %d", cfg.MaxSessions)
	}
	if cfg.SessionIdleTTL != 30*time.Minute {
		t.Errorf("expected default idle ttl 30m, got %v", cfg.SessionIdleTTL)
	}
	if cfg.DirectiveWarnBytes != 32768 {
		t.Errorf("expected default directive warn bytes 32768, got %d", cfg.DirectiveWarnBytes)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level info, got %s", cfg.LogLevel)
	}
	if cfg.NatsURL != "" {
		t.Errorf("expected NATS disabled by default, got %s", cfg.NatsURL)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("ADVISOR_PROVIDER", " Anthropic ")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
	t.Setenv("ADVISOR_MODEL", "claude-sonnet-4-5")
	t.Setenv("ADVISOR_TEMPERATURE", "0.5")
	t.Setenv("ADVISOR_MAX_TOKENS", "512")
	t.Setenv("CATALOG_PATH", "/etc/advisor/postings.json")
	t.Setenv("NATS_URL", "nats://localhost:4222")
	t.Setenv("ADVISOR_PORT", "9999")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Provider != ProviderAnthropic {
		t.Errorf("expected provider anthropic, got %q", cfg.Provider)
	}
	if cfg.APIKey() != "sk-ant-test" {
		t.Errorf("expected anthropic key, got %q", cfg.APIKey())
	}
	if cfg.Model != "claude-sonnet-4-5" {
		t.Errorf("expected custom model, got %s", cfg.Model)
	}
	if cfg.Temperature != 0.5 {
		t.Errorf("expected temperature 0.5, got %v", cfg.Temperature)
	}
	if cfg.MaxTokens != 512 {
		t.Errorf("expected max tokens 512, got %d", cfg.MaxTokens)
	}
	if cfg.CatalogPath != "/etc/advisor/postings.json" {
		t.Errorf("expected catalog path, got %s", cfg.CatalogPath)
	}
	if cfg.NatsURL != "nats://localhost:4222" {
		t.Errorf("expected nats url, got %s", cfg.NatsURL)
	}
	if cfg.Port != 9999 {
		t.Errorf("expected port 9999, got %d", cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected debug log level, got %s", cfg.LogLevel)
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("ADVISOR_PORT", "notanumber")

	if _, err := Load(); err == nil {
		t.Fatal("expected error on invalid port")
	}
}

func TestValidate_MissingCredential(t *testing.T) {
	tests := []struct {
		provider string
		key      string
	}{
		{ProviderGroq, "GROQ_API_KEY"},
		{ProviderAnthropic, "ANTHROPIC_API_KEY"},
		{ProviderGemini, "GEMINI_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			cfg := Config{Provider: tt.provider, Temperature: 0.2}
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error for missing credential")
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Errorf("expected error naming %s, got %v", tt.key, err)
			}
		})
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := Config{Provider: ProviderGroq, GroqAPIKey: "gsk_test", Temperature: 0.2}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if cfg.ProviderName() != "Groq" {
		t.Errorf("expected provider name Groq, got %s", cfg.ProviderName())
	}
}

func TestValidate_UnknownProvider(t *testing.T) {
	cfg := Config{Provider: "openai", GroqAPIKey: "gsk_test", Temperature: 0.2}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestValidate_TemperatureRange(t *testing.T) {
	cfg := Config{Provider: ProviderGroq, GroqAPIKey: "gsk_test", Temperature: 3}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out of range temperature")
	}
}

func TestLoad_SessionLimits(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_SESSIONS", "5")
	t.Setenv("SESSION_IDLE_TTL", "90s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MaxSessions != 5 {
		t.Errorf("expected session cap 5, got %d", cfg.MaxSessions)
	}
	if cfg.SessionIdleTTL != 90*time.Second {
		t.Errorf("expected idle ttl 90s, got %v", cfg.SessionIdleTTL)
	}
}
