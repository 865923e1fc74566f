package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted in Config.Provider and QUIZCARD_LLM_PROVIDER.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config selects and configures a provider.
type Config struct {
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds each provider request. Every retry attempt gets a
	// fresh budget.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // optional, for OpenAI-compatible endpoints
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig is the backoff schedule for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64

	// AttemptTimeout bounds each attempt; zero leaves only the caller's
	// deadline. An attempt that runs out is retried like an outage.
	AttemptTimeout time.Duration
}

// DefaultConfig uses Anthropic's small model with three attempts.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 45 * time.Second,
	}
}

// envBindings maps QUIZCARD_* variables onto config fields.
func (c *Config) envBindings() map[string]*string {
	return map[string]*string{
		"QUIZCARD_LLM_PROVIDER":       &c.Provider,
		"QUIZCARD_ANTHROPIC_API_KEY":  &c.Anthropic.APIKey,
		"QUIZCARD_ANTHROPIC_MODEL":    &c.Anthropic.Model,
		"QUIZCARD_OPENAI_API_KEY":     &c.OpenAI.APIKey,
		"QUIZCARD_OPENAI_MODEL":       &c.OpenAI.Model,
		"QUIZCARD_OPENAI_BASE_URL":    &c.OpenAI.BaseURL,
		"QUIZCARD_GEMINI_API_KEY":     &c.Gemini.APIKey,
		"QUIZCARD_GEMINI_MODEL":       &c.Gemini.Model,
		"QUIZCARD_OPENROUTER_API_KEY": &c.OpenRouter.APIKey,
		"QUIZCARD_OPENROUTER_MODEL":   &c.OpenRouter.Model,
	}
}

// ConfigFromEnv overlays QUIZCARD_* environment variables on DefaultConfig.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	for name, field := range cfg.envBindings() {
		if v := os.Getenv(name); v != "" {
			*field = v
		}
	}
	if d := os.Getenv("QUIZCARD_LLM_TIMEOUT"); d != "" {
		if parsed, err := time.ParseDuration(d); err == nil {
			cfg.Timeout = parsed
		}
	}
	return cfg
}

// DiscoverConfig falls back to the vendors' own key variables, trying
// Gemini, OpenAI, Anthropic and OpenRouter in that order.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	probes := []struct {
		env      string
		provider string
		key      *string
	}{
		{"GEMINI_API_KEY", ProviderGemini, &cfg.Gemini.APIKey},
		{"OPENAI_API_KEY", ProviderOpenAI, &cfg.OpenAI.APIKey},
		{"ANTHROPIC_API_KEY", ProviderAnthropic, &cfg.Anthropic.APIKey},
		{"OPENROUTER_API_KEY", ProviderOpenRouter, &cfg.OpenRouter.APIKey},
	}
	for _, p := range probes {
		if k := os.Getenv(p.env); k != "" {
			cfg.Provider = p.provider
			*p.key = k
			return cfg, true
		}
	}
	return Config{}, false
}

// apiKey returns the key of the selected provider.
func (c Config) apiKey() string {
	switch c.Provider {
	case ProviderAnthropic:
		return c.Anthropic.APIKey
	case ProviderOpenAI:
		return c.OpenAI.APIKey
	case ProviderGemini:
		return c.Gemini.APIKey
	case ProviderOpenRouter:
		return c.OpenRouter.APIKey
	}
	return ""
}

// Validate checks that the selected provider exists and has a key.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderMock:
		return nil
	case ProviderAnthropic, ProviderOpenAI, ProviderGemini, ProviderOpenRouter:
		if c.apiKey() == "" {
			return fmt.Errorf("QUIZCARD_%s_API_KEY is required for the %s provider", strings.ToUpper(c.Provider), c.Provider)
		}
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
}
