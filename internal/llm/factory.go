package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/quizcard/internal/store"
)

// NewProvider builds the configured provider and wraps it as
// retry → logging → base. cfg.Timeout applies to each attempt. A nil repo
// skips logging.
func NewProvider(ctx context.Context, cfg Config, repo store.EventRepo) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	p := base
	if repo != nil {
		p = WithLogging(p, cfg.Provider, repo)
	}
	retry := cfg.Retry
	if cfg.Timeout > 0 {
		retry.AttemptTimeout = cfg.Timeout
	}
	return WithRetry(p, retry), nil
}

// NewProviderFromEnv reads QUIZCARD_* variables, falling back to the vendor
// key variables when the selected provider has no key.
func NewProviderFromEnv(ctx context.Context, repo store.EventRepo) (Provider, error) {
	cfg := ConfigFromEnv()
	if cfg.Validate() != nil {
		if found, ok := DiscoverConfig(); ok {
			cfg = found
		}
	}
	return NewProvider(ctx, cfg, repo)
}
