package oracle

import (
	"context"
	"fmt"

	"github.com/abhisek/mathjudge/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped with retry
// and event-logging middleware. repo may be nil to disable recording.
func NewProvider(ctx context.Context, cfg Config, repo store.EventRepo) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "service":
		base, err = NewServiceProvider(cfg.Service, cfg.Timeout)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown oracle provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s oracle: %w", cfg.Provider, err)
	}

	// Wrap with middleware: caller → retry → logging → base
	logged := WithLogging(base, repo)
	return WithRetry(logged, cfg.Retry), nil
}
