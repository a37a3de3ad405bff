package oracle

import (
	"fmt"
	"os"
	"time"
)

// Config holds oracle provider configuration.
type Config struct {
	// Provider selects which oracle backend to use.
	// Values: "service", "anthropic", "openai", "gemini", "mock"
	Provider string

	Service   ServiceConfig
	Anthropic AnthropicConfig
	OpenAI    OpenAIConfig
	Gemini    GeminiConfig
	Retry     RetryConfig

	// Timeout bounds a single oracle request. Default: 15s.
	Timeout time.Duration
}

// ServiceConfig configures the dedicated verification service backend.
type ServiceConfig struct {
	// BaseURL is the service root, e.g. "https://judge.example.com".
	// The client posts to {BaseURL}/math/verify-integral.
	BaseURL string
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string // Default: "claude-haiku"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional override for OpenAI-compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-flash"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "service",
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		Retry: RetryConfig{
			MaxAttempts: 2,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     5 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 15 * time.Second,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if p := os.Getenv("MATHJUDGE_ORACLE_PROVIDER"); p != "" {
		cfg.Provider = p
	}
	if u := os.Getenv("MATHJUDGE_ORACLE_URL"); u != "" {
		cfg.Service.BaseURL = u
	}

	if k := os.Getenv("MATHJUDGE_ANTHROPIC_API_KEY"); k != "" {
		cfg.Anthropic.APIKey = k
	}
	if m := os.Getenv("MATHJUDGE_ANTHROPIC_MODEL"); m != "" {
		cfg.Anthropic.Model = m
	}

	if k := os.Getenv("MATHJUDGE_OPENAI_API_KEY"); k != "" {
		cfg.OpenAI.APIKey = k
	}
	if m := os.Getenv("MATHJUDGE_OPENAI_MODEL"); m != "" {
		cfg.OpenAI.Model = m
	}
	if u := os.Getenv("MATHJUDGE_OPENAI_BASE_URL"); u != "" {
		cfg.OpenAI.BaseURL = u
	}

	if k := os.Getenv("MATHJUDGE_GEMINI_API_KEY"); k != "" {
		cfg.Gemini.APIKey = k
	}
	if m := os.Getenv("MATHJUDGE_GEMINI_MODEL"); m != "" {
		cfg.Gemini.Model = m
	}

	if d := os.Getenv("MATHJUDGE_ORACLE_TIMEOUT"); d != "" {
		if t, err := time.ParseDuration(d); err == nil {
			cfg.Timeout = t
		}
	}

	return cfg
}

// DiscoverConfig probes the environment in priority order (dedicated
// service → Gemini → OpenAI → Anthropic) and returns a Config for the
// first backend that is configured. Returns (Config{}, false) when none is.
func DiscoverConfig() (Config, bool) {
	cfg := ConfigFromEnv()

	if cfg.Service.BaseURL != "" {
		cfg.Provider = "service"
		return cfg, true
	}
	if cfg.Gemini.APIKey != "" {
		cfg.Provider = "gemini"
		return cfg, true
	}
	if cfg.OpenAI.APIKey != "" {
		cfg.Provider = "openai"
		return cfg, true
	}
	if cfg.Anthropic.APIKey != "" {
		cfg.Provider = "anthropic"
		return cfg, true
	}

	return Config{}, false
}

// Validate checks that the selected provider has its required settings.
func (c Config) Validate() error {
	switch c.Provider {
	case "service":
		if c.Service.BaseURL == "" {
			return fmt.Errorf("MATHJUDGE_ORACLE_URL is required for the service provider")
		}
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("MATHJUDGE_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("MATHJUDGE_OPENAI_API_KEY is required for the openai provider")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("MATHJUDGE_GEMINI_API_KEY is required for the gemini provider")
		}
	case "mock":
		// No configuration needed.
	default:
		return fmt.Errorf("unknown oracle provider: %q", c.Provider)
	}
	return nil
}
