package llm

import (
	"fmt"
	"os"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "anthropic", "openai", "gemini", "openrouter", "mock"
	Provider string `yaml:"provider"`

	Anthropic  AnthropicConfig  `yaml:"anthropic"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Gemini     GeminiConfig     `yaml:"gemini"`
	OpenRouter OpenRouterConfig `yaml:"openrouter"`
	Retry      RetryConfig      `yaml:"retry"`

	// Timeout is the maximum duration for a single LLM request
	// (including retries). Default: 60s.
	Timeout time.Duration `yaml:"timeout"`
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"` // Default: "claude-haiku"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey      string `yaml:"api_key"`
	Model       string `yaml:"model"`        // Default: "gpt-4o-mini"
	BaseURL     string `yaml:"base_url"`     // Optional. Override for compatible APIs.
	ImageModel  string `yaml:"image_model"`  // Default: "dall-e-3"
	SpeechModel string `yaml:"speech_model"` // Default: "tts-1"
	Voice       string `yaml:"voice"`        // Default: "alloy"
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey      string `yaml:"api_key"`
	Model       string `yaml:"model"`        // Default: "gemini-flash"
	ImageModel  string `yaml:"image_model"`  // Default: "gemini-image"
	SpeechModel string `yaml:"speech_model"` // Default: "gemini-tts"
	Voice       string `yaml:"voice"`        // Default: "Algenib"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`    // Default: "google/gemini-2.0-flash-001"
	BaseURL string `yaml:"base_url"` // Default: "https://openrouter.ai/api/v1"
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "gemini",
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model:       "gpt-4o-mini",
			ImageModel:  "dall-e-3",
			SpeechModel: "tts-1",
			Voice:       "alloy",
		},
		Gemini: GeminiConfig{
			Model:       "gemini-flash",
			ImageModel:  "gemini-image",
			SpeechModel: "gemini-tts",
			Voice:       "Algenib",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.0-flash-001",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 60 * time.Second,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	ApplyEnv(&cfg)
	return cfg
}

// ApplyEnv overlays QUIZWISE_* environment variables onto cfg.
func ApplyEnv(cfg *Config) {
	setFromEnv(&cfg.Provider, "QUIZWISE_LLM_PROVIDER")

	setFromEnv(&cfg.Anthropic.APIKey, "QUIZWISE_ANTHROPIC_API_KEY")
	setFromEnv(&cfg.Anthropic.Model, "QUIZWISE_ANTHROPIC_MODEL")

	setFromEnv(&cfg.OpenAI.APIKey, "QUIZWISE_OPENAI_API_KEY")
	setFromEnv(&cfg.OpenAI.Model, "QUIZWISE_OPENAI_MODEL")
	setFromEnv(&cfg.OpenAI.BaseURL, "QUIZWISE_OPENAI_BASE_URL")
	setFromEnv(&cfg.OpenAI.ImageModel, "QUIZWISE_OPENAI_IMAGE_MODEL")
	setFromEnv(&cfg.OpenAI.SpeechModel, "QUIZWISE_OPENAI_SPEECH_MODEL")
	setFromEnv(&cfg.OpenAI.Voice, "QUIZWISE_OPENAI_VOICE")

	setFromEnv(&cfg.Gemini.APIKey, "QUIZWISE_GEMINI_API_KEY")
	setFromEnv(&cfg.Gemini.Model, "QUIZWISE_GEMINI_MODEL")
	setFromEnv(&cfg.Gemini.ImageModel, "QUIZWISE_GEMINI_IMAGE_MODEL")
	setFromEnv(&cfg.Gemini.SpeechModel, "QUIZWISE_GEMINI_SPEECH_MODEL")
	setFromEnv(&cfg.Gemini.Voice, "QUIZWISE_GEMINI_VOICE")

	setFromEnv(&cfg.OpenRouter.APIKey, "QUIZWISE_OPENROUTER_API_KEY")
	setFromEnv(&cfg.OpenRouter.Model, "QUIZWISE_OPENROUTER_MODEL")

	if d := os.Getenv("QUIZWISE_LLM_TIMEOUT"); d != "" {
		if v, err := time.ParseDuration(d); err == nil {
			cfg.Timeout = v
		}
	}
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// DiscoverConfig probes standard API key env vars in priority order
// (Gemini → OpenAI → Anthropic → OpenRouter) and returns a Config for the
// first provider whose key is found. Returns (Config{}, false) if none found.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	if Discover(&cfg) {
		return cfg, true
	}
	return Config{}, false
}

// Discover fills cfg's provider and key from the conventional env vars.
// Reports whether a key was found.
func Discover(cfg *Config) bool {
	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = "gemini"
		cfg.Gemini.APIKey = k
		return true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = "openai"
		cfg.OpenAI.APIKey = k
		return true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = "anthropic"
		cfg.Anthropic.APIKey = k
		return true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = "openrouter"
		cfg.OpenRouter.APIKey = k
		return true
	}
	return false
}

// HasKey reports whether the selected provider has an API key.
func (c Config) HasKey() bool {
	switch c.Provider {
	case "anthropic":
		return c.Anthropic.APIKey != ""
	case "openai":
		return c.OpenAI.APIKey != ""
	case "gemini":
		return c.Gemini.APIKey != ""
	case "openrouter":
		return c.OpenRouter.APIKey != ""
	case "mock":
		return true
	}
	return false
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("QUIZWISE_ANTHROPIC_API_KEY is required for the anthropic provider")
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("QUIZWISE_OPENAI_API_KEY is required for the openai provider")
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("QUIZWISE_GEMINI_API_KEY is required for the gemini provider")
		}
	case "openrouter":
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("QUIZWISE_OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case "mock":
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1")
	}
	return nil
}
