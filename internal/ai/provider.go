package ai

import (
	"context"
	"fmt"

	"github.com/newsmakerhq/newsmaker-bot/config"
)

// Provider is the narrow text-generation capability every AI backend
// implements. Prompts go in, a free-form completion comes out; everything
// else (JSON shaping, fallbacks) is the caller's concern.
type Provider interface {
	Name() string
	GenerateText(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// NewProvider selects a backend once at construction from the configured
// provider name. Adding a backend means adding an implementation here,
// not branching deeper in calling code.
func NewProvider(cfg *config.Config) (Provider, error) {
	switch cfg.AIProvider {
	case "openai":
		return NewOpenAIProvider(cfg.AIAPIKey, cfg.AIModel), nil
	case "gemini":
		return NewGeminiProvider(cfg.AIAPIKey, cfg.AIModel), nil
	case "anthropic":
		return NewAnthropicProvider(cfg.AIAPIKey, cfg.AIModel), nil
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.AIProvider)
	}
}
