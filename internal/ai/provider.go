package ai

import (
	"context"
	"fmt"

	"wanderlust/internal/config"
)

// NewProvider builds the TextGenerator selected by cfg. The returned close
// func is never nil.
func NewProvider(ctx context.Context, cfg config.AIConfig) (TextGenerator, func(), error) {
	settings := Settings{Model: cfg.Model, Temperature: cfg.Temperature}
	switch cfg.Provider {
	case config.ProviderGemini:
		p, err := NewGeminiProvider(ctx, cfg.APIKey, settings)
		if err != nil {
			return nil, func() {}, err
		}
		return p, p.Close, nil
	case config.ProviderOpenAI:
		return NewOpenAIProvider(cfg.APIKey, cfg.OpenAIBaseURL, settings), func() {}, nil
	}
	return nil, func() {}, &config.ConfigurationError{Key: "WANDER_AI_PROVIDER", Reason: fmt.Sprintf("has unsupported value %q", cfg.Provider)}
}
