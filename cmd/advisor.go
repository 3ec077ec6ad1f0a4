package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/labmatch/internal/ai"
	"github.com/spigell/labmatch/internal/ai/gemini"
	"github.com/spigell/labmatch/internal/ai/openai"
	"github.com/spigell/labmatch/internal/recommend"
	"github.com/spigell/labmatch/internal/secrets"
)

// newAdvisor builds the advisory capability selected by ai.provider.
func newAdvisor(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Capability, error) {
	if cfg == nil {
		return nil, ai.ErrNotConfigured
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	switch provider {
	case "", ai.ProviderGemini:
		gc := cfg.Gemini
		if gc == nil {
			gc = &GeminiConfig{}
		}

		apiKey, err := secrets.Load(secrets.Source{
			Name: "gemini api key",
			File: gc.APIKeyFile,
			Env:  "GEMINI_API_KEY",
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.gemini.api-key-file, LABMATCH_GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
		}

		generator, err := gemini.NewGenerator(ctx, apiKey, gc.Model, gc.MaxAttempts,
			logger.With(zap.Int("ai_attempts", gc.MaxAttempts)))
		if err != nil {
			return nil, err
		}
		return generator, nil

	case ai.ProviderOpenAI:
		oc := cfg.OpenAI
		if oc == nil {
			oc = &OpenAIConfig{}
		}

		apiKey, err := secrets.Load(secrets.Source{
			Name: "openai api key",
			File: oc.APIKeyFile,
			Env:  "OPENAI_API_KEY",
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.openai.api-key-file, LABMATCH_OPENAI_API_KEY_FILE or OPENAI_API_KEY)", err)
		}

		client, err := openai.New(apiKey, oc.Model, logger, openai.WithBaseURL(oc.BaseURL))
		if err != nil {
			return nil, err
		}
		return client, nil

	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}

// newMerger wires the advisory capability into a merger. A capability that cannot be built is
// logged and left out, so ranking keeps working without advice.
func newMerger(ctx context.Context, config *Config, logger *zap.Logger) *recommend.Merger {
	advisor, err := newAdvisor(ctx, config.AI, logger)
	if err != nil {
		logger.Warn("advisory capability disabled", zap.Error(err))
		advisor = nil
	}

	return recommend.New(advisor, logger,
		recommend.WithTopK(config.Recommend.TopK),
		recommend.WithMaxLogLength(maxLogLength(config.AI)),
	)
}

func maxLogLength(cfg *AIConfig) int {
	if cfg == nil {
		return 0
	}
	if strings.EqualFold(strings.TrimSpace(cfg.Provider), ai.ProviderOpenAI) {
		if cfg.OpenAI != nil {
			return cfg.OpenAI.MaxLogLength
		}
		return 0
	}
	if cfg.Gemini != nil {
		return cfg.Gemini.MaxLogLength
	}
	return 0
}
