package llm

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/trial-agent/internal/config"
	"github.com/sells-group/trial-agent/pkg/anthropic"
)

// New selects the Generator for the configured provider. A backend that
// cannot be constructed degrades to Offline instead of failing startup.
func New(ctx context.Context, cfg *config.Config) Generator {
	live, err := newLive(ctx, cfg)
	if err != nil {
		zap.L().Warn("llm: backend unavailable, using template output",
			zap.String("provider", cfg.LLM.Provider),
			zap.Error(err),
		)
		return Offline{}
	}
	if _, ok := live.(Offline); ok {
		return live
	}

	zap.L().Info("llm: backend ready", zap.String("provider", live.Name()))
	if cfg.LLM.BreakerThreshold <= 0 {
		return live
	}
	return NewBreaker(live, cfg.LLM.BreakerThreshold, time.Duration(cfg.LLM.BreakerCooldownSecs)*time.Second)
}

func newLive(ctx context.Context, cfg *config.Config) (Generator, error) {
	switch cfg.LLM.Provider {
	case config.ProviderAnthropic:
		client, err := anthropic.NewClient(cfg.Anthropic.Key, cfg.Anthropic.BaseURL)
		if err != nil {
			return nil, err
		}
		return NewAnthropic(client, cfg.Anthropic.Model, cfg.LLM.MaxTokens), nil
	case config.ProviderOllama:
		return NewOllama(ctx, cfg.Ollama.BaseURL, cfg.Ollama.Model)
	default:
		return Offline{}, nil
	}
}
