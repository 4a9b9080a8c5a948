package judge

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mkrastev/veridict/internal/config"
	"github.com/mkrastev/veridict/internal/llm"
)

// Pool builds a collection of judges from configuration.
type Pool struct {
	llmClient llm.Client
	logger    *zerolog.Logger
}

func NewPool(llmClient llm.Client, logger *zerolog.Logger) *Pool {
	return &Pool{
		llmClient: llmClient,
		logger:    logger,
	}
}

func (p *Pool) BuildFromConfig(cfg *config.JudgesConfig) ([]Judge, error) {
	if cfg == nil {
		return nil, fmt.Errorf("judges config is nil")
	}

	var judges []Judge

	for _, judgeCfg := range cfg.Judges.Evaluators {
		if !judgeCfg.Enabled {
			p.logger.Info().
				Str("judge", judgeCfg.Name).
				Msg("judge disabled in config, skipping")
			continue
		}

		judge, err := NewLLMJudge(judgeCfg, p.llmClient, p.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create judge %s: %w", judgeCfg.Name, err)
		}

		judges = append(judges, judge)

		p.logger.Info().
			Str("judge", judgeCfg.Name).
			Str("kind", string(judgeCfg.Schema.Kind)).
			Bool("with_rationale", judgeCfg.Schema.WithRationale).
			Int("max_tokens", judgeCfg.Model.MaxTokens).
			Float64("temperature", judgeCfg.Model.Temperature).
			Bool("retry", judgeCfg.Model.Retry).
			Msg("judge created successfully")
	}

	if len(judges) == 0 {
		return nil, fmt.Errorf("no enabled judges found in config")
	}

	return judges, nil
}
