package judge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mkrastev/veridict/internal/config"
	"github.com/mkrastev/veridict/internal/llm"
	"github.com/mkrastev/veridict/internal/models"
	"github.com/mkrastev/veridict/internal/prompt"
	"github.com/mkrastev/veridict/internal/schema"
)

// LLMJudge renders the configured template, forces a single tool call that
// encodes the verdict domain, and validates the response against it.
type LLMJudge struct {
	name        string
	formatter   *prompt.Formatter
	descriptor  schema.Descriptor
	modelConfig config.ModelConfig
	reask       bool
	llmClient   llm.Client
	logger      *zerolog.Logger
}

// NewLLMJudge fails fast on configuration errors — a bad template or
// descriptor never reaches the network.
func NewLLMJudge(
	judgeCfg config.JudgeConfiguration,
	llmClient llm.Client,
	logger *zerolog.Logger,
) (*LLMJudge, error) {
	formatter, err := prompt.NewFormatter(judgeCfg.Name, judgeCfg.Prompt)
	if err != nil {
		return nil, fmt.Errorf("judge %s: %w", judgeCfg.Name, err)
	}

	if err := judgeCfg.Schema.Validate(); err != nil {
		return nil, fmt.Errorf("judge %s: %w", judgeCfg.Name, err)
	}

	if judgeCfg.Model == nil {
		return nil, fmt.Errorf("judge %s has nil model config (should be populated by config loader)", judgeCfg.Name)
	}

	return &LLMJudge{
		name:        judgeCfg.Name,
		formatter:   formatter,
		descriptor:  judgeCfg.Schema,
		modelConfig: *judgeCfg.Model,
		reask:       judgeCfg.ReaskOnViolation,
		llmClient:   llmClient,
		logger:      logger,
	}, nil
}

// Name returns the judge's name.
func (j *LLMJudge) Name() string {
	return j.name
}

// Judge runs one invocation for the item. One outbound network call (two
// when re-ask is enabled and the first response violated the schema).
func (j *LLMJudge) Judge(ctx context.Context, item models.EvaluationItem) (*Judgement, error) {
	now := time.Now()

	rendered, err := j.formatter.Render(item)
	if err != nil {
		j.logger.Error().
			Err(err).
			Str("judge", j.name).
			Msg("failed to build prompt from template")
		return nil, err
	}

	request := llm.ToolRequest{
		Request: llm.Request{
			Prompt:      rendered,
			MaxTokens:   j.modelConfig.MaxTokens,
			Temperature: j.modelConfig.Temperature,
		},
		Tool: j.descriptor.Tool(),
	}

	judgement, err := j.invokeOnce(ctx, request)
	if err != nil && errors.Is(err, schema.ErrViolation) && j.reask {
		// Single re-ask: the model broke the contract once, give it one
		// more chance before surfacing the violation.
		j.logger.Warn().
			Err(err).
			Str("judge", j.name).
			Msg("schema violation, re-asking once")
		judgement, err = j.invokeOnce(ctx, request)
	}
	if err != nil {
		j.logger.Error().
			Err(err).
			Str("judge", j.name).
			Msg("judge invocation failed")
		return nil, err
	}

	j.logger.Info().
		Str("judge", j.name).
		Str("kind", string(judgement.Verdict.Kind)).
		Str("relation", string(judgement.Verdict.Relation)).
		Int("rating", judgement.Verdict.Rating).
		Int("input_tokens", judgement.Usage.InputTokens).
		Int("output_tokens", judgement.Usage.OutputTokens).
		Dur("duration", time.Since(now)).
		Msg("judge completed")

	return judgement, nil
}

func (j *LLMJudge) invokeOnce(ctx context.Context, request llm.ToolRequest) (*Judgement, error) {
	var resp *llm.ToolResponse
	var err error

	if j.modelConfig.Retry {
		resp, err = j.llmClient.InvokeToolWithRetry(ctx, request)
	} else {
		resp, err = j.llmClient.InvokeTool(ctx, request)
	}
	if err != nil {
		return nil, err
	}

	verdict, err := j.descriptor.ParseVerdict(resp)
	if err != nil {
		return nil, err
	}

	return &Judgement{Verdict: verdict, Usage: resp.Usage}, nil
}
