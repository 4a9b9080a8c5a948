package setup

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/mkrastev/veridict/internal/aggregator"
	"github.com/mkrastev/veridict/internal/config"
	"github.com/mkrastev/veridict/internal/judge"
	"github.com/mkrastev/veridict/internal/llm"
	"github.com/mkrastev/veridict/internal/llm/bedrock"
	"github.com/mkrastev/veridict/internal/llm/gpt"
	"github.com/mkrastev/veridict/internal/runner"
)

type Config struct {
	AWSRegion       string
	ClaudeModelID   string
	OpenAIKey       string
	OpenAIModelID   string
	DefaultProvider string
	Workers         int
	JudgeTimeout    time.Duration
}

type Dependencies struct {
	Factory    *judge.Factory
	Registry   *runner.Registry
	Aggregator *aggregator.Aggregator
	Logger     *zerolog.Logger
}

func LoadConfig() *Config {
	return &Config{
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
		ClaudeModelID:   getEnv("CLAUDE_MODEL_ID", ""),
		OpenAIKey:       getEnv("OPEN_AI_KEY", ""),
		OpenAIModelID:   getEnv("OPEN_AI_MODEL_ID", ""),
		DefaultProvider: getEnv("DEFAULT_LLM_PROVIDER", "bedrock"),
		Workers:         getEnvInt("WORKERS", 10),
		JudgeTimeout:    getEnvDuration("JUDGE_TIMEOUT", 60*time.Second),
	}
}

func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	llmClient, err := CreateLLMClient(ctx, cfg.DefaultProvider, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	judgesConfig, err := config.LoadJudgesConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load judges config: %w", err)
	}

	factory, err := judge.NewFactory(judgesConfig, llmClient, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build judges from config: %w", err)
	}

	return &Dependencies{
		Factory:    factory,
		Registry:   runner.FromFactory(factory, cfg.Workers, cfg.JudgeTimeout, logger),
		Aggregator: aggregator.NewAggregator(logger),
		Logger:     logger,
	}, nil
}

func CreateLLMClient(ctx context.Context, provider string, cfg *Config) (llm.Client, error) {
	switch provider {
	case "bedrock":
		return bedrock.NewClient(ctx, cfg.AWSRegion, cfg.ClaudeModelID)
	case "openai":
		return gpt.NewClient(cfg.OpenAIKey, cfg.OpenAIModelID)
	default:
		return bedrock.NewClient(ctx, cfg.AWSRegion, cfg.ClaudeModelID)
	}
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		value = defaultValue
	}

	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		value = defaultValue
	}

	return value
}
