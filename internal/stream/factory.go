package stream

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	redisconn "github.com/mkrastev/veridict/internal/redis"
	"github.com/mkrastev/veridict/internal/runner"
	"github.com/mkrastev/veridict/internal/stream/redis"
)

type StreamConfig struct {
	Provider    string // redis, kafka, sqs, etc
	RedisConfig *redis.RedisStreamConfig
}

func NewStreamConsumer(
	ctx context.Context,
	cfg *StreamConfig,
	registry *runner.Registry,
	logger *zerolog.Logger,
) (StreamConsumer, error) {

	// If provider is empty, fallback to the default configuration.
	provider := cfg.Provider
	if provider == "" {
		provider = "redis"
	}

	switch provider {
	case "redis":
		if cfg.RedisConfig == nil {
			return nil, fmt.Errorf("redis config required")
		}

		client, err := redisconn.ConnectRedis(
			ctx,
			cfg.RedisConfig.RedisAddr,
			cfg.RedisConfig.RedisPassword,
			5,
		)
		if err != nil {
			return nil, err
		}

		return redis.NewConsumer(client, cfg.RedisConfig, registry, logger), nil

	// Future providers:
	// case "kafka":
	//     return kafka.NewConsumer(...)
	// case "sqs":
	//     return sqs.NewConsumer(...)

	default:
		return nil, fmt.Errorf("unsupported stream provider: %s", cfg.Provider)
	}
}
