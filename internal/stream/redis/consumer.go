package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mkrastev/veridict/internal/models"
	"github.com/mkrastev/veridict/internal/runner"
)

type Consumer struct {
	client       *redis.Client
	stream       string
	outputStream string
	groupID      string
	consumerName string
	registry     *runner.Registry
	logger       *zerolog.Logger
}

func NewConsumer(client *redis.Client, cfg *RedisStreamConfig, registry *runner.Registry, logger *zerolog.Logger) *Consumer {
	return &Consumer{
		client:       client,
		stream:       cfg.Stream,
		outputStream: cfg.OutputStream,
		groupID:      cfg.Group,
		consumerName: cfg.ConsumerName,
		registry:     registry,
		logger:       logger,
	}
}

func (c *Consumer) Setup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.groupID, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		return err
	}
	return nil
}

func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info().
		Str("stream", c.stream).
		Str("group", c.groupID).
		Str("consumer", c.consumerName).
		Msg("Consumer started")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		msgs, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.groupID,
			Consumer: c.consumerName,
			Streams:  []string{c.stream, ">"},
			Count:    1,
			Block:    2 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				// timeout, no message -> loop again
				continue
			}

			if ctx.Err() != nil {
				return ctx.Err() // context cancelled during block
			}

			c.logger.Error().Err(err).Msg("Failed to read from stream")
			continue
		}

		for _, msg := range msgs[0].Messages {
			c.process(ctx, msg)
		}
	}
}

func (c *Consumer) Stop() error {
	// No-op
	return nil
}

func (c *Consumer) process(ctx context.Context, msg redis.XMessage) {
	c.logger.Info().Str("id", msg.ID).Msg("Message received")

	payload, ok := msg.Values["payload"].(string)
	if !ok {
		c.logger.Error().Str("id", msg.ID).Msg("Missing payload field")
		c.ack(ctx, msg.ID)
		return
	}

	var request models.JudgementRequest
	if err := json.Unmarshal([]byte(payload), &request); err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to decode message")
		c.ack(ctx, msg.ID) // bad message — ACK to skip it
		return
	}

	pipeline, err := c.registry.Resolve(request.Judge)
	if err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Str("judge", request.Judge).Msg("Unknown judge, skipping message")
		c.ack(ctx, msg.ID)
		return
	}

	result := pipeline.Evaluate(ctx, request)

	c.logger.Info().
		Str("id", msg.ID).
		Str("event_id", result.EventID).
		Str("status", string(result.Status)).
		Float64("score", result.Score).
		Msg("Evaluation complete")

	c.publish(ctx, msg.ID, result)
	c.ack(ctx, msg.ID)
}

func (c *Consumer) publish(ctx context.Context, msgID string, result models.EvaluationResult) {
	if c.outputStream == "" {
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		c.logger.Error().Err(err).Str("id", msgID).Msg("Failed to encode result")
		return
	}

	err = c.client.XAdd(ctx, &redis.XAddArgs{
		Stream: c.outputStream,
		Values: map[string]any{"payload": string(payload)},
	}).Err()
	if err != nil {
		c.logger.Error().Err(err).Str("id", msgID).Msg("Failed to publish result")
	}
}

func (c *Consumer) ack(ctx context.Context, msgID string) {
	if err := c.client.XAck(ctx, c.stream, c.groupID, msgID).Err(); err != nil {
		c.logger.Error().Err(err).Str("id", msgID).Msg("Failed to ACK message")
	}
}
