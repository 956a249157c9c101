package kafka

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"
	"orderflow/internal/pkg/config"
	"orderflow/pkg/logger"
)

// Consumer reads the notifications topic as a member of a consumer group.
type Consumer struct {
	log     logger.Logger
	group   sarama.ConsumerGroup
	topics  []string
	handler sarama.ConsumerGroupHandler
}

// NewConsumerConfig starts from the oldest offset, so notifications queued while
// the worker was down are still sent.
func NewConsumerConfig(version string, autoCommit bool) (*sarama.Config, error) {
	cfg, err := newBaseConfig(version)
	if err != nil {
		return nil, err
	}

	cfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	cfg.Consumer.Offsets.AutoCommit.Enable = autoCommit
	cfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	cfg.Consumer.Return.Errors = true

	return cfg, nil
}

// NewConsumer joins cfg.ConsumerGroup on the notifications topic once the brokers answer.
func NewConsumer(ctx context.Context, log logger.Logger, cfg *config.Kafka, handler sarama.ConsumerGroupHandler) (*Consumer, error) {
	saramaConfig, err := NewConsumerConfig(cfg.Sarama.Version, cfg.Sarama.ConsumerOffsetsAutocommit)
	if err != nil {
		return nil, fmt.Errorf("consumer config: %w", err)
	}

	consumerLog := log.With(
		logger.NewField("brokers", cfg.Brokers),
		logger.NewField("group", cfg.ConsumerGroup),
		logger.NewField("topic", cfg.NotificationsTopic),
	)

	if err := waitForBrokers(ctx, consumerLog, cfg.Brokers, saramaConfig); err != nil {
		return nil, err
	}

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.ConsumerGroup, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("create consumer group: %w", err)
	}

	return &Consumer{
		log:     consumerLog,
		group:   group,
		topics:  []string{cfg.NotificationsTopic},
		handler: handler,
	}, nil
}

// Start blocks until ctx is cancelled or the group fails. Consume returns after
// every rebalance and is called again.
func (c *Consumer) Start(ctx context.Context) error {
	go c.logGroupErrors()

	for {
		if err := c.group.Consume(ctx, c.topics, c.handler); err != nil {
			c.log.Error("consume failed", logger.NewField("error", err))
			return fmt.Errorf("consume: %w", err)
		}

		if err := ctx.Err(); err != nil {
			c.log.Info("consumer context done")
			return err
		}
	}
}

func (c *Consumer) Close() error {
	return c.group.Close()
}

func (c *Consumer) logGroupErrors() {
	for err := range c.group.Errors() {
		c.log.Warn("consumer group error", logger.NewField("error", err))
	}
}
