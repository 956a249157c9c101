package kafka

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"
	"orderflow/internal/pkg/config"
	"orderflow/pkg/logger"
)

const producerRetryMax = 5

// NewProducerConfig keys partitions by message key, so one order's
// notifications stay in order.
func NewProducerConfig(version string) (*sarama.Config, error) {
	cfg, err := newBaseConfig(version)
	if err != nil {
		return nil, err
	}

	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = producerRetryMax
	cfg.Producer.Return.Successes = true
	cfg.Producer.Partitioner = sarama.NewHashPartitioner
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1

	return cfg, nil
}

// NewSyncProducer returns a producer for the notifications topic once the brokers answer.
func NewSyncProducer(ctx context.Context, log logger.Logger, cfg *config.Kafka) (sarama.SyncProducer, error) {
	saramaConfig, err := NewProducerConfig(cfg.Sarama.Version)
	if err != nil {
		return nil, fmt.Errorf("producer config: %w", err)
	}

	producerLog := log.With(
		logger.NewField("brokers", cfg.Brokers),
		logger.NewField("topic", cfg.NotificationsTopic),
	)

	if err := waitForBrokers(ctx, producerLog, cfg.Brokers, saramaConfig); err != nil {
		return nil, err
	}

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("create sync producer: %w", err)
	}

	producerLog.Info("kafka producer ready")
	return producer, nil
}
