package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"orderflow/pkg/logger"
	"orderflow/pkg/retrier"
	"orderflow/pkg/retrier/backoff_adapter"
)

var dialRetry = retrier.Config{
	InitialInterval: time.Second,
	MaxInterval:     30 * time.Second,
	MaxElapsedTime:  2 * time.Minute,
	Randomization:   0.5,
	Multiplier:      2,
}

func newBaseConfig(version string) (*sarama.Config, error) {
	cfg := sarama.NewConfig()

	parsed, err := sarama.ParseKafkaVersion(version)
	if err != nil {
		return nil, fmt.Errorf("parse kafka version %q: %w", version, err)
	}
	cfg.Version = parsed
	return cfg, nil
}

// waitForBrokers blocks until a metadata request to brokers succeeds.
func waitForBrokers(ctx context.Context, log logger.Logger, brokers []string, cfg *sarama.Config) error {
	probe := func(context.Context) error {
		client, err := sarama.NewClient(brokers, cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := client.Close(); err != nil {
				log.Warn("close kafka probe client", logger.NewField("error", err))
			}
		}()

		_, err = client.Topics()
		return err
	}

	return retrier.WaitReady(ctx, backoff_adapter.New(dialRetry), log, "kafka", probe)
}
