package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"orderflow/internal/entities"
	"orderflow/internal/pkg/kafka"
)

// Gateway relays notifications to the mail worker through Kafka instead of sending them in-process.
type Gateway struct {
	producer producer
	topic    string
	now      func() time.Time
}

func New(producer producer, topic string) *Gateway {
	return &Gateway{
		producer: producer,
		topic:    topic,
		now:      time.Now,
	}
}

func (g *Gateway) Send(ctx context.Context, n entities.Notification) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("gateway kafka, publish %s: %w", n.Kind, err)
	}

	payload, err := json.Marshal(kafka.FromNotification(n, g.now().UTC()))
	if err != nil {
		return fmt.Errorf("gateway kafka, marshal %s: %w", n.Kind, err)
	}

	msg := &sarama.ProducerMessage{
		Topic: g.topic,
		Key:   sarama.StringEncoder(n.OrderID),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("kind"), Value: []byte(n.Kind.String())},
		},
	}

	start := time.Now()
	_, _, err = g.producer.SendMessage(msg)

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	PublishDuration.WithLabelValues(g.topic, outcome).Observe(time.Since(start).Seconds())

	if err != nil {
		return fmt.Errorf("gateway kafka, publish %s: %w", n.Kind, err)
	}
	return nil
}
