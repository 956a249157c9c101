package notification_requested

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/IBM/sarama"
	"orderflow/internal/gateway/smtp"
	"orderflow/internal/pkg/kafka"
	"orderflow/pkg/logger"
)

// Handler consumes relayed notifications and sends them by mail.
type Handler struct {
	sender                   Sender
	log                      handlerLogger
	messageProcessingTimeout time.Duration
}

func New(log handlerLogger, sender Sender, timeout time.Duration) *Handler {
	return &Handler{
		sender:                   sender,
		log:                      log.With(logger.NewField("handler", "notification.requested")),
		messageProcessingTimeout: timeout,
	}
}

func (h *Handler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *Handler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *Handler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				h.log.Info("claim messages closed, exiting ConsumeClaim")
				return nil
			}

			if shouldExit := h.messageProcessing(sess, message); shouldExit {
				return nil
			}

		case <-sess.Context().Done():
			h.log.Info("session context done, exiting ConsumeClaim")
			return nil
		}
	}
}

// messageProcessing handles one message and reports whether ConsumeClaim must stop.
// An unmarked message is redelivered after the next rebalance.
func (h *Handler) messageProcessing(sess sarama.ConsumerGroupSession, message *sarama.ConsumerMessage) bool {
	ctx, cancel := context.WithTimeout(sess.Context(), h.messageProcessingTimeout)
	defer cancel()

	var event kafka.NotificationMessage
	if err := json.Unmarshal(message.Value, &event); err != nil {
		h.log.With(
			logger.NewField("error", err),
			logger.NewField("offset", message.Offset),
		).Error("bad notification message")
		sess.MarkMessage(message, "")
		return false
	}

	msgLog := h.log.With(
		logger.NewField("order_id", event.OrderID),
		logger.NewField("kind", event.Kind),
		logger.NewField("offset", message.Offset),
	)

	if event.Recipient == "" {
		msgLog.Warn("notification skipped: no recipient")
		sess.MarkMessage(message, "")
		return false
	}

	err := h.sender.Send(ctx, event.ToNotification())
	if err != nil {
		switch {
		case sess.Context().Err() != nil:
			msgLog.With(
				logger.NewField("error", err),
			).Warn("session closed while sending, message will be reprocessed")
			return true

		case errors.Is(err, smtp.ErrUnknownTemplate):
			msgLog.With(
				logger.NewField("error", err),
			).Error("notification has no template, dropping")

		default:
			msgLog.With(
				logger.NewField("error", err),
			).Error("send notification")
		}
		sess.MarkMessage(message, "")
		return false
	}

	msgLog.Info("notification sent")
	sess.MarkMessage(message, "")
	return false
}
