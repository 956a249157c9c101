package kafka

import (
	"time"

	"orderflow/internal/entities"
)

// NotificationMessage is the JSON payload of the notifications topic, keyed by order id.
type NotificationMessage struct {
	Kind        string            `json:"kind"`
	Recipient   string            `json:"recipient"`
	Subject     string            `json:"subject"`
	Template    string            `json:"template"`
	OrderID     string            `json:"orderId"`
	Data        map[string]string `json:"data,omitempty"`
	RequestedAt time.Time         `json:"requestedAt"`
}

func FromNotification(n entities.Notification, requestedAt time.Time) NotificationMessage {
	return NotificationMessage{
		Kind:        n.Kind.String(),
		Recipient:   n.Recipient,
		Subject:     n.Subject,
		Template:    n.Template,
		OrderID:     n.OrderID,
		Data:        n.Data,
		RequestedAt: requestedAt,
	}
}

func (m NotificationMessage) ToNotification() entities.Notification {
	return entities.Notification{
		Kind:      entities.NotificationKind(m.Kind),
		Recipient: m.Recipient,
		Subject:   m.Subject,
		Template:  m.Template,
		OrderID:   m.OrderID,
		Data:      m.Data,
	}
}
