package app

import (
	"context"

	"orderflow/internal/entities"
	smtpGateway "orderflow/internal/gateway/smtp"
	"orderflow/internal/handlers/rest/order_cancel_post"
	"orderflow/internal/handlers/rest/order_delete"
	"orderflow/internal/handlers/rest/order_get"
	"orderflow/internal/handlers/rest/order_payment_status_patch"
	"orderflow/internal/handlers/rest/order_post"
	"orderflow/internal/handlers/rest/order_status_patch"
	"orderflow/internal/handlers/rest/orders_get"
	"orderflow/internal/pkg/grpchealth"
	"orderflow/internal/pkg/kafka"
	"orderflow/pkg/auth/jwt_adapter"
	"orderflow/pkg/background"
)

type Application struct {
	Orders            OrderService
	Notifications     NotificationQueue
	Verifier          *jwt_adapter.Adapter
	HealthServer      *grpchealth.Server
	BackgroundWorkers *background.Worker
}

type OrderService interface {
	order_post.Service
	order_get.Service
	orders_get.Service
	order_cancel_post.Service
	order_status_patch.Service
	order_payment_status_patch.Service
	order_delete.Service
}

// NotificationSender delivers one notification: directly over SMTP or through the Kafka relay.
type NotificationSender interface {
	Send(ctx context.Context, n entities.Notification) error
}

// NotificationQueue is the in-process hand-off between the workflow and the sender.
type NotificationQueue interface {
	Dispatch(n entities.Notification) error
	Close(ctx context.Context) error
}

type NotificationWorker struct {
	Consumer *kafka.Consumer
	Mailer   *smtpGateway.Mailer
}
