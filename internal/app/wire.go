//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/google/wire"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"orderflow/internal/pkg/config"
	"orderflow/internal/pkg/factory/order_number"
	productRepo "orderflow/internal/repository/product"
	notificationService "orderflow/internal/service/notification"
	orderService "orderflow/internal/service/order"
	"orderflow/pkg/logger"
	"orderflow/pkg/tx"
)

// InitializeApplication for the HTTP service (cmd/service).
// redisClient is nil when the order cache is disabled.
func InitializeApplication(
	ctx context.Context,
	log logger.Logger,
	pool *pgxpool.Pool,
	getter *pgxv5.CtxGetter,
	redisClient *redis.Client,
	sender NotificationSender,
	cfg *config.Config,
) (*Application, error) {
	wire.Build(
		provideTxManager,
		provideQuerier,

		provideOrderRepository,
		provideProductRepository,
		provideOrderStore,
		order_number.New,

		provideNotificationQueue,
		provideNotificationService,
		provideOrderService,

		provideVerifier,
		provideHealthServer,

		provideOrderStatsTask,
		provideSystemCollector,
		provideHealthProbe,
		provideTaskList,
		provideBackgroundWorkers,

		wire.Struct(new(Application), "*"),

		wire.Bind(new(OrderService), new(*orderService.Service)),

		wire.Bind(new(orderService.ProductRepository), new(*productRepo.Repository)),
		wire.Bind(new(orderService.TxManager), new(*tx.Manager)),
		wire.Bind(new(orderService.Notifier), new(*notificationService.Service)),
		wire.Bind(new(orderService.OrderNumberFactory), new(*order_number.OrderNumberFactory)),
	)
	return &Application{}, nil
}

// InitializeNotificationWorker for the mail relay worker (cmd/worker-notifications).
func InitializeNotificationWorker(
	ctx context.Context,
	log logger.Logger,
	cfg *config.Config,
) (*NotificationWorker, error) {
	wire.Build(
		provideMailer,
		provideSMTPGateway,
		provideNotificationRequestedHandler,
		provideNotificationConsumer,

		wire.Struct(new(NotificationWorker), "*"),
	)
	return nil, nil
}
