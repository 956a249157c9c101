package app

import (
	"context"
	"time"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"orderflow/internal/entities"
	smtpGateway "orderflow/internal/gateway/smtp"
	"orderflow/internal/handlers/kafka-consumer/notification_requested"
	"orderflow/internal/handlers/tasks/order_stats"
	"orderflow/internal/pkg/config"
	"orderflow/internal/pkg/grpchealth"
	"orderflow/internal/pkg/kafka"
	"orderflow/internal/pkg/metrics"
	redisCache "orderflow/internal/pkg/redis"
	orderRepo "orderflow/internal/repository/order"
	"orderflow/internal/repository/order_cache"
	productRepo "orderflow/internal/repository/product"
	notificationService "orderflow/internal/service/notification"
	orderService "orderflow/internal/service/order"
	"orderflow/pkg/auth/jwt_adapter"
	"orderflow/pkg/background"
	"orderflow/pkg/dispatcher"
	"orderflow/pkg/logger"
	"orderflow/pkg/querier"
	"orderflow/pkg/tx"
)

const (
	orderCacheNamespace = "orderflow"
	healthProbeInterval = 10 * time.Second
)

func provideTxManager(pool *pgxpool.Pool) *tx.Manager {
	return tx.New(pool)
}

func provideQuerier(pool *pgxpool.Pool, getter *pgxv5.CtxGetter) *querier.Querier {
	return querier.New(pool, getter)
}

func provideOrderRepository(querier *querier.Querier) *orderRepo.Repository {
	return orderRepo.New(querier)
}

func provideProductRepository(querier *querier.Querier) *productRepo.Repository {
	return productRepo.New(querier)
}

// provideOrderStore puts the Redis read-through cache in front of Postgres when Redis is configured.
func provideOrderStore(
	log logger.Logger,
	repository *orderRepo.Repository,
	redisClient *redis.Client,
	cfg *config.Config,
) orderService.Repository {
	if redisClient == nil {
		return repository
	}
	cache := redisCache.NewCache(redisClient, orderCacheNamespace)
	return order_cache.New(log, repository, cache, cfg.Redis.TTL)
}

func provideNotificationQueue(log logger.Logger, sender NotificationSender, cfg *config.Config) NotificationQueue {
	queue := dispatcher.New[entities.Notification](
		log.With(logger.NewField("component", "notification-dispatcher")),
		sender.Send,
		notificationService.Observer{},
		dispatcher.Config{
			QueueSize:     cfg.Notification.QueueSize,
			Workers:       cfg.Notification.Workers,
			HandleTimeout: cfg.Notification.SendTimeout,
		},
	)
	queue.Start()
	return queue
}

func provideNotificationService(log logger.Logger, queue NotificationQueue, cfg *config.Config) *notificationService.Service {
	return notificationService.New(
		log.With(logger.NewField("component", "notifications")),
		queue,
		notificationService.Config{AdminRecipient: cfg.Notification.AdminRecipient},
	)
}

func provideOrderService(
	repository orderService.Repository,
	products orderService.ProductRepository,
	txManager orderService.TxManager,
	notifier orderService.Notifier,
	orderNumbers orderService.OrderNumberFactory,
	cfg *config.Config,
) *orderService.Service {
	return orderService.New(
		repository,
		products,
		txManager,
		notifier,
		orderNumbers,
		orderService.Config{TotalTolerance: cfg.Orders.TotalTolerance},
	)
}

func provideVerifier(cfg *config.Config) *jwt_adapter.Adapter {
	return jwt_adapter.New(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
}

func provideHealthServer(log logger.Logger, cfg *config.Config) *grpchealth.Server {
	return grpchealth.New(log, cfg.Server.GRPCHealthPort)
}

func provideOrderStatsTask(service *orderService.Service, cfg *config.Config) *order_stats.OrderStats {
	return order_stats.NewOrderStats(service, cfg.Tasks.OrderStatsInterval)
}

func provideSystemCollector(cfg *config.Config) *metrics.SystemCollector {
	return metrics.NewSystemCollector(cfg.Tasks.OrderStatsInterval)
}

func provideHealthProbe(
	log logger.Logger,
	server *grpchealth.Server,
	pool *pgxpool.Pool,
	redisClient *redis.Client,
) *grpchealth.Probe {
	checks := map[string]grpchealth.Check{
		"postgres": pool.Ping,
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}
	return grpchealth.NewProbe(log, server, grpchealth.ServiceOrders, healthProbeInterval, checks)
}

func provideTaskList(
	orderStats *order_stats.OrderStats,
	systemCollector *metrics.SystemCollector,
	healthProbe *grpchealth.Probe,
) []background.Task {
	return []background.Task{
		orderStats,
		systemCollector,
		healthProbe,
	}
}

func provideBackgroundWorkers(ctx context.Context, log logger.Logger, tasks []background.Task) (*background.Worker, error) {
	return background.New(ctx, log, tasks)
}

func provideMailer(cfg *config.Config) (*smtpGateway.Mailer, error) {
	return smtpGateway.NewMailer(cfg.Notification.SMTP, cfg.Notification.Workers)
}

func provideSMTPGateway(mailer *smtpGateway.Mailer, cfg *config.Config) (*smtpGateway.Gateway, error) {
	return smtpGateway.New(mailer, smtpGateway.Config{
		SenderAddress: cfg.Notification.SenderAddress,
		SenderName:    cfg.Notification.SenderName,
	})
}

func provideNotificationRequestedHandler(
	log logger.Logger,
	gateway *smtpGateway.Gateway,
	cfg *config.Config,
) *notification_requested.Handler {
	return notification_requested.New(log, gateway, cfg.Kafka.Handlers.NotificationRequested.ProcessTimeout)
}

func provideNotificationConsumer(
	ctx context.Context,
	log logger.Logger,
	handler *notification_requested.Handler,
	cfg *config.Config,
) (*kafka.Consumer, error) {
	return kafka.NewConsumer(ctx, log, &cfg.Kafka, handler)
}
