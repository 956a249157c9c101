package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net"
	"net/http"
	_ "net/http/pprof" //nolint:gosec // localhost-only ${PPROF_PORT}
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	application "orderflow/internal/app"
	kafkaGateway "orderflow/internal/gateway/kafka/notification"
	smtpGateway "orderflow/internal/gateway/smtp"
	"orderflow/internal/handlers/rest/healthcheck_head"
	"orderflow/internal/handlers/rest/order_cancel_post"
	"orderflow/internal/handlers/rest/order_delete"
	"orderflow/internal/handlers/rest/order_get"
	"orderflow/internal/handlers/rest/order_payment_status_patch"
	"orderflow/internal/handlers/rest/order_post"
	"orderflow/internal/handlers/rest/order_status_patch"
	"orderflow/internal/handlers/rest/orders_get"
	"orderflow/internal/handlers/rest/ping_get"
	"orderflow/internal/pkg/config"
	"orderflow/internal/pkg/dotenv"
	"orderflow/internal/pkg/kafka"
	"orderflow/internal/pkg/middlewares/auth"
	"orderflow/internal/pkg/middlewares/graceful_shutdown"
	"orderflow/internal/pkg/middlewares/metrics"
	"orderflow/internal/pkg/middlewares/rate_limiter"
	"orderflow/internal/pkg/middlewares/timeout"
	"orderflow/internal/pkg/postgres"
	redisClient "orderflow/internal/pkg/redis"
	"orderflow/pkg/logger"
	"orderflow/pkg/logger/zap_adapter"
	"orderflow/pkg/token_bucket"
)

const (
	serviceName    = "orderflow"
	limiterIdleTTL = 10 * time.Minute
	corsMaxAge     = 300
)

func main() {
	envFound, err := dotenv.Load()
	if err != nil {
		stdlog.Fatalf("failed to load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("load config: %v", err)
	}

	zapLogger, err := zap_adapter.NewZapAdapter(cfg.Log.Level, serviceName)
	if err != nil {
		stdlog.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := zapLogger.Sync(); err != nil {
			stdlog.Printf("failed to sync logger: %v", err)
		}
	}()

	var appLogger logger.Logger = zapLogger
	mainLog := appLogger.With()

	mainLog.Info("starting orderflow application")
	if !envFound {
		mainLog.Warn("no .env file found, using system environment variables")
	}

	err = run(context.Background(), cfg, appLogger)
	if err != nil {
		mainLog.Error("application failed", logger.NewField("error", err))
		return
	}
}

//nolint:contextcheck // shutdown contexts derive from context.Background() on purpose
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	const (
		shutdownPeriod      = 15 * time.Second
		shutdownHardPeriod  = 3 * time.Second
		readinessDrainDelay = 5 * time.Second
	)

	// https://victoriametrics.com/blog/go-graceful-shutdown/#b-use-basecontext-to-provide-a-global-context-to-all-connections
	var isShuttingDown atomic.Bool

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	runLog := log.With()

	pool, err := postgres.NewConnPool(ctx, log, &cfg.Database)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()

	var cacheClient *redis.Client
	if cfg.Redis.Addr != "" {
		cacheClient, err = redisClient.NewClient(ctx, log, &cfg.Redis)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer func() {
			if err := cacheClient.Close(); err != nil {
				runLog.Error("failed to close redis client", logger.NewField("error", err))
			}
		}()
	} else {
		runLog.Info("REDIS_ADDR is empty, order cache disabled")
	}

	sender, closeSender, err := newNotificationSender(ctx, log, cfg)
	if err != nil {
		return fmt.Errorf("notification transport: %w", err)
	}
	defer closeSender()

	businessApp, err := application.InitializeApplication(ctx, log, pool, pgxv5.DefaultCtxGetter, cacheClient, sender, cfg)
	if err != nil {
		return fmt.Errorf("business logic: %w", err)
	}

	// ongoingCtx is the BaseContext of every connection. It is not cancelled by
	// SIGTERM, only after server.Shutdown, so in-flight requests can finish.
	ongoingCtx, stopOngoingGracefully := context.WithCancel(context.Background())
	defer stopOngoingGracefully()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: initRouter(ongoingCtx, log, &isShuttingDown, businessApp, cfg),
		BaseContext: func(_ net.Listener) context.Context {
			return ongoingCtx
		},

		ReadHeaderTimeout: 5 * time.Second, // Slowloris DoS gosec G112
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		defer close(serverErr)
		runLog.Info("server starting",
			logger.NewField("port", cfg.Server.Port),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	var pprofServer *http.Server
	var pprofServerErr chan error
	if cfg.Server.PprofEnabled {
		pprofServer = &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.Server.PprofPort),
			Handler: initPprofRouter(&isShuttingDown),
			BaseContext: func(_ net.Listener) context.Context {
				return ongoingCtx
			},

			ReadHeaderTimeout: 5 * time.Second, // Slowloris DoS gosec G112
			ReadTimeout:       60 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		pprofServerErr = make(chan error, 1)
		go func() {
			defer close(pprofServerErr)
			runLog.Info("pprof server starting",
				logger.NewField("port", cfg.Server.PprofPort),
			)
			if err := pprofServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				pprofServerErr <- err
			}
		}()
	}

	var grpcHealthErr chan error
	if cfg.Server.GRPCHealthPort != "" {
		grpcHealthErr = make(chan error, 1)
		go func() {
			defer close(grpcHealthErr)
			if err := businessApp.HealthServer.ListenAndServe(); err != nil {
				grpcHealthErr <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
		runLog.Info("shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server: %w", err)
	case err := <-pprofServerErr: // nil channel when pprof is disabled
		return fmt.Errorf("pprof server: %w", err)
	case err := <-grpcHealthErr: // nil channel when the gRPC health server is disabled
		return fmt.Errorf("grpc health server: %w", err)
	}

	stop()
	isShuttingDown.Store(true)
	businessApp.HealthServer.Shutdown()

	time.Sleep(readinessDrainDelay)
	runLog.Info("draining requests")

	// shutdownCtx is independent of ctx, which is already cancelled here.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownPeriod)
	defer cancel()

	var shutdownErr error
	err = server.Shutdown(shutdownCtx)
	if pprofServer != nil {
		shutdownErr = pprofServer.Shutdown(shutdownCtx)
		if shutdownErr != nil {
			runLog.Error("pprof server shutdown error", logger.NewField("error", shutdownErr))
		} else {
			runLog.Info("pprof server stopped")
		}
	}

	stopOngoingGracefully()
	if err != nil || shutdownErr != nil {
		runLog.Info("graceful shutdown timeout, forcing close")
		time.Sleep(shutdownHardPeriod)
	}

	businessApp.BackgroundWorkers.Wait()

	// Requests are done, so nothing enqueues anymore; deliver what is left.
	if err := businessApp.Notifications.Close(shutdownCtx); err != nil {
		runLog.Error("notifications were not drained", logger.NewField("error", err))
	}

	runLog.Info("server stopped")
	return nil
}

// newNotificationSender picks the delivery path: direct SMTP or the Kafka relay
// consumed by cmd/worker-notifications.
func newNotificationSender(ctx context.Context, log logger.Logger, cfg *config.Config) (application.NotificationSender, func(), error) {
	closeLog := log.With(logger.NewField("transport", cfg.Notification.Transport))

	switch cfg.Notification.Transport {
	case config.TransportKafka:
		producer, err := kafka.NewSyncProducer(ctx, log, &cfg.Kafka)
		if err != nil {
			return nil, nil, fmt.Errorf("kafka producer: %w", err)
		}
		closeProducer := func() {
			if err := producer.Close(); err != nil {
				closeLog.Error("failed to close kafka producer", logger.NewField("error", err))
			}
		}
		return kafkaGateway.New(producer, cfg.Kafka.NotificationsTopic), closeProducer, nil

	default:
		mailer, err := smtpGateway.NewMailer(cfg.Notification.SMTP, cfg.Notification.Workers)
		if err != nil {
			return nil, nil, fmt.Errorf("smtp mailer: %w", err)
		}
		gateway, err := smtpGateway.New(mailer, smtpGateway.Config{
			SenderAddress: cfg.Notification.SenderAddress,
			SenderName:    cfg.Notification.SenderName,
		})
		if err != nil {
			mailer.Close()
			return nil, nil, fmt.Errorf("smtp gateway: %w", err)
		}
		return gateway, mailer.Close, nil
	}
}

func initRouter(ongoingCtx context.Context, log logger.Logger, isShuttingDown *atomic.Bool, app *application.Application, cfg *config.Config) http.Handler {
	router := mux.NewRouter()

	router.Use(graceful_shutdown.Middleware(isShuttingDown, ongoingCtx))

	router.Use(timeout.Middleware(cfg.Server.RequestTimeout))
	router.Use(metrics.Middleware(log))
	limiter := token_bucket.NewKeyedLimiter(cfg.Server.RateLimiterQPS, float64(cfg.Server.RateLimiterBurst), limiterIdleTTL)
	router.Use(rate_limiter.Middleware(log, cfg.Server.RateLimiterQPS, limiter))
	router.Handle("/metrics", promhttp.Handler())

	router.Handle("/healthcheck", healthcheck_head.New(isShuttingDown)).Methods(http.MethodHead)
	router.Handle("/ping", ping_get.New(log)).Methods(http.MethodGet)

	orders := router.PathPrefix("/orders").Subrouter()
	orders.Use(auth.Middleware(log, app.Verifier))

	orders.Handle("", orders_get.New(log, app.Orders)).Methods(http.MethodGet)
	orders.Handle("", order_post.New(log, app.Orders)).Methods(http.MethodPost)
	orders.Handle("/{id}", order_get.New(log, app.Orders)).Methods(http.MethodGet)
	orders.Handle("/{id}", order_delete.New(log, app.Orders)).Methods(http.MethodDelete)
	orders.Handle("/{id}/cancel", order_cancel_post.New(log, app.Orders)).Methods(http.MethodPost, http.MethodPatch)
	orders.Handle("/{id}/status", order_status_patch.New(log, app.Orders)).Methods(http.MethodPatch)
	orders.Handle("/{id}/payment-status", order_payment_status_patch.New(log, app.Orders)).Methods(http.MethodPatch)

	return cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodHead},
		AllowedHeaders: []string{"Authorization", "Content-Type", "If-Match"},
		ExposedHeaders: []string{"ETag", "Location"},
		MaxAge:         corsMaxAge,
	})(router)
}

func initPprofRouter(isShuttingDown *atomic.Bool) http.Handler {
	router := mux.NewRouter()

	router.Handle("/healthcheck", healthcheck_head.New(isShuttingDown)).Methods(http.MethodHead)
	router.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)

	return router
}
