package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TransportSMTP  = "smtp"
	TransportKafka = "kafka"
)

const (
	defaultNotificationQueueSize   = 256
	defaultNotificationWorkers     = 4
	defaultNotificationSendTimeout = 30 * time.Second
	defaultRedisTTL                = 5 * time.Minute
	defaultOrderStatsInterval      = 30 * time.Second
	defaultJWTTTL                  = 24 * time.Hour
)

var defaultTotalTolerance = decimal.New(1, -2)

type (
	Log struct {
		Level string
	}

	Tasks struct {
		OrderStatsInterval time.Duration
	}

	HTTPServer struct {
		Port             string
		RequestTimeout   time.Duration // middleware timeout
		RateLimiterQPS   int           // per-client bucket capacity
		RateLimiterBurst int           // per-client refill rate, tokens per second
		PprofEnabled     bool
		PprofPort        string
		GRPCHealthPort   string // empty disables the gRPC health server
	}

	Database struct {
		Host        string
		Port        string
		User        string
		Password    string
		DBName      string
		SSLMode     string
		AutoMigrate bool
	}

	Auth struct {
		JWTSecret string
		TokenTTL  time.Duration
	}

	CORS struct {
		AllowedOrigins []string
	}

	Orders struct {
		TotalTolerance decimal.Decimal
	}

	SMTP struct {
		Host     string
		Port     int
		Username string
		Password string
	}

	Notification struct {
		Transport      string
		AdminRecipient string
		SenderAddress  string
		SenderName     string
		QueueSize      int
		Workers        int
		SendTimeout    time.Duration
		SMTP           SMTP
	}

	Kafka struct {
		PortHealthcheck    string
		Brokers            []string
		NotificationsTopic string
		ConsumerGroup      string
		Sarama             Sarama
		Handlers           KafkaHandlers
	}

	Sarama struct {
		Version                   string
		ConsumerOffsetsAutocommit bool
	}

	KafkaHandlers struct {
		NotificationRequested NotificationRequested
	}

	NotificationRequested struct {
		ProcessTimeout time.Duration
	}

	Redis struct {
		Addr     string // empty disables the order cache
		Password string
		DB       int
		TTL      time.Duration
	}

	Config struct {
		Log          Log
		Tasks        Tasks
		Server       HTTPServer
		Database     Database
		Auth         Auth
		CORS         CORS
		Orders       Orders
		Notification Notification
		Kafka        Kafka
		Redis        Redis
	}
)

// Load reads and validates the configuration of the HTTP service.
func Load() (*Config, error) {
	cfg, err := loadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("environment loading: %w", err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("validation: %w", err)
	}
	return cfg, nil
}

// LoadNotificationWorker reads the subset needed by the Kafka-to-SMTP relay worker.
func LoadNotificationWorker() (*Config, error) {
	cfg, err := loadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("environment loading: %w", err)
	}

	if err := validateKafka(&cfg.Kafka); err != nil {
		return nil, fmt.Errorf("validation: %w", err)
	}
	if err := validateSMTP(&cfg.Notification); err != nil {
		return nil, fmt.Errorf("validation: %w", err)
	}
	return cfg, nil
}

func loadFromEnv() (*Config, error) {
	orderStatsInterval, err := osGetEnvDuration("BACKGROUND_ORDER_STATS_INTERVAL")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	saramaOffsetsAutocommit, err := osGetBool("KAFKA_SARAMA_OFFSETS_AUTOCOMMIT")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	notificationRequestedTimeout, err := osGetEnvDuration("KAFKA_HANDLER_NOTIFICATION_REQUESTED_PROCESS_TIMEOUT")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	requestTimeout, err := osGetEnvDuration("MIDDLEWARE_REQUEST_TIMEOUT")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	rateLimiterQPS, err := osGetInt("MIDDLEWARE_RATE_LIMIT_QPS")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	rateLimiterBurst, err := osGetInt("MIDDLEWARE_RATE_LIMIT_BURST")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	pprofEnabled, err := osGetBool("PPROF_ENABLED")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	autoMigrate, err := osGetBool("POSTGRES_AUTO_MIGRATE")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	tokenTTL, err := osGetEnvDuration("AUTH_TOKEN_TTL")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	totalTolerance, err := osGetDecimal("ORDER_TOTAL_TOLERANCE")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	queueSize, err := osGetInt("NOTIFICATION_QUEUE_SIZE")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	workers, err := osGetInt("NOTIFICATION_WORKERS")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	sendTimeout, err := osGetEnvDuration("NOTIFICATION_SEND_TIMEOUT")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	smtpPort, err := osGetInt("SMTP_PORT")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	redisDB, err := osGetInt("REDIS_DB")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	redisTTL, err := osGetEnvDuration("REDIS_TTL")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	cfg := &Config{
		Log: Log{
			Level: os.Getenv("LOG_LEVEL"),
		},
		Tasks: Tasks{
			OrderStatsInterval: orderStatsInterval,
		},
		Server: HTTPServer{
			Port:             os.Getenv("PORT"),
			RequestTimeout:   requestTimeout,
			RateLimiterQPS:   rateLimiterQPS,
			RateLimiterBurst: rateLimiterBurst,
			PprofEnabled:     pprofEnabled,
			PprofPort:        os.Getenv("PPROF_PORT"),
			GRPCHealthPort:   os.Getenv("GRPC_HEALTH_PORT"),
		},
		Database: Database{
			Host:        os.Getenv("POSTGRES_HOST"),
			Port:        os.Getenv("POSTGRES_PORT"),
			User:        os.Getenv("POSTGRES_USER"),
			Password:    os.Getenv("POSTGRES_PASSWORD"),
			DBName:      os.Getenv("POSTGRES_DB"),
			SSLMode:     os.Getenv("POSTGRES_SSLMODE"),
			AutoMigrate: autoMigrate,
		},
		Auth: Auth{
			JWTSecret: os.Getenv("JWT_SECRET"),
			TokenTTL:  tokenTTL,
		},
		CORS: CORS{
			AllowedOrigins: osGetList("CORS_ALLOWED_ORIGINS"),
		},
		Orders: Orders{
			TotalTolerance: totalTolerance,
		},
		Notification: Notification{
			Transport:      strings.ToLower(os.Getenv("NOTIFICATION_TRANSPORT")),
			AdminRecipient: os.Getenv("NOTIFICATION_ADMIN_RECIPIENT"),
			SenderAddress:  os.Getenv("NOTIFICATION_SENDER_ADDRESS"),
			SenderName:     os.Getenv("NOTIFICATION_SENDER_NAME"),
			QueueSize:      queueSize,
			Workers:        workers,
			SendTimeout:    sendTimeout,
			SMTP: SMTP{
				Host:     os.Getenv("SMTP_HOST"),
				Port:     smtpPort,
				Username: os.Getenv("SMTP_USERNAME"),
				Password: os.Getenv("SMTP_PASSWORD"),
			},
		},
		Kafka: Kafka{
			Brokers:            osGetList("KAFKA_BROKERS"),
			NotificationsTopic: os.Getenv("KAFKA_NOTIFICATIONS_TOPIC"),
			ConsumerGroup:      os.Getenv("KAFKA_CONSUMER_GROUP"),
			PortHealthcheck:    os.Getenv("KAFKA_HTTP_HEALTHCHECK_PORT"),
			Sarama: Sarama{
				Version:                   os.Getenv("KAFKA_SARAMA_VERSION"),
				ConsumerOffsetsAutocommit: saramaOffsetsAutocommit,
			},
			Handlers: KafkaHandlers{
				NotificationRequested: NotificationRequested{
					ProcessTimeout: notificationRequestedTimeout,
				},
			},
		},
		Redis: Redis{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
			TTL:      redisTTL,
		},
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Tasks.OrderStatsInterval == 0 {
		cfg.Tasks.OrderStatsInterval = defaultOrderStatsInterval
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = defaultJWTTTL
	}
	if cfg.Orders.TotalTolerance.IsZero() {
		cfg.Orders.TotalTolerance = defaultTotalTolerance
	}
	if cfg.Notification.Transport == "" {
		cfg.Notification.Transport = TransportSMTP
	}
	if cfg.Notification.QueueSize == 0 {
		cfg.Notification.QueueSize = defaultNotificationQueueSize
	}
	if cfg.Notification.Workers == 0 {
		cfg.Notification.Workers = defaultNotificationWorkers
	}
	if cfg.Notification.SendTimeout == 0 {
		cfg.Notification.SendTimeout = defaultNotificationSendTimeout
	}
	if cfg.Notification.SenderName == "" {
		cfg.Notification.SenderName = "Orders"
	}
	if cfg.Redis.TTL == 0 {
		cfg.Redis.TTL = defaultRedisTTL
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"*"}
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server port is required (set via PORT env variable)")
	}
	if cfg.Server.RequestTimeout == time.Duration(0) {
		return errors.New("MIDDLEWARE_REQUEST_TIMEOUT is required")
	}
	if cfg.Server.RateLimiterQPS == 0 {
		return errors.New("MIDDLEWARE_RATE_LIMIT_QPS is required")
	}
	if cfg.Server.RateLimiterBurst == 0 {
		return errors.New("MIDDLEWARE_RATE_LIMIT_BURST is required")
	}
	if cfg.Server.PprofPort == "" && cfg.Server.PprofEnabled {
		return errors.New("PprofPort is required (set via PPROF_PORT env variable)")
	}

	if cfg.Database.Host == "" {
		return errors.New("POSTGRES_HOST is required")
	}
	if cfg.Database.Port == "" {
		return errors.New("POSTGRES_PORT is required")
	}
	if cfg.Database.User == "" {
		return errors.New("POSTGRES_USER is required")
	}
	if cfg.Database.Password == "" {
		return errors.New("POSTGRES_PASSWORD is required")
	}
	if cfg.Database.DBName == "" {
		return errors.New("POSTGRES_DB is required")
	}
	if cfg.Database.SSLMode == "" {
		return errors.New("POSTGRES_SSLMODE is required")
	}

	if cfg.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}

	if cfg.Orders.TotalTolerance.IsNegative() {
		return errors.New("ORDER_TOTAL_TOLERANCE must not be negative")
	}

	if cfg.Notification.QueueSize < 0 {
		return errors.New("NOTIFICATION_QUEUE_SIZE must not be negative")
	}
	if cfg.Notification.Workers < 0 {
		return errors.New("NOTIFICATION_WORKERS must not be negative")
	}

	switch cfg.Notification.Transport {
	case TransportSMTP:
		return validateSMTP(&cfg.Notification)
	case TransportKafka:
		return validateKafka(&cfg.Kafka)
	default:
		return fmt.Errorf("NOTIFICATION_TRANSPORT must be %q or %q, got %q", TransportSMTP, TransportKafka, cfg.Notification.Transport)
	}
}

func validateSMTP(cfg *Notification) error {
	if cfg.SMTP.Host == "" {
		return errors.New("SMTP_HOST is required")
	}
	if cfg.SMTP.Port == 0 {
		return errors.New("SMTP_PORT is required")
	}
	if cfg.SenderAddress == "" {
		return errors.New("NOTIFICATION_SENDER_ADDRESS is required")
	}
	return nil
}

func validateKafka(cfg *Kafka) error {
	if len(cfg.Brokers) == 0 {
		return errors.New("KAFKA_BROKERS is required")
	}
	if cfg.NotificationsTopic == "" {
		return errors.New("KAFKA_NOTIFICATIONS_TOPIC is required")
	}
	if cfg.ConsumerGroup == "" {
		return errors.New("KAFKA_CONSUMER_GROUP is required")
	}
	if cfg.PortHealthcheck == "" {
		return errors.New("KAFKA_HTTP_HEALTHCHECK_PORT is required")
	}
	if cfg.Sarama.Version == "" {
		return errors.New("KAFKA_SARAMA_VERSION is required")
	}
	if cfg.Handlers.NotificationRequested.ProcessTimeout == time.Duration(0) {
		return errors.New("KAFKA_HANDLER_NOTIFICATION_REQUESTED_PROCESS_TIMEOUT is required")
	}
	return nil
}

func osGetInt(s string) (int, error) {
	val := os.Getenv(s)
	if val == "" {
		return 0, nil
	}

	res, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid int format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func osGetEnvDuration(s string) (time.Duration, error) {
	val := os.Getenv(s)
	if val == "" {
		return time.Duration(0), nil
	}

	res, err := time.ParseDuration(val)
	if err != nil {
		return time.Duration(0), fmt.Errorf("invalid duration format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func osGetBool(s string) (bool, error) {
	val := os.Getenv(s)
	if val == "" {
		return false, nil
	}

	res, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("invalid bool format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func osGetDecimal(s string) (decimal.Decimal, error) {
	val := os.Getenv(s)
	if val == "" {
		return decimal.Zero, nil
	}

	res, err := decimal.NewFromString(val)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

// osGetList splits a comma separated value and drops empty entries.
func osGetList(s string) []string {
	val := os.Getenv(s)
	if val == "" {
		return nil
	}

	parts := strings.Split(val, ",")
	res := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			res = append(res, part)
		}
	}
	return res
}
