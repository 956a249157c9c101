package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"orderflow/internal/pkg/config"
	"orderflow/pkg/logger"
	"orderflow/pkg/retrier"
	"orderflow/pkg/retrier/backoff_adapter"
)

var dialRetry = retrier.Config{
	InitialInterval: time.Second,
	MaxInterval:     10 * time.Second,
	MaxElapsedTime:  time.Minute,
	Randomization:   0.5,
	Multiplier:      2,
}

// NewClient connects to Redis and blocks until it answers a PING or the retry budget runs out.
func NewClient(ctx context.Context, log logger.Logger, cfg *config.Redis) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	redisLog := log.With(
		logger.NewField("addr", cfg.Addr),
		logger.NewField("db", cfg.DB),
	)

	ping := func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
	err := retrier.WaitReady(ctx, backoff_adapter.New(dialRetry), redisLog, "redis", ping)
	if err != nil {
		if closeErr := client.Close(); closeErr != nil {
			return nil, fmt.Errorf("%w (failed to close: %w)", err, closeErr)
		}
		return nil, err
	}

	return client, nil
}

// Cache is a namespaced byte cache; keys look like "<namespace>:<operation>:<key>".
type Cache struct {
	client    *redis.Client
	namespace string
}

func NewCache(client *redis.Client, namespace string) *Cache {
	return &Cache{
		client:    client,
		namespace: namespace,
	}
}

// Get reports a miss as (nil, false, nil).
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, true, nil
}

func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (c *Cache) Del(ctx context.Context, keys ...string) error {
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (c *Cache) Key(operation, key string) string {
	return fmt.Sprintf("%s:%s:%s", c.namespace, operation, key)
}
