//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=order_cache_test
package order_cache

import (
	"context"
	"time"

	"orderflow/internal/entities"
	"orderflow/pkg/logger"
)

type repository interface {
	Create(ctx context.Context, order entities.Order) error
	GetByID(ctx context.Context, id string) (*entities.Order, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entities.Order, error)
	List(ctx context.Context, filter entities.OrderFilter) ([]entities.Order, error)
	Update(ctx context.Context, orderModify entities.OrderModify) (int64, error)
	AddTrackingUpdate(ctx context.Context, orderID string, update entities.TrackingUpdate) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (map[entities.OrderStatus]int64, error)
	Version(ctx context.Context, id string) (int64, error)
}

type cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Key(operation, key string) string
}

type handlerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}
