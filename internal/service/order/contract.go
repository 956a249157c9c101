//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=order_test
package order

import (
	"context"
	"time"

	"orderflow/internal/entities"
)

type Repository interface {
	Create(ctx context.Context, order entities.Order) error
	GetByID(ctx context.Context, id string) (*entities.Order, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entities.Order, error)
	List(ctx context.Context, filter entities.OrderFilter) ([]entities.Order, error)
	// Update applies the modify when the stored version equals ExpectedVersion and returns the new version.
	Update(ctx context.Context, orderModify entities.OrderModify) (int64, error)
	AddTrackingUpdate(ctx context.Context, orderID string, update entities.TrackingUpdate) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (map[entities.OrderStatus]int64, error)
}

type ProductRepository interface {
	// AdjustStock adds delta to the stock counter and never lets it go below zero.
	AdjustStock(ctx context.Context, productID string, delta int64) error
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier hands messages off for background delivery. Implementations must not block.
type Notifier interface {
	OrderCreated(order entities.Order)
	OrderApproved(order entities.Order)
	PaymentStatusChanged(order entities.Order)
	StatusChanged(order entities.Order)
}

type OrderNumberFactory interface {
	New(now time.Time) string
}
