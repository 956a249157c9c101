//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=order_stats_test
package order_stats

import (
	"context"

	"orderflow/internal/entities"
)

type Service interface {
	CountByStatus(ctx context.Context) (map[entities.OrderStatus]int64, error)
}
