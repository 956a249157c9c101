package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"orderflow/internal/entities"
	"orderflow/internal/service/order"
)

type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

// AdjustStock adds delta to count_in_stock in one statement, so concurrent
// adjustments never lose updates and the counter never drops below zero.
func (r *Repository) AdjustStock(ctx context.Context, productID string, delta int64) error {
	query := `UPDATE products
		SET count_in_stock = count_in_stock + $2, updated_at = NOW()
		WHERE id = $1 AND count_in_stock + $2 >= 0`

	result, err := r.querier.Exec(ctx, query, productID, delta)
	if err != nil {
		return fmt.Errorf("unexpected product repository adjust stock error: %w", err)
	}

	if result.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	err = r.querier.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("unexpected product repository adjust stock error: %w", err)
	}
	if !exists {
		return order.ErrProductNotFound
	}
	return order.ErrInsufficientStock
}

func (r *Repository) GetByID(ctx context.Context, id string) (*entities.Product, error) {
	query := `SELECT id, name, price, count_in_stock, updated_at
		FROM products
		WHERE id = $1`

	var productDB ProductDB
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&productDB.ID,
		&productDB.Name,
		&productDB.Price,
		&productDB.CountInStock,
		&productDB.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrProductNotFound
		}
		return nil, fmt.Errorf("unexpected product repository getbyid error: %w", err)
	}

	return ToDomain(&productDB), nil
}
