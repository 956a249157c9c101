package order

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"orderflow/internal/entities"
	"orderflow/internal/repository"
	"orderflow/internal/service/order"
)

var qb sq.StatementBuilderType = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var orderColumns = []string{
	"id", "order_number", "user_id", "order_type",
	"subtotal", "charity_amount", "total_amount",
	"shipping_name", "shipping_email", "shipping_street", "shipping_city",
	"shipping_province", "shipping_postal_code", "shipping_phone",
	"payment_method", "payment_proof", "payment_status", "status",
	"version", "created_at", "updated_at",
}

type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

func (r *Repository) Create(ctx context.Context, orderEntity entities.Order) error {
	orderDB, itemsDB := FromDomain(&orderEntity)

	query, args, err := qb.
		Insert("orders").
		Columns(orderColumns...).
		Values(
			orderDB.ID, orderDB.OrderNumber, orderDB.UserID, orderDB.OrderType,
			orderDB.Subtotal, orderDB.CharityAmount, orderDB.TotalAmount,
			orderDB.ShippingName, orderDB.ShippingEmail, orderDB.ShippingStreet, orderDB.ShippingCity,
			orderDB.ShippingProvince, orderDB.ShippingPostalCode, orderDB.ShippingPhone,
			orderDB.PaymentMethod, orderDB.PaymentProof, orderDB.PaymentStatus, orderDB.Status,
			orderDB.Version, orderDB.CreatedAt, orderDB.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("unexpected order repository create error: %w", err)
	}

	if _, err := r.querier.Exec(ctx, query, args...); err != nil {
		if repository.IsPgErrorWithCode(err, repository.PgErrUniqueViolation) {
			return order.ErrDuplicateOrder
		}
		return fmt.Errorf("unexpected order repository create error: %w", err)
	}

	if len(itemsDB) == 0 {
		return nil
	}

	itemsBuilder := qb.
		Insert("order_items").
		Columns("order_id", "position", "item_type", "product_id", "quantity", "price")
	for _, item := range itemsDB {
		itemsBuilder = itemsBuilder.Values(item.OrderID, item.Position, item.ItemType, item.ProductID, item.Quantity, item.Price)
	}

	query, args, err = itemsBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("unexpected order repository create items error: %w", err)
	}

	if _, err := r.querier.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("unexpected order repository create items error: %w", err)
	}

	for _, update := range orderEntity.TrackingUpdates {
		if err := r.AddTrackingUpdate(ctx, orderEntity.ID, update); err != nil {
			return err
		}
	}

	return nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*entities.Order, error) {
	return r.get(ctx, id, "")
}

// GetByIDForUpdate locks the order row until the surrounding transaction ends.
func (r *Repository) GetByIDForUpdate(ctx context.Context, id string) (*entities.Order, error) {
	return r.get(ctx, id, "FOR UPDATE")
}

func (r *Repository) get(ctx context.Context, id string, lock string) (*entities.Order, error) {
	builder := qb.
		Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": id})
	if lock != "" {
		builder = builder.Suffix(lock)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository getbyid error: %w", err)
	}

	orderDB, err := scanOrder(r.querier.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrOrderNotFound
		}
		return nil, fmt.Errorf("unexpected order repository getbyid error: %w", err)
	}

	items, err := r.itemsByOrderIDs(ctx, []string{id})
	if err != nil {
		return nil, err
	}

	tracking, err := r.trackingByOrderIDs(ctx, []string{id})
	if err != nil {
		return nil, err
	}

	return ToDomain(orderDB, items[id], tracking[id]), nil
}

func (r *Repository) List(ctx context.Context, filter entities.OrderFilter) ([]entities.Order, error) {
	builder := qb.
		Select(orderColumns...).
		From("orders").
		OrderBy("created_at DESC", "id").
		Limit(filter.Limit).
		Offset(filter.Offset)

	if filter.UserID != nil {
		builder = builder.Where(sq.Eq{"user_id": *filter.UserID})
	}
	if filter.Status != nil {
		builder = builder.Where(sq.Eq{"status": filter.Status.String()})
	}
	if filter.OrderType != nil {
		builder = builder.Where(sq.Eq{"order_type": filter.OrderType.String()})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository list error: %w", err)
	}

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository list error: %w", err)
	}
	defer rows.Close()

	ordersDB := make([]*OrderDB, 0, filter.Limit)
	ids := make([]string, 0, filter.Limit)
	for rows.Next() {
		orderDB, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("unexpected order repository list error: %w", err)
		}
		ordersDB = append(ordersDB, orderDB)
		ids = append(ids, orderDB.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected order repository list error: %w", err)
	}

	if len(ordersDB) == 0 {
		return []entities.Order{}, nil
	}

	items, err := r.itemsByOrderIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	tracking, err := r.trackingByOrderIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]entities.Order, 0, len(ordersDB))
	for _, orderDB := range ordersDB {
		result = append(result, *ToDomain(orderDB, items[orderDB.ID], tracking[orderDB.ID]))
	}
	return result, nil
}

func (r *Repository) Update(ctx context.Context, orderModify entities.OrderModify) (int64, error) {
	modifyDB := FromDomainModify(&orderModify)
	if modifyDB.ID == nil {
		return 0, fmt.Errorf("unexpected order repository update error: missing id")
	}

	builder := qb.
		Update("orders").
		Set("version", sq.Expr("version + 1"))

	if modifyDB.Status != nil {
		builder = builder.Set("status", *modifyDB.Status)
	}
	if modifyDB.PaymentStatus != nil {
		builder = builder.Set("payment_status", *modifyDB.PaymentStatus)
	}
	if modifyDB.UpdatedAt != nil {
		builder = builder.Set("updated_at", *modifyDB.UpdatedAt)
	} else {
		builder = builder.Set("updated_at", sq.Expr("NOW()"))
	}

	builder = builder.Where(sq.Eq{"id": *modifyDB.ID})
	if modifyDB.ExpectedVersion != nil {
		builder = builder.Where(sq.Eq{"version": *modifyDB.ExpectedVersion})
	}

	query, args, err := builder.Suffix("RETURNING version").ToSql()
	if err != nil {
		return 0, fmt.Errorf("unexpected order repository update error: %w", err)
	}

	var version int64
	err = r.querier.QueryRow(ctx, query, args...).Scan(&version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, r.missingOrStale(ctx, *modifyDB.ID)
		}
		return 0, fmt.Errorf("unexpected order repository update error: %w", err)
	}

	return version, nil
}

func (r *Repository) AddTrackingUpdate(ctx context.Context, orderID string, update entities.TrackingUpdate) error {
	query := `INSERT INTO order_tracking_updates (order_id, status, message, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.querier.Exec(ctx, query, orderID, update.Status.String(), update.Message, update.Timestamp)
	if err != nil {
		if repository.IsPgErrorWithCode(err, repository.PgErrForeignKeyViolation) {
			return order.ErrOrderNotFound
		}
		return fmt.Errorf("unexpected order repository add tracking error: %w", err)
	}

	return nil
}

// Delete removes the order; items and tracking updates go with it through ON DELETE CASCADE.
func (r *Repository) Delete(ctx context.Context, id string) error {
	result, err := r.querier.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("unexpected order repository delete error: %w", err)
	}

	if result.RowsAffected() == 0 {
		return order.ErrOrderNotFound
	}

	return nil
}

func (r *Repository) CountByStatus(ctx context.Context) (map[entities.OrderStatus]int64, error) {
	rows, err := r.querier.Query(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository count error: %w", err)
	}
	defer rows.Close()

	counts := make(map[entities.OrderStatus]int64, len(entities.OrderStatuses))
	for _, status := range entities.OrderStatuses {
		counts[status] = 0
	}

	for rows.Next() {
		var (
			status string
			count  int64
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("unexpected order repository count error: %w", err)
		}
		counts[entities.OrderStatus(status)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected order repository count error: %w", err)
	}

	return counts, nil
}

// Version reads only the version column; the order cache uses it to validate entries.
func (r *Repository) Version(ctx context.Context, id string) (int64, error) {
	var version int64
	err := r.querier.QueryRow(ctx, `SELECT version FROM orders WHERE id = $1`, id).Scan(&version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, order.ErrOrderNotFound
		}
		return 0, fmt.Errorf("unexpected order repository version error: %w", err)
	}
	return version, nil
}

func (r *Repository) missingOrStale(ctx context.Context, id string) error {
	var exists bool
	err := r.querier.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("unexpected order repository update error: %w", err)
	}
	if !exists {
		return order.ErrOrderNotFound
	}
	return order.ErrVersionConflict
}

func (r *Repository) itemsByOrderIDs(ctx context.Context, ids []string) (map[string][]OrderItemDB, error) {
	query := `SELECT order_id, position, item_type, product_id, quantity, price
		FROM order_items
		WHERE order_id = ANY($1::uuid[])
		ORDER BY order_id, position`

	rows, err := r.querier.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository items error: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]OrderItemDB, len(ids))
	for rows.Next() {
		var item OrderItemDB
		err := rows.Scan(&item.OrderID, &item.Position, &item.ItemType, &item.ProductID, &item.Quantity, &item.Price)
		if err != nil {
			return nil, fmt.Errorf("unexpected order repository items error: %w", err)
		}
		result[item.OrderID] = append(result[item.OrderID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected order repository items error: %w", err)
	}

	return result, nil
}

func (r *Repository) trackingByOrderIDs(ctx context.Context, ids []string) (map[string][]TrackingUpdateDB, error) {
	query := `SELECT order_id, status, message, created_at
		FROM order_tracking_updates
		WHERE order_id = ANY($1::uuid[])
		ORDER BY order_id, created_at, id`

	rows, err := r.querier.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("unexpected order repository tracking error: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]TrackingUpdateDB, len(ids))
	for rows.Next() {
		var update TrackingUpdateDB
		if err := rows.Scan(&update.OrderID, &update.Status, &update.Message, &update.CreatedAt); err != nil {
			return nil, fmt.Errorf("unexpected order repository tracking error: %w", err)
		}
		result[update.OrderID] = append(result[update.OrderID], update)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected order repository tracking error: %w", err)
	}

	return result, nil
}

func scanOrder(row pgx.Row) (*OrderDB, error) {
	var o OrderDB
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.UserID, &o.OrderType,
		&o.Subtotal, &o.CharityAmount, &o.TotalAmount,
		&o.ShippingName, &o.ShippingEmail, &o.ShippingStreet, &o.ShippingCity,
		&o.ShippingProvince, &o.ShippingPostalCode, &o.ShippingPhone,
		&o.PaymentMethod, &o.PaymentProof, &o.PaymentStatus, &o.Status,
		&o.Version, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
