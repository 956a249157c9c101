package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"orderflow/internal/entities"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200

	cancelledByUserMessage = "Order cancelled by user"
	paymentVerifiedMessage = "Payment verified"
)

// DefaultTotalTolerance is one cent.
var DefaultTotalTolerance = decimal.New(1, -2)

type Config struct {
	TotalTolerance decimal.Decimal
}

type Service struct {
	repository   Repository
	products     ProductRepository
	txManager    TxManager
	notifier     Notifier
	orderNumbers OrderNumberFactory
	validate     *validator.Validate
	tolerance    decimal.Decimal
}

func New(
	repository Repository,
	products ProductRepository,
	txManager TxManager,
	notifier Notifier,
	orderNumbers OrderNumberFactory,
	cfg Config,
) *Service {
	tolerance := cfg.TotalTolerance
	if tolerance.IsNegative() || tolerance.IsZero() {
		tolerance = DefaultTotalTolerance
	}

	return &Service{
		repository:   repository,
		products:     products,
		txManager:    txManager,
		notifier:     notifier,
		orderNumbers: orderNumbers,
		validate:     validator.New(),
		tolerance:    tolerance,
	}
}

func (s *Service) CreateOrder(ctx context.Context, requester entities.Requester, create entities.OrderCreate) (*entities.Order, error) {
	if !requester.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}

	items, err := normalizeItems(create.Items)
	if err != nil {
		return nil, err
	}

	method, ok := entities.ParsePaymentMethod(create.PaymentMethod)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, create.PaymentMethod)
	}

	proof := strings.TrimSpace(create.PaymentProof)
	if requiresPaymentProof(method) && proof == "" {
		return nil, ErrPaymentProofRequired
	}

	address, err := validateShippingAddress(s.validate, create.ShippingAddress)
	if err != nil {
		return nil, err
	}

	sums, err := computeTotals(items, create.CharityAmount, create.Subtotal, create.TotalAmount, s.tolerance)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := entities.Order{
		ID:              uuid.NewString(),
		OrderNumber:     s.orderNumbers.New(now),
		UserID:          requester.ID,
		Items:           items,
		OrderType:       entities.OrderTypeOf(items),
		Subtotal:        sums.subtotal,
		CharityAmount:   sums.charity,
		TotalAmount:     sums.total,
		ShippingAddress: address,
		PaymentMethod:   method,
		PaymentProof:    proof,
		PaymentStatus:   entities.PaymentPending,
		Status:          entities.OrderPending,
		TrackingUpdates: []entities.TrackingUpdate{},
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.repository.Create(ctx, order); err != nil {
			return storageError("insert order", err)
		}
		return s.adjustStock(ctx, stockDelta(items, -1))
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.notifier.OrderCreated(order)

	return &order, nil
}

func (s *Service) CancelOrder(ctx context.Context, requester entities.Requester, orderID string, expectedVersion *int64) (*entities.Order, error) {
	if err := validateOrderID(orderID); err != nil {
		return nil, err
	}

	var cancelled *entities.Order
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		order, err := s.repository.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return storageError("get order", err)
		}

		if order.UserID != requester.ID {
			return ErrNotOrderOwner
		}
		if order.Status != entities.OrderPending {
			return ErrOrderNotPending
		}
		if err := checkVersion(order, expectedVersion); err != nil {
			return err
		}

		if err := s.adjustStock(ctx, stockDelta(order.Items, 1)); err != nil {
			return err
		}

		now := time.Now().UTC()
		order.Status = entities.OrderCancelled
		err = s.save(ctx, order, &entities.TrackingUpdate{
			Status:    entities.OrderCancelled,
			Message:   cancelledByUserMessage,
			Timestamp: now,
		}, now)
		if err != nil {
			return err
		}

		cancelled = order
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cancel order: %w", err)
	}

	return cancelled, nil
}

func (s *Service) UpdateStatus(ctx context.Context, requester entities.Requester, change entities.StatusChange) (*entities.Order, error) {
	if !requester.IsAdmin() {
		return nil, ErrAdminOnly
	}

	status, ok := entities.ParseOrderStatus(change.Status)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, change.Status)
	}

	if err := validateOrderID(change.OrderID); err != nil {
		return nil, err
	}

	var updated *entities.Order
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		order, err := s.repository.GetByIDForUpdate(ctx, change.OrderID)
		if err != nil {
			return storageError("get order", err)
		}

		if err := checkVersion(order, change.ExpectedVersion); err != nil {
			return err
		}

		previous := order.Status
		if !change.Override && !CanTransition(previous, status) {
			return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, previous, status)
		}

		switch {
		case status == entities.OrderCancelled && previous != entities.OrderCancelled:
			err = s.adjustStock(ctx, stockDelta(order.Items, 1))
		case previous == entities.OrderCancelled && status != entities.OrderCancelled:
			err = s.adjustStock(ctx, stockDelta(order.Items, -1))
		}
		if err != nil {
			return err
		}

		message := strings.TrimSpace(change.Message)
		if message == "" {
			message = "Order " + status.String()
		}

		now := time.Now().UTC()
		order.Status = status
		err = s.save(ctx, order, &entities.TrackingUpdate{
			Status:    status,
			Message:   message,
			Timestamp: now,
		}, now)
		if err != nil {
			return err
		}

		updated = order
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	if updated.Status == entities.OrderProcessing && updated.PaymentStatus == entities.PaymentConfirmed {
		s.notifier.OrderApproved(*updated)
	} else {
		s.notifier.StatusChanged(*updated)
	}

	return updated, nil
}

func (s *Service) VerifyPayment(ctx context.Context, requester entities.Requester, verification entities.PaymentVerification) (*entities.Order, error) {
	if !requester.IsAdmin() {
		return nil, ErrAdminOnly
	}

	paymentStatus, ok := entities.ParsePaymentStatus(verification.PaymentStatus)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentStatus, verification.PaymentStatus)
	}

	if err := validateOrderID(verification.OrderID); err != nil {
		return nil, err
	}

	var updated *entities.Order
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		order, err := s.repository.GetByIDForUpdate(ctx, verification.OrderID)
		if err != nil {
			return storageError("get order", err)
		}

		if err := checkVersion(order, verification.ExpectedVersion); err != nil {
			return err
		}

		now := time.Now().UTC()
		order.PaymentStatus = paymentStatus

		// Only a pending order moves forward; later statuses are already past processing.
		var tracking *entities.TrackingUpdate
		if paymentStatus.IsSuccessful() && order.Status == entities.OrderPending {
			order.Status = entities.OrderProcessing
			tracking = &entities.TrackingUpdate{
				Status:    entities.OrderProcessing,
				Message:   paymentVerifiedMessage,
				Timestamp: now,
			}
		}

		if err := s.save(ctx, order, tracking, now); err != nil {
			return err
		}

		updated = order
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("verify payment: %w", err)
	}

	s.notifier.PaymentStatusChanged(*updated)

	return updated, nil
}

func (s *Service) GetOrder(ctx context.Context, requester entities.Requester, orderID string) (*entities.Order, error) {
	if err := validateOrderID(orderID); err != nil {
		return nil, err
	}

	// Order, items and tracking are read in separate statements; the tx keeps them on one snapshot.
	var order *entities.Order
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.repository.GetByID(ctx, orderID)
		return err
	})
	if err != nil {
		return nil, storageError("get order", err)
	}

	if !requester.IsAdmin() && order.UserID != requester.ID {
		return nil, ErrNotOrderOwner
	}

	return order, nil
}

func (s *Service) ListOrders(ctx context.Context, requester entities.Requester, filter entities.OrderFilter) ([]entities.Order, error) {
	if !requester.IsAuthenticated() {
		return nil, ErrUnauthenticated
	}

	if !requester.IsAdmin() {
		filter.UserID = &requester.ID
	}

	if filter.Limit == 0 {
		filter.Limit = DefaultListLimit
	}
	if filter.Limit > MaxListLimit {
		filter.Limit = MaxListLimit
	}

	var orders []entities.Order
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		orders, err = s.repository.List(ctx, filter)
		return err
	})
	if err != nil {
		return nil, storageError("list orders", err)
	}

	return orders, nil
}

func (s *Service) DeleteOrder(ctx context.Context, requester entities.Requester, orderID string) error {
	if !requester.IsAdmin() {
		return ErrAdminOnly
	}

	if err := validateOrderID(orderID); err != nil {
		return err
	}

	if err := s.repository.Delete(ctx, orderID); err != nil {
		return storageError("delete order", err)
	}

	return nil
}

func (s *Service) CountByStatus(ctx context.Context) (map[entities.OrderStatus]int64, error) {
	counts, err := s.repository.CountByStatus(ctx)
	if err != nil {
		return nil, storageError("count orders by status", err)
	}

	return counts, nil
}

func (s *Service) adjustStock(ctx context.Context, changes []stockChange) error {
	for _, change := range changes {
		if err := s.products.AdjustStock(ctx, change.productID, change.delta); err != nil {
			return storageError(fmt.Sprintf("adjust stock of %s", change.productID), err)
		}
	}
	return nil
}

// save persists status fields with a version check and appends the tracking entry, if any.
func (s *Service) save(ctx context.Context, order *entities.Order, tracking *entities.TrackingUpdate, now time.Time) error {
	version, err := s.repository.Update(ctx, entities.OrderModify{
		ID:              &order.ID,
		Status:          &order.Status,
		PaymentStatus:   &order.PaymentStatus,
		ExpectedVersion: &order.Version,
		UpdatedAt:       &now,
	})
	if err != nil {
		return storageError("update order", err)
	}

	if tracking != nil {
		if err := s.repository.AddTrackingUpdate(ctx, order.ID, *tracking); err != nil {
			return storageError("add tracking update", err)
		}
		order.TrackingUpdates = append(order.TrackingUpdates, *tracking)
	}

	order.Version = version
	order.UpdatedAt = now
	return nil
}
