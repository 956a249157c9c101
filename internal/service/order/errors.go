package order

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidState = errors.New("invalid state")
	ErrConflict     = errors.New("conflict")
	ErrStorage      = errors.New("storage error")
)

var (
	ErrUnauthenticated        = fmt.Errorf("%w: authentication required", ErrValidation)
	ErrInvalidOrderID         = fmt.Errorf("%w: invalid order id", ErrValidation)
	ErrEmptyItems             = fmt.Errorf("%w: order must contain at least one item", ErrValidation)
	ErrInvalidItemType        = fmt.Errorf("%w: item type must be course or product", ErrValidation)
	ErrMissingProductID       = fmt.Errorf("%w: item product id is required", ErrValidation)
	ErrInvalidQuantity        = fmt.Errorf("%w: item quantity must be at least 1", ErrValidation)
	ErrInvalidPrice           = fmt.Errorf("%w: item price must not be negative", ErrValidation)
	ErrInvalidPaymentMethod   = fmt.Errorf("%w: unsupported payment method", ErrValidation)
	ErrPaymentProofRequired   = fmt.Errorf("%w: payment proof is required for the selected payment method", ErrValidation)
	ErrInvalidShippingAddress = fmt.Errorf("%w: invalid shipping address", ErrValidation)
	ErrInvalidCharityAmount   = fmt.Errorf("%w: charity amount must not be negative", ErrValidation)
	ErrAmountPrecision        = fmt.Errorf("%w: amounts must have at most 2 decimal places", ErrValidation)
	ErrAmountTooLarge         = fmt.Errorf("%w: amount exceeds %s", ErrValidation, MaxMoneyAmount.String())
	ErrTotalMismatch          = fmt.Errorf("%w: submitted totals do not match order items", ErrValidation)
	ErrInvalidStatus          = fmt.Errorf("%w: unknown order status", ErrValidation)
	ErrInvalidPaymentStatus   = fmt.Errorf("%w: unknown payment status", ErrValidation)
	ErrInvalidFilter          = fmt.Errorf("%w: invalid list filter", ErrValidation)

	ErrOrderNotFound   = fmt.Errorf("%w: order not found", ErrNotFound)
	ErrProductNotFound = fmt.Errorf("%w: product not found", ErrNotFound)

	ErrNotOrderOwner = fmt.Errorf("%w: order belongs to another user", ErrForbidden)
	ErrAdminOnly     = fmt.Errorf("%w: admin role required", ErrForbidden)

	ErrOrderNotPending   = fmt.Errorf("%w: cannot cancel an order already in processing", ErrInvalidState)
	ErrInvalidTransition = fmt.Errorf("%w: status transition not allowed", ErrInvalidState)
	ErrInsufficientStock = fmt.Errorf("%w: insufficient stock", ErrInvalidState)

	ErrVersionConflict = fmt.Errorf("%w: order was modified concurrently", ErrConflict)
	ErrDuplicateOrder  = fmt.Errorf("%w: order already exists", ErrConflict)
)

// storageError keeps classified errors intact and marks everything else as a storage failure.
func storageError(op string, err error) error {
	for _, kind := range []error{ErrValidation, ErrNotFound, ErrForbidden, ErrInvalidState, ErrConflict, ErrStorage} {
		if errors.Is(err, kind) {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
