package order

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"orderflow/internal/entities"
)

// Money columns are NUMERIC(12, 2).
const moneyScale = 2

var MaxMoneyAmount = decimal.New(999999999999, -moneyScale)

// validateAmount rejects values the money columns would round or overflow.
func validateAmount(amount decimal.Decimal) error {
	if !amount.Equal(amount.Round(moneyScale)) {
		return fmt.Errorf("%w: %s", ErrAmountPrecision, amount.String())
	}
	if amount.GreaterThan(MaxMoneyAmount) {
		return fmt.Errorf("%w: %s", ErrAmountTooLarge, amount.String())
	}
	return nil
}

func validateOrderID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidOrderID
	}
	return nil
}

// normalizeItems validates every item and returns them with canonical types.
func normalizeItems(items []entities.OrderItem) ([]entities.OrderItem, error) {
	if len(items) == 0 {
		return nil, ErrEmptyItems
	}

	result := make([]entities.OrderItem, 0, len(items))
	for i, item := range items {
		itemType, ok := entities.ParseItemType(item.Type.String())
		if !ok {
			return nil, fmt.Errorf("item %d: %w", i, ErrInvalidItemType)
		}
		if strings.TrimSpace(item.ProductID) == "" {
			return nil, fmt.Errorf("item %d: %w", i, ErrMissingProductID)
		}
		if item.Quantity < 1 {
			return nil, fmt.Errorf("item %d: %w", i, ErrInvalidQuantity)
		}
		if item.Price.IsNegative() {
			return nil, fmt.Errorf("item %d: %w", i, ErrInvalidPrice)
		}
		if err := validateAmount(item.Price); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}

		item.Type = itemType
		item.ProductID = strings.TrimSpace(item.ProductID)
		result = append(result, item)
	}
	return result, nil
}

func requiresPaymentProof(method entities.PaymentMethod) bool {
	return method != entities.PaymentCash
}

// validateShippingAddress returns the address with surrounding whitespace removed.
func validateShippingAddress(validate *validator.Validate, address entities.ShippingAddress) (entities.ShippingAddress, error) {
	address.Name = strings.TrimSpace(address.Name)
	address.Email = strings.TrimSpace(address.Email)
	address.Street = strings.TrimSpace(address.Street)
	address.City = strings.TrimSpace(address.City)
	address.Province = strings.TrimSpace(address.Province)
	address.PostalCode = strings.TrimSpace(address.PostalCode)
	address.Phone = strings.TrimSpace(address.Phone)

	err := validate.Struct(address)
	if err == nil {
		return address, nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fields := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
		}
		return entities.ShippingAddress{}, fmt.Errorf("%w: %s", ErrInvalidShippingAddress, strings.Join(fields, ", "))
	}
	return entities.ShippingAddress{}, fmt.Errorf("%w: %w", ErrInvalidShippingAddress, err)
}

type totals struct {
	subtotal decimal.Decimal
	charity  decimal.Decimal
	total    decimal.Decimal
}

// computeTotals derives the money fields from items and rejects client totals
// that differ from them by more than tolerance.
func computeTotals(
	items []entities.OrderItem,
	charity decimal.Decimal,
	submittedSubtotal, submittedTotal *decimal.Decimal,
	tolerance decimal.Decimal,
) (totals, error) {
	if charity.IsNegative() {
		return totals{}, ErrInvalidCharityAmount
	}
	if err := validateAmount(charity); err != nil {
		return totals{}, fmt.Errorf("charity: %w", err)
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(item.Quantity)))
	}
	total := subtotal.Add(charity)
	if err := validateAmount(total); err != nil {
		return totals{}, fmt.Errorf("total: %w", err)
	}

	if submittedSubtotal != nil && submittedSubtotal.Sub(subtotal).Abs().GreaterThan(tolerance) {
		return totals{}, fmt.Errorf("%w: subtotal %s, expected %s", ErrTotalMismatch, submittedSubtotal.String(), subtotal.String())
	}
	if submittedTotal != nil && submittedTotal.Sub(total).Abs().GreaterThan(tolerance) {
		return totals{}, fmt.Errorf("%w: total %s, expected %s", ErrTotalMismatch, submittedTotal.String(), total.String())
	}

	return totals{subtotal: subtotal, charity: charity, total: total}, nil
}

func checkVersion(order *entities.Order, expected *int64) error {
	if expected != nil && *expected != order.Version {
		return fmt.Errorf("%w: expected version %d, current %d", ErrVersionConflict, *expected, order.Version)
	}
	return nil
}

// stockDelta returns the per-product quantity change; sign is +1 to release and -1 to reserve.
func stockDelta(items []entities.OrderItem, sign int64) []stockChange {
	changes := make([]stockChange, 0, len(items))
	index := make(map[string]int, len(items))
	for _, item := range items {
		if item.Type != entities.ItemProduct {
			continue
		}
		if i, ok := index[item.ProductID]; ok {
			changes[i].delta += sign * item.Quantity
			continue
		}
		index[item.ProductID] = len(changes)
		changes = append(changes, stockChange{productID: item.ProductID, delta: sign * item.Quantity})
	}
	return changes
}

type stockChange struct {
	productID string
	delta     int64
}
