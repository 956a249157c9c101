package entities

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID              string
	OrderNumber     string
	UserID          string
	Items           []OrderItem
	OrderType       OrderType
	Subtotal        decimal.Decimal
	CharityAmount   decimal.Decimal
	TotalAmount     decimal.Decimal
	ShippingAddress ShippingAddress
	PaymentMethod   PaymentMethod
	PaymentProof    string
	PaymentStatus   PaymentStatus
	Status          OrderStatus
	TrackingUpdates []TrackingUpdate
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type OrderItem struct {
	Type      ItemType
	ProductID string
	Quantity  int64
	Price     decimal.Decimal
}

type ShippingAddress struct {
	Name       string `validate:"required"`
	Email      string `validate:"required,email"`
	Street     string `validate:"required"`
	City       string `validate:"required"`
	Province   string `validate:"required"`
	PostalCode string `validate:"required"`
	Phone      string `validate:"required"`
}

type TrackingUpdate struct {
	Status    OrderStatus
	Message   string
	Timestamp time.Time
}

// OrderCreate is the client input for a new order. Subtotal and TotalAmount are
// optional and only checked against the server-side computation.
type OrderCreate struct {
	Items           []OrderItem
	ShippingAddress ShippingAddress
	PaymentMethod   string
	PaymentProof    string
	CharityAmount   decimal.Decimal
	Subtotal        *decimal.Decimal
	TotalAmount     *decimal.Decimal
}

type OrderModify struct {
	ID              *string
	Status          *OrderStatus
	PaymentStatus   *PaymentStatus
	ExpectedVersion *int64
	UpdatedAt       *time.Time
}

type StatusChange struct {
	OrderID         string
	Status          string
	Message         string
	Override        bool
	ExpectedVersion *int64
}

type PaymentVerification struct {
	OrderID         string
	PaymentStatus   string
	ExpectedVersion *int64
}

type OrderFilter struct {
	UserID    *string
	Status    *OrderStatus
	OrderType *OrderType
	Limit     uint64
	Offset    uint64
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled}

func (s OrderStatus) String() string {
	return string(s)
}

func ParseOrderStatus(raw string) (OrderStatus, bool) {
	normalized := OrderStatus(strings.ToLower(strings.TrimSpace(raw)))
	for _, s := range OrderStatuses {
		if s == normalized {
			return s, true
		}
	}
	return "", false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentConfirmed PaymentStatus = "confirmed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentVerified  PaymentStatus = "verified"
)

func (s PaymentStatus) String() string {
	return string(s)
}

// IsSuccessful reports whether the payment counts as received.
func (s PaymentStatus) IsSuccessful() bool {
	return s == PaymentConfirmed || s == PaymentVerified
}

func ParsePaymentStatus(raw string) (PaymentStatus, bool) {
	switch PaymentStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case PaymentPending:
		return PaymentPending, true
	case PaymentConfirmed:
		return PaymentConfirmed, true
	case PaymentFailed:
		return PaymentFailed, true
	case PaymentVerified:
		return PaymentVerified, true
	default:
		return "", false
	}
}

type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentTransfer     PaymentMethod = "transfer"
	PaymentJazzCash     PaymentMethod = "jazzcash"
	PaymentBankTransfer PaymentMethod = "bankTransfer"
	PaymentEasyPaisa    PaymentMethod = "easyPaisa"
)

// paymentMethodAliases maps lower-cased spellings seen in stored data to the canonical value.
var paymentMethodAliases = map[string]PaymentMethod{
	"cash":          PaymentCash,
	"transfer":      PaymentTransfer,
	"jazzcash":      PaymentJazzCash,
	"jazz_cash":     PaymentJazzCash,
	"jazz-cash":     PaymentJazzCash,
	"banktransfer":  PaymentBankTransfer,
	"bank_transfer": PaymentBankTransfer,
	"bank-transfer": PaymentBankTransfer,
	"easypaisa":     PaymentEasyPaisa,
	"easy_paisa":    PaymentEasyPaisa,
	"easy-paisa":    PaymentEasyPaisa,
}

func (m PaymentMethod) String() string {
	return string(m)
}

func ParsePaymentMethod(raw string) (PaymentMethod, bool) {
	m, ok := paymentMethodAliases[strings.ToLower(strings.TrimSpace(raw))]
	return m, ok
}

type ItemType string

const (
	ItemCourse  ItemType = "course"
	ItemProduct ItemType = "product"
)

func (t ItemType) String() string {
	return string(t)
}

func ParseItemType(raw string) (ItemType, bool) {
	switch ItemType(strings.ToLower(strings.TrimSpace(raw))) {
	case ItemCourse:
		return ItemCourse, true
	case ItemProduct:
		return ItemProduct, true
	default:
		return "", false
	}
}

type OrderType string

const (
	OrderTypeCourse  OrderType = "course"
	OrderTypeProduct OrderType = "product"
)

func (t OrderType) String() string {
	return string(t)
}

func ParseOrderType(raw string) (OrderType, bool) {
	switch OrderType(strings.ToLower(strings.TrimSpace(raw))) {
	case OrderTypeCourse:
		return OrderTypeCourse, true
	case OrderTypeProduct:
		return OrderTypeProduct, true
	default:
		return "", false
	}
}

// OrderTypeOf is course when any item is a course.
func OrderTypeOf(items []OrderItem) OrderType {
	for _, item := range items {
		if item.Type == ItemCourse {
			return OrderTypeCourse
		}
	}
	return OrderTypeProduct
}
