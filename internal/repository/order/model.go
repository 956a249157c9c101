package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderDB struct {
	ID                 string
	OrderNumber        string
	UserID             string
	OrderType          string
	Subtotal           decimal.Decimal
	CharityAmount      decimal.Decimal
	TotalAmount        decimal.Decimal
	ShippingName       string
	ShippingEmail      string
	ShippingStreet     string
	ShippingCity       string
	ShippingProvince   string
	ShippingPostalCode string
	ShippingPhone      string
	PaymentMethod      string
	PaymentProof       string
	PaymentStatus      string
	Status             string
	Version            int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type OrderItemDB struct {
	OrderID   string
	Position  int
	ItemType  string
	ProductID string
	Quantity  int64
	Price     decimal.Decimal
}

type TrackingUpdateDB struct {
	OrderID   string
	Status    string
	Message   string
	CreatedAt time.Time
}

type OrderModifyDB struct {
	ID              *string
	Status          *string
	PaymentStatus   *string
	ExpectedVersion *int64
	UpdatedAt       *time.Time
}
