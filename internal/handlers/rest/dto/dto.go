package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"orderflow/internal/entities"
)

type PingResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type OrderItem struct {
	Type      string          `json:"type"`
	ProductID string          `json:"productId"`
	Quantity  int64           `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type ShippingAddress struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Street     string `json:"street"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postalCode"`
	Phone      string `json:"phone"`
}

type TrackingUpdate struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type OrderCreate struct {
	Items           []OrderItem      `json:"items"`
	ShippingAddress ShippingAddress  `json:"shippingAddress"`
	PaymentMethod   string           `json:"paymentMethod"`
	PaymentProof    string           `json:"paymentProof"`
	CharityAmount   decimal.Decimal  `json:"charityAmount"`
	Subtotal        *decimal.Decimal `json:"subtotal,omitempty"`
	TotalAmount     *decimal.Decimal `json:"totalAmount,omitempty"`
}

// VersionedRequest is embedded by mutation bodies that may carry the expected version.
type VersionedRequest struct {
	Version *int64 `json:"version,omitempty"`
}

type StatusUpdate struct {
	VersionedRequest
	Status   string `json:"status"`
	Message  string `json:"message"`
	Override bool   `json:"override"`
}

type PaymentStatusUpdate struct {
	VersionedRequest
	PaymentStatus string `json:"paymentStatus"`
}

type Order struct {
	ID              string           `json:"id"`
	OrderNumber     string           `json:"orderNumber"`
	UserID          string           `json:"userId"`
	Items           []OrderItem      `json:"items"`
	OrderType       string           `json:"orderType"`
	Subtotal        decimal.Decimal  `json:"subtotal"`
	CharityAmount   decimal.Decimal  `json:"charityAmount"`
	TotalAmount     decimal.Decimal  `json:"totalAmount"`
	ShippingAddress ShippingAddress  `json:"shippingAddress"`
	PaymentMethod   string           `json:"paymentMethod"`
	PaymentProof    string           `json:"paymentProof,omitempty"`
	PaymentStatus   string           `json:"paymentStatus"`
	Status          string           `json:"status"`
	TrackingUpdates []TrackingUpdate `json:"trackingUpdates"`
	Version         int64            `json:"version"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

func (c OrderCreate) ToEntity() entities.OrderCreate {
	items := make([]entities.OrderItem, len(c.Items))
	for i, item := range c.Items {
		items[i] = entities.OrderItem{
			Type:      entities.ItemType(item.Type),
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}

	return entities.OrderCreate{
		Items: items,
		ShippingAddress: entities.ShippingAddress{
			Name:       c.ShippingAddress.Name,
			Email:      c.ShippingAddress.Email,
			Street:     c.ShippingAddress.Street,
			City:       c.ShippingAddress.City,
			Province:   c.ShippingAddress.Province,
			PostalCode: c.ShippingAddress.PostalCode,
			Phone:      c.ShippingAddress.Phone,
		},
		PaymentMethod: c.PaymentMethod,
		PaymentProof:  c.PaymentProof,
		CharityAmount: c.CharityAmount,
		Subtotal:      c.Subtotal,
		TotalAmount:   c.TotalAmount,
	}
}

func FromOrder(order *entities.Order) Order {
	items := make([]OrderItem, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItem{
			Type:      item.Type.String(),
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}

	tracking := make([]TrackingUpdate, len(order.TrackingUpdates))
	for i, update := range order.TrackingUpdates {
		tracking[i] = TrackingUpdate{
			Status:    update.Status.String(),
			Message:   update.Message,
			Timestamp: update.Timestamp,
		}
	}

	address := order.ShippingAddress
	return Order{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		UserID:        order.UserID,
		Items:         items,
		OrderType:     order.OrderType.String(),
		Subtotal:      order.Subtotal,
		CharityAmount: order.CharityAmount,
		TotalAmount:   order.TotalAmount,
		ShippingAddress: ShippingAddress{
			Name:       address.Name,
			Email:      address.Email,
			Street:     address.Street,
			City:       address.City,
			Province:   address.Province,
			PostalCode: address.PostalCode,
			Phone:      address.Phone,
		},
		PaymentMethod:   order.PaymentMethod.String(),
		PaymentProof:    order.PaymentProof,
		PaymentStatus:   order.PaymentStatus.String(),
		Status:          order.Status.String(),
		TrackingUpdates: tracking,
		Version:         order.Version,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

func FromOrders(orders []entities.Order) []Order {
	result := make([]Order, len(orders))
	for i := range orders {
		result[i] = FromOrder(&orders[i])
	}
	return result
}
