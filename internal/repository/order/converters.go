package order

import (
	"orderflow/internal/entities"
)

func ToDomain(o *OrderDB, items []OrderItemDB, tracking []TrackingUpdateDB) *entities.Order {
	if o == nil {
		return nil
	}

	order := &entities.Order{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		UserID:        o.UserID,
		OrderType:     entities.OrderType(o.OrderType),
		Subtotal:      o.Subtotal,
		CharityAmount: o.CharityAmount,
		TotalAmount:   o.TotalAmount,
		ShippingAddress: entities.ShippingAddress{
			Name:       o.ShippingName,
			Email:      o.ShippingEmail,
			Street:     o.ShippingStreet,
			City:       o.ShippingCity,
			Province:   o.ShippingProvince,
			PostalCode: o.ShippingPostalCode,
			Phone:      o.ShippingPhone,
		},
		PaymentProof:    o.PaymentProof,
		PaymentStatus:   entities.PaymentStatus(o.PaymentStatus),
		Status:          entities.OrderStatus(o.Status),
		Items:           make([]entities.OrderItem, 0, len(items)),
		TrackingUpdates: make([]entities.TrackingUpdate, 0, len(tracking)),
		Version:         o.Version,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}

	// Stored legacy spellings are normalized on read.
	if method, ok := entities.ParsePaymentMethod(o.PaymentMethod); ok {
		order.PaymentMethod = method
	} else {
		order.PaymentMethod = entities.PaymentMethod(o.PaymentMethod)
	}

	for _, item := range items {
		order.Items = append(order.Items, entities.OrderItem{
			Type:      entities.ItemType(item.ItemType),
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	for _, update := range tracking {
		order.TrackingUpdates = append(order.TrackingUpdates, entities.TrackingUpdate{
			Status:    entities.OrderStatus(update.Status),
			Message:   update.Message,
			Timestamp: update.CreatedAt,
		})
	}

	return order
}

func FromDomain(order *entities.Order) (*OrderDB, []OrderItemDB) {
	if order == nil {
		return nil, nil
	}

	orderDB := &OrderDB{
		ID:                 order.ID,
		OrderNumber:        order.OrderNumber,
		UserID:             order.UserID,
		OrderType:          order.OrderType.String(),
		Subtotal:           order.Subtotal,
		CharityAmount:      order.CharityAmount,
		TotalAmount:        order.TotalAmount,
		ShippingName:       order.ShippingAddress.Name,
		ShippingEmail:      order.ShippingAddress.Email,
		ShippingStreet:     order.ShippingAddress.Street,
		ShippingCity:       order.ShippingAddress.City,
		ShippingProvince:   order.ShippingAddress.Province,
		ShippingPostalCode: order.ShippingAddress.PostalCode,
		ShippingPhone:      order.ShippingAddress.Phone,
		PaymentMethod:      order.PaymentMethod.String(),
		PaymentProof:       order.PaymentProof,
		PaymentStatus:      order.PaymentStatus.String(),
		Status:             order.Status.String(),
		Version:            order.Version,
		CreatedAt:          order.CreatedAt,
		UpdatedAt:          order.UpdatedAt,
	}

	items := make([]OrderItemDB, 0, len(order.Items))
	for i, item := range order.Items {
		items = append(items, OrderItemDB{
			OrderID:   order.ID,
			Position:  i,
			ItemType:  item.Type.String(),
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	return orderDB, items
}

func FromDomainModify(orderModify *entities.OrderModify) *OrderModifyDB {
	if orderModify == nil {
		return nil
	}
	modifyDB := &OrderModifyDB{
		ID:              orderModify.ID,
		ExpectedVersion: orderModify.ExpectedVersion,
		UpdatedAt:       orderModify.UpdatedAt,
	}

	if orderModify.Status != nil {
		status := orderModify.Status.String()
		modifyDB.Status = &status
	}
	if orderModify.PaymentStatus != nil {
		paymentStatus := orderModify.PaymentStatus.String()
		modifyDB.PaymentStatus = &paymentStatus
	}

	return modifyDB
}
