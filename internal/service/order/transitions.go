package order

import "orderflow/internal/entities"

var transitions = map[entities.OrderStatus][]entities.OrderStatus{
	entities.OrderPending:    {entities.OrderProcessing, entities.OrderCancelled},
	entities.OrderProcessing: {entities.OrderShipped},
	entities.OrderShipped:    {entities.OrderDelivered},
	entities.OrderDelivered:  {},
	entities.OrderCancelled:  {},
}

// CanTransition reports whether from -> to is a forward move or a cancellation of a pending order.
func CanTransition(from, to entities.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
