package notification

import (
	"strconv"

	"orderflow/internal/entities"
	"orderflow/pkg/logger"
)

const (
	TemplateOrderConfirmation = "order_confirmation"
	TemplateAdminAlert        = "admin_alert"
	TemplateOrderApproved     = "order_approved"
	TemplatePaymentStatus     = "payment_status"
	TemplateStatusUpdate      = "status_update"
)

type Config struct {
	AdminRecipient string
}

// Service turns order events into notifications and hands them to the dispatcher.
// Every method returns immediately; delivery problems are only logged.
type Service struct {
	log            handlerLogger
	dispatcher     Dispatcher
	adminRecipient string
}

func New(log handlerLogger, dispatcher Dispatcher, cfg Config) *Service {
	return &Service{
		log:            log,
		dispatcher:     dispatcher,
		adminRecipient: cfg.AdminRecipient,
	}
}

func (s *Service) OrderCreated(order entities.Order) {
	s.enqueue(entities.Notification{
		Kind:      entities.NotificationOrderConfirmation,
		Recipient: order.ShippingAddress.Email,
		Subject:   "Order confirmation " + order.OrderNumber,
		Template:  TemplateOrderConfirmation,
		OrderID:   order.ID,
		Data:      orderData(order),
	})

	s.enqueue(entities.Notification{
		Kind:      entities.NotificationAdminAlert,
		Recipient: s.adminRecipient,
		Subject:   "New order received " + order.OrderNumber,
		Template:  TemplateAdminAlert,
		OrderID:   order.ID,
		Data:      orderData(order),
	})
}

func (s *Service) OrderApproved(order entities.Order) {
	s.enqueue(entities.Notification{
		Kind:      entities.NotificationOrderApproved,
		Recipient: order.ShippingAddress.Email,
		Subject:   "Your order " + order.OrderNumber + " has been approved",
		Template:  TemplateOrderApproved,
		OrderID:   order.ID,
		Data:      orderData(order),
	})
}

func (s *Service) PaymentStatusChanged(order entities.Order) {
	s.enqueue(entities.Notification{
		Kind:      entities.NotificationPaymentStatus,
		Recipient: order.ShippingAddress.Email,
		Subject:   "Payment " + order.PaymentStatus.String() + " for order " + order.OrderNumber,
		Template:  TemplatePaymentStatus,
		OrderID:   order.ID,
		Data:      orderData(order),
	})
}

func (s *Service) StatusChanged(order entities.Order) {
	s.enqueue(entities.Notification{
		Kind:      entities.NotificationStatusUpdate,
		Recipient: order.ShippingAddress.Email,
		Subject:   "Order " + order.OrderNumber + " is now " + order.Status.String(),
		Template:  TemplateStatusUpdate,
		OrderID:   order.ID,
		Data:      orderData(order),
	})
}

func (s *Service) enqueue(n entities.Notification) {
	log := s.log.With(
		logger.NewField("kind", n.Kind.String()),
		logger.NewField("order_id", n.OrderID),
	)

	if n.Recipient == "" {
		log.Warn("notification skipped: no recipient")
		return
	}

	if err := s.dispatcher.Dispatch(n); err != nil {
		log.With(logger.NewField("error", err)).Error("enqueue notification")
	}
}

func orderData(order entities.Order) map[string]string {
	data := map[string]string{
		"orderId":       order.ID,
		"orderNumber":   order.OrderNumber,
		"customerName":  order.ShippingAddress.Name,
		"customerEmail": order.ShippingAddress.Email,
		"orderType":     order.OrderType.String(),
		"status":        order.Status.String(),
		"paymentMethod": order.PaymentMethod.String(),
		"paymentStatus": order.PaymentStatus.String(),
		"subtotal":      order.Subtotal.StringFixed(2),
		"charityAmount": order.CharityAmount.StringFixed(2),
		"totalAmount":   order.TotalAmount.StringFixed(2),
		"itemCount":     strconv.Itoa(len(order.Items)),
		"city":          order.ShippingAddress.City,
	}

	if n := len(order.TrackingUpdates); n > 0 {
		data["message"] = order.TrackingUpdates[n-1].Message
	}

	return data
}
