package entities

type NotificationKind string

const (
	NotificationOrderConfirmation NotificationKind = "order_confirmation"
	NotificationAdminAlert        NotificationKind = "admin_alert"
	NotificationOrderApproved     NotificationKind = "order_approved"
	NotificationPaymentStatus     NotificationKind = "payment_status"
	NotificationStatusUpdate      NotificationKind = "status_update"
)

func (k NotificationKind) String() string {
	return string(k)
}

// Notification is a rendered-on-delivery message request.
type Notification struct {
	Kind      NotificationKind
	Recipient string
	Subject   string
	Template  string
	OrderID   string
	Data      map[string]string
}
