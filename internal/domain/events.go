package domain

import "time"

const (
	EventOrderPlaced        = "order.placed"
	EventOrderStatusChanged = "order.status_changed"
)

// OrderEvent is the message published to the notifications fanout after a
// lifecycle transaction commits.
type OrderEvent struct {
	EventID    string      `json:"eventId"`
	Type       string      `json:"type"`
	OrderID    int64       `json:"orderId"`
	CustomerID int64       `json:"customerId"`
	StaffID    *int64      `json:"staffId,omitempty"`
	OldStatus  OrderStatus `json:"oldStatus,omitempty"`
	NewStatus  OrderStatus `json:"newStatus"`
	ChangedBy  string      `json:"changedBy"`
	OccurredAt time.Time   `json:"timestamp"`
}
