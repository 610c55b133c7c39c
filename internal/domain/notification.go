package domain

import (
	"fmt"
	"strings"
	"time"
)

type RecipientKind string

const (
	RecipientStaff    RecipientKind = "staff"
	RecipientCustomer RecipientKind = "customer"
)

func ParseRecipientKind(s string) (RecipientKind, error) {
	switch RecipientKind(strings.ToLower(strings.TrimSpace(s))) {
	case RecipientStaff:
		return RecipientStaff, nil
	case RecipientCustomer:
		return RecipientCustomer, nil
	default:
		return "", InvalidArgument("unknown recipient kind %q", s)
	}
}

type NotificationType string

const (
	NotificationNewOrder    NotificationType = "NEW_ORDER"
	NotificationOrderStatus NotificationType = "ORDER_STATUS"
)

const EntityOrder = "ORDER"

// Notification is an inbox row owned by one recipient.
// ReadAt is non-nil iff Read is true.
type Notification struct {
	ID            int64            `db:"id" json:"notificationId"`
	RecipientKind RecipientKind    `db:"recipient_kind" json:"recipientKind"`
	RecipientID   int64            `db:"recipient_id" json:"recipientId"`
	Message       string           `db:"message" json:"message"`
	Type          NotificationType `db:"type" json:"type"`
	EntityID      int64            `db:"entity_id" json:"entityId"`
	EntityType    string           `db:"entity_type" json:"entityType"`
	CreatedAt     time.Time        `db:"created_at" json:"createdAt"`
	Read          bool             `db:"is_read" json:"read"`
	ReadAt        *time.Time       `db:"read_at" json:"readAt"`
}

// NewOrderNotification is the per-staff broadcast emitted when an order is placed.
func NewOrderNotification(orderID, staffID int64, customerName string, now time.Time) Notification {
	return Notification{
		RecipientKind: RecipientStaff,
		RecipientID:   staffID,
		Message:       fmt.Sprintf("New order #%d placed by customer %s", orderID, customerName),
		Type:          NotificationNewOrder,
		EntityID:      orderID,
		EntityType:    EntityOrder,
		CreatedAt:     now,
	}
}

// OrderStatusNotification tells the customer the order moved to status.
func OrderStatusNotification(orderID, customerID int64, status OrderStatus, now time.Time) Notification {
	return Notification{
		RecipientKind: RecipientCustomer,
		RecipientID:   customerID,
		Message:       fmt.Sprintf("Your order #%d status updated to %s", orderID, status),
		Type:          NotificationOrderStatus,
		EntityID:      orderID,
		EntityType:    EntityOrder,
		CreatedAt:     now,
	}
}

// MarkRead flips Read to true and stamps ReadAt. It returns false when the
// notification was already read, leaving ReadAt untouched.
func (n *Notification) MarkRead(now time.Time) bool {
	if n.Read {
		return false
	}
	n.Read = true
	t := now
	n.ReadAt = &t
	return true
}
