package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// OrderStatus is the fulfillment stage of an order. The set is closed:
// values outside allStatuses never reach the store.
type OrderStatus string

const (
	StatusOrderPlaced      OrderStatus = "Order Placed"
	StatusPickupScheduled  OrderStatus = "Pickup Scheduled"
	StatusPickupCompleted  OrderStatus = "Pickup Completed"
	StatusProcessing       OrderStatus = "Processing"
	StatusWashing          OrderStatus = "Washing"
	StatusDrying           OrderStatus = "Drying"
	StatusIroning          OrderStatus = "Ironing"
	StatusQualityCheck     OrderStatus = "Quality Check"
	StatusReadyForDelivery OrderStatus = "Ready for Delivery"
	StatusDelivered        OrderStatus = "Delivered"
)

var allStatuses = []OrderStatus{
	StatusOrderPlaced,
	StatusPickupScheduled,
	StatusPickupCompleted,
	StatusProcessing,
	StatusWashing,
	StatusDrying,
	StatusIroning,
	StatusQualityCheck,
	StatusReadyForDelivery,
	StatusDelivered,
}

// ParseOrderStatus matches s against the known statuses ignoring case and
// surrounding whitespace.
func ParseOrderStatus(s string) (OrderStatus, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", InvalidArgument("status is required")
	}
	folded := cases.Fold().String(s)
	for _, st := range allStatuses {
		if cases.Fold().String(string(st)) == folded {
			return st, nil
		}
	}
	return "", InvalidArgument("unknown status %q", s)
}

func (s OrderStatus) String() string { return string(s) }

// Order is a laundry order. CustomerName and Address are a snapshot taken at
// placement and are never rewritten by lifecycle transitions.
type Order struct {
	ID                 int64           `db:"id" json:"orderId"`
	PlacedAt           time.Time       `db:"placed_at" json:"orderDate"`
	CustomerID         int64           `db:"customer_id" json:"customerId"`
	CustomerName       string          `db:"customer_name" json:"customerName"`
	Address            string          `db:"address" json:"customerAddress"`
	Items              string          `db:"items" json:"items"`
	ServiceType        string          `db:"service_type" json:"serviceType"`
	SpecialInstruction string          `db:"special_instruction" json:"specialInstruction"`
	SubTotal           decimal.Decimal `db:"sub_total" json:"subTotal"`
	Tax                decimal.Decimal `db:"tax" json:"tax"`
	Total              decimal.Decimal `db:"total" json:"total"`
	Status             OrderStatus     `db:"status" json:"status"`
	StaffID            *int64          `db:"staff_id" json:"staffId"`
}

// RecomputeTotal enforces Total == SubTotal + Tax. Called before every write;
// an incoming Total is never trusted.
func (o *Order) RecomputeTotal() {
	o.Total = o.SubTotal.Add(o.Tax)
}

// StatusLogEntry is one row of an order's timeline.
type StatusLogEntry struct {
	OrderID   int64       `db:"order_id" json:"orderId"`
	Status    OrderStatus `db:"status" json:"status"`
	ChangedBy string      `db:"changed_by" json:"changedBy"`
	ChangedAt time.Time   `db:"changed_at" json:"changedAt"`
	Notes     string      `db:"notes" json:"notes"`
}

// Review is the read-only slice of customer feedback used by analytics.
type Review struct {
	ID         int64      `db:"id" json:"reviewId"`
	CustomerID int64      `db:"customer_id" json:"customerId"`
	Rating     *int64     `db:"rating" json:"rating"`
	CreatedAt  *time.Time `db:"created_at" json:"createdAt"`
}

// Report is a frozen analytics snapshot.
type Report struct {
	ID                  int64           `db:"id" json:"reportId"`
	CompletedOrderCount int64           `db:"completed_order_count" json:"completedOrderCount"`
	TotalCustomers      int64           `db:"total_customers" json:"totalCustomers"`
	TotalIncome         decimal.Decimal `db:"total_income" json:"totalIncome"`
	ReportDate          time.Time       `db:"report_date" json:"reportDate"`
	TimeRange           string          `db:"time_range" json:"timeRange"`
	GeneratedBy         string          `db:"generated_by" json:"generatedBy"`
}
