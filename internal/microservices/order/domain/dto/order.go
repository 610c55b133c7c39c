package dto

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"laundry-service/internal/domain"
)

type PlaceOrderRequest struct {
	CustomerID         int64            `json:"customerId"`
	CustomerName       string           `json:"customerName"`
	Address            string           `json:"customerAddress"`
	Items              string           `json:"items"`
	ServiceType        string           `json:"serviceType"`
	SpecialInstruction string           `json:"specialInstruction"`
	SubTotal           *decimal.Decimal `json:"subTotal"`
	Tax                *decimal.Decimal `json:"tax"`
	// Total is accepted for compatibility and ignored; it is always recomputed.
	Total    *decimal.Decimal `json:"total,omitempty"`
	PlacedAt *time.Time       `json:"orderDate,omitempty"`
}

func (r PlaceOrderRequest) Validate() error {
	if r.CustomerID <= 0 {
		return domain.InvalidArgument("customer_id is required")
	}
	if r.SubTotal == nil {
		return domain.InvalidArgument("sub_total is required")
	}
	if r.Tax == nil {
		return domain.InvalidArgument("tax is required")
	}
	if r.SubTotal.IsNegative() || r.Tax.IsNegative() {
		return domain.InvalidArgument("sub_total and tax must not be negative")
	}
	return nil
}

// ToOrder builds the order snapshot. now is used when PlacedAt is absent.
func (r PlaceOrderRequest) ToOrder(now time.Time) domain.Order {
	placed := now
	if r.PlacedAt != nil {
		placed = *r.PlacedAt
	}
	o := domain.Order{
		PlacedAt:           placed,
		CustomerID:         r.CustomerID,
		CustomerName:       strings.TrimSpace(r.CustomerName),
		Address:            strings.TrimSpace(r.Address),
		Items:              r.Items,
		ServiceType:        strings.TrimSpace(r.ServiceType),
		SpecialInstruction: r.SpecialInstruction,
		SubTotal:           *r.SubTotal,
		Tax:                *r.Tax,
		Status:             domain.StatusOrderPlaced,
	}
	o.RecomputeTotal()
	return o
}

// OrderView is the staff dashboard row returned by lifecycle operations.
type OrderView struct {
	OrderID         int64              `json:"orderId"`
	CustomerName    string             `json:"customerName"`
	CustomerAddress string             `json:"customerAddress"`
	Status          domain.OrderStatus `json:"status"`
	StaffID         *int64             `json:"staffId"`
	DeliveryStaffID *int64             `json:"deliveryStaffId"`
	Items           string             `json:"items"`
	ServiceType     string             `json:"serviceType"`
	Total           decimal.Decimal    `json:"total"`
	OrderDate       time.Time          `json:"orderDate"`
}

func NewOrderView(o domain.Order) OrderView {
	return OrderView{
		OrderID:         o.ID,
		CustomerName:    o.CustomerName,
		CustomerAddress: o.Address,
		Status:          o.Status,
		StaffID:         o.StaffID,
		DeliveryStaffID: o.StaffID,
		Items:           o.Items,
		ServiceType:     o.ServiceType,
		Total:           o.Total,
		OrderDate:       o.PlacedAt,
	}
}

func NewOrderViews(orders []domain.Order) []OrderView {
	out := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, NewOrderView(o))
	}
	return out
}
