package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"laundry-service/internal/domain"
)

// Overview is the admin landing page: directory totals, today's figures and
// a seven day trend ending today.
type Overview struct {
	TotalCustomers   int64             `json:"totalCustomers"`
	TotalStaff       int64             `json:"totalStaff"`
	OrdersToday      int64             `json:"ordersToday"`
	RevenueToday     decimal.Decimal   `json:"revenueToday"`
	Last7DaysLabels  []string          `json:"last7DaysLabels"`
	Last7DaysRevenue []decimal.Decimal `json:"last7DaysRevenue"`
	Last7DaysOrders  []int64           `json:"last7DaysOrders"`
}

// TrendWindow is the seven local dates ending with now's date.
func TrendWindow(now time.Time, loc *time.Location) Window {
	return ResolveWindow(now, loc, RangeWeek)
}

// Today is the window holding only now's local date.
func Today(now time.Time, loc *time.Location) Window {
	d := dateOf(now, loc)
	return Window{Start: d, End: d, Range: RangeWeek}
}

// FillTrend sets the seven day series from orders placed in TrendWindow.
func (ov *Overview) FillTrend(now time.Time, loc *time.Location, orders []domain.Order) {
	if loc == nil {
		loc = time.Local
	}
	w := TrendWindow(now, loc)
	rev, vol := series(buckets(w), inWindow(orders, w), loc)
	ov.Last7DaysLabels = rev.Labels
	ov.Last7DaysRevenue = rev.Data
	ov.Last7DaysOrders = vol.Data
}
