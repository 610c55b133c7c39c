package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"laundry-service/internal/domain"
)

type Input struct {
	Now       time.Time
	Location  *time.Location
	TimeRange TimeRange
	// Orders and Reviews are the full history; windowing happens here.
	Orders  []domain.Order
	Reviews []domain.Review
}

type RevenueData struct {
	Labels []string          `json:"labels"`
	Data   []decimal.Decimal `json:"data"`
}

type OrderVolumeData struct {
	Labels []string `json:"labels"`
	Data   []int64  `json:"data"`
}

type ServiceDistribution struct {
	Labels           []string                   `json:"labels"`
	Data             []int64                    `json:"data"`
	RevenueByService map[string]decimal.Decimal `json:"revenueByService"`
}

type CustomerRetention struct {
	Labels             []string `json:"labels"`
	NewCustomers       []int64  `json:"newCustomers"`
	ReturningCustomers []int64  `json:"returningCustomers"`
}

type SummaryStats struct {
	TotalRevenue    decimal.Decimal `json:"totalRevenue"`
	RevenueChange   float64         `json:"revenueChange"`
	OrdersProcessed int64           `json:"ordersProcessed"`
	OrdersChange    float64         `json:"ordersChange"`
	NewCustomers    int64           `json:"newCustomers"`
	CustomersChange float64         `json:"customersChange"`
	AverageRating   float64         `json:"averageRating"`
	RatingChange    float64         `json:"ratingChange"`
}

type Analytics struct {
	RevenueData         RevenueData         `json:"revenueData"`
	OrderVolumeData     OrderVolumeData     `json:"orderVolumeData"`
	ServiceDistribution ServiceDistribution `json:"serviceDistribution"`
	CustomerRetention   CustomerRetention   `json:"customerRetention"`
	SummaryStats        SummaryStats        `json:"summaryStats"`
}

type bucket struct {
	label    string
	from, to time.Time
}

// Compute builds the dashboard for in.TimeRange as of in.Now.
func Compute(in Input) Analytics {
	loc := in.Location
	if loc == nil {
		loc = time.Local
	}
	w := ResolveWindow(in.Now, loc, in.TimeRange)
	prev := w.Previous()
	today := w.End

	current := inWindow(in.Orders, w)
	previous := inWindow(in.Orders, prev)
	first := firstOrderDates(in.Orders, loc)

	var out Analytics
	out.RevenueData, out.OrderVolumeData = series(buckets(w), current, loc)
	out.ServiceDistribution = serviceMix(current)
	out.CustomerRetention = retention(today, w.Range, in.Orders, first, loc)

	curRevenue, prevRevenue := sumTotals(current), sumTotals(previous)
	curNew, prevNew := countFirstIn(first, w), countFirstIn(first, prev)
	out.SummaryStats = SummaryStats{
		TotalRevenue:    curRevenue,
		RevenueChange:   PercentageChange(prevRevenue, curRevenue),
		OrdersProcessed: int64(len(current)),
		OrdersChange:    PercentageChange(decimal.NewFromInt(int64(len(previous))), decimal.NewFromInt(int64(len(current)))),
		NewCustomers:    curNew,
		CustomersChange: PercentageChange(decimal.NewFromInt(prevNew), decimal.NewFromInt(curNew)),
		AverageRating:   averageRating(in.Reviews, nil),
		RatingChange:    ratingTrend(in.Reviews, today, loc),
	}
	return out
}

// PercentageChange is (after-before)/before rounded half-up to 4 places,
// times 100. A zero baseline yields 100 when after is positive and 0 otherwise.
func PercentageChange(before, after decimal.Decimal) float64 {
	if before.IsZero() {
		if after.IsPositive() {
			return 100
		}
		return 0
	}
	return after.Sub(before).DivRound(before, 4).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

func inWindow(orders []domain.Order, w Window) []domain.Order {
	out := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if w.Contains(o.PlacedAt) {
			out = append(out, o)
		}
	}
	return out
}

func buckets(w Window) []bucket {
	var out []bucket
	switch w.Range {
	case RangeWeek:
		for i := 0; i < 7; i++ {
			d := addDays(w.Start, i)
			out = append(out, bucket{label: shortWeekday(d), from: d, to: d})
		}
	case RangeQuarter:
		out = monthBuckets(w.End, 3)
	case RangeYear:
		out = monthBuckets(w.End, 12)
	default:
		n := 1
		for ws := w.Start; !ws.After(w.End); ws = addDays(ws, 7) {
			out = append(out, bucket{
				label: fmt.Sprintf("Week %d", n),
				from:  ws,
				to:    minDate(addDays(ws, 6), w.End),
			})
			n++
		}
	}
	return out
}

// monthBuckets returns n calendar months ending with end's month; the last
// one stops at end.
func monthBuckets(end time.Time, n int) []bucket {
	out := make([]bucket, 0, n)
	for i := n - 1; i >= 0; i-- {
		ms := firstOfMonth(addMonths(end, -i))
		me := minDate(addDays(addMonths(ms, 1), -1), end)
		out = append(out, bucket{label: shortMonth(ms), from: ms, to: me})
	}
	return out
}

func series(bs []bucket, orders []domain.Order, loc *time.Location) (RevenueData, OrderVolumeData) {
	rev := RevenueData{Labels: make([]string, 0, len(bs)), Data: make([]decimal.Decimal, 0, len(bs))}
	vol := OrderVolumeData{Labels: make([]string, 0, len(bs)), Data: make([]int64, 0, len(bs))}
	for _, b := range bs {
		sum := decimal.Zero
		var n int64
		for _, o := range orders {
			if between(dateOf(o.PlacedAt, loc), b.from, b.to) {
				sum = sum.Add(o.Total)
				n++
			}
		}
		rev.Labels = append(rev.Labels, b.label)
		rev.Data = append(rev.Data, sum)
		vol.Labels = append(vol.Labels, b.label)
		vol.Data = append(vol.Data, n)
	}
	return rev, vol
}

func serviceMix(orders []domain.Order) ServiceDistribution {
	counts := map[string]int64{}
	revenue := map[string]decimal.Decimal{}
	for _, o := range orders {
		st := strings.TrimSpace(o.ServiceType)
		if st == "" {
			continue
		}
		counts[st]++
		revenue[st] = revenue[st].Add(o.Total)
	}

	labels := make([]string, 0, len(counts))
	for st := range counts {
		labels = append(labels, st)
	}
	sort.Strings(labels)

	data := make([]int64, len(labels))
	for i, st := range labels {
		data[i] = counts[st]
	}
	return ServiceDistribution{Labels: labels, Data: data, RevenueByService: revenue}
}

// firstOrderDates maps each customer to the local date of their earliest order.
func firstOrderDates(orders []domain.Order, loc *time.Location) map[int64]time.Time {
	first := make(map[int64]time.Time)
	for _, o := range orders {
		d := dateOf(o.PlacedAt, loc)
		if cur, ok := first[o.CustomerID]; !ok || d.Before(cur) {
			first[o.CustomerID] = d
		}
	}
	return first
}

func countFirstIn(first map[int64]time.Time, w Window) int64 {
	var n int64
	for _, d := range first {
		if between(d, w.Start, w.End) {
			n++
		}
	}
	return n
}

func retention(today time.Time, r TimeRange, orders []domain.Order, first map[int64]time.Time, loc *time.Location) CustomerRetention {
	periods := 6
	if r == RangeYear {
		periods = 12
	}
	out := CustomerRetention{
		Labels:             make([]string, 0, periods),
		NewCustomers:       make([]int64, 0, periods),
		ReturningCustomers: make([]int64, 0, periods),
	}
	for _, b := range monthBuckets(today, periods) {
		var fresh int64
		for _, d := range first {
			if between(d, b.from, b.to) {
				fresh++
			}
		}

		returning := make(map[int64]struct{})
		for _, o := range orders {
			if !between(dateOf(o.PlacedAt, loc), b.from, b.to) {
				continue
			}
			if f, ok := first[o.CustomerID]; ok && f.Before(b.from) {
				returning[o.CustomerID] = struct{}{}
			}
		}

		out.Labels = append(out.Labels, b.label)
		out.NewCustomers = append(out.NewCustomers, fresh)
		out.ReturningCustomers = append(out.ReturningCustomers, int64(len(returning)))
	}
	return out
}

func sumTotals(orders []domain.Order) decimal.Decimal {
	sum := decimal.Zero
	for _, o := range orders {
		sum = sum.Add(o.Total)
	}
	return sum
}

// averageRating averages rated reviews accepted by keep (all when nil).
// No ratings averages to 0.
func averageRating(reviews []domain.Review, keep func(domain.Review) bool) float64 {
	var sum, n int64
	for _, r := range reviews {
		if r.Rating == nil || (keep != nil && !keep(r)) {
			continue
		}
		sum += *r.Rating
		n++
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// ratingTrend compares the last 30 days (today included) with the 30 days
// before them.
func ratingTrend(reviews []domain.Review, today time.Time, loc *time.Location) float64 {
	recentFrom := addDays(today, -30)
	olderFrom := addDays(today, -60)
	olderTo := addDays(today, -31)

	dated := func(from, to time.Time) func(domain.Review) bool {
		return func(r domain.Review) bool {
			return r.CreatedAt != nil && between(dateOf(*r.CreatedAt, loc), from, to)
		}
	}
	return averageRating(reviews, dated(recentFrom, today)) - averageRating(reviews, dated(olderFrom, olderTo))
}

func shortWeekday(d time.Time) string { return d.Weekday().String()[:3] }

func shortMonth(d time.Time) string { return d.Month().String()[:3] }
