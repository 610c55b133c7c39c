// Package analytics turns order and review history into dashboard series.
// Everything here is pure: callers pass the clock, the zone and the rows.
package analytics

import (
	"strings"
	"time"
)

type TimeRange string

const (
	RangeWeek    TimeRange = "week"
	RangeMonth   TimeRange = "month"
	RangeQuarter TimeRange = "quarter"
	RangeYear    TimeRange = "year"
)

// ParseTimeRange folds s to a known range. Empty or unknown input is a month.
func ParseTimeRange(s string) TimeRange {
	switch r := TimeRange(strings.ToLower(strings.TrimSpace(s))); r {
	case RangeWeek, RangeMonth, RangeQuarter, RangeYear:
		return r
	default:
		return RangeMonth
	}
}

// Window is an inclusive span of local calendar dates. Start and End are
// midnights in the window's location.
type Window struct {
	Start time.Time
	End   time.Time
	Range TimeRange
}

// ResolveWindow ends the window on now's local date and reaches back by the
// range: 6 days, 1 month, 3 months or 1 year.
func ResolveWindow(now time.Time, loc *time.Location, r TimeRange) Window {
	end := dateOf(now, loc)
	var start time.Time
	switch r {
	case RangeWeek:
		start = addDays(end, -6)
	case RangeQuarter:
		start = addMonths(end, -3)
	case RangeYear:
		start = addMonths(end, -12)
	default:
		r = RangeMonth
		start = addMonths(end, -1)
	}
	return Window{Start: start, End: end, Range: r}
}

// Days counts the dates in the window, both ends included.
func (w Window) Days() int {
	return daysBetween(w.Start, w.End) + 1
}

// Previous is the window of equal length that ends the day before w starts.
func (w Window) Previous() Window {
	return Window{
		Start: addDays(w.Start, -w.Days()),
		End:   addDays(w.Start, -1),
		Range: w.Range,
	}
}

// Bounds returns the half-open instant range [start of Start, start of End+1).
func (w Window) Bounds() (from, to time.Time) {
	return w.Start, addDays(w.End, 1)
}

func (w Window) Contains(t time.Time) bool {
	from, to := w.Bounds()
	return !t.Before(from) && t.Before(to)
}

func dateOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func addDays(d time.Time, n int) time.Time {
	y, m, dd := d.Date()
	return time.Date(y, m, dd+n, 0, 0, 0, 0, d.Location())
}

// addMonths moves by n calendar months and clamps the day to the target
// month's length, so Mar 31 minus one month is Feb 28 (or 29).
func addMonths(d time.Time, n int) time.Time {
	y, m, dd := d.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, d.Location())
	if last := daysIn(first); dd > last {
		dd = last
	}
	return time.Date(first.Year(), first.Month(), dd, 0, 0, 0, 0, d.Location())
}

func firstOfMonth(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
}

func daysIn(d time.Time) int {
	return time.Date(d.Year(), d.Month()+1, 0, 0, 0, 0, 0, d.Location()).Day()
}

func daysBetween(a, b time.Time) int {
	civil := func(t time.Time) time.Time {
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	return int(civil(b).Sub(civil(a)).Hours() / 24)
}

func minDate(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

// between reports whether the local date d lies in [from, to].
func between(d, from, to time.Time) bool {
	return !d.Before(from) && !d.After(to)
}
