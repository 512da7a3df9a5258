// Package analytics contains the derived-analytics layer: pure functions
// that compute time-windowed aggregates, category trends, spending patterns,
// advisory insights, and savings-goal projections from flat record lists.
// Nothing here performs I/O or returns errors; guarded arithmetic keeps every
// function total over well-typed input.
package analytics

import "time"

// TimeWindow is a named, fixed-rule date range used to filter a record set
// before aggregation.
type TimeWindow string

const (
	WindowDaily   TimeWindow = "daily"
	WindowWeekly  TimeWindow = "weekly"
	WindowMonthly TimeWindow = "monthly"
	WindowRecent  TimeWindow = "recent"
)

// RecentWindowDays is the span of the widest window, in days.
const RecentWindowDays = 90

// Valid reports whether w is one of the known window keywords.
func (w TimeWindow) Valid() bool {
	switch w {
	case WindowDaily, WindowWeekly, WindowMonthly, WindowRecent:
		return true
	}
	return false
}

// Paginated reports whether listings for this window apply page/page_size
// slicing. The daily window always returns the full day.
func (w TimeWindow) Paginated() bool {
	return w != WindowDaily && w.Valid()
}

// Resolve returns the half-open interval [start, end) for the window at the
// given instant. All boundaries are calendar midnights in now's location:
//
//	daily   = [midnight today, midnight tomorrow)
//	weekly  = [7 days before midnight today, midnight tomorrow)
//	monthly = [1 calendar month before midnight today, midnight tomorrow)
//	recent  = [90 days before midnight today, midnight tomorrow)
//
// An unknown keyword resolves like daily. That silent fallback is deliberate:
// a stale or mistyped window in a query string degrades to today's view
// instead of failing the whole page.
func (w TimeWindow) Resolve(now time.Time) (start, end time.Time) {
	today := StartOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)

	switch w {
	case WindowWeekly:
		return today.AddDate(0, 0, -7), tomorrow
	case WindowMonthly:
		return today.AddDate(0, -1, 0), tomorrow
	case WindowRecent:
		return today.AddDate(0, 0, -RecentWindowDays), tomorrow
	default:
		return today, tomorrow
	}
}

// StartOfDay normalizes t to midnight of its calendar day. Day comparisons
// throughout this package go through this helper rather than string slicing,
// so timezone boundaries cannot split a day in two.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DayKey returns the ISO calendar-day key for t, evaluated in loc.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}
