package analytics

import (
	"time"

	"spendwise/internal/models"
)

// Uncategorized is the category bucket for records without a category.
// Aggregation never drops a record: spend with a nil category id lands here
// instead of being silently excluded.
const Uncategorized = "uncategorized"

// CategoryTotals sums expense amounts grouped by category id.
func CategoryTotals(expenses []models.Expense) map[string]int64 {
	totals := make(map[string]int64)
	for _, e := range expenses {
		key := Uncategorized
		if e.CategoryID != nil {
			key = *e.CategoryID
		}
		totals[key] += e.Amount
	}
	return totals
}

// Total sums all expense amounts.
func Total(expenses []models.Expense) int64 {
	var sum int64
	for _, e := range expenses {
		sum += e.Amount
	}
	return sum
}

// DailyTotals sums expense amounts grouped by calendar day in loc.
func DailyTotals(expenses []models.Expense, loc *time.Location) map[string]int64 {
	totals := make(map[string]int64)
	for _, e := range expenses {
		totals[DayKey(e.CreatedAt, loc)] += e.Amount
	}
	return totals
}

// WeeklyPoint is one day of the weekly series.
type WeeklyPoint struct {
	Date   string `json:"date"`
	Amount int64  `json:"amount"`
}

// WeeklySeries returns exactly 7 points, oldest first, ending on now's
// calendar day. Days without expenses carry a zero amount.
func WeeklySeries(expenses []models.Expense, now time.Time) []WeeklyPoint {
	loc := now.Location()
	daily := DailyTotals(expenses, loc)

	firstDay := StartOfDay(now).AddDate(0, 0, -6)
	points := make([]WeeklyPoint, 0, 7)
	for i := 0; i < 7; i++ {
		day := firstDay.AddDate(0, 0, i)
		key := day.Format("2006-01-02")
		points = append(points, WeeklyPoint{Date: key, Amount: daily[key]})
	}
	return points
}

// DayAmount is a (calendar day, total) pair.
type DayAmount struct {
	Date   string `json:"date"`
	Amount int64  `json:"amount"`
}

// ExpenseStats summarizes a record set for the dashboard header.
type ExpenseStats struct {
	TotalSpent        int64     `json:"total_spent"`
	AvgPerDay         float64   `json:"avg_per_day"`
	HighestDay        DayAmount `json:"highest_day"`
	LowestDay         DayAmount `json:"lowest_day"`
	MonthlyProjection float64   `json:"monthly_projection"`
}

// Stats computes summary statistics over the record set. The average is per
// observed day (days with at least one expense), and the monthly projection
// extrapolates that average over 30 days. An empty set yields zero stats.
func Stats(expenses []models.Expense, loc *time.Location) ExpenseStats {
	if len(expenses) == 0 {
		return ExpenseStats{}
	}

	daily := DailyTotals(expenses, loc)

	var total int64
	highest := DayAmount{}
	lowest := DayAmount{Amount: -1}
	for day, amount := range daily {
		total += amount
		if amount > highest.Amount || (amount == highest.Amount && day < highest.Date) {
			highest = DayAmount{Date: day, Amount: amount}
		}
		if lowest.Amount < 0 || amount < lowest.Amount || (amount == lowest.Amount && day < lowest.Date) {
			lowest = DayAmount{Date: day, Amount: amount}
		}
	}

	avg := float64(total) / float64(len(daily))
	return ExpenseStats{
		TotalSpent:        total,
		AvgPerDay:         avg,
		HighestDay:        highest,
		LowestDay:         lowest,
		MonthlyProjection: avg * 30,
	}
}
