package analytics

import (
	"sort"

	"spendwise/internal/models"
)

// SpendingPattern describes how often and how heavily a user spends on a
// given weekday. Weekday names are the English names from time.Weekday.
type SpendingPattern struct {
	Weekday         string  `json:"weekday"`
	AverageSpending float64 `json:"average_spending"`
	Frequency       int     `json:"frequency"`
}

// SpendingPatterns groups records by weekday, computes the average spend and
// occurrence count per weekday, and ranks the result by descending frequency.
// Only weekdays actually observed appear. Ties keep first-encountered order
// (the sort is stable).
func SpendingPatterns(expenses []models.Expense) []SpendingPattern {
	type bucket struct {
		total int64
		count int
	}
	buckets := make(map[string]*bucket)
	var order []string

	for _, e := range expenses {
		weekday := e.CreatedAt.Weekday().String()
		b, ok := buckets[weekday]
		if !ok {
			b = &bucket{}
			buckets[weekday] = b
			order = append(order, weekday)
		}
		b.total += e.Amount
		b.count++
	}

	patterns := make([]SpendingPattern, 0, len(order))
	for _, weekday := range order {
		b := buckets[weekday]
		patterns = append(patterns, SpendingPattern{
			Weekday:         weekday,
			AverageSpending: float64(b.total) / float64(b.count),
			Frequency:       b.count,
		})
	}

	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].Frequency > patterns[j].Frequency
	})
	return patterns
}
