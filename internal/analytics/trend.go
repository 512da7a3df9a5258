package analytics

import (
	"time"

	"spendwise/internal/models"
)

// trendPeriod is the length of the comparison window: the trailing 30 days
// against everything older.
const trendPeriod = 30 * 24 * time.Hour

// Classification thresholds for percentage change. The boundaries are strict:
// a change of exactly ±10% is still stable.
const (
	trendIncreaseThreshold = 10.0
	trendDecreaseThreshold = -10.0
)

// TrendLabel classifies a category's spending change.
type TrendLabel string

const (
	TrendIncreasing TrendLabel = "increasing"
	TrendDecreasing TrendLabel = "decreasing"
	TrendStable     TrendLabel = "stable"
)

// CategoryTrend compares a category's trailing-30-day spend against the
// preceding period.
type CategoryTrend struct {
	CategoryID       string     `json:"category_id"`
	PreviousAmount   int64      `json:"previous_amount"`
	CurrentAmount    int64      `json:"current_amount"`
	PercentageChange float64    `json:"percentage_change"`
	Trend            TrendLabel `json:"trend"`
}

// CategoryTrends partitions each record into the current period (created_at
// within 30 days of now) or the previous period (older) and computes the
// per-category percentage change. Categories appear in first-encountered
// record order. Records without a category are skipped: trends exist to be
// attributed to a concrete category, while uncategorized spend is still
// covered by CategoryTotals.
//
// When the previous-period total is 0 the denominator is substituted with 1,
// so a brand-new spending category reports a change of current x 100. That is
// intentional: new spend should surface as a large positive swing.
func CategoryTrends(expenses []models.Expense, now time.Time) []CategoryTrend {
	cutoff := now.Add(-trendPeriod)

	type periodTotals struct {
		current  int64
		previous int64
	}
	totals := make(map[string]*periodTotals)
	var order []string

	for _, e := range expenses {
		if e.CategoryID == nil {
			continue
		}
		id := *e.CategoryID
		t, ok := totals[id]
		if !ok {
			t = &periodTotals{}
			totals[id] = t
			order = append(order, id)
		}
		if !e.CreatedAt.Before(cutoff) {
			t.current += e.Amount
		} else {
			t.previous += e.Amount
		}
	}

	trends := make([]CategoryTrend, 0, len(order))
	for _, id := range order {
		t := totals[id]
		denominator := t.previous
		if denominator == 0 {
			denominator = 1
		}
		change := float64(t.current-t.previous) / float64(denominator) * 100

		label := TrendStable
		switch {
		case change > trendIncreaseThreshold:
			label = TrendIncreasing
		case change < trendDecreaseThreshold:
			label = TrendDecreasing
		}

		trends = append(trends, CategoryTrend{
			CategoryID:       id,
			PreviousAmount:   t.previous,
			CurrentAmount:    t.current,
			PercentageChange: change,
			Trend:            label,
		})
	}
	return trends
}
