package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// InsightKind classifies a generated insight.
type InsightKind string

const (
	InsightWarning     InsightKind = "warning"
	InsightTip         InsightKind = "tip"
	InsightAchievement InsightKind = "achievement"
	InsightTrend       InsightKind = "trend"
)

// InsightMetadata carries the numbers behind an insight for display.
type InsightMetadata struct {
	PercentageChange float64 `json:"percentage_change,omitempty"`
	ComparisonPeriod string  `json:"comparison_period,omitempty"`
	CurrentValue     float64 `json:"current_value,omitempty"`
}

// SpendingInsight is a ranked, human-readable advisory derived from trends
// and patterns. Insights are regenerated on every computation pass and never
// persisted.
type SpendingInsight struct {
	ID          string          `json:"id"`
	Kind        InsightKind     `json:"kind"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Priority    int             `json:"priority"` // 1-5, 5 highest
	CategoryID  string          `json:"category_id,omitempty"`
	Metadata    InsightMetadata `json:"metadata"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Rule thresholds for insight generation.
const (
	insightChangeThreshold  = 20.0 // |pct change| that triggers a trend insight
	insightSevereThreshold  = 50.0 // |pct change| that bumps priority to 5
	insightFrequencyMinimum = 5    // weekday occurrences needed for a pattern insight
	priorityCritical        = 5
	prioritySpendingShift   = 3
	priorityReduction       = 4
	priorityWeekdayPattern  = 2
)

// GenerateInsights derives advisory messages from category trends and
// weekday patterns. Each rule triggers independently:
//
//   - a trend with |change| > 20% emits a warning (increase) or trend
//     (decrease) insight, priority 5 when |change| > 50%, else 3;
//   - a weekday seen more than 5 times with positive average spend emits a
//     pattern insight, priority 2;
//   - when total current spend across all trends is below total previous
//     spend (and previous > 0), one achievement insight reports the
//     aggregate reduction, priority 4.
//
// The result is sorted by descending priority with a stable sort, so equal
// priorities keep their emission order.
func GenerateInsights(trends []CategoryTrend, patterns []SpendingPattern, now time.Time) []SpendingInsight {
	var insights []SpendingInsight

	for _, trend := range trends {
		if math.Abs(trend.PercentageChange) <= insightChangeThreshold {
			continue
		}

		kind := InsightTrend
		title := "Spending Decrease Noticed"
		direction := "decreased"
		if trend.PercentageChange > 0 {
			kind = InsightWarning
			title = "Spending Increase Alert"
			direction = "increased"
		}

		priority := prioritySpendingShift
		if math.Abs(trend.PercentageChange) > insightSevereThreshold {
			priority = priorityCritical
		}

		insights = append(insights, SpendingInsight{
			ID:          "cat-trend-" + trend.CategoryID,
			Kind:        kind,
			Title:       title,
			Description: fmt.Sprintf("Spending in this category has %s by %.1f%% compared to last month", direction, math.Abs(trend.PercentageChange)),
			Priority:    priority,
			CategoryID:  trend.CategoryID,
			Metadata: InsightMetadata{
				PercentageChange: trend.PercentageChange,
				ComparisonPeriod: "last month",
				CurrentValue:     float64(trend.CurrentAmount),
			},
			CreatedAt: now,
		})
	}

	for _, pattern := range patterns {
		if pattern.Frequency <= insightFrequencyMinimum || pattern.AverageSpending <= 0 {
			continue
		}
		insights = append(insights, SpendingInsight{
			ID:          "pattern-" + pattern.Weekday,
			Kind:        InsightTrend,
			Title:       "Spending Pattern Detected",
			Description: fmt.Sprintf("You tend to spend more on %ss", pattern.Weekday),
			Priority:    priorityWeekdayPattern,
			Metadata: InsightMetadata{
				CurrentValue: pattern.AverageSpending,
			},
			CreatedAt: now,
		})
	}

	var totalCurrent, totalPrevious int64
	for _, trend := range trends {
		totalCurrent += trend.CurrentAmount
		totalPrevious += trend.PreviousAmount
	}
	if totalCurrent < totalPrevious && totalPrevious > 0 {
		reduction := float64(totalPrevious-totalCurrent) / float64(totalPrevious) * 100
		insights = append(insights, SpendingInsight{
			ID:          "achievement-spending-decrease",
			Kind:        InsightAchievement,
			Title:       "Spending Reduction Achievement",
			Description: "Your overall spending has decreased compared to last month!",
			Priority:    priorityReduction,
			Metadata: InsightMetadata{
				PercentageChange: reduction,
			},
			CreatedAt: now,
		})
	}

	sort.SliceStable(insights, func(i, j int) bool {
		return insights[i].Priority > insights[j].Priority
	})
	return insights
}
