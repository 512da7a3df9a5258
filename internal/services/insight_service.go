package services

import (
	"spendwise/internal/analytics"
	"spendwise/internal/clock"
	"spendwise/internal/logger"
	"spendwise/internal/models"
)

// insightService produces spending insights from a user's expense history.
// It is storage-agnostic: any ExpenseServicer implementation can feed it.
type insightService struct {
	expenses ExpenseServicer
	clock    clock.Clock
}

// NewInsightService creates a new InsightServicer.
func NewInsightService(expenses ExpenseServicer, clk clock.Clock) InsightServicer {
	return &insightService{expenses: expenses, clock: clk}
}

// GetInsights computes the current insight set for a user: category trends
// over the last thirty days, weekday spending patterns, and an achievement
// when aggregate spending dropped. Results are ordered by priority, highest
// first.
func (s *insightService) GetInsights(userID string) ([]analytics.SpendingInsight, error) {
	expenses, err := s.expenses.GetAllExpenses(userID)
	if err != nil {
		return nil, err
	}

	valid, rejected := models.ScreenExpenses(expenses)
	if len(rejected) > 0 {
		logger.Get().Warnw("skipping malformed expense records",
			"user_id", userID,
			"rejected", len(rejected),
		)
	}

	now := s.clock.Now()
	trends := analytics.CategoryTrends(valid, now)
	patterns := analytics.SpendingPatterns(valid)
	return analytics.GenerateInsights(trends, patterns, now), nil
}
