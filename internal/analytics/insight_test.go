package analytics

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateInsights(t *testing.T) {
	now := time.Date(2025, 6, 18, 12, 0, 0, 0, time.UTC)

	t.Run("large_increase_emits_warning", func(t *testing.T) {
		trends := []CategoryTrend{
			{CategoryID: "food", PreviousAmount: 100, CurrentAmount: 130, PercentageChange: 30, Trend: TrendIncreasing},
		}

		insights := GenerateInsights(trends, nil, now)
		if len(insights) != 1 {
			t.Fatalf("expected 1 insight, got %d", len(insights))
		}
		in := insights[0]
		if in.Kind != InsightWarning {
			t.Errorf("expected warning, got %s", in.Kind)
		}
		if in.Priority != 3 {
			t.Errorf("expected priority 3 for 30%% change, got %d", in.Priority)
		}
		if in.CategoryID != "food" {
			t.Errorf("expected category food, got %s", in.CategoryID)
		}
		if !strings.Contains(in.Description, "increased by 30.0%") {
			t.Errorf("unexpected description: %s", in.Description)
		}
	})

	t.Run("severe_change_gets_priority_five", func(t *testing.T) {
		trends := []CategoryTrend{
			{CategoryID: "travel", PreviousAmount: 100, CurrentAmount: 300, PercentageChange: 200, Trend: TrendIncreasing},
		}

		insights := GenerateInsights(trends, nil, now)
		if insights[0].Priority != 5 {
			t.Errorf("expected priority 5, got %d", insights[0].Priority)
		}
	})

	t.Run("decrease_emits_trend_insight", func(t *testing.T) {
		trends := []CategoryTrend{
			{CategoryID: "games", PreviousAmount: 200, CurrentAmount: 140, PercentageChange: -30, Trend: TrendDecreasing},
		}

		insights := GenerateInsights(trends, nil, now)
		// -30% also triggers the aggregate reduction achievement.
		if len(insights) != 2 {
			t.Fatalf("expected 2 insights, got %d", len(insights))
		}
		if insights[0].Kind != InsightAchievement || insights[0].Priority != 4 {
			t.Errorf("expected achievement first, got %+v", insights[0])
		}
		if insights[1].Kind != InsightTrend || insights[1].Priority != 3 {
			t.Errorf("expected trend second, got %+v", insights[1])
		}
		if !strings.Contains(insights[1].Description, "decreased by 30.0%") {
			t.Errorf("unexpected description: %s", insights[1].Description)
		}
	})

	t.Run("small_changes_emit_nothing", func(t *testing.T) {
		trends := []CategoryTrend{
			{CategoryID: "food", PreviousAmount: 100, CurrentAmount: 120, PercentageChange: 20, Trend: TrendIncreasing},
			{CategoryID: "rent", PreviousAmount: 100, CurrentAmount: 100, PercentageChange: 0, Trend: TrendStable},
		}

		if insights := GenerateInsights(trends, nil, now); len(insights) != 0 {
			t.Errorf("expected no insights for |change| <= 20, got %+v", insights)
		}
	})

	t.Run("frequent_weekday_emits_pattern_insight", func(t *testing.T) {
		patterns := []SpendingPattern{
			{Weekday: "Friday", AverageSpending: 120, Frequency: 6},
			{Weekday: "Monday", AverageSpending: 80, Frequency: 5}, // not > 5
			{Weekday: "Sunday", AverageSpending: 0, Frequency: 10}, // zero average
		}

		insights := GenerateInsights(nil, patterns, now)
		if len(insights) != 1 {
			t.Fatalf("expected 1 insight, got %d", len(insights))
		}
		if insights[0].Priority != 2 || !strings.Contains(insights[0].Description, "Fridays") {
			t.Errorf("unexpected pattern insight: %+v", insights[0])
		}
	})

	t.Run("no_achievement_when_previous_is_zero", func(t *testing.T) {
		trends := []CategoryTrend{
			{CategoryID: "a", PreviousAmount: 0, CurrentAmount: 0, PercentageChange: 0, Trend: TrendStable},
		}
		for _, in := range GenerateInsights(trends, nil, now) {
			if in.Kind == InsightAchievement {
				t.Errorf("achievement emitted with zero previous spend")
			}
		}
	})

	t.Run("aggregate_reduction_metadata", func(t *testing.T) {
		trends := []CategoryTrend{
			{CategoryID: "a", PreviousAmount: 300, CurrentAmount: 150, PercentageChange: -50, Trend: TrendDecreasing},
			{CategoryID: "b", PreviousAmount: 100, CurrentAmount: 150, PercentageChange: 50, Trend: TrendIncreasing},
		}

		insights := GenerateInsights(trends, nil, now)
		var achievement *SpendingInsight
		for i := range insights {
			if insights[i].Kind == InsightAchievement {
				achievement = &insights[i]
			}
		}
		if achievement == nil {
			t.Fatal("expected an achievement insight")
		}
		// 400 -> 300 overall is a 25% reduction.
		if achievement.Metadata.PercentageChange != 25 {
			t.Errorf("expected 25%% reduction, got %f", achievement.Metadata.PercentageChange)
		}
	})

	t.Run("sorted_by_priority_with_stable_ties", func(t *testing.T) {
		trends := []CategoryTrend{
			{CategoryID: "first", PreviousAmount: 100, CurrentAmount: 140, PercentageChange: 40, Trend: TrendIncreasing},
			{CategoryID: "second", PreviousAmount: 100, CurrentAmount: 135, PercentageChange: 35, Trend: TrendIncreasing},
			{CategoryID: "severe", PreviousAmount: 100, CurrentAmount: 200, PercentageChange: 100, Trend: TrendIncreasing},
		}

		insights := GenerateInsights(trends, nil, now)
		if len(insights) != 3 {
			t.Fatalf("expected 3 insights, got %d", len(insights))
		}
		if insights[0].CategoryID != "severe" {
			t.Errorf("expected severe trend first, got %s", insights[0].CategoryID)
		}
		// Both priority-3 insights keep their emission order.
		if insights[1].CategoryID != "first" || insights[2].CategoryID != "second" {
			t.Errorf("tie order not stable: %s then %s", insights[1].CategoryID, insights[2].CategoryID)
		}
		for i := 1; i < len(insights); i++ {
			if insights[i-1].Priority < insights[i].Priority {
				t.Errorf("insights not sorted by priority descending")
			}
		}
	})
}
