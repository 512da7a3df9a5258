package analytics

import (
	"testing"
	"time"

	"spendwise/internal/models"
)

func goalFixture(target, current int64, start, targetDate time.Time) models.SavingsGoal {
	return models.SavingsGoal{
		Title:         "Vacation fund",
		TargetAmount:  target,
		CurrentAmount: current,
		StartDate:     start,
		TargetDate:    targetDate,
		Status:        models.GoalStatusActive,
	}
}

func TestProgress(t *testing.T) {
	now := time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC)

	t.Run("forty_days_in_sixty_day_goal", func(t *testing.T) {
		start := now.AddDate(0, 0, -40)
		goal := goalFixture(1000, 400, start, start.AddDate(0, 0, 60))

		p := Progress(goal, now)
		if p.DaysRemaining != 20 {
			t.Errorf("expected 20 days remaining, got %d", p.DaysRemaining)
		}
		if p.RequiredDailySavings != 30 {
			t.Errorf("expected required daily 30, got %f", p.RequiredDailySavings)
		}
		if p.CurrentDailySavings != 10 {
			t.Errorf("expected current daily 10, got %f", p.CurrentDailySavings)
		}
		if p.PercentageComplete != 40 {
			t.Errorf("expected 40%%, got %f", p.PercentageComplete)
		}
		if p.IsOnTrack {
			t.Error("saving 10/day against a required 30/day is not on track")
		}
		if p.PastDue {
			t.Error("goal with 20 days remaining is not past due")
		}
		// 600 still to save at 10/day projects 60 days out.
		if want := now.AddDate(0, 0, 60); !p.ProjectedCompletion.Equal(want) {
			t.Errorf("expected projection %v, got %v", want, p.ProjectedCompletion)
		}
	})

	t.Run("at_target_is_complete_and_on_track", func(t *testing.T) {
		start := now.AddDate(0, 0, -10)
		goal := goalFixture(5000, 5000, start, start.AddDate(0, 0, 90))

		p := Progress(goal, now)
		if p.PercentageComplete != 100 {
			t.Errorf("expected exactly 100%%, got %f", p.PercentageComplete)
		}
		if !p.IsOnTrack {
			t.Error("a goal at target must be on track regardless of dates")
		}
		if p.RequiredDailySavings != 0 {
			t.Errorf("nothing left to save, required daily should be 0, got %f", p.RequiredDailySavings)
		}
	})

	t.Run("past_due_is_reported_not_an_error", func(t *testing.T) {
		start := now.AddDate(0, 0, -100)
		goal := goalFixture(1000, 300, start, start.AddDate(0, 0, 30))

		p := Progress(goal, now)
		if p.DaysRemaining > 0 {
			t.Errorf("expected non-positive days remaining, got %d", p.DaysRemaining)
		}
		if !p.PastDue {
			t.Error("incomplete goal past its target date should be past due")
		}
		if p.RequiredDailySavings != 0 {
			t.Errorf("past-due required daily must be guarded to 0, got %f", p.RequiredDailySavings)
		}
	})

	t.Run("overfunded_goal_exceeds_hundred_percent", func(t *testing.T) {
		start := now.AddDate(0, 0, -10)
		goal := goalFixture(1000, 1200, start, start.AddDate(0, 0, 30))

		p := Progress(goal, now)
		if p.PercentageComplete != 120 {
			t.Errorf("percentage is not clamped: expected 120, got %f", p.PercentageComplete)
		}
		if p.PastDue {
			t.Error("overfunded goal is never past due")
		}
	})

	t.Run("zero_rate_projects_total_days_ahead", func(t *testing.T) {
		// Goal starts today: no days passed, so the current rate is 0.
		goal := goalFixture(1000, 0, now, now.AddDate(0, 0, 30))

		p := Progress(goal, now)
		if p.CurrentDailySavings != 0 {
			t.Errorf("expected zero current rate, got %f", p.CurrentDailySavings)
		}
		if want := now.AddDate(0, 0, 30); !p.ProjectedCompletion.Equal(want) {
			t.Errorf("expected fallback projection %v, got %v", want, p.ProjectedCompletion)
		}
	})

	t.Run("fresh_on_track_goal", func(t *testing.T) {
		start := now.AddDate(0, 0, -10)
		goal := goalFixture(3000, 1500, start, start.AddDate(0, 0, 30))

		p := Progress(goal, now)
		// 150/day saved vs 75/day required.
		if !p.IsOnTrack {
			t.Errorf("expected on track: current %f, required %f", p.CurrentDailySavings, p.RequiredDailySavings)
		}
	})
}
