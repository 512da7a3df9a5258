package analytics

import (
	"math"
	"time"

	"spendwise/internal/models"
)

// GoalProgress is the derived view of a savings goal at one instant. It is
// recomputed on demand and never stored.
type GoalProgress struct {
	PercentageComplete   float64   `json:"percentage_complete"`
	DaysRemaining        int       `json:"days_remaining"`
	IsOnTrack            bool      `json:"is_on_track"`
	ProjectedCompletion  time.Time `json:"projected_completion"`
	RequiredDailySavings float64   `json:"required_daily_savings"`
	CurrentDailySavings  float64   `json:"current_daily_savings"`
	PastDue              bool      `json:"past_due"`
}

// Progress computes completion and rate figures for a goal at the given
// instant.
//
// DaysRemaining may be zero or negative for a past-due goal: that is reported
// via PastDue, never as an error. PercentageComplete is not clamped at 100;
// clamping for display is a presentation concern. Divisions are guarded: a
// goal with no elapsed days has a current rate of 0, a past-due goal has a
// required rate of 0, and a zero current rate projects completion totalDays
// out instead of dividing by zero.
func Progress(goal models.SavingsGoal, now time.Time) GoalProgress {
	totalDays := ceilDays(goal.TargetDate.Sub(goal.StartDate))
	daysRemaining := ceilDays(goal.TargetDate.Sub(now))
	daysPassed := totalDays - daysRemaining

	percentageComplete := 0.0
	if goal.TargetAmount > 0 {
		percentageComplete = float64(goal.CurrentAmount) / float64(goal.TargetAmount) * 100
	}

	currentDaily := 0.0
	if daysPassed > 0 {
		currentDaily = float64(goal.CurrentAmount) / float64(daysPassed)
	}

	requiredDaily := 0.0
	if daysRemaining > 0 {
		requiredDaily = float64(goal.TargetAmount-goal.CurrentAmount) / float64(daysRemaining)
	}

	projectedDays := totalDays
	if currentDaily > 0 {
		projectedDays = int(math.Ceil(float64(goal.TargetAmount-goal.CurrentAmount) / currentDaily))
	}

	return GoalProgress{
		PercentageComplete:   percentageComplete,
		DaysRemaining:        daysRemaining,
		IsOnTrack:            currentDaily >= requiredDaily,
		ProjectedCompletion:  now.AddDate(0, 0, projectedDays),
		RequiredDailySavings: requiredDaily,
		CurrentDailySavings:  currentDaily,
		PastDue:              daysRemaining <= 0 && goal.CurrentAmount < goal.TargetAmount,
	}
}

func ceilDays(d time.Duration) int {
	return int(math.Ceil(d.Hours() / 24))
}
