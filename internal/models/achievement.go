package models

import "time"

// AchievementType classifies how an achievement was earned
type AchievementType string

const (
	AchievementTypeMilestone  AchievementType = "milestone"
	AchievementTypeCompletion AchievementType = "completion"
	AchievementTypeStreak     AchievementType = "streak"
)

// Achievement is a persistent record of a user milestone, such as
// completing a savings goal.
type Achievement struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Type        AchievementType `gorm:"not null" json:"type"`
	Title       string          `gorm:"not null" json:"title"`
	Description string          `json:"description"`
	Icon        string          `json:"icon"`
	AchievedAt  time.Time       `gorm:"not null" json:"achieved_at"`
}
