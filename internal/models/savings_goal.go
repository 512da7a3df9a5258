package models

import "time"

// GoalStatus represents the lifecycle state of a savings goal
type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusFailed    GoalStatus = "failed"
)

// SavingsGoal represents a target amount to be saved by a target date.
// CurrentAmount only grows through recorded savings transactions. The goal
// transitions active -> completed when CurrentAmount reaches TargetAmount;
// the failed state exists for external tooling and is never set here.
type SavingsGoal struct {
	Base
	UserID        string     `gorm:"type:uuid;not null;index" json:"user_id"`
	Title         string     `gorm:"not null" json:"title"`
	TargetAmount  int64      `gorm:"type:bigint;not null" json:"target_amount"`
	CurrentAmount int64      `gorm:"type:bigint;default:0" json:"current_amount"`
	CategoryID    *string    `gorm:"type:uuid" json:"category_id,omitempty"`
	StartDate     time.Time  `gorm:"not null" json:"start_date"`
	TargetDate    time.Time  `gorm:"not null" json:"target_date"`
	Status        GoalStatus `gorm:"not null;default:active" json:"status"`

	Category     *Category            `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Transactions []SavingsTransaction `gorm:"foreignKey:GoalID" json:"transactions,omitempty"`
}
