package models

import "time"

// SavingsTransaction is an append-only record of money put toward a goal.
// Each insertion increments the parent goal's current amount.
type SavingsTransaction struct {
	Base
	UserID          string    `gorm:"type:uuid;not null;index" json:"user_id"`
	GoalID          string    `gorm:"type:uuid;not null;index" json:"goal_id"`
	Amount          int64     `gorm:"type:bigint;not null" json:"amount"`
	Description     string    `json:"description"`
	TransactionDate time.Time `gorm:"not null" json:"transaction_date"`

	Goal *SavingsGoal `gorm:"foreignKey:GoalID" json:"goal,omitempty"`
}
