package models

import "time"

// User represents the user model in the database
type User struct {
	Base
	Email               string     `gorm:"uniqueIndex;not null" json:"email"`
	Password            string     `gorm:"not null" json:"-"`
	Username            string     `json:"username"`
	AvatarURL           string     `json:"avatar_url,omitempty"`
	Phone               string     `json:"phone,omitempty"`
	IsActive            bool       `gorm:"default:true" json:"is_active"`
	RefreshTokenHash    string     `gorm:"size:64" json:"-"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LockedUntil         *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`

	Settings     *UserSettings        `gorm:"foreignKey:UserID" json:"settings,omitempty"`
	Categories   []Category           `gorm:"foreignKey:UserID" json:"categories,omitempty"`
	Expenses     []Expense            `gorm:"foreignKey:UserID" json:"expenses,omitempty"`
	SavingsGoals []SavingsGoal        `gorm:"foreignKey:UserID" json:"savings_goals,omitempty"`
	Transactions []SavingsTransaction `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
}
