package models

// UserSettings holds per-user preferences used by the spending views.
// DailyLimit is the soft daily spending budget in cents; zero means no limit.
type UserSettings struct {
	Base
	UserID     string `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	DailyLimit int64  `gorm:"type:bigint;default:0" json:"daily_limit"`
	Currency   string `gorm:"size:3;default:USD" json:"currency"`
}
