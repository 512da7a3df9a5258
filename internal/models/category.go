package models

// Category represents an expense category
type Category struct {
	Base
	UserID string `gorm:"type:uuid;not null" json:"user_id"`
	Name   string `gorm:"not null" json:"name"`
	Icon   string `json:"icon"`
	Color  string `json:"color"`

	Expenses []Expense `gorm:"foreignKey:CategoryID" json:"expenses,omitempty"`
}
