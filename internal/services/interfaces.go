package services

import (
	"time"

	"spendwise/internal/analytics"
	"spendwise/internal/models"
	"spendwise/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, username string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	UpdateProfile(userID, username, avatarURL, phone string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
	ClearRefreshTokenHash(userID string) error
	RequestPasswordRecovery(email string) (*models.User, error)
	ResetPassword(userID, newPassword string) error
}

// CategoryAmount is a per-category spending total with the category's
// display attributes resolved.
type CategoryAmount struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	Icon       string `json:"icon,omitempty"`
	Color      string `json:"color,omitempty"`
	Total      int64  `json:"total"`
}

// ExpenseServicer defines the contract for expense-related business logic.
// It has two implementations: one backed by Postgres and one backed by the
// local JSON store, selected through configuration.
type ExpenseServicer interface {
	CreateExpense(userID string, amount int64, description string, categoryID *string, createdAt time.Time) (*models.Expense, error)
	GetExpenses(userID string, window analytics.TimeWindow, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)
	GetExpenseByID(userID, expenseID string) (*models.Expense, error)
	UpdateExpense(userID, expenseID string, amount int64, description string, categoryID *string) (*models.Expense, error)
	DeleteExpense(userID, expenseID string) error
	GetAllExpenses(userID string) ([]models.Expense, error)
	GetStats(userID string) (*analytics.ExpenseStats, error)
	GetWeeklySeries(userID string) ([]analytics.WeeklyPoint, error)
	GetCategoryBreakdown(userID string, window analytics.TimeWindow) ([]CategoryAmount, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	CreateCategory(userID, name, icon, color string) (*models.Category, error)
	GetUserCategories(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Category], error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	UpdateCategory(userID, categoryID, name, icon, color string) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
}

// SettingsServicer defines the contract for user settings business logic.
type SettingsServicer interface {
	GetSettings(userID string) (*models.UserSettings, error)
	UpdateSettings(userID string, dailyLimit *int64, currency *string) (*models.UserSettings, error)
}

// GoalServicer defines the contract for savings goal business logic.
type GoalServicer interface {
	CreateGoal(userID, title string, targetAmount int64, categoryID *string, startDate, targetDate time.Time) (*models.SavingsGoal, error)
	GetUserGoals(userID string, status *models.GoalStatus, page pagination.PageRequest) (*pagination.PageResponse[models.SavingsGoal], error)
	GetGoalByID(userID, goalID string) (*models.SavingsGoal, error)
	UpdateGoal(userID, goalID, title string, targetAmount *int64, targetDate *time.Time) (*models.SavingsGoal, error)
	DeleteGoal(userID, goalID string) error
	GetGoalProgress(userID, goalID string) (*analytics.GoalProgress, error)
	AddTransaction(userID, goalID string, amount int64, description string, date time.Time) (*models.SavingsTransaction, error)
	GetGoalTransactions(userID, goalID string, page pagination.PageRequest) (*pagination.PageResponse[models.SavingsTransaction], error)
	GetUserAchievements(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Achievement], error)
}

// InsightServicer defines the contract for spending insight generation.
type InsightServicer interface {
	GetInsights(userID string) ([]analytics.SpendingInsight, error)
}
