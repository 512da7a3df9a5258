package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"spendwise/internal/analytics"
	"spendwise/internal/cache"
	"spendwise/internal/clock"
	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
	"spendwise/internal/pagination"
)

// expenseService handles expense-related business logic backed by Postgres.
// Recent expense sets feeding the analytics endpoints are cached per user
// and invalidated on any write.
type expenseService struct {
	db    *gorm.DB
	cache cache.Cache[[]models.Expense]
	clock clock.Clock
}

// NewExpenseService creates a new Postgres-backed ExpenseServicer.
func NewExpenseService(db *gorm.DB, c cache.Cache[[]models.Expense], clk clock.Clock) ExpenseServicer {
	return &expenseService{db: db, cache: c, clock: clk}
}

func expenseCacheKey(userID string) string {
	return fmt.Sprintf("expenses:%s:all", userID)
}

// invalidate drops every cached expense set for a user.
func (s *expenseService) invalidate(userID string) {
	if s.cache != nil {
		s.cache.DeletePrefix("expenses:" + userID)
	}
}

// CreateExpense records a new expense. A zero createdAt means now. The
// category, when given, must belong to the user.
func (s *expenseService) CreateExpense(userID string, amount int64, description string, categoryID *string, createdAt time.Time) (*models.Expense, error) {
	if amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}
	if description == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}

	if categoryID != nil {
		var count int64
		if err := s.db.Model(&models.Category{}).
			Where("id = ? AND user_id = ?", *categoryID, userID).
			Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return nil, apperrors.ErrCategoryNotFound
		}
	}

	if createdAt.IsZero() {
		createdAt = s.clock.Now()
	}

	expense := &models.Expense{
		UserID:      userID,
		Amount:      amount,
		Description: description,
		CategoryID:  categoryID,
	}
	expense.CreatedAt = createdAt

	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.invalidate(userID)
	return expense, nil
}

// GetExpenses retrieves a user's expenses within a time window, newest
// first. The daily window returns everything in one page; the other windows
// paginate.
func (s *expenseService) GetExpenses(userID string, window analytics.TimeWindow, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	start, end := window.Resolve(s.clock.Now())

	base := s.db.Model(&models.Expense{}).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, start, end)

	if !window.Paginated() {
		var expenses []models.Expense
		if err := base.Order("created_at DESC").Preload("Category").Find(&expenses).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		result := pagination.NewUnpagedResponse(expenses)
		return &result, nil
	}

	page.Defaults()

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := base.Order("created_at DESC").
		Scopes(pagination.Paginate(page)).
		Preload("Category").
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetExpenseByID retrieves an expense by ID for a specific user
func (s *expenseService) GetExpenseByID(userID, expenseID string) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Where("id = ? AND user_id = ?", expenseID, userID).
		Preload("Category").
		First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// UpdateExpense updates an expense's amount, description and category.
func (s *expenseService) UpdateExpense(userID, expenseID string, amount int64, description string, categoryID *string) (*models.Expense, error) {
	if amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}
	if description == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}

	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return nil, err
	}

	if categoryID != nil {
		var count int64
		if err := s.db.Model(&models.Category{}).
			Where("id = ? AND user_id = ?", *categoryID, userID).
			Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return nil, apperrors.ErrCategoryNotFound
		}
	}

	expense.Amount = amount
	expense.Description = description
	expense.CategoryID = categoryID
	expense.Category = nil

	if err := s.db.Model(expense).Updates(map[string]interface{}{
		"amount":      amount,
		"description": description,
		"category_id": categoryID,
	}).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.invalidate(userID)
	return expense, nil
}

// DeleteExpense removes an expense
func (s *expenseService) DeleteExpense(userID, expenseID string) error {
	result := s.db.Where("id = ? AND user_id = ?", expenseID, userID).Delete(&models.Expense{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrExpenseNotFound
	}

	s.invalidate(userID)
	return nil
}

// GetAllExpenses returns every expense for a user, served from the per-user
// cache when warm.
func (s *expenseService) GetAllExpenses(userID string) ([]models.Expense, error) {
	key := expenseCacheKey(userID)
	if s.cache != nil {
		if expenses, ok := s.cache.Get(key); ok {
			return expenses, nil
		}
	}

	var expenses []models.Expense
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if s.cache != nil {
		s.cache.Set(key, expenses)
	}
	return expenses, nil
}

// GetStats computes overall spending statistics for a user.
func (s *expenseService) GetStats(userID string) (*analytics.ExpenseStats, error) {
	expenses, err := s.GetAllExpenses(userID)
	if err != nil {
		return nil, err
	}

	stats := analytics.Stats(expenses, s.clock.Now().Location())
	return &stats, nil
}

// GetWeeklySeries returns the seven-day spending series ending today.
func (s *expenseService) GetWeeklySeries(userID string) ([]analytics.WeeklyPoint, error) {
	expenses, err := s.GetAllExpenses(userID)
	if err != nil {
		return nil, err
	}
	return analytics.WeeklySeries(expenses, s.clock.Now()), nil
}

// GetCategoryBreakdown returns per-category totals within a time window,
// with category display attributes resolved. Uncategorized spend is bucketed
// under its own entry.
func (s *expenseService) GetCategoryBreakdown(userID string, window analytics.TimeWindow) ([]CategoryAmount, error) {
	start, end := window.Resolve(s.clock.Now())

	var expenses []models.Expense
	if err := s.db.Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, start, end).
		Order("created_at ASC").
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var categories []models.Category
	if err := s.db.Where("user_id = ?", userID).Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	names := make(map[string]models.Category, len(categories))
	for _, c := range categories {
		names[c.ID] = c
	}

	totals := analytics.CategoryTotals(expenses)

	// First-encountered order keeps the result deterministic.
	var breakdown []CategoryAmount
	seen := make(map[string]bool, len(totals))
	for _, e := range expenses {
		id := analytics.Uncategorized
		if e.CategoryID != nil {
			id = *e.CategoryID
		}
		if seen[id] {
			continue
		}
		seen[id] = true

		entry := CategoryAmount{CategoryID: id, Name: analytics.Uncategorized, Total: totals[id]}
		if c, ok := names[id]; ok {
			entry.Name = c.Name
			entry.Icon = c.Icon
			entry.Color = c.Color
		}
		breakdown = append(breakdown, entry)
	}

	return breakdown, nil
}
