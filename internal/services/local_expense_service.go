package services

import (
	"os"
	"time"

	"spendwise/internal/analytics"
	"spendwise/internal/clock"
	apperrors "spendwise/internal/errors"
	"spendwise/internal/localstore"
	"spendwise/internal/models"
	"spendwise/internal/pagination"
	"spendwise/internal/uuid"
)

// localExpenseService implements ExpenseServicer on top of the JSON file
// store. It powers the local storage mode, where the API runs without a
// database. Category ownership cannot be checked here, so category IDs are
// stored as given; breakdowns report raw IDs.
type localExpenseService struct {
	store *localstore.Store
	clock clock.Clock
}

// NewLocalExpenseService creates an ExpenseServicer backed by the local
// JSON store.
func NewLocalExpenseService(store *localstore.Store, clk clock.Clock) ExpenseServicer {
	return &localExpenseService{store: store, clock: clk}
}

func (s *localExpenseService) CreateExpense(userID string, amount int64, description string, categoryID *string, createdAt time.Time) (*models.Expense, error) {
	if amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}
	if description == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description is required")
	}

	if createdAt.IsZero() {
		createdAt = s.clock.Now()
	}

	expense := models.Expense{
		Base: models.Base{
			ID:        uuid.New(),
			CreatedAt: createdAt,
			UpdatedAt: createdAt,
		},
		UserID:      userID,
		Amount:      amount,
		Description: description,
		CategoryID:  categoryID,
	}

	if err := s.store.Append(userID, expense); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

func (s *localExpenseService) GetExpenses(userID string, window analytics.TimeWindow, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	all, err := s.store.List(userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	start, end := window.Resolve(s.clock.Now())
	var inWindow []models.Expense
	for _, e := range all {
		if !e.CreatedAt.Before(start) && e.CreatedAt.Before(end) {
			inWindow = append(inWindow, e)
		}
	}

	if !window.Paginated() {
		result := pagination.NewUnpagedResponse(inWindow)
		return &result, nil
	}

	page.Defaults()
	paged := pagination.Slice(inWindow, page)
	result := pagination.NewPageResponse(paged, page.Page, page.PageSize, int64(len(inWindow)))
	return &result, nil
}

func (s *localExpenseService) GetExpenseByID(userID, expenseID string) (*models.Expense, error) {
	expense, err := s.store.Get(userID, expenseID)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

func (s *localExpenseService) UpdateExpense(userID, expenseID string, amount int64, description string, categoryID *string) (*models.Expense, error) {
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

	expense.Amount = amount
	expense.Description = description
	expense.CategoryID = categoryID
	expense.UpdatedAt = s.clock.Now()

	if err := s.store.Update(userID, *expense); err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

func (s *localExpenseService) DeleteExpense(userID, expenseID string) error {
	if err := s.store.Delete(userID, expenseID); err != nil {
		if os.IsNotExist(err) {
			return apperrors.ErrExpenseNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

func (s *localExpenseService) GetAllExpenses(userID string) ([]models.Expense, error) {
	all, err := s.store.List(userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// One malformed row in the file must not poison derived results.
	valid, _ := models.ScreenExpenses(all)
	return valid, nil
}

func (s *localExpenseService) GetStats(userID string) (*analytics.ExpenseStats, error) {
	expenses, err := s.GetAllExpenses(userID)
	if err != nil {
		return nil, err
	}
	stats := analytics.Stats(expenses, s.clock.Now().Location())
	return &stats, nil
}

func (s *localExpenseService) GetWeeklySeries(userID string) ([]analytics.WeeklyPoint, error) {
	expenses, err := s.GetAllExpenses(userID)
	if err != nil {
		return nil, err
	}
	return analytics.WeeklySeries(expenses, s.clock.Now()), nil
}

func (s *localExpenseService) GetCategoryBreakdown(userID string, window analytics.TimeWindow) ([]CategoryAmount, error) {
	expenses, err := s.GetAllExpenses(userID)
	if err != nil {
		return nil, err
	}

	start, end := window.Resolve(s.clock.Now())
	var inWindow []models.Expense
	for i := len(expenses) - 1; i >= 0; i-- { // oldest first for stable ordering
		e := expenses[i]
		if !e.CreatedAt.Before(start) && e.CreatedAt.Before(end) {
			inWindow = append(inWindow, e)
		}
	}

	totals := analytics.CategoryTotals(inWindow)

	var breakdown []CategoryAmount
	seen := make(map[string]bool, len(totals))
	for _, e := range inWindow {
		id := analytics.Uncategorized
		if e.CategoryID != nil {
			id = *e.CategoryID
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		entry := CategoryAmount{CategoryID: id, Total: totals[id]}
		if id == analytics.Uncategorized {
			entry.Name = analytics.Uncategorized
		}
		breakdown = append(breakdown, entry)
	}

	return breakdown, nil
}
