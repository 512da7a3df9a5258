package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"spendwise/internal/analytics"
	"spendwise/internal/clock"
	apperrors "spendwise/internal/errors"
	"spendwise/internal/eventbus"
	"spendwise/internal/logger"
	"spendwise/internal/models"
	"spendwise/internal/pagination"
)

// goalService handles savings goal business logic.
type goalService struct {
	db    *gorm.DB
	bus   *eventbus.Bus
	clock clock.Clock
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(db *gorm.DB, bus *eventbus.Bus, clk clock.Clock) GoalServicer {
	return &goalService{db: db, bus: bus, clock: clk}
}

// CreateGoal creates a new savings goal in the active state.
func (s *goalService) CreateGoal(userID, title string, targetAmount int64, categoryID *string, startDate, targetDate time.Time) (*models.SavingsGoal, error) {
	if title == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "goal title is required")
	}
	if targetAmount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}
	if startDate.IsZero() {
		startDate = s.clock.Now()
	}
	if !targetDate.After(startDate) {
		return nil, apperrors.ErrInvalidDateRange
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

	goal := &models.SavingsGoal{
		UserID:       userID,
		Title:        title,
		TargetAmount: targetAmount,
		CategoryID:   categoryID,
		StartDate:    startDate,
		TargetDate:   targetDate,
		Status:       models.GoalStatusActive,
	}

	if err := s.db.Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return goal, nil
}

// GetUserGoals retrieves a paginated list of goals, optionally filtered by
// status.
func (s *goalService) GetUserGoals(userID string, status *models.GoalStatus, page pagination.PageRequest) (*pagination.PageResponse[models.SavingsGoal], error) {
	page.Defaults()

	base := s.db.Model(&models.SavingsGoal{}).Where("user_id = ?", userID)
	if status != nil {
		base = base.Where("status = ?", *status)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var goals []models.SavingsGoal
	if err := base.Order("created_at DESC").Scopes(pagination.Paginate(page)).Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(goals, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetGoalByID retrieves a goal by ID for a specific user
func (s *goalService) GetGoalByID(userID, goalID string) (*models.SavingsGoal, error) {
	var goal models.SavingsGoal
	if err := s.db.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

// UpdateGoal updates a goal's title, target amount and target date. Nil
// fields are left unchanged. Completed goals cannot be edited.
func (s *goalService) UpdateGoal(userID, goalID, title string, targetAmount *int64, targetDate *time.Time) (*models.SavingsGoal, error) {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}
	if goal.Status != models.GoalStatusActive {
		return nil, apperrors.ErrGoalNotActive
	}

	updates := map[string]interface{}{}
	if title != "" {
		goal.Title = title
		updates["title"] = title
	}
	if targetAmount != nil {
		if *targetAmount <= 0 {
			return nil, apperrors.ErrInvalidAmount
		}
		goal.TargetAmount = *targetAmount
		updates["target_amount"] = *targetAmount
	}
	if targetDate != nil {
		if !targetDate.After(goal.StartDate) {
			return nil, apperrors.ErrInvalidDateRange
		}
		goal.TargetDate = *targetDate
		updates["target_date"] = *targetDate
	}

	if len(updates) == 0 {
		return goal, nil
	}

	if err := s.db.Model(goal).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goal, nil
}

// DeleteGoal removes a goal and its transaction history.
func (s *goalService) DeleteGoal(userID, goalID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ?", goalID, userID).Delete(&models.SavingsGoal{})
		if result.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrGoalNotFound
		}

		if err := tx.Where("user_id = ? AND goal_id = ?", userID, goalID).
			Delete(&models.SavingsTransaction{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// GetGoalProgress computes the derived progress view for a goal.
func (s *goalService) GetGoalProgress(userID, goalID string) (*analytics.GoalProgress, error) {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	progress := analytics.Progress(*goal, s.clock.Now())
	return &progress, nil
}

// AddTransaction records money put toward a goal. The transaction insert and
// the goal's current amount increment are atomic. Reaching the target
// transitions the goal to completed and records exactly one completion
// achievement.
func (s *goalService) AddTransaction(userID, goalID string, amount int64, description string, date time.Time) (*models.SavingsTransaction, error) {
	if amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}
	if date.IsZero() {
		date = s.clock.Now()
	}

	var transaction *models.SavingsTransaction
	var completedEvent *eventbus.GoalCompletedEvent

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var goal models.SavingsGoal
		if err := tx.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrGoalNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if goal.Status != models.GoalStatusActive {
			return apperrors.ErrGoalNotActive
		}

		transaction = &models.SavingsTransaction{
			UserID:          userID,
			GoalID:          goalID,
			Amount:          amount,
			Description:     description,
			TransactionDate: date,
		}
		if err := tx.Create(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		goal.CurrentAmount += amount
		updates := map[string]interface{}{"current_amount": goal.CurrentAmount}

		if goal.CurrentAmount >= goal.TargetAmount {
			goal.Status = models.GoalStatusCompleted
			updates["status"] = models.GoalStatusCompleted

			achievement := &models.Achievement{
				UserID:      userID,
				Type:        models.AchievementTypeCompletion,
				Title:       "Goal Achieved!",
				Description: fmt.Sprintf("You completed your savings goal %q", goal.Title),
				Icon:        "trophy",
				AchievedAt:  s.clock.Now(),
			}
			if err := tx.Create(achievement).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}

			completedEvent = &eventbus.GoalCompletedEvent{
				UserID:        userID,
				GoalID:        goalID,
				Title:         goal.Title,
				AchievementID: achievement.ID,
			}
		}

		if err := tx.Model(&goal).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Publish only after the transaction has committed
	if completedEvent != nil && s.bus != nil {
		if err := s.bus.Publish(eventbus.NewEvent(eventbus.EventGoalCompleted, *completedEvent)); err != nil {
			logger.Get().Warnw("goal completion event delivery failed",
				"goal_id", goalID,
				"error", err.Error(),
			)
		}
	}

	return transaction, nil
}

// GetGoalTransactions retrieves a goal's transactions, newest first.
func (s *goalService) GetGoalTransactions(userID, goalID string, page pagination.PageRequest) (*pagination.PageResponse[models.SavingsTransaction], error) {
	if _, err := s.GetGoalByID(userID, goalID); err != nil {
		return nil, err
	}

	page.Defaults()

	base := s.db.Model(&models.SavingsTransaction{}).Where("user_id = ? AND goal_id = ?", userID, goalID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.SavingsTransaction
	if err := base.Order("transaction_date DESC").
		Scopes(pagination.Paginate(page)).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetUserAchievements retrieves a user's achievements, newest first.
func (s *goalService) GetUserAchievements(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Achievement], error) {
	page.Defaults()

	base := s.db.Model(&models.Achievement{}).Where("user_id = ?", userID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var achievements []models.Achievement
	if err := base.Order("achieved_at DESC").
		Scopes(pagination.Paginate(page)).
		Find(&achievements).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(achievements, page.Page, page.PageSize, totalItems)
	return &result, nil
}
