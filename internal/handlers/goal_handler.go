package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
	"spendwise/internal/pagination"
	"spendwise/internal/services"
)

// GoalHandler handles savings goal requests
type GoalHandler struct {
	goalService services.GoalServicer
}

// NewGoalHandler creates a new GoalHandler
func NewGoalHandler(goalService services.GoalServicer) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// CreateGoalRequest represents the request payload for creating a goal
type CreateGoalRequest struct {
	Title        string     `json:"title" binding:"required,max=200"`
	TargetAmount int64      `json:"target_amount" binding:"required,min=1"`
	CategoryID   *string    `json:"category_id" binding:"omitempty,uuid"`
	StartDate    *time.Time `json:"start_date"`
	TargetDate   time.Time  `json:"target_date" binding:"required"`
}

// UpdateGoalRequest represents the request payload for updating a goal.
// Omitted fields are left unchanged.
type UpdateGoalRequest struct {
	Title        string     `json:"title" binding:"max=200"`
	TargetAmount *int64     `json:"target_amount" binding:"omitempty,min=1"`
	TargetDate   *time.Time `json:"target_date"`
}

// AddTransactionRequest represents the payload for recording a savings transaction
type AddTransactionRequest struct {
	Amount          int64      `json:"amount" binding:"required,min=1"`
	Description     string     `json:"description" binding:"max=500"`
	TransactionDate *time.Time `json:"transaction_date"`
}

// ListGoalsQuery represents the query parameters for listing goals
type ListGoalsQuery struct {
	Status string `form:"status" binding:"omitempty,goal_status"`
	pagination.PageRequest
}

// CreateGoal creates a savings goal
// @Summary     Create a savings goal
// @Description Create a new savings goal in the active state
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateGoalRequest true "Goal details"
// @Success     201 {object} models.SavingsGoal "Goal created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals [post]
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	startDate := time.Time{}
	if req.StartDate != nil {
		startDate = *req.StartDate
	}

	goal, err := h.goalService.CreateGoal(userID, req.Title, req.TargetAmount, req.CategoryID, startDate, req.TargetDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, goal)
}

// ListGoals retrieves the user's goals
// @Summary     List savings goals
// @Description List the user's savings goals, optionally filtered by status
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       status    query string false "Goal status" Enums(active, completed, failed)
// @Param       page      query int    false "Page number"
// @Param       page_size query int    false "Page size"
// @Success     200 {object} pagination.PageResponse[models.SavingsGoal] "Goals"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals [get]
func (h *GoalHandler) ListGoals(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query ListGoalsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var status *models.GoalStatus
	if query.Status != "" {
		s := models.GoalStatus(query.Status)
		status = &s
	}

	result, err := h.goalService.GetUserGoals(userID, status, query.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetGoal retrieves a single goal
// @Summary     Get a savings goal
// @Description Get a single savings goal by ID
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Success     200 {object} models.SavingsGoal "Goal"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id} [get]
func (h *GoalHandler) GetGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	goal, err := h.goalService.GetGoalByID(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, goal)
}

// UpdateGoal modifies a goal
// @Summary     Update a savings goal
// @Description Update an active goal's title, target amount and target date
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Goal ID"
// @Param       request body UpdateGoalRequest true "Goal fields"
// @Success     200 {object} models.SavingsGoal "Updated goal"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     409 {object} ErrorResponse "Goal not active"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id} [put]
func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	goal, err := h.goalService.UpdateGoal(userID, c.Param("id"), req.Title, req.TargetAmount, req.TargetDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, goal)
}

// DeleteGoal removes a goal
// @Summary     Delete a savings goal
// @Description Delete a goal and its transaction history
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Success     200 {object} map[string]string "Goal deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id} [delete]
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.goalService.DeleteGoal(userID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "goal deleted"})
}

// GetGoalProgress returns derived progress for a goal
// @Summary     Get goal progress
// @Description Completion percentage, days remaining, on-track flag and projected completion
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Goal ID"
// @Success     200 {object} analytics.GoalProgress "Goal progress"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id}/progress [get]
func (h *GoalHandler) GetGoalProgress(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	progress, err := h.goalService.GetGoalProgress(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// AddTransaction records money saved toward a goal
// @Summary     Record a savings transaction
// @Description Add money to a goal; reaching the target completes the goal and records an achievement
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                true "Goal ID"
// @Param       request body AddTransactionRequest true "Transaction details"
// @Success     201 {object} models.SavingsTransaction "Transaction recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     409 {object} ErrorResponse "Goal not active"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id}/transactions [post]
func (h *GoalHandler) AddTransaction(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date := time.Time{}
	if req.TransactionDate != nil {
		date = *req.TransactionDate
	}

	tx, err := h.goalService.AddTransaction(userID, c.Param("id"), req.Amount, req.Description, date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tx)
}

// ListTransactions retrieves a goal's transactions
// @Summary     List goal transactions
// @Description List a goal's savings transactions, newest first
// @Tags        goals
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path  string true  "Goal ID"
// @Param       page      query int    false "Page number"
// @Param       page_size query int    false "Page size"
// @Success     200 {object} pagination.PageResponse[models.SavingsTransaction] "Transactions"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Goal not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /goals/{id}/transactions [get]
func (h *GoalHandler) ListTransactions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.goalService.GetGoalTransactions(userID, c.Param("id"), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListAchievements retrieves the user's achievements
// @Summary     List achievements
// @Description List the user's achievements, newest first
// @Tags        achievements
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.Achievement] "Achievements"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /achievements [get]
func (h *GoalHandler) ListAchievements(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.goalService.GetUserAchievements(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
