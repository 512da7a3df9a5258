package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"spendwise/internal/analytics"
	apperrors "spendwise/internal/errors"
	"spendwise/internal/models"
	"spendwise/internal/pagination"
	"spendwise/internal/services"
)

// ExpenseHandler handles expense-related requests
type ExpenseHandler struct {
	expenseService  services.ExpenseServicer
	settingsService services.SettingsServicer
}

// NewExpenseHandler creates a new ExpenseHandler. settingsService may be nil
// when the storage backend has no per-user settings; the daily listing then
// omits the remaining-budget figure.
func NewExpenseHandler(expenseService services.ExpenseServicer, settingsService services.SettingsServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, settingsService: settingsService}
}

// DailyExpensesResponse is the daily window listing: the full day's expenses
// plus the running total and, when a daily limit is configured, what is left
// of it.
type DailyExpensesResponse struct {
	*pagination.PageResponse[models.Expense]
	DailyTotal      int64  `json:"daily_total"`
	RemainingBudget *int64 `json:"remaining_budget,omitempty"`
}

// CreateExpenseRequest represents the request payload for creating an expense
type CreateExpenseRequest struct {
	Amount      int64      `json:"amount" binding:"required,min=1"`
	Description string     `json:"description" binding:"required,max=500"`
	CategoryID  *string    `json:"category_id" binding:"omitempty,uuid"`
	CreatedAt   *time.Time `json:"created_at"`
}

// UpdateExpenseRequest represents the request payload for updating an expense
type UpdateExpenseRequest struct {
	Amount      int64   `json:"amount" binding:"required,min=1"`
	Description string  `json:"description" binding:"required,max=500"`
	CategoryID  *string `json:"category_id" binding:"omitempty,uuid"`
}

// ListExpensesQuery represents the query parameters for listing expenses
type ListExpensesQuery struct {
	Window string `form:"window" binding:"omitempty,time_window"`
	pagination.PageRequest
}

// CreateExpense records a new expense
// @Summary     Create an expense
// @Description Record a new spending entry
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} models.Expense "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	createdAt := time.Time{}
	if req.CreatedAt != nil {
		createdAt = *req.CreatedAt
	}

	expense, err := h.expenseService.CreateExpense(userID, req.Amount, req.Description, req.CategoryID, createdAt)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, expense)
}

// ListExpenses retrieves expenses within a time window
// @Summary     List expenses
// @Description List expenses within a time window, newest first. The daily window returns everything in one page; other windows paginate.
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       window    query string false "Time window" Enums(daily, weekly, monthly, recent) default(daily)
// @Param       page      query int    false "Page number"
// @Param       page_size query int    false "Page size"
// @Success     200 {object} pagination.PageResponse[models.Expense] "Expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [get]
func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query ListExpensesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	window := analytics.TimeWindow(query.Window)
	if query.Window == "" {
		window = analytics.WindowDaily
	}

	result, err := h.expenseService.GetExpenses(userID, window, query.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if !window.Paginated() {
		c.JSON(http.StatusOK, h.dailyResponse(userID, result))
		return
	}

	c.JSON(http.StatusOK, result)
}

// dailyResponse decorates the daily listing with the day's total and the
// remainder of the user's daily limit, when one is configured.
func (h *ExpenseHandler) dailyResponse(userID string, result *pagination.PageResponse[models.Expense]) DailyExpensesResponse {
	resp := DailyExpensesResponse{PageResponse: result}
	for _, e := range result.Data {
		resp.DailyTotal += e.Amount
	}

	if h.settingsService == nil {
		return resp
	}
	settings, err := h.settingsService.GetSettings(userID)
	if err != nil || settings.DailyLimit <= 0 {
		return resp
	}
	remaining := settings.DailyLimit - resp.DailyTotal
	resp.RemainingBudget = &remaining
	return resp
}

// GetExpense retrieves a single expense
// @Summary     Get an expense
// @Description Get a single expense by ID
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} models.Expense "Expense"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.GetExpenseByID(userID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, expense)
}

// UpdateExpense modifies an expense
// @Summary     Update an expense
// @Description Update an expense's amount, description and category
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Expense ID"
// @Param       request body UpdateExpenseRequest true "Expense details"
// @Success     200 {object} models.Expense "Updated expense"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, err := h.expenseService.UpdateExpense(userID, c.Param("id"), req.Amount, req.Description, req.CategoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, expense)
}

// DeleteExpense removes an expense
// @Summary     Delete an expense
// @Description Delete an expense by ID
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} map[string]string "Expense deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.DeleteExpense(userID, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "expense deleted"})
}

// GetStats returns overall spending statistics
// @Summary     Get spending statistics
// @Description Totals, daily average over observed days, monthly projection and highest spending day
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} analytics.ExpenseStats "Spending statistics"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/stats [get]
func (h *ExpenseHandler) GetStats(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	stats, err := h.expenseService.GetStats(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetWeeklySeries returns the seven-day spending series
// @Summary     Get weekly spending series
// @Description Seven daily totals ending today, zero-filled
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} analytics.WeeklyPoint "Weekly series"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/weekly [get]
func (h *ExpenseHandler) GetWeeklySeries(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	series, err := h.expenseService.GetWeeklySeries(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, series)
}

// GetCategoryBreakdown returns per-category totals within a window
// @Summary     Get category breakdown
// @Description Per-category spending totals within a time window. Uncategorized spend is bucketed under "uncategorized".
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       window query string false "Time window" Enums(daily, weekly, monthly, recent) default(monthly)
// @Success     200 {array} services.CategoryAmount "Category totals"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses/categories [get]
func (h *ExpenseHandler) GetCategoryBreakdown(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	window := analytics.TimeWindow(c.DefaultQuery("window", string(analytics.WindowMonthly)))
	if !window.Valid() {
		respondWithError(c, apperrors.ErrInvalidWindow)
		return
	}

	breakdown, err := h.expenseService.GetCategoryBreakdown(userID, window)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, breakdown)
}
