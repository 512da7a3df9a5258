package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spendwise/internal/services"
)

// InsightHandler handles spending insight requests
type InsightHandler struct {
	insightService services.InsightServicer
}

// NewInsightHandler creates a new InsightHandler
func NewInsightHandler(insightService services.InsightServicer) *InsightHandler {
	return &InsightHandler{insightService: insightService}
}

// GetInsights returns the current insight set
// @Summary     Get spending insights
// @Description Trend warnings, weekday patterns and reduction achievements derived from expense history, highest priority first
// @Tags        insights
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} analytics.SpendingInsight "Insights"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /insights [get]
func (h *InsightHandler) GetInsights(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	insights, err := h.insightService.GetInsights(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, insights)
}
