package handler

import (
	"net/http"
	"strconv"

	"github.com/contentclicks/dashboard/internal/backend"
	"github.com/gin-gonic/gin"
)

// InsightsHandler passes KPI history and top-performer queries through to
// the collector backend.
type InsightsHandler struct {
	backend       *backend.Client
	historyMonths int
}

// NewInsightsHandler creates a new insights handler. historyMonths is the
// default time-series window when the request does not specify a limit.
func NewInsightsHandler(client *backend.Client, historyMonths int) *InsightsHandler {
	if historyMonths <= 0 {
		historyMonths = 12
	}
	return &InsightsHandler{
		backend:       client,
		historyMonths: historyMonths,
	}
}

// GetHistory handles GET /api/v1/customers/:id/history.
func (h *InsightsHandler) GetHistory(c *gin.Context) {
	id := c.Param("id")
	medium := c.Query("medium")
	journeyStage := c.Query("journey_stage")
	kpiName := c.Query("kpi_name")

	limit := h.historyMonths
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	if medium == "" || journeyStage == "" || kpiName == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "medium, journey_stage, and kpi_name required",
		})
		return
	}

	history, err := h.backend.GetHistory(c.Request.Context(), id, medium, journeyStage, kpiName, limit)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to get metric history: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

// GetTopPerformers handles GET /api/v1/customers/:id/top-performers.
func (h *InsightsHandler) GetTopPerformers(c *gin.Context) {
	id := c.Param("id")
	medium := c.Query("medium")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	if medium == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "medium required",
		})
		return
	}

	performers, err := h.backend.GetTopPerformers(c.Request.Context(), id, medium, limit)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to get top performers: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"top_performers": performers})
}
