package handler

import (
	"net/http"

	"github.com/contentclicks/dashboard/internal/backend"
	"github.com/contentclicks/dashboard/internal/domain"
	"github.com/contentclicks/dashboard/internal/service"
	"github.com/gin-gonic/gin"
)

// CollectHandler triggers collection jobs and exposes their polling state.
type CollectHandler struct {
	backend     *backend.Client
	poller      *service.Poller
	defaultDays int
}

// NewCollectHandler creates a new collect handler.
func NewCollectHandler(client *backend.Client, poller *service.Poller, defaultDays int) *CollectHandler {
	if defaultDays <= 0 {
		defaultDays = 30
	}
	return &CollectHandler{
		backend:     client,
		poller:      poller,
		defaultDays: defaultDays,
	}
}

type collectRequest struct {
	Days           int  `json:"days"`
	CollectHistory bool `json:"collect_history"`
}

// StartCollection handles POST /api/v1/customers/:id/collect. Submitting a
// collection while one is already polling restarts the session for that
// customer.
func (h *CollectHandler) StartCollection(c *gin.Context) {
	id := c.Param("id")

	var req collectRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body: " + err.Error(),
		})
		return
	}
	if req.Days <= 0 {
		req.Days = h.defaultDays
	}

	sessionID, err := h.poller.Start(c.Request.Context(), id, domain.CollectionRequest{
		Days:           req.Days,
		CollectHistory: req.CollectHistory,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to start collection: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message":    "Data collection started",
		"session_id": sessionID,
	})
}

// CollectionStatus handles GET /api/v1/customers/:id/collect/status. It
// returns the backend's job status together with the local polling session,
// when one is running.
func (h *CollectHandler) CollectionStatus(c *gin.Context) {
	id := c.Param("id")

	status, err := h.backend.CollectionStatus(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to get collection status: " + err.Error(),
		})
		return
	}

	resp := gin.H{"status": status}
	if session, ok := h.poller.Session(id); ok {
		resp["session"] = session
	}
	c.JSON(http.StatusOK, resp)
}

// CancelCollection handles DELETE /api/v1/customers/:id/collect. It stops
// the local polling session; the backend job itself keeps running.
func (h *CollectHandler) CancelCollection(c *gin.Context) {
	id := c.Param("id")
	if !h.poller.Cancel(id) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "No polling session running for customer",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Polling session canceled"})
}
