package handler

import (
	"net/http"

	"github.com/contentclicks/dashboard/internal/service"
	"github.com/gin-gonic/gin"
)

// ViewHandler serves the rendered dashboard view.
type ViewHandler struct {
	sync *service.SyncService
}

// NewViewHandler creates a new view handler.
func NewViewHandler(sync *service.SyncService) *ViewHandler {
	return &ViewHandler{sync: sync}
}

// GetView handles GET /api/v1/customers/:id/view. It serves the in-memory
// view when one has been synchronized, falling back to the persisted cache
// after a restart.
func (h *ViewHandler) GetView(c *gin.Context) {
	id := c.Param("id")

	if view, ok := h.sync.Views().Get(id); ok {
		c.JSON(http.StatusOK, gin.H{"view": view})
		return
	}

	view, err := h.sync.CachedView(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "No synchronized view for customer",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"view": view, "cached": true})
}

// RefreshView handles POST /api/v1/customers/:id/view/refresh, forcing a
// full synchronization outside of any polling session.
func (h *ViewHandler) RefreshView(c *gin.Context) {
	id := c.Param("id")

	if err := h.sync.Refresh(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to refresh view: " + err.Error(),
		})
		return
	}

	view, _ := h.sync.Views().Get(id)
	c.JSON(http.StatusOK, gin.H{"view": view})
}
