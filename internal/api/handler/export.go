package handler

import (
	"net/http"

	"github.com/contentclicks/dashboard/internal/backend"
	"github.com/gin-gonic/gin"
)

// ExportHandler streams backend PDF exports and resolves page discovery.
type ExportHandler struct {
	backend *backend.Client
}

// NewExportHandler creates a new export handler.
func NewExportHandler(client *backend.Client) *ExportHandler {
	return &ExportHandler{backend: client}
}

type exportRequest struct {
	Charts map[string]string `json:"charts"`
}

// ExportPDF handles POST /api/v1/customers/:id/export/pdf. The backend
// renders the document; this handler streams it through.
func (h *ExportHandler) ExportPDF(c *gin.Context) {
	id := c.Param("id")

	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body: " + err.Error(),
		})
		return
	}

	pdf, filename, err := h.backend.ExportPDF(c.Request.Context(), id, req.Charts)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to export PDF: " + err.Error(),
		})
		return
	}

	if filename != "" {
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	}
	c.Data(http.StatusOK, "application/pdf", pdf)
}

type discoverRequest struct {
	SystemUserToken string `json:"system_user_token" binding:"required"`
}

// DiscoverPages handles POST /api/v1/discover-pages.
func (h *ExportHandler) DiscoverPages(c *gin.Context) {
	var req discoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "System token required",
		})
		return
	}

	pages, err := h.backend.DiscoverPages(c.Request.Context(), req.SystemUserToken)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to discover pages: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pages": pages, "total": len(pages)})
}
