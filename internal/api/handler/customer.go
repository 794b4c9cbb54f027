package handler

import (
	"net/http"

	"github.com/contentclicks/dashboard/internal/backend"
	"github.com/gin-gonic/gin"
)

// CustomerHandler passes customer CRUD through to the collector backend.
type CustomerHandler struct {
	backend *backend.Client
}

// NewCustomerHandler creates a new customer handler.
func NewCustomerHandler(client *backend.Client) *CustomerHandler {
	return &CustomerHandler{backend: client}
}

// ListCustomers handles GET /api/v1/customers.
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	customers, err := h.backend.ListCustomers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to list customers: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers})
}

// GetCustomer handles GET /api/v1/customers/:id.
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id := c.Param("id")
	customer, err := h.backend.GetCustomer(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Customer not found",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

type createCustomerRequest struct {
	Name     string `json:"name" binding:"required"`
	Industry string `json:"industry" binding:"required"`
}

// CreateCustomer handles POST /api/v1/customers.
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Name and industry required",
		})
		return
	}

	customer, err := h.backend.CreateCustomer(c.Request.Context(), req.Name, req.Industry)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to create customer: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"customer": customer})
}

type updateCustomerRequest struct {
	Name     string `json:"name"`
	Industry string `json:"industry"`
}

// UpdateCustomer handles PUT /api/v1/customers/:id.
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id := c.Param("id")

	var req updateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body: " + err.Error(),
		})
		return
	}

	customer, err := h.backend.UpdateCustomer(c.Request.Context(), id, req.Name, req.Industry)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to update customer: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

// DeleteCustomer handles DELETE /api/v1/customers/:id.
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	id := c.Param("id")
	if err := h.backend.DeleteCustomer(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Failed to delete customer: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted"})
}
