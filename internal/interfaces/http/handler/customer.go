package handler

import (
	partnerapp "github.com/factorydirect/backend/internal/application/partner"
	"github.com/factorydirect/backend/internal/interfaces/http/dto"
	"github.com/factorydirect/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CustomerHandler handles customer directory API endpoints
type CustomerHandler struct {
	BaseHandler
	customerService *partnerapp.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *partnerapp.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// GetProfile handles GET /customers/me
func (h *CustomerHandler) GetProfile(c *gin.Context) {
	accountID := middleware.GetAccountID(c)
	resp, err := h.customerService.GetByAccount(c.Request.Context(), accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateProfile handles PUT /customers/me
func (h *CustomerHandler) UpdateProfile(c *gin.Context) {
	var req partnerapp.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	accountID := middleware.GetAccountID(c)
	resp, err := h.customerService.UpdateProfile(c.Request.Context(), accountID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByID handles GET /customers/:id, staff only
func (h *CustomerHandler) GetByID(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}
	customerID, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid customer ID")
		return
	}

	resp, err := h.customerService.GetByID(c.Request.Context(), customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
