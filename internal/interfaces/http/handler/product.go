package handler

import (
	"strconv"

	invapp "github.com/factorydirect/backend/internal/application/inventory"
	"github.com/factorydirect/backend/internal/interfaces/http/dto"
	"github.com/factorydirect/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProductHandler handles catalog and stock API endpoints
type ProductHandler struct {
	BaseHandler
	stockService *invapp.StockService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(stockService *invapp.StockService) *ProductHandler {
	return &ProductHandler{stockService: stockService}
}

// Create handles POST /inventory/products
func (h *ProductHandler) Create(c *gin.Context) {
	var req invapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	actorID := middleware.GetAccountID(c)
	resp, err := h.stockService.CreateProduct(c.Request.Context(), req, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// List handles GET /inventory/products
func (h *ProductHandler) List(c *gin.Context) {
	var filter invapp.ProductListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	products, total, err := h.stockService.ListProducts(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := filter.Page, filter.PageSize
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, products, total, page, pageSize)
}

// GetByID handles GET /inventory/products/:id
func (h *ProductHandler) GetByID(c *gin.Context) {
	productID, ok := h.parseID(c)
	if !ok {
		return
	}

	resp, err := h.stockService.GetProduct(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Update handles PUT /inventory/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	productID, ok := h.parseID(c)
	if !ok {
		return
	}

	var req invapp.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.stockService.UpdateProduct(c.Request.Context(), productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete handles DELETE /inventory/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	productID, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.stockService.DeleteProduct(c.Request.Context(), productID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// AdjustStock handles PUT /inventory/products/:id/stock
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	productID, ok := h.parseID(c)
	if !ok {
		return
	}

	var req invapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	actorID := middleware.GetAccountID(c)
	resp, err := h.stockService.AdjustStock(c.Request.Context(), productID, req, actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListLogs handles GET /inventory/products/:id/logs
func (h *ProductHandler) ListLogs(c *gin.Context) {
	productID, ok := h.parseID(c)
	if !ok {
		return
	}

	var filter invapp.LogListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	logs, total, err := h.stockService.ListLogs(c.Request.Context(), productID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := filter.Page, filter.PageSize
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, logs, total, page, pageSize)
}

// CheckAvailability handles GET /inventory/products/:id/availability
func (h *ProductHandler) CheckAvailability(c *gin.Context) {
	productID, ok := h.parseID(c)
	if !ok {
		return
	}

	quantity := int64(1)
	if raw := c.Query("quantity"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 {
			h.BadRequest(c, "Invalid quantity")
			return
		}
		quantity = parsed
	}

	resp, err := h.stockService.CheckAvailability(c.Request.Context(), productID, quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

func (h *ProductHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid product ID")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return uuid.Nil, false
	}
	return id, true
}
