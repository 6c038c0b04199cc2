package handler

import (
	cartapp "github.com/factorydirect/backend/internal/application/cart"
	"github.com/factorydirect/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CartHandler handles cart API endpoints. All routes act on the
// authenticated account's own cart.
type CartHandler struct {
	BaseHandler
	cartService *cartapp.CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *cartapp.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Get handles GET /cart
func (h *CartHandler) Get(c *gin.Context) {
	accountID := middleware.GetAccountID(c)
	resp, err := h.cartService.Get(c.Request.Context(), accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req cartapp.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	accountID := middleware.GetAccountID(c)
	resp, err := h.cartService.AddItem(c.Request.Context(), accountID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetQuantity handles PUT /cart/items/:productId
func (h *CartHandler) SetQuantity(c *gin.Context) {
	productID, ok := h.parseProductID(c)
	if !ok {
		return
	}

	var req cartapp.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	accountID := middleware.GetAccountID(c)
	resp, err := h.cartService.SetItemQuantity(c.Request.Context(), accountID, productID, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RemoveItem handles DELETE /cart/items/:productId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, ok := h.parseProductID(c)
	if !ok {
		return
	}

	accountID := middleware.GetAccountID(c)
	resp, err := h.cartService.RemoveItem(c.Request.Context(), accountID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Clear handles DELETE /cart
func (h *CartHandler) Clear(c *gin.Context) {
	accountID := middleware.GetAccountID(c)
	resp, err := h.cartService.Clear(c.Request.Context(), accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Sync handles POST /cart/sync, merging a client-held cart after sign-in
func (h *CartHandler) Sync(c *gin.Context) {
	var req cartapp.MergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	accountID := middleware.GetAccountID(c)
	resp, err := h.cartService.Merge(c.Request.Context(), accountID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *CartHandler) parseProductID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return uuid.Nil, false
	}
	return id, true
}
