package handler

import (
	orderapp "github.com/factorydirect/backend/internal/application/order"
	"github.com/factorydirect/backend/internal/interfaces/http/dto"
	"github.com/factorydirect/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// IdempotencyKeyHeader carries the client's duplicate-submission guard
const IdempotencyKeyHeader = "Idempotency-Key"

// OrderHandler handles order API endpoints
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create handles POST /orders
func (h *OrderHandler) Create(c *gin.Context) {
	var req orderapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	accountID := middleware.GetAccountID(c)
	idempotencyKey := c.GetHeader(IdempotencyKeyHeader)

	resp, err := h.orderService.Create(c.Request.Context(), accountID, req, idempotencyKey)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// List handles GET /orders. Staff see every order; shoppers see their own.
func (h *OrderHandler) List(c *gin.Context) {
	var filter orderapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	ctx := c.Request.Context()
	var (
		orders []orderapp.OrderResponse
		total  int64
		err    error
	)
	if middleware.IsStaff(c) {
		orders, total, err = h.orderService.List(ctx, filter)
	} else {
		orders, total, err = h.orderService.ListByAccount(ctx, middleware.GetAccountID(c), filter)
	}
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
	h.SuccessWithMeta(c, orders, total, page, pageSize)
}

// GetByID handles GET /orders/:id
func (h *OrderHandler) GetByID(c *gin.Context) {
	orderID, ok := h.parseID(c)
	if !ok {
		return
	}

	accountID := middleware.GetAccountID(c)
	resp, err := h.orderService.GetByID(c.Request.Context(), orderID, accountID, middleware.IsStaff(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpdateStatus handles PUT /orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, ok := h.parseID(c)
	if !ok {
		return
	}

	var req orderapp.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	resp, err := h.orderService.UpdateStatus(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// MarkPaid handles PUT /orders/:id/pay
func (h *OrderHandler) MarkPaid(c *gin.Context) {
	orderID, ok := h.parseID(c)
	if !ok {
		return
	}

	var payload orderapp.PaymentResultPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	// Ownership check; staff may settle any order
	accountID := middleware.GetAccountID(c)
	if _, err := h.orderService.GetByID(c.Request.Context(), orderID, accountID, middleware.IsStaff(c)); err != nil {
		h.HandleError(c, err)
		return
	}

	resp, err := h.orderService.MarkPaid(c.Request.Context(), orderID, payload)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

func (h *OrderHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid order ID")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return uuid.Nil, false
	}
	return id, true
}
