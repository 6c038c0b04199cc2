package inventory

import (
	"time"

	"github.com/factorydirect/backend/internal/domain/catalog"
	"github.com/factorydirect/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int64           `json:"stock"`
	Category    string          `json:"category"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Version     int             `json:"version"`
}

// ToProductResponse converts a product to its response form
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.Category,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Version:     p.GetVersion(),
	}
}

// ToProductResponses converts a slice of products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}

// StockLogResponse represents a stock ledger entry in API responses
type StockLogResponse struct {
	ID        uuid.UUID  `json:"id"`
	ProductID uuid.UUID  `json:"product_id"`
	Change    int64      `json:"change"`
	Reason    string     `json:"reason"`
	Detail    string     `json:"detail,omitempty"`
	OrderID   *uuid.UUID `json:"order_id,omitempty"`
	ActorID   uuid.UUID  `json:"actor_id"`
	CreatedAt time.Time  `json:"created_at"`
}

// ToStockLogResponse converts a ledger entry to its response form
func ToStockLogResponse(e *inventory.StockLogEntry) StockLogResponse {
	return StockLogResponse{
		ID:        e.ID,
		ProductID: e.ProductID,
		Change:    e.Change,
		Reason:    e.Reason.String(),
		Detail:    e.Detail,
		OrderID:   e.OrderID,
		ActorID:   e.ActorID,
		CreatedAt: e.CreatedAt,
	}
}

// ToStockLogResponses converts a slice of ledger entries
func ToStockLogResponses(entries []inventory.StockLogEntry) []StockLogResponse {
	responses := make([]StockLogResponse, len(entries))
	for i := range entries {
		responses[i] = ToStockLogResponse(&entries[i])
	}
	return responses
}

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Stock       int64           `json:"stock" binding:"min=0"`
	Category    string          `json:"category" binding:"max=100"`
}

// UpdateProductRequest represents a request to update a product's
// descriptive fields. Stock is deliberately absent.
type UpdateProductRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Category    string          `json:"category" binding:"max=100"`
}

// AdjustStockRequest represents a request to move the stock counter
type AdjustStockRequest struct {
	Change  int64      `json:"change" binding:"required"`
	Reason  string     `json:"reason" binding:"required,oneof=order manual-adjustment return other"`
	Detail  string     `json:"detail" binding:"max=500"`
	OrderID *uuid.UUID `json:"order_id"`
}

// AdjustStockResponse returns the counter after the adjustment together
// with the ledger entry that recorded it
type AdjustStockResponse struct {
	ProductID uuid.UUID        `json:"product_id"`
	Stock     int64            `json:"stock"`
	Log       StockLogResponse `json:"log"`
}

// AvailabilityResponse answers a stock availability probe. It is a point
// in time read, not a reservation.
type AvailabilityResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	Requested int64     `json:"requested"`
	Stock     int64     `json:"stock"`
	Available bool      `json:"available"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// LogListFilter represents filter options for the stock log list
type LogListFilter struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}
