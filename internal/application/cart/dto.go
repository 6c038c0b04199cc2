package cart

import (
	"time"

	"github.com/factorydirect/backend/internal/domain/cart"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MergeMode selects how an incoming cart combines with the stored one
type MergeMode string

const (
	// MergeModeReplace overwrites matching lines with the incoming quantity
	MergeModeReplace MergeMode = "replace"
	// MergeModeAdd sums the incoming quantity into matching lines
	MergeModeAdd MergeMode = "add"
)

// IsValid reports whether the mode is known
func (m MergeMode) IsValid() bool {
	return m == MergeModeReplace || m == MergeModeAdd
}

// CartItemResponse represents a cart line in API responses
type CartItemResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// CartResponse represents a cart in API responses
type CartResponse struct {
	ID         uuid.UUID          `json:"id"`
	AccountID  uuid.UUID          `json:"account_id"`
	Items      []CartItemResponse `json:"items"`
	TotalItems int64              `json:"total_items"`
	TotalPrice decimal.Decimal    `json:"total_price"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// ToCartResponse converts a cart to its response form
func ToCartResponse(c *cart.Cart) CartResponse {
	items := make([]CartItemResponse, len(c.Items))
	for i := range c.Items {
		items[i] = CartItemResponse{
			ProductID: c.Items[i].ProductID,
			Name:      c.Items[i].Name,
			Price:     c.Items[i].Price,
			Quantity:  c.Items[i].Quantity,
			Subtotal:  c.Items[i].Subtotal(),
		}
	}
	return CartResponse{
		ID:         c.ID,
		AccountID:  c.AccountID,
		Items:      items,
		TotalItems: c.TotalItems,
		TotalPrice: c.TotalPrice,
		UpdatedAt:  c.UpdatedAt,
	}
}

// AddItemRequest represents a request to add a product to the cart
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"required,min=1"`
}

// SetQuantityRequest represents a request to set a line's quantity.
// Zero removes the line.
type SetQuantityRequest struct {
	Quantity int64 `json:"quantity" binding:"min=0"`
}

// MergeItem is one line of a client-held cart submitted for merging
type MergeItem struct {
	ProductID uuid.UUID `json:"id" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"required,min=1"`
}

// MergeRequest represents a bulk cart sync after sign-in
type MergeRequest struct {
	Items []MergeItem `json:"items" binding:"required,dive"`
	Mode  MergeMode   `json:"mode" binding:"omitempty,oneof=replace add"`
}
