package cart

import (
	"time"

	"github.com/factorydirect/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem represents a line in a cart. Name and price are snapshots of the
// product at the time the line was created or refreshed; the live product
// may drift without affecting the line.
type CartItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CartID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Name      string          `gorm:"type:varchar(200);not null"`
	Price     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Quantity  int64           `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (CartItem) TableName() string {
	return "cart_items"
}

// Subtotal returns price * quantity for the line
func (i *CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(i.Quantity))
}

// Cart is the per-account mutable collection of intended purchases.
// TotalItems and TotalPrice are derived on every mutation and never
// accepted from the client.
type Cart struct {
	shared.BaseAggregateRoot
	AccountID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Items      []CartItem      `gorm:"foreignKey:CartID;references:ID;constraint:OnDelete:CASCADE"`
	TotalItems int64           `gorm:"not null;default:0"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (Cart) TableName() string {
	return "carts"
}

// NewCart creates an empty cart for an account
func NewCart(accountID uuid.UUID) (*Cart, error) {
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Account ID cannot be empty")
	}

	return &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		AccountID:         accountID,
		Items:             make([]CartItem, 0),
		TotalItems:        0,
		TotalPrice:        decimal.Zero,
	}, nil
}

// ItemQuantity returns the current quantity for a product line, 0 if absent
func (c *Cart) ItemQuantity(productID uuid.UUID) int64 {
	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			return c.Items[idx].Quantity
		}
	}
	return 0
}

// Upsert adds quantity to an existing line or appends a new one with the
// given product snapshot. Quantity must be positive.
func (c *Cart) Upsert(productID uuid.UUID, name string, price decimal.Decimal, quantity int64) error {
	if err := validateLine(productID, quantity); err != nil {
		return err
	}

	now := time.Now()
	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			c.Items[idx].Quantity += quantity
			c.Items[idx].UpdatedAt = now
			c.recalculateTotals()
			c.UpdatedAt = now
			c.IncrementVersion()
			return nil
		}
	}

	c.Items = append(c.Items, CartItem{
		ID:        uuid.New(),
		CartID:    c.ID,
		ProductID: productID,
		Name:      name,
		Price:     price,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	})
	c.recalculateTotals()
	c.UpdatedAt = now
	c.IncrementVersion()

	return nil
}

// Overwrite sets an existing line's quantity and refreshes its snapshot, or
// appends a new line. Used by merge, where the incoming quantity replaces
// whatever the server held.
func (c *Cart) Overwrite(productID uuid.UUID, name string, price decimal.Decimal, quantity int64) error {
	if err := validateLine(productID, quantity); err != nil {
		return err
	}

	now := time.Now()
	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			c.Items[idx].Quantity = quantity
			c.Items[idx].Price = price
			c.Items[idx].Name = name
			c.Items[idx].UpdatedAt = now
			c.recalculateTotals()
			c.UpdatedAt = now
			c.IncrementVersion()
			return nil
		}
	}

	return c.Upsert(productID, name, price, quantity)
}

// SetQuantity updates the quantity of an existing line; zero removes it.
// Fails with NOT_FOUND if the product is not in the cart.
func (c *Cart) SetQuantity(productID uuid.UUID, quantity int64) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}

	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			now := time.Now()
			if quantity == 0 {
				c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			} else {
				c.Items[idx].Quantity = quantity
				c.Items[idx].UpdatedAt = now
			}
			c.recalculateTotals()
			c.UpdatedAt = now
			c.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("NOT_FOUND", "Item not found in cart")
}

// RemoveItem drops a line if present. Removing an absent line is a no-op,
// matching the delete endpoint's idempotent behavior.
func (c *Cart) RemoveItem(productID uuid.UUID) {
	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			c.recalculateTotals()
			c.UpdatedAt = time.Now()
			c.IncrementVersion()
			return
		}
	}
}

// Clear removes all lines
func (c *Cart) Clear() {
	c.Items = make([]CartItem, 0)
	c.recalculateTotals()
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// IsEmpty returns true if the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// recalculateTotals rederives TotalItems and TotalPrice from the lines
func (c *Cart) recalculateTotals() {
	var items int64
	total := decimal.Zero
	for idx := range c.Items {
		items += c.Items[idx].Quantity
		total = total.Add(c.Items[idx].Subtotal())
	}
	c.TotalItems = items
	c.TotalPrice = total
}

func validateLine(productID uuid.UUID, quantity int64) error {
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	return nil
}
