package catalog

import (
	"time"

	"github.com/factorydirect/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product represents a sellable factory product.
// It is the aggregate root for catalog operations and owns the stock
// counter; the counter is only ever mutated through AdjustStock so every
// change is paired with a stock log entry by the ledger service.
type Product struct {
	shared.BaseAggregateRoot
	Name        string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Stock       int64           `gorm:"not null;default:0"`
	Category    string          `gorm:"type:varchar(100);index"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(name, description string, price decimal.Decimal, stock int64, category string) (*Product, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
		Price:             price,
		Stock:             stock,
		Category:          category,
	}, nil
}

// Update updates the product's descriptive fields. Stock is deliberately
// excluded; it moves only through AdjustStock.
func (p *Product) Update(name, description string, price decimal.Decimal, category string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	p.Name = name
	p.Description = description
	p.Price = price
	p.Category = category
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// AdjustStock applies a signed delta to the stock counter.
// The counter never goes below zero; a breaching delta fails with
// INSUFFICIENT_STOCK and leaves the counter unchanged.
func (p *Product) AdjustStock(delta int64) error {
	if delta == 0 {
		return shared.NewDomainError("INVALID_ADJUSTMENT", "Adjustment cannot be zero")
	}
	if p.Stock+delta < 0 {
		return shared.NewDomainErrorf("INSUFFICIENT_STOCK",
			"Cannot reduce stock below zero. Available: %d", p.Stock)
	}

	p.Stock += delta
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// CanFulfill returns true if the current stock covers the requested quantity
func (p *Product) CanFulfill(quantity int64) bool {
	return quantity > 0 && p.Stock >= quantity
}

// HasStock returns true if there is any stock available
func (p *Product) HasStock() bool {
	return p.Stock > 0
}

func validateName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
