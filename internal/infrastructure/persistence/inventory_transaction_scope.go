package persistence

import (
	"context"

	appinv "github.com/factorydirect/backend/internal/application/inventory"
	"github.com/factorydirect/backend/internal/domain/catalog"
	"github.com/factorydirect/backend/internal/domain/inventory"
	"gorm.io/gorm"
)

// GormInventoryTransactionScope implements the inventory TransactionScope
// using GORM transactions. Product writes and ledger appends executed
// through it commit or roll back together.
type GormInventoryTransactionScope struct {
	db *gorm.DB
}

// NewGormInventoryTransactionScope creates a new GormInventoryTransactionScope
func NewGormInventoryTransactionScope(db *gorm.DB) *GormInventoryTransactionScope {
	return &GormInventoryTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormInventoryTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormInventoryRepositories{tx: tx}
		return fn(repos)
	})
}

// gormInventoryRepositories provides repositories scoped to one transaction
type gormInventoryRepositories struct {
	tx *gorm.DB
}

// ProductRepo returns the product repository scoped to the current transaction
func (r *gormInventoryRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// StockLogRepo returns the stock log repository scoped to the current transaction
func (r *gormInventoryRepositories) StockLogRepo() inventory.StockLogRepository {
	return NewGormStockLogRepository(r.tx)
}

// Ensure GormInventoryTransactionScope implements TransactionScope
var _ appinv.TransactionScope = (*GormInventoryTransactionScope)(nil)

// Ensure gormInventoryRepositories implements TransactionalRepositories
var _ appinv.TransactionalRepositories = (*gormInventoryRepositories)(nil)
