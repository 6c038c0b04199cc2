package persistence

import (
	"context"

	apporder "github.com/factorydirect/backend/internal/application/order"
	"github.com/factorydirect/backend/internal/domain/catalog"
	"github.com/factorydirect/backend/internal/domain/inventory"
	"github.com/factorydirect/backend/internal/domain/order"
	"gorm.io/gorm"
)

// GormOrderTransactionScope implements the order TransactionScope using
// GORM transactions. Order placement writes the order, the stock
// deductions and the ledger entries in one atomic unit.
type GormOrderTransactionScope struct {
	db *gorm.DB
}

// NewGormOrderTransactionScope creates a new GormOrderTransactionScope
func NewGormOrderTransactionScope(db *gorm.DB) *GormOrderTransactionScope {
	return &GormOrderTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormOrderTransactionScope) Execute(ctx context.Context, fn func(repos apporder.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormOrderRepositories{tx: tx}
		return fn(repos)
	})
}

// gormOrderRepositories provides repositories scoped to one transaction
type gormOrderRepositories struct {
	tx *gorm.DB
}

// ProductRepo returns the product repository scoped to the current transaction
func (r *gormOrderRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// StockLogRepo returns the stock log repository scoped to the current transaction
func (r *gormOrderRepositories) StockLogRepo() inventory.StockLogRepository {
	return NewGormStockLogRepository(r.tx)
}

// OrderRepo returns the order repository scoped to the current transaction
func (r *gormOrderRepositories) OrderRepo() order.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

// Ensure GormOrderTransactionScope implements TransactionScope
var _ apporder.TransactionScope = (*GormOrderTransactionScope)(nil)

// Ensure gormOrderRepositories implements TransactionalRepositories
var _ apporder.TransactionalRepositories = (*gormOrderRepositories)(nil)
