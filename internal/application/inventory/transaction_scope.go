package inventory

import (
	"context"

	"github.com/factorydirect/backend/internal/domain/catalog"
	"github.com/factorydirect/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to the repositories the
// stock ledger writes. When a function is executed within a transaction
// scope, all repository operations are part of the same database
// transaction and commit or roll back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the ledger repositories
// within a transaction. All repositories returned share the same
// underlying database transaction.
type TransactionalRepositories interface {
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() catalog.ProductRepository
	// StockLogRepo returns the stock log repository scoped to the current transaction
	StockLogRepo() inventory.StockLogRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing.
type NoOpTransactionScope struct {
	productRepo  catalog.ProductRepository
	stockLogRepo inventory.StockLogRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	productRepo catalog.ProductRepository,
	stockLogRepo inventory.StockLogRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		productRepo:  productRepo,
		stockLogRepo: stockLogRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ProductRepo returns the product repository.
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// StockLogRepo returns the stock log repository.
func (s *NoOpTransactionScope) StockLogRepo() inventory.StockLogRepository {
	return s.stockLogRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
