package order

import (
	"context"

	"github.com/factorydirect/backend/internal/domain/catalog"
	"github.com/factorydirect/backend/internal/domain/inventory"
	"github.com/factorydirect/backend/internal/domain/order"
)

// TransactionScope provides transactional access to the repositories an
// order placement writes. The stock deductions, their ledger entries and
// the order row commit or roll back as one unit.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the order placement
// repositories within a transaction. All repositories returned share the
// same underlying database transaction.
type TransactionalRepositories interface {
	// ProductRepo returns the product repository scoped to the current transaction
	ProductRepo() catalog.ProductRepository
	// StockLogRepo returns the stock log repository scoped to the current transaction
	StockLogRepo() inventory.StockLogRepository
	// OrderRepo returns the order repository scoped to the current transaction
	OrderRepo() order.OrderRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing.
type NoOpTransactionScope struct {
	productRepo  catalog.ProductRepository
	stockLogRepo inventory.StockLogRepository
	orderRepo    order.OrderRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	productRepo catalog.ProductRepository,
	stockLogRepo inventory.StockLogRepository,
	orderRepo order.OrderRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		productRepo:  productRepo,
		stockLogRepo: stockLogRepo,
		orderRepo:    orderRepo,
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

// OrderRepo returns the order repository.
func (s *NoOpTransactionScope) OrderRepo() order.OrderRepository {
	return s.orderRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
