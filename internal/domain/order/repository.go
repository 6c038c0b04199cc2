package order

import (
	"context"

	"github.com/factorydirect/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderRepository defines the persistence port for orders
type OrderRepository interface {
	// FindByID loads an order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindAll returns orders matching the filter, newest first by default
	FindAll(ctx context.Context, filter shared.Filter) ([]*Order, error)

	// FindByAccount returns orders placed by an account, newest first
	FindByAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]*Order, error)

	// Count returns the number of orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByAccount returns the number of orders placed by an account
	CountByAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) (int64, error)

	// Save persists the order and its items
	Save(ctx context.Context, o *Order) error

	// SaveWithLock persists the order guarded by its version column and
	// returns CONCURRENCY_CONFLICT if another writer got there first
	SaveWithLock(ctx context.Context, o *Order) error
}
