package catalog

import (
	"context"

	"github.com/factorydirect/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines the persistence contract for products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	Save(ctx context.Context, product *Product) error
	// SaveWithLock persists the product with an optimistic version check.
	// Fails with CONCURRENCY_CONFLICT if the row changed since it was read.
	SaveWithLock(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}
