package inventory

import (
	"context"

	"github.com/factorydirect/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StockLogRepository is the append-only persistence contract for the ledger.
// There is no update or delete: entries are written once and only read back.
type StockLogRepository interface {
	Append(ctx context.Context, entry *StockLogEntry) error
	// FindByProduct returns log entries for a product, newest first.
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]StockLogEntry, error)
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
	// SumChangesByProduct returns the sum of all recorded deltas for a product.
	SumChangesByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
}
