package persistence

import (
	"context"

	"github.com/factorydirect/backend/internal/domain/inventory"
	"github.com/factorydirect/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockLogRepository implements StockLogRepository using GORM.
// The ledger is append-only; there are no update or delete paths.
type GormStockLogRepository struct {
	db *gorm.DB
}

// NewGormStockLogRepository creates a new GormStockLogRepository
func NewGormStockLogRepository(db *gorm.DB) *GormStockLogRepository {
	return &GormStockLogRepository{db: db}
}

// Append writes a new ledger entry
func (r *GormStockLogRepository) Append(ctx context.Context, entry *inventory.StockLogEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindByProduct returns ledger entries for a product, newest first
func (r *GormStockLogRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]inventory.StockLogEntry, error) {
	var entries []inventory.StockLogEntry
	query := r.db.WithContext(ctx).
		Model(&inventory.StockLogEntry{}).
		Where("product_id = ?", productID)

	if reason, ok := filter.Filters["reason"]; ok {
		query = query.Where("reason = ?", reason)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	if err := query.Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// CountByProduct counts ledger entries for a product
func (r *GormStockLogRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockLogEntry{}).
		Where("product_id = ?", productID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumChangesByProduct returns the sum of all recorded deltas for a product
func (r *GormStockLogRepository) SumChangesByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var sum struct {
		Total int64
	}
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockLogEntry{}).
		Select("COALESCE(SUM(change), 0) AS total").
		Where("product_id = ?", productID).
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	return sum.Total, nil
}

// Ensure GormStockLogRepository implements StockLogRepository
var _ inventory.StockLogRepository = (*GormStockLogRepository)(nil)
