package persistence

import (
	"context"
	"errors"

	"github.com/factorydirect/backend/internal/domain/cart"
	"github.com/factorydirect/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCartRepository implements CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByAccount loads the cart for an account together with its items
func (r *GormCartRepository) FindByAccount(ctx context.Context, accountID uuid.UUID) (*cart.Cart, error) {
	var c cart.Cart
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("account_id = ?", accountID).
		First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Save persists the cart and replaces its item set. Lines removed from
// the aggregate are deleted, so the stored rows always mirror c.Items.
func (r *GormCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		keep := make([]uuid.UUID, 0, len(c.Items))
		for i := range c.Items {
			keep = append(keep, c.Items[i].ID)
		}

		stale := tx.Where("cart_id = ?", c.ID)
		if len(keep) > 0 {
			stale = stale.Where("id NOT IN ?", keep)
		}
		if err := stale.Delete(&cart.CartItem{}).Error; err != nil {
			return err
		}

		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(c).Error
	})
}

// CreateIfAbsent inserts the cart unless one already exists for the
// account. When the insert loses to an existing row the winning cart is
// loaded and returned, so concurrent first-touch requests converge.
func (r *GormCartRepository) CreateIfAbsent(ctx context.Context, c *cart.Cart) (*cart.Cart, error) {
	result := r.db.WithContext(ctx).
		Omit("Items").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account_id"}},
			DoNothing: true,
		}).
		Create(c)

	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected > 0 {
		return c, nil
	}
	return r.FindByAccount(ctx, c.AccountID)
}

// DeleteByAccount removes the cart and its items
func (r *GormCartRepository) DeleteByAccount(ctx context.Context, accountID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c cart.Cart
		if err := tx.Where("account_id = ?", accountID).First(&c).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Where("cart_id = ?", c.ID).Delete(&cart.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&c).Error
	})
}

// Ensure GormCartRepository implements CartRepository
var _ cart.CartRepository = (*GormCartRepository)(nil)
