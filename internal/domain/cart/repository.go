package cart

import (
	"context"

	"github.com/google/uuid"
)

// CartRepository defines the persistence port for carts
type CartRepository interface {
	// FindByAccount loads the cart for an account with its items, or
	// returns NOT_FOUND when the account has no cart yet
	FindByAccount(ctx context.Context, accountID uuid.UUID) (*Cart, error)

	// Save persists the cart and replaces its item set
	Save(ctx context.Context, c *Cart) error

	// CreateIfAbsent inserts the cart unless one already exists for the
	// account, in which case the existing cart is returned. Safe under
	// concurrent first-touch requests.
	CreateIfAbsent(ctx context.Context, c *Cart) (*Cart, error)

	// DeleteByAccount removes the cart and its items
	DeleteByAccount(ctx context.Context, accountID uuid.UUID) error
}
