package partner

import (
	"context"

	"github.com/google/uuid"
)

// CustomerRepository defines the persistence contract for the directory
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByEmail(ctx context.Context, email string) (*Customer, error)
	FindByAccount(ctx context.Context, accountID uuid.UUID) (*Customer, error)

	Save(ctx context.Context, customer *Customer) error
	// CreateIfAbsent inserts the customer unless a row with the same email
	// already exists, in which case the existing row is returned. Losing a
	// concurrent-creation race is not an error for callers.
	CreateIfAbsent(ctx context.Context, customer *Customer) (*Customer, error)
}
