package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/factorydirect/backend/internal/domain/shared"
	"github.com/factorydirect/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Customer represents the canonical customer identity in the directory.
// Email is the sole natural key; AccountID is a secondary lookup index so a
// signed-in account can be mapped back to its customer record.
type Customer struct {
	shared.BaseAggregateRoot
	Name      string               `gorm:"type:varchar(200);not null"`
	Email     string               `gorm:"type:varchar(200);not null;uniqueIndex"`
	Phone     string               `gorm:"type:varchar(50)"`
	Address   valueobject.Address  `gorm:"type:jsonb"`
	AccountID uuid.UUID            `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer record
func NewCustomer(accountID uuid.UUID, name, email, phone string, address valueobject.Address) (*Customer, error) {
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Account ID cannot be empty")
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if address.IsEmpty() {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Address is required for a new customer")
	}

	return &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Email:             email,
		Phone:             phone,
		Address:           address,
		AccountID:         accountID,
	}, nil
}

// ApplyProfile overwrites name, phone and address with the incoming values.
// Resolution is last-write-wins: the most recent order or profile action
// owns the contact details.
func (c *Customer) ApplyProfile(name, phone string, address valueobject.Address) error {
	if err := validateName(name); err != nil {
		return err
	}

	c.Name = name
	c.Phone = phone
	if !address.IsEmpty() {
		c.Address = address
	}
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// UpdateProfile overwrites only the fields that were supplied, keeping the
// rest. Used by the profile endpoint where partial updates are expected.
func (c *Customer) UpdateProfile(name, phone string, address *valueobject.Address) error {
	if name != "" {
		if err := validateName(name); err != nil {
			return err
		}
		c.Name = name
	}
	if phone != "" {
		c.Phone = phone
	}
	if address != nil && !address.IsEmpty() {
		c.Address = *address
	}
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// BelongsTo returns true if the customer is owned by the given account
func (c *Customer) BelongsTo(accountID uuid.UUID) bool {
	return c.AccountID == accountID
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Email format is invalid")
	}
	return nil
}
