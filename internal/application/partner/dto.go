package partner

import (
	"time"

	"github.com/factorydirect/backend/internal/domain/partner"
	"github.com/google/uuid"
)

// AddressPayload carries address fields across the API boundary
type AddressPayload struct {
	Street     string `json:"street" binding:"required,max=200"`
	City       string `json:"city" binding:"required,max=100"`
	State      string `json:"state" binding:"required,max=100"`
	PostalCode string `json:"postal_code" binding:"required,max=20"`
	Country    string `json:"country" binding:"max=100"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID        uuid.UUID       `json:"id"`
	AccountID uuid.UUID       `json:"account_id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone,omitempty"`
	Address   AddressPayload  `json:"address"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ToCustomerResponse converts a customer to its response form
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		AccountID: c.AccountID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address: AddressPayload{
			Street:     c.Address.Street(),
			City:       c.Address.City(),
			State:      c.Address.State(),
			PostalCode: c.Address.PostalCode(),
			Country:    c.Address.Country(),
		},
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ResolveCustomerRequest carries the identity fields an order submits
type ResolveCustomerRequest struct {
	Name    string         `json:"name" binding:"required,min=1,max=200"`
	Email   string         `json:"email" binding:"required,email"`
	Phone   string         `json:"phone" binding:"max=50"`
	Address AddressPayload `json:"address" binding:"required"`
}

// UpdateProfileRequest carries a partial profile update; empty fields are
// left untouched
type UpdateProfileRequest struct {
	Name    string          `json:"name" binding:"omitempty,max=200"`
	Phone   string          `json:"phone" binding:"omitempty,max=50"`
	Address *AddressPayload `json:"address"`
}
