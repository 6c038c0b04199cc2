package partner

import (
	"context"
	"errors"

	"github.com/factorydirect/backend/internal/domain/partner"
	"github.com/factorydirect/backend/internal/domain/shared"
	"github.com/factorydirect/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// CustomerService owns the customer directory. Email is the sole natural
// key; an account is a secondary lookup axis so a signed-in caller can be
// mapped back to its customer record.
type CustomerService struct {
	customerRepo partner.CustomerRepository
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// Resolve finds or creates the customer an order belongs to.
// Lookup order is email first, then account, then create. Contact details
// are last-write-wins: whatever the most recent order or profile action
// supplied overwrites what the directory held. Concurrent first-order
// races collapse at the database on the email unique constraint and the
// loser adopts the winner's row.
func (s *CustomerService) Resolve(ctx context.Context, accountID uuid.UUID, req ResolveCustomerRequest) (*CustomerResponse, error) {
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Account ID cannot be empty")
	}

	address, err := toAddress(req.Address)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	customer, err := s.customerRepo.FindByEmail(ctx, req.Email)
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	if customer == nil {
		customer, err = s.customerRepo.FindByAccount(ctx, accountID)
		if err != nil && !isNotFound(err) {
			return nil, err
		}
	}

	if customer != nil {
		if err := customer.ApplyProfile(req.Name, req.Phone, address); err != nil {
			return nil, err
		}
		if err := s.customerRepo.Save(ctx, customer); err != nil {
			return nil, err
		}
		response := ToCustomerResponse(customer)
		return &response, nil
	}

	fresh, err := partner.NewCustomer(accountID, req.Name, req.Email, req.Phone, address)
	if err != nil {
		return nil, err
	}
	created, err := s.customerRepo.CreateIfAbsent(ctx, fresh)
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(created)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByAccount retrieves the customer linked to an account
func (s *CustomerService) GetByAccount(ctx context.Context, accountID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	response := ToCustomerResponse(customer)
	return &response, nil
}

// UpdateProfile applies a partial profile update to the account's
// customer record. Only supplied fields are overwritten.
func (s *CustomerService) UpdateProfile(ctx context.Context, accountID uuid.UUID, req UpdateProfileRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	var address *valueobject.Address
	if req.Address != nil {
		addr, err := toAddress(*req.Address)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
		}
		address = &addr
	}

	if err := customer.UpdateProfile(req.Name, req.Phone, address); err != nil {
		return nil, err
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

func toAddress(p AddressPayload) (valueobject.Address, error) {
	return valueobject.NewAddress(p.Street, p.City, p.State, p.PostalCode, p.Country)
}

func isNotFound(err error) bool {
	var domainErr *shared.DomainError
	return errors.As(err, &domainErr) && domainErr.Code == shared.ErrNotFound.Code
}
