package partner

import (
	"context"
	"testing"

	"github.com/factorydirect/backend/internal/domain/partner"
	"github.com/factorydirect/backend/internal/domain/shared"
	"github.com/factorydirect/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCustomerRepository is a mock implementation of partner.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByEmail(ctx context.Context, email string) (*partner.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByAccount(ctx context.Context, accountID uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) CreateIfAbsent(ctx context.Context, customer *partner.Customer) (*partner.Customer, error) {
	args := m.Called(ctx, customer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func testPayload() ResolveCustomerRequest {
	return ResolveCustomerRequest{
		Name:  "Jane Doe",
		Email: "jane@example.com",
		Phone: "555-0101",
		Address: AddressPayload{
			Street:     "1 Main St",
			City:       "Springfield",
			State:      "IL",
			PostalCode: "62701",
		},
	}
}

func existingCustomer(t *testing.T, accountID uuid.UUID) *partner.Customer {
	t.Helper()
	addr, err := valueobject.NewAddress("9 Oak Ave", "Portland", "OR", "97201", "")
	require.NoError(t, err)
	customer, err := partner.NewCustomer(accountID, "Old Name", "jane@example.com", "555-0000", addr)
	require.NoError(t, err)
	return customer
}

func TestCustomerServiceResolve(t *testing.T) {
	accountID := uuid.New()

	t.Run("email match overwrites contact details", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		service := NewCustomerService(repo)

		customer := existingCustomer(t, accountID)
		repo.On("FindByEmail", mock.Anything, "jane@example.com").Return(customer, nil)
		repo.On("Save", mock.Anything, customer).Return(nil)

		resp, err := service.Resolve(context.Background(), accountID, testPayload())
		require.NoError(t, err)

		assert.Equal(t, "Jane Doe", resp.Name)
		assert.Equal(t, "555-0101", resp.Phone)
		assert.Equal(t, "1 Main St", resp.Address.Street)
		repo.AssertNotCalled(t, "FindByAccount", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "CreateIfAbsent", mock.Anything, mock.Anything)
	})

	t.Run("falls back to account lookup", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		service := NewCustomerService(repo)

		customer := existingCustomer(t, accountID)
		repo.On("FindByEmail", mock.Anything, "jane@example.com").Return(nil, shared.ErrNotFound)
		repo.On("FindByAccount", mock.Anything, accountID).Return(customer, nil)
		repo.On("Save", mock.Anything, customer).Return(nil)

		resp, err := service.Resolve(context.Background(), accountID, testPayload())
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", resp.Name)
	})

	t.Run("creates when no match exists", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		service := NewCustomerService(repo)

		addr, err := valueobject.NewAddress("1 Main St", "Springfield", "IL", "62701", "")
		require.NoError(t, err)
		created, err := partner.NewCustomer(accountID, "Jane Doe", "jane@example.com", "555-0101", addr)
		require.NoError(t, err)

		repo.On("FindByEmail", mock.Anything, "jane@example.com").Return(nil, shared.ErrNotFound)
		repo.On("FindByAccount", mock.Anything, accountID).Return(nil, shared.ErrNotFound)
		repo.On("CreateIfAbsent", mock.Anything, mock.MatchedBy(func(c *partner.Customer) bool {
			return c.Email == "jane@example.com" && c.AccountID == accountID
		})).Return(created, nil)

		resp, err := service.Resolve(context.Background(), accountID, testPayload())
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", resp.Name)
		assert.Equal(t, "United States", resp.Address.Country)
	})

	t.Run("race loser adopts the winner's row", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		service := NewCustomerService(repo)

		winner := existingCustomer(t, uuid.New())
		repo.On("FindByEmail", mock.Anything, "jane@example.com").Return(nil, shared.ErrNotFound)
		repo.On("FindByAccount", mock.Anything, accountID).Return(nil, shared.ErrNotFound)
		repo.On("CreateIfAbsent", mock.Anything, mock.Anything).Return(winner, nil)

		resp, err := service.Resolve(context.Background(), accountID, testPayload())
		require.NoError(t, err)
		assert.Equal(t, winner.ID, resp.ID)
	})

	t.Run("rejects incomplete address", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		service := NewCustomerService(repo)

		req := testPayload()
		req.Address.City = ""
		_, err := service.Resolve(context.Background(), accountID, req)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
		assert.Contains(t, err.Error(), "city is required")
	})
}

func TestCustomerServiceUpdateProfile(t *testing.T) {
	accountID := uuid.New()

	t.Run("updates only supplied fields", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		service := NewCustomerService(repo)

		customer := existingCustomer(t, accountID)
		repo.On("FindByAccount", mock.Anything, accountID).Return(customer, nil)
		repo.On("Save", mock.Anything, customer).Return(nil)

		resp, err := service.UpdateProfile(context.Background(), accountID, UpdateProfileRequest{
			Phone: "555-0202",
		})
		require.NoError(t, err)
		assert.Equal(t, "Old Name", resp.Name)
		assert.Equal(t, "555-0202", resp.Phone)
		assert.Equal(t, "9 Oak Ave", resp.Address.Street)
	})

	t.Run("propagates not found", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		service := NewCustomerService(repo)

		repo.On("FindByAccount", mock.Anything, accountID).Return(nil, shared.ErrNotFound)

		_, err := service.UpdateProfile(context.Background(), accountID, UpdateProfileRequest{})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestCustomerServiceGetByAccount(t *testing.T) {
	accountID := uuid.New()
	repo := new(MockCustomerRepository)
	service := NewCustomerService(repo)

	customer := existingCustomer(t, accountID)
	repo.On("FindByAccount", mock.Anything, accountID).Return(customer, nil)

	resp, err := service.GetByAccount(context.Background(), accountID)
	require.NoError(t, err)
	assert.Equal(t, customer.ID, resp.ID)
}
