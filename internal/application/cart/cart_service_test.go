package cart

import (
	"context"
	"testing"

	"github.com/factorydirect/backend/internal/domain/cart"
	"github.com/factorydirect/backend/internal/domain/catalog"
	"github.com/factorydirect/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCartRepository is a mock implementation of cart.CartRepository
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) FindByAccount(ctx context.Context, accountID uuid.UUID) (*cart.Cart, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) Save(ctx context.Context, c *cart.Cart) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCartRepository) CreateIfAbsent(ctx context.Context, c *cart.Cart) (*cart.Cart, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartRepository) DeleteByAccount(ctx context.Context, accountID uuid.UUID) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) SaveWithLock(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newProduct(t *testing.T, name string, price int64, stock int64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(name, "", decimal.NewFromInt(price), stock, "")
	require.NoError(t, err)
	return product
}

func newCart(t *testing.T, accountID uuid.UUID) *cart.Cart {
	t.Helper()
	c, err := cart.NewCart(accountID)
	require.NoError(t, err)
	return c
}

func TestCartServiceGet(t *testing.T) {
	accountID := uuid.New()

	t.Run("returns existing cart", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		service := NewCartService(cartRepo, new(MockProductRepository))

		c := newCart(t, accountID)
		cartRepo.On("FindByAccount", mock.Anything, accountID).Return(c, nil)

		resp, err := service.Get(context.Background(), accountID)
		require.NoError(t, err)
		assert.Equal(t, c.ID, resp.ID)
		cartRepo.AssertNotCalled(t, "CreateIfAbsent", mock.Anything, mock.Anything)
	})

	t.Run("creates empty cart on first touch", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		service := NewCartService(cartRepo, new(MockProductRepository))

		cartRepo.On("FindByAccount", mock.Anything, accountID).Return(nil, shared.ErrNotFound)
		cartRepo.On("CreateIfAbsent", mock.Anything, mock.MatchedBy(func(c *cart.Cart) bool {
			return c.AccountID == accountID && c.IsEmpty()
		})).Return(newCart(t, accountID), nil)

		resp, err := service.Get(context.Background(), accountID)
		require.NoError(t, err)
		assert.Empty(t, resp.Items)
		assert.Equal(t, int64(0), resp.TotalItems)
	})
}

func TestCartServiceAddItem(t *testing.T) {
	accountID := uuid.New()

	t.Run("adds line with product snapshot", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		service := NewCartService(cartRepo, productRepo)

		product := newProduct(t, "Widget", 10, 5)
		c := newCart(t, accountID)
		productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		cartRepo.On("FindByAccount", mock.Anything, accountID).Return(c, nil)
		cartRepo.On("Save", mock.Anything, c).Return(nil)

		resp, err := service.AddItem(context.Background(), accountID, AddItemRequest{
			ProductID: product.ID,
			Quantity:  2,
		})
		require.NoError(t, err)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "Widget", resp.Items[0].Name)
		assert.True(t, resp.TotalPrice.Equal(decimal.NewFromInt(20)))
	})

	t.Run("rejects when combined quantity exceeds stock", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		service := NewCartService(cartRepo, productRepo)

		product := newProduct(t, "Widget", 10, 5)
		c := newCart(t, accountID)
		require.NoError(t, c.Upsert(product.ID, "Widget", decimal.NewFromInt(10), 4))

		productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		cartRepo.On("FindByAccount", mock.Anything, accountID).Return(c, nil)

		_, err := service.AddItem(context.Background(), accountID, AddItemRequest{
			ProductID: product.ID,
			Quantity:  2,
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
		cartRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("propagates product not found", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		service := NewCartService(cartRepo, productRepo)

		id := uuid.New()
		productRepo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		_, err := service.AddItem(context.Background(), accountID, AddItemRequest{ProductID: id, Quantity: 1})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestCartServiceSetItemQuantity(t *testing.T) {
	accountID := uuid.New()

	t.Run("zero removes the line without a stock check", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		service := NewCartService(cartRepo, productRepo)

		product := newProduct(t, "Widget", 10, 5)
		c := newCart(t, accountID)
		require.NoError(t, c.Upsert(product.ID, "Widget", decimal.NewFromInt(10), 3))

		cartRepo.On("FindByAccount", mock.Anything, accountID).Return(c, nil)
		cartRepo.On("Save", mock.Anything, c).Return(nil)

		resp, err := service.SetItemQuantity(context.Background(), accountID, product.ID, 0)
		require.NoError(t, err)
		assert.Empty(t, resp.Items)
		productRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("positive quantity validates against stock", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		service := NewCartService(cartRepo, productRepo)

		product := newProduct(t, "Widget", 10, 5)
		c := newCart(t, accountID)
		require.NoError(t, c.Upsert(product.ID, "Widget", decimal.NewFromInt(10), 3))

		cartRepo.On("FindByAccount", mock.Anything, accountID).Return(c, nil)
		productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

		_, err := service.SetItemQuantity(context.Background(), accountID, product.ID, 6)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
	})

	t.Run("fails when the line is absent", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		service := NewCartService(cartRepo, productRepo)

		product := newProduct(t, "Widget", 10, 5)
		cartRepo.On("FindByAccount", mock.Anything, accountID).Return(newCart(t, accountID), nil)
		productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

		_, err := service.SetItemQuantity(context.Background(), accountID, product.ID, 2)
		require.Error(t, err)
		require.ErrorIs(t, err, shared.ErrNotFound)
		assert.Contains(t, err.Error(), "not found in cart")
	})
}

func TestCartServiceMerge(t *testing.T) {
	accountID := uuid.New()

	t.Run("replace mode overwrites and clamps to stock", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		service := NewCartService(cartRepo, productRepo)

		product := newProduct(t, "Widget", 12, 3)
		c := newCart(t, accountID)
		require.NoError(t, c.Upsert(product.ID, "Widget", decimal.NewFromInt(10), 2))

		cartRepo.On("FindByAccount", mock.Anything, accountID).Return(c, nil)
		productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		cartRepo.On("Save", mock.Anything, c).Return(nil)

		resp, err := service.Merge(context.Background(), accountID, MergeRequest{
			Items: []MergeItem{{ProductID: product.ID, Quantity: 10}},
		})
		require.NoError(t, err)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, int64(3), resp.Items[0].Quantity)
		assert.True(t, resp.Items[0].Price.Equal(decimal.NewFromInt(12)))
	})

	t.Run("add mode sums with the stored line", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		service := NewCartService(cartRepo, productRepo)

		product := newProduct(t, "Widget", 10, 100)
		c := newCart(t, accountID)
		require.NoError(t, c.Upsert(product.ID, "Widget", decimal.NewFromInt(10), 2))

		cartRepo.On("FindByAccount", mock.Anything, accountID).Return(c, nil)
		productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		cartRepo.On("Save", mock.Anything, c).Return(nil)

		resp, err := service.Merge(context.Background(), accountID, MergeRequest{
			Items: []MergeItem{{ProductID: product.ID, Quantity: 3}},
			Mode:  MergeModeAdd,
		})
		require.NoError(t, err)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, int64(5), resp.Items[0].Quantity)
	})

	t.Run("skips missing products and zero clamps", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		productRepo := new(MockProductRepository)
		service := NewCartService(cartRepo, productRepo)

		missing := uuid.New()
		outOfStock := newProduct(t, "Gone", 10, 0)
		c := newCart(t, accountID)

		cartRepo.On("FindByAccount", mock.Anything, accountID).Return(c, nil)
		productRepo.On("FindByID", mock.Anything, missing).Return(nil, shared.ErrNotFound)
		productRepo.On("FindByID", mock.Anything, outOfStock.ID).Return(outOfStock, nil)
		cartRepo.On("Save", mock.Anything, c).Return(nil)

		resp, err := service.Merge(context.Background(), accountID, MergeRequest{
			Items: []MergeItem{
				{ProductID: missing, Quantity: 2},
				{ProductID: outOfStock.ID, Quantity: 2},
			},
		})
		require.NoError(t, err)
		assert.Empty(t, resp.Items)
	})
}

func TestCartServiceRemoveAndClear(t *testing.T) {
	accountID := uuid.New()

	t.Run("remove is idempotent", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		service := NewCartService(cartRepo, new(MockProductRepository))

		c := newCart(t, accountID)
		cartRepo.On("FindByAccount", mock.Anything, accountID).Return(c, nil)
		cartRepo.On("Save", mock.Anything, c).Return(nil)

		resp, err := service.RemoveItem(context.Background(), accountID, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, resp.Items)
	})

	t.Run("clear empties the cart", func(t *testing.T) {
		cartRepo := new(MockCartRepository)
		service := NewCartService(cartRepo, new(MockProductRepository))

		c := newCart(t, accountID)
		require.NoError(t, c.Upsert(uuid.New(), "Widget", decimal.NewFromInt(10), 2))
		cartRepo.On("FindByAccount", mock.Anything, accountID).Return(c, nil)
		cartRepo.On("Save", mock.Anything, c).Return(nil)

		resp, err := service.Clear(context.Background(), accountID)
		require.NoError(t, err)
		assert.Empty(t, resp.Items)
		assert.True(t, resp.TotalPrice.IsZero())
	})
}
