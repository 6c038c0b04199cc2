package cart

import (
	"context"
	"errors"

	"github.com/factorydirect/backend/internal/domain/cart"
	"github.com/factorydirect/backend/internal/domain/catalog"
	"github.com/factorydirect/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CartService owns the per-account cart. Stock is validated against the
// catalog on every mutation but never reserved; the order workflow is the
// only place stock actually moves.
type CartService struct {
	cartRepo    cart.CartRepository
	productRepo catalog.ProductRepository
}

// NewCartService creates a new CartService
func NewCartService(cartRepo cart.CartRepository, productRepo catalog.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// Get returns the account's cart, creating an empty one on first touch.
// Concurrent first-touch requests collapse on the account unique index.
func (s *CartService) Get(ctx context.Context, accountID uuid.UUID) (*CartResponse, error) {
	c, err := s.getOrCreate(ctx, accountID)
	if err != nil {
		return nil, err
	}
	response := ToCartResponse(c)
	return &response, nil
}

// AddItem adds a product to the cart, summing into an existing line. The
// combined line quantity must not exceed current stock.
func (s *CartService) AddItem(ctx context.Context, accountID uuid.UUID, req AddItemRequest) (*CartResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	c, err := s.getOrCreate(ctx, accountID)
	if err != nil {
		return nil, err
	}

	wanted := c.ItemQuantity(product.ID) + req.Quantity
	if !product.CanFulfill(wanted) {
		return nil, shared.NewDomainErrorf("INSUFFICIENT_STOCK",
			"Only %d in stock for %s", product.Stock, product.Name)
	}

	if err := c.Upsert(product.ID, product.Name, product.Price, req.Quantity); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToCartResponse(c)
	return &response, nil
}

// SetItemQuantity sets a line's quantity; zero removes the line
func (s *CartService) SetItemQuantity(ctx context.Context, accountID, productID uuid.UUID, quantity int64) (*CartResponse, error) {
	c, err := s.cartRepo.FindByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if quantity > 0 {
		product, err := s.productRepo.FindByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		if !product.CanFulfill(quantity) {
			return nil, shared.NewDomainErrorf("INSUFFICIENT_STOCK",
				"Only %d in stock for %s", product.Stock, product.Name)
		}
	}

	if err := c.SetQuantity(productID, quantity); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToCartResponse(c)
	return &response, nil
}

// RemoveItem drops a line from the cart. Removing an absent line succeeds.
func (s *CartService) RemoveItem(ctx context.Context, accountID, productID uuid.UUID) (*CartResponse, error) {
	c, err := s.cartRepo.FindByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	c.RemoveItem(productID)
	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToCartResponse(c)
	return &response, nil
}

// Clear removes every line from the cart
func (s *CartService) Clear(ctx context.Context, accountID uuid.UUID) (*CartResponse, error) {
	c, err := s.cartRepo.FindByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	c.Clear()
	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToCartResponse(c)
	return &response, nil
}

// Merge folds a client-held cart into the stored one after sign-in.
// Quantities are clamped to current stock, missing products and zero
// clamps are skipped silently, and line prices refresh to the catalog's
// current price. Replace mode overwrites matching lines; add mode sums.
func (s *CartService) Merge(ctx context.Context, accountID uuid.UUID, req MergeRequest) (*CartResponse, error) {
	mode := req.Mode
	if mode == "" {
		mode = MergeModeReplace
	}
	if !mode.IsValid() {
		return nil, shared.NewDomainErrorf("INVALID_INPUT", "Unknown merge mode: %s", mode)
	}

	c, err := s.getOrCreate(ctx, accountID)
	if err != nil {
		return nil, err
	}

	for _, item := range req.Items {
		if item.Quantity <= 0 {
			continue
		}
		product, err := s.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			if isNotFound(err) {
				continue
			}
			return nil, err
		}

		quantity := item.Quantity
		if mode == MergeModeAdd {
			quantity += c.ItemQuantity(product.ID)
		}
		if quantity > product.Stock {
			quantity = product.Stock
		}
		if quantity <= 0 {
			continue
		}

		if err := c.Overwrite(product.ID, product.Name, product.Price, quantity); err != nil {
			return nil, err
		}
	}

	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToCartResponse(c)
	return &response, nil
}

func (s *CartService) getOrCreate(ctx context.Context, accountID uuid.UUID) (*cart.Cart, error) {
	c, err := s.cartRepo.FindByAccount(ctx, accountID)
	if err == nil {
		return c, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	fresh, err := cart.NewCart(accountID)
	if err != nil {
		return nil, err
	}
	return s.cartRepo.CreateIfAbsent(ctx, fresh)
}

func isNotFound(err error) bool {
	var domainErr *shared.DomainError
	return errors.As(err, &domainErr) && domainErr.Code == shared.ErrNotFound.Code
}
