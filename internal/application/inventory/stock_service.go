package inventory

import (
	"context"
	"errors"

	"github.com/factorydirect/backend/internal/domain/catalog"
	"github.com/factorydirect/backend/internal/domain/inventory"
	"github.com/factorydirect/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// maxAdjustRetries bounds the optimistic lock retry loop for a single
// stock adjustment. Past this the conflict surfaces to the caller.
const maxAdjustRetries = 3

// initialStockDetail is recorded when a product is created with stock
const initialStockDetail = "Initial inventory"

// StockService owns the stock ledger: the product catalog, the stock
// counter, and the append-only log of every counter movement.
type StockService struct {
	txScope      TransactionScope
	productRepo  catalog.ProductRepository
	stockLogRepo inventory.StockLogRepository
}

// NewStockService creates a new StockService
func NewStockService(
	txScope TransactionScope,
	productRepo catalog.ProductRepository,
	stockLogRepo inventory.StockLogRepository,
) *StockService {
	return &StockService{
		txScope:      txScope,
		productRepo:  productRepo,
		stockLogRepo: stockLogRepo,
	}
}

// CreateProduct creates a product. When the initial stock is positive, a
// ledger entry records it in the same transaction as the insert so the
// ledger sum always matches the counter.
func (s *StockService) CreateProduct(ctx context.Context, req CreateProductRequest, actorID uuid.UUID) (*ProductResponse, error) {
	product, err := catalog.NewProduct(req.Name, req.Description, req.Price, req.Stock, req.Category)
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.ProductRepo().Save(ctx, product); err != nil {
			return err
		}
		if product.Stock > 0 {
			entry, err := inventory.NewStockLogEntry(
				product.ID, product.Stock, inventory.ChangeReasonManualAdjustment,
				initialStockDetail, nil, actorID)
			if err != nil {
				return err
			}
			return repos.StockLogRepo().Append(ctx, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// UpdateProduct updates a product's descriptive fields. The stock counter
// is not writable here; it only moves through AdjustStock.
func (s *StockService) UpdateProduct(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := product.Update(req.Name, req.Description, req.Price, req.Category); err != nil {
		return nil, err
	}
	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// DeleteProduct removes a product from the catalog
func (s *StockService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, productID)
}

// GetProduct retrieves a product by ID
func (s *StockService) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// ListProducts retrieves products with filtering and pagination
func (s *StockService) ListProducts(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	domainFilter.Search = filter.Search
	if filter.Category != "" {
		domainFilter.Filters["category"] = filter.Category
	}

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProductResponses(products), total, nil
}

// AdjustStock applies a signed delta to a product's stock counter and
// appends the matching ledger entry in one transaction. The counter is
// guarded by its version column; a concurrent writer triggers a bounded
// retry before the conflict surfaces.
func (s *StockService) AdjustStock(ctx context.Context, productID uuid.UUID, req AdjustStockRequest, actorID uuid.UUID) (*AdjustStockResponse, error) {
	reason := inventory.ChangeReason(req.Reason)
	if !reason.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown stock change reason")
	}

	var result *AdjustStockResponse
	var lastErr error

	for attempt := 0; attempt < maxAdjustRetries; attempt++ {
		lastErr = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			product, err := repos.ProductRepo().FindByID(ctx, productID)
			if err != nil {
				return err
			}
			if err := product.AdjustStock(req.Change); err != nil {
				return err
			}
			if err := repos.ProductRepo().SaveWithLock(ctx, product); err != nil {
				return err
			}

			entry, err := inventory.NewStockLogEntry(
				productID, req.Change, reason, req.Detail, req.OrderID, actorID)
			if err != nil {
				return err
			}
			if err := repos.StockLogRepo().Append(ctx, entry); err != nil {
				return err
			}

			result = &AdjustStockResponse{
				ProductID: productID,
				Stock:     product.Stock,
				Log:       ToStockLogResponse(entry),
			}
			return nil
		})

		if lastErr == nil {
			return result, nil
		}
		if !isConcurrencyConflict(lastErr) {
			return nil, lastErr
		}
	}

	return nil, lastErr
}

// ListLogs retrieves the ledger entries for a product, newest first
func (s *StockService) ListLogs(ctx context.Context, productID uuid.UUID, filter LogListFilter) ([]StockLogResponse, int64, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, 0, err
	}

	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}

	entries, err := s.stockLogRepo.FindByProduct(ctx, productID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.stockLogRepo.CountByProduct(ctx, productID)
	if err != nil {
		return nil, 0, err
	}

	return ToStockLogResponses(entries), total, nil
}

// CheckAvailability reports whether current stock covers the requested
// quantity. It is a plain read and reserves nothing.
func (s *StockService) CheckAvailability(ctx context.Context, productID uuid.UUID, quantity int64) (*AvailabilityResponse, error) {
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Quantity must be at least 1")
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	return &AvailabilityResponse{
		ProductID: productID,
		Requested: quantity,
		Stock:     product.Stock,
		Available: product.CanFulfill(quantity),
	}, nil
}

func isConcurrencyConflict(err error) bool {
	var domainErr *shared.DomainError
	return errors.As(err, &domainErr) && domainErr.Code == shared.ErrConcurrencyConflict.Code
}
