package order

import (
	"context"
	"errors"
	"fmt"

	partnerapp "github.com/factorydirect/backend/internal/application/partner"
	"github.com/factorydirect/backend/internal/domain/catalog"
	"github.com/factorydirect/backend/internal/domain/inventory"
	"github.com/factorydirect/backend/internal/domain/order"
	"github.com/factorydirect/backend/internal/domain/partner"
	"github.com/factorydirect/backend/internal/domain/shared"
	"github.com/factorydirect/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// maxCreateRetries bounds how many times an order placement is replayed
// when another writer moved a product's version underneath it.
const maxCreateRetries = 3

// CustomerDirectory resolves the customer an order belongs to
type CustomerDirectory interface {
	Resolve(ctx context.Context, accountID uuid.UUID, req partnerapp.ResolveCustomerRequest) (*partnerapp.CustomerResponse, error)
}

// OrderService owns the order workflow: placement with all-or-nothing
// stock deduction, the forward-only status machine, and payment capture.
type OrderService struct {
	txScope      TransactionScope
	orderRepo    order.OrderRepository
	customerRepo partner.CustomerRepository
	directory    CustomerDirectory
	idemStore    shared.IdempotencyStore
	idemConfig   shared.IdempotencyConfig
}

// NewOrderService creates a new OrderService
func NewOrderService(
	txScope TransactionScope,
	orderRepo order.OrderRepository,
	customerRepo partner.CustomerRepository,
	directory CustomerDirectory,
) *OrderService {
	return &OrderService{
		txScope:      txScope,
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		directory:    directory,
		idemConfig:   shared.IdempotencyConfig{Enabled: false},
	}
}

// SetIdempotencyStore enables duplicate-submission protection for Create
func (s *OrderService) SetIdempotencyStore(store shared.IdempotencyStore, config shared.IdempotencyConfig) {
	s.idemStore = store
	s.idemConfig = config
}

// Create places an order. Every stock deduction, its ledger entry and the
// order row execute in one transaction: either the whole order commits or
// stock is untouched. A version conflict on any product replays the whole
// placement a bounded number of times.
//
// idempotencyKey is optional; when present and already seen within the
// configured TTL the placement fails with ALREADY_EXISTS before any stock
// moves.
func (s *OrderService) Create(ctx context.Context, accountID uuid.UUID, req CreateOrderRequest, idempotencyKey string) (*OrderResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Order must contain at least one item")
	}

	customerID, err := s.resolveCustomer(ctx, accountID, req)
	if err != nil {
		return nil, err
	}

	shipping, err := valueobject.NewAddress(
		req.ShippingAddress.Street, req.ShippingAddress.City, req.ShippingAddress.State,
		req.ShippingAddress.PostalCode, req.ShippingAddress.Country)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	if err := s.claimIdempotencyKey(ctx, idempotencyKey); err != nil {
		return nil, err
	}

	var placed *order.Order
	var lastErr error

	for attempt := 0; attempt < maxCreateRetries; attempt++ {
		lastErr = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			o, err := s.placeOrder(ctx, repos, customerID, accountID, req, shipping)
			if err != nil {
				return err
			}
			placed = o
			return nil
		})

		if lastErr == nil {
			response := ToOrderResponse(placed)
			return &response, nil
		}
		if !isConcurrencyConflict(lastErr) {
			return nil, lastErr
		}
	}

	return nil, lastErr
}

// placeOrder runs inside the transaction scope: snapshot lines, deduct
// stock per product under its version lock, append ledger entries and
// persist the order.
func (s *OrderService) placeOrder(
	ctx context.Context,
	repos TransactionalRepositories,
	customerID, accountID uuid.UUID,
	req CreateOrderRequest,
	shipping valueobject.Address,
) (*order.Order, error) {
	// Lines for the same product share one fetched aggregate and one
	// combined deduction, so repeated product IDs neither conflict with
	// their own version bump nor slip past the stock check line by line.
	type deduction struct {
		product  *catalog.Product
		quantity int64
	}
	items := make([]order.OrderItem, 0, len(req.Items))
	deductions := make([]*deduction, 0, len(req.Items))
	byProduct := make(map[uuid.UUID]*deduction, len(req.Items))

	for _, line := range req.Items {
		d, seen := byProduct[line.ProductID]
		if !seen {
			product, err := repos.ProductRepo().FindByID(ctx, line.ProductID)
			if err != nil {
				return nil, err
			}
			d = &deduction{product: product}
			byProduct[line.ProductID] = d
			deductions = append(deductions, d)
		}
		d.quantity += line.Quantity
		if !d.product.CanFulfill(d.quantity) {
			return nil, shared.NewDomainErrorf("INSUFFICIENT_STOCK",
				"Only %d in stock for %s", d.product.Stock, d.product.Name)
		}
		items = append(items, order.OrderItem{
			ProductID: d.product.ID,
			Name:      d.product.Name,
			Price:     d.product.Price,
			Quantity:  line.Quantity,
		})
	}

	o, err := order.NewOrder(customerID, accountID, items, shipping, req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	for _, d := range deductions {
		if err := d.product.AdjustStock(-d.quantity); err != nil {
			return nil, err
		}
		if err := repos.ProductRepo().SaveWithLock(ctx, d.product); err != nil {
			return nil, err
		}

		entry, err := inventory.NewStockLogEntry(
			d.product.ID, -d.quantity, inventory.ChangeReasonOrder,
			fmt.Sprintf("Order %s", o.ID), &o.ID, accountID)
		if err != nil {
			return nil, err
		}
		if err := repos.StockLogRepo().Append(ctx, entry); err != nil {
			return nil, err
		}
	}

	if err := repos.OrderRepo().Save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// UpdateStatus advances an order along the fulfillment flow. Backward and
// same-status moves fail; reaching shipped marks the order delivered.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateStatusRequest) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := o.TransitionTo(order.OrderStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// MarkPaid records a payment gateway result against the order
func (s *OrderService) MarkPaid(ctx context.Context, orderID uuid.UUID, payload PaymentResultPayload) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	result := order.PaymentResult{
		TransactionID: payload.TransactionID,
		Status:        payload.Status,
		UpdateTime:    payload.UpdateTime,
		EmailAddress:  payload.EmailAddress,
	}
	if err := o.MarkPaid(result); err != nil {
		return nil, err
	}
	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// List retrieves all orders newest first, optionally filtered by status
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderResponse, int64, error) {
	domainFilter := buildFilter(filter)

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToOrderResponses(orders), total, nil
}

// ListByAccount retrieves the caller's own orders newest first
func (s *OrderService) ListByAccount(ctx context.Context, accountID uuid.UUID, filter OrderListFilter) ([]OrderResponse, int64, error) {
	domainFilter := buildFilter(filter)

	orders, err := s.orderRepo.FindByAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.CountByAccount(ctx, accountID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToOrderResponses(orders), total, nil
}

// GetByID retrieves an order. Non-privileged callers only see orders they
// placed themselves; anything else fails with FORBIDDEN.
func (s *OrderService) GetByID(ctx context.Context, orderID, accountID uuid.UUID, privileged bool) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !privileged && !o.BelongsTo(accountID) {
		return nil, shared.NewDomainError("FORBIDDEN", "You do not have access to this order")
	}

	response := ToOrderResponse(o)
	return &response, nil
}

func (s *OrderService) resolveCustomer(ctx context.Context, accountID uuid.UUID, req CreateOrderRequest) (uuid.UUID, error) {
	if req.CustomerID != nil {
		customer, err := s.customerRepo.FindByID(ctx, *req.CustomerID)
		if err != nil {
			return uuid.Nil, err
		}
		return customer.ID, nil
	}
	if req.Customer != nil {
		resolved, err := s.directory.Resolve(ctx, accountID, *req.Customer)
		if err != nil {
			return uuid.Nil, err
		}
		return resolved.ID, nil
	}
	return uuid.Nil, shared.NewDomainError("INVALID_INPUT", "Either customer_id or customer must be provided")
}

// claimIdempotencyKey atomically claims the key. A key that was already
// claimed within the TTL means a duplicate submission; the order it
// belongs to was either placed or is still being placed.
func (s *OrderService) claimIdempotencyKey(ctx context.Context, key string) error {
	if key == "" || s.idemStore == nil || !s.idemConfig.Enabled {
		return nil
	}
	fresh, err := s.idemStore.MarkProcessed(ctx, key, s.idemConfig.TTL)
	if err != nil {
		return fmt.Errorf("idempotency check: %w", err)
	}
	if !fresh {
		return shared.NewDomainError("ALREADY_EXISTS", "Duplicate order submission")
	}
	return nil
}

func buildFilter(filter OrderListFilter) shared.Filter {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	return domainFilter
}

func isConcurrencyConflict(err error) bool {
	var domainErr *shared.DomainError
	return errors.As(err, &domainErr) && domainErr.Code == shared.ErrConcurrencyConflict.Code
}
