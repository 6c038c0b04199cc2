package order

import (
	"time"

	"github.com/factorydirect/backend/internal/domain/shared"
	"github.com/factorydirect/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the fulfillment stage of an order
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPacking   OrderStatus = "packing"
	StatusPacked    OrderStatus = "packed"
	StatusShipped   OrderStatus = "shipped"
	StatusCompleted OrderStatus = "completed"
)

// statusSequence gives every status its position in the fulfillment flow.
// Transitions are only allowed to strictly later positions; skipping
// intermediate stages is permitted.
var statusSequence = map[OrderStatus]int{
	StatusPending:   0,
	StatusPacking:   1,
	StatusPacked:    2,
	StatusShipped:   3,
	StatusCompleted: 4,
}

// IsValid reports whether the status is one of the known stages
func (s OrderStatus) IsValid() bool {
	_, ok := statusSequence[s]
	return ok
}

func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo reports whether the order may move from s to target.
// The flow is forward-only; no status ever moves backward.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	from, ok := statusSequence[s]
	if !ok {
		return false
	}
	to, ok := statusSequence[target]
	if !ok {
		return false
	}
	return to > from
}

// AllStatuses returns the statuses in fulfillment order
func AllStatuses() []OrderStatus {
	return []OrderStatus{StatusPending, StatusPacking, StatusPacked, StatusShipped, StatusCompleted}
}

// transitionEffects holds side effects applied when an order reaches a
// given status. Effects key on the target, so a transition that skips
// stages still triggers the effect of the stage it lands on.
var transitionEffects = map[OrderStatus]func(o *Order, at time.Time){
	StatusShipped: func(o *Order, at time.Time) {
		o.IsDelivered = true
		o.DeliveredAt = &at
	},
}

// OrderItem is an immutable snapshot of a purchased product line
type OrderItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Name      string          `gorm:"type:varchar(200);not null"`
	Price     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Quantity  int64           `gorm:"not null"`
	CreatedAt time.Time
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// Subtotal returns price * quantity for the line
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(i.Quantity))
}

// PaymentResult captures the gateway's answer when an order is paid
type PaymentResult struct {
	TransactionID string `gorm:"type:varchar(100)" json:"id,omitempty"`
	Status        string `gorm:"type:varchar(50)" json:"status,omitempty"`
	UpdateTime    string `gorm:"type:varchar(50)" json:"update_time,omitempty"`
	EmailAddress  string `gorm:"type:varchar(254)" json:"email_address,omitempty"`
}

// Order is the aggregate root for a placed order. Items, prices and the
// shipping address are frozen at creation; only status and payment state
// change afterwards.
type Order struct {
	shared.BaseAggregateRoot
	CustomerID      uuid.UUID            `gorm:"type:uuid;not null;index"`
	AccountID       uuid.UUID            `gorm:"type:uuid;not null;index"`
	Items           []OrderItem          `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
	Status          OrderStatus          `gorm:"type:varchar(20);not null;default:'pending'"`
	ShippingAddress valueobject.Address  `gorm:"type:jsonb"`
	PaymentMethod   string               `gorm:"type:varchar(50);not null;default:'PayPal'"`
	Payment         PaymentResult        `gorm:"embedded;embeddedPrefix:payment_"`
	TotalPrice      decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	IsPaid          bool                 `gorm:"not null;default:false"`
	PaidAt          *time.Time
	IsDelivered     bool                 `gorm:"not null;default:false"`
	DeliveredAt     *time.Time
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// DefaultPaymentMethod is used when the client does not name one
const DefaultPaymentMethod = "PayPal"

// NewOrder creates a pending order from snapshotted lines
func NewOrder(customerID, accountID uuid.UUID, items []OrderItem, shipping valueobject.Address, paymentMethod string) (*Order, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Account ID cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Order must contain at least one item")
	}
	if shipping.IsEmpty() {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Shipping address is required")
	}
	if paymentMethod == "" {
		paymentMethod = DefaultPaymentMethod
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		AccountID:         accountID,
		Status:            StatusPending,
		ShippingAddress:   shipping,
		PaymentMethod:     paymentMethod,
		TotalPrice:        decimal.Zero,
	}

	now := time.Now()
	total := decimal.Zero
	for idx := range items {
		line := items[idx]
		if line.ProductID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
		}
		if line.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
		}
		if line.ID == uuid.Nil {
			line.ID = uuid.New()
		}
		line.OrderID = o.ID
		line.CreatedAt = now
		total = total.Add(line.Subtotal())
		o.Items = append(o.Items, line)
	}
	o.TotalPrice = total

	return o, nil
}

// TransitionTo advances the order to a later status and applies the
// status's side effects. Backward or same-status moves fail with
// INVALID_STATE.
func (o *Order) TransitionTo(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewDomainErrorf("INVALID_INPUT", "Unknown order status: %s", target)
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainErrorf("INVALID_STATE",
			"Cannot transition order from %s to %s", o.Status, target)
	}

	now := time.Now()
	o.Status = target
	if effect, ok := transitionEffects[target]; ok {
		effect(o, now)
	}
	o.UpdatedAt = now
	o.IncrementVersion()

	return nil
}

// MarkPaid records a successful payment. Paying twice fails with
// INVALID_STATE.
func (o *Order) MarkPaid(result PaymentResult) error {
	if o.IsPaid {
		return shared.NewDomainError("INVALID_STATE", "Order is already paid")
	}

	now := time.Now()
	o.IsPaid = true
	o.PaidAt = &now
	o.Payment = result
	o.UpdatedAt = now
	o.IncrementVersion()

	return nil
}

// BelongsTo reports whether the order was placed by the given account
func (o *Order) BelongsTo(accountID uuid.UUID) bool {
	return o.AccountID == accountID
}
