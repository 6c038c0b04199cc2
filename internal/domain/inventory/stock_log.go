package inventory

import (
	"github.com/factorydirect/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ChangeReason classifies why a stock counter moved
type ChangeReason string

const (
	ChangeReasonOrder            ChangeReason = "order"
	ChangeReasonManualAdjustment ChangeReason = "manual-adjustment"
	ChangeReasonReturn           ChangeReason = "return"
	ChangeReasonOther            ChangeReason = "other"
)

// IsValid checks if the reason is a known ChangeReason
func (r ChangeReason) IsValid() bool {
	switch r {
	case ChangeReasonOrder, ChangeReasonManualAdjustment, ChangeReasonReturn, ChangeReasonOther:
		return true
	}
	return false
}

// String returns the string representation of ChangeReason
func (r ChangeReason) String() string {
	return string(r)
}

// RequiresOrderRef returns true for reasons that must reference an order
func (r ChangeReason) RequiresOrderRef() bool {
	return r == ChangeReasonOrder || r == ChangeReasonReturn
}

// StockLogEntry is one line of the append-only stock ledger.
// Entries are immutable once created; the sum of Change values for a
// product always equals the distance the counter travelled.
type StockLogEntry struct {
	shared.BaseEntity
	ProductID uuid.UUID    `gorm:"type:uuid;not null;index"`
	Change    int64        `gorm:"not null"`
	Reason    ChangeReason `gorm:"type:varchar(30);not null;default:'manual-adjustment'"`
	Detail    string       `gorm:"type:text"`
	OrderID   *uuid.UUID   `gorm:"type:uuid;index"`
	ActorID   uuid.UUID    `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (StockLogEntry) TableName() string {
	return "stock_log_entries"
}

// NewStockLogEntry creates a new ledger entry for an applied stock change
func NewStockLogEntry(productID uuid.UUID, change int64, reason ChangeReason, detail string, orderID *uuid.UUID, actorID uuid.UUID) (*StockLogEntry, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if change == 0 {
		return nil, shared.NewDomainError("INVALID_CHANGE", "Change amount cannot be zero")
	}
	if !reason.IsValid() {
		return nil, shared.NewDomainError("INVALID_REASON", "Unknown stock change reason")
	}
	if reason.RequiresOrderRef() && orderID == nil {
		return nil, shared.NewDomainError("INVALID_REASON", "Order reference is required for order and return changes")
	}
	if actorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Actor ID cannot be empty")
	}

	return &StockLogEntry{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		Change:     change,
		Reason:     reason,
		Detail:     detail,
		OrderID:    orderID,
		ActorID:    actorID,
	}, nil
}
