package order

import (
	"time"

	partnerapp "github.com/factorydirect/backend/internal/application/partner"
	"github.com/factorydirect/backend/internal/domain/order"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItemPayload is one requested line of a new order
type OrderItemPayload struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int64     `json:"quantity" binding:"required,min=1"`
}

// CreateOrderRequest represents a request to place an order.
// The customer is named either by an explicit ID or by inline identity
// fields that the directory resolves.
type CreateOrderRequest struct {
	CustomerID      *uuid.UUID                         `json:"customer_id"`
	Customer        *partnerapp.ResolveCustomerRequest `json:"customer"`
	Items           []OrderItemPayload                 `json:"items" binding:"required,min=1,dive"`
	ShippingAddress partnerapp.AddressPayload          `json:"shipping_address" binding:"required"`
	PaymentMethod   string                             `json:"payment_method" binding:"max=50"`
}

// UpdateStatusRequest represents a request to advance an order's status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending packing packed shipped completed"`
}

// PaymentResultPayload carries the gateway result recorded when an order
// is paid. Stored verbatim, never validated.
type PaymentResultPayload struct {
	TransactionID string `json:"id"`
	Status        string `json:"status"`
	UpdateTime    string `json:"update_time"`
	EmailAddress  string `json:"email_address"`
}

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID              uuid.UUID                 `json:"id"`
	CustomerID      uuid.UUID                 `json:"customer_id"`
	AccountID       uuid.UUID                 `json:"account_id"`
	Items           []OrderItemResponse       `json:"items"`
	Status          string                    `json:"status"`
	ShippingAddress partnerapp.AddressPayload `json:"shipping_address"`
	PaymentMethod   string                    `json:"payment_method"`
	TotalPrice      decimal.Decimal           `json:"total_price"`
	IsPaid          bool                      `json:"is_paid"`
	PaidAt          *time.Time                `json:"paid_at,omitempty"`
	IsDelivered     bool                      `json:"is_delivered"`
	DeliveredAt     *time.Time                `json:"delivered_at,omitempty"`
	CreatedAt       time.Time                 `json:"created_at"`
	UpdatedAt       time.Time                 `json:"updated_at"`
}

// ToOrderResponse converts an order to its response form
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i := range o.Items {
		items[i] = OrderItemResponse{
			ProductID: o.Items[i].ProductID,
			Name:      o.Items[i].Name,
			Price:     o.Items[i].Price,
			Quantity:  o.Items[i].Quantity,
			Subtotal:  o.Items[i].Subtotal(),
		}
	}
	return OrderResponse{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		AccountID:  o.AccountID,
		Items:      items,
		Status:     o.Status.String(),
		ShippingAddress: partnerapp.AddressPayload{
			Street:     o.ShippingAddress.Street(),
			City:       o.ShippingAddress.City(),
			State:      o.ShippingAddress.State(),
			PostalCode: o.ShippingAddress.PostalCode(),
			Country:    o.ShippingAddress.Country(),
		},
		PaymentMethod: o.PaymentMethod,
		TotalPrice:    o.TotalPrice,
		IsPaid:        o.IsPaid,
		PaidAt:        o.PaidAt,
		IsDelivered:   o.IsDelivered,
		DeliveredAt:   o.DeliveredAt,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of orders
func ToOrderResponses(orders []*order.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i, o := range orders {
		responses[i] = ToOrderResponse(o)
	}
	return responses
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending packing packed shipped completed"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}
