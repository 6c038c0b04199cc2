package order

import (
	"testing"

	"github.com/factorydirect/backend/internal/domain/shared"
	"github.com/factorydirect/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItems() []OrderItem {
	return []OrderItem{
		{ProductID: uuid.New(), Name: "Widget", Price: decimal.NewFromInt(10), Quantity: 2},
		{ProductID: uuid.New(), Name: "Gadget", Price: decimal.NewFromFloat(4.50), Quantity: 1},
	}
}

func testShipping(t *testing.T) valueobject.Address {
	t.Helper()
	addr, err := valueobject.NewAddress("1 Main St", "Springfield", "IL", "62701", "")
	require.NoError(t, err)
	return addr
}

func TestNewOrder(t *testing.T) {
	customerID := uuid.New()
	accountID := uuid.New()

	t.Run("creates pending order with computed total", func(t *testing.T) {
		o, err := NewOrder(customerID, accountID, testItems(), testShipping(t), "")
		require.NoError(t, err)
		require.NotNil(t, o)

		assert.Equal(t, StatusPending, o.Status)
		assert.Equal(t, DefaultPaymentMethod, o.PaymentMethod)
		assert.True(t, o.TotalPrice.Equal(decimal.NewFromFloat(24.50)))
		assert.False(t, o.IsPaid)
		assert.False(t, o.IsDelivered)
		require.Len(t, o.Items, 2)
		for _, item := range o.Items {
			assert.Equal(t, o.ID, item.OrderID)
			assert.NotEmpty(t, item.ID)
		}
	})

	t.Run("keeps an explicit payment method", func(t *testing.T) {
		o, err := NewOrder(customerID, accountID, testItems(), testShipping(t), "Stripe")
		require.NoError(t, err)
		assert.Equal(t, "Stripe", o.PaymentMethod)
	})

	t.Run("fails with no items", func(t *testing.T) {
		_, err := NewOrder(customerID, accountID, nil, testShipping(t), "")
		require.Error(t, err)
		require.ErrorIs(t, err, shared.ErrInvalidInput)
		assert.Contains(t, err.Error(), "at least one item")
	})

	t.Run("fails with empty shipping address", func(t *testing.T) {
		_, err := NewOrder(customerID, accountID, testItems(), valueobject.EmptyAddress(), "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Shipping address is required")
	})

	t.Run("fails with non-positive item quantity", func(t *testing.T) {
		items := []OrderItem{{ProductID: uuid.New(), Name: "Widget", Price: decimal.NewFromInt(10), Quantity: 0}}
		_, err := NewOrder(customerID, accountID, items, testShipping(t), "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 1")
	})
}

func TestOrderStatusCanTransitionTo(t *testing.T) {
	t.Run("forward moves are allowed including skips", func(t *testing.T) {
		assert.True(t, StatusPending.CanTransitionTo(StatusPacking))
		assert.True(t, StatusPending.CanTransitionTo(StatusShipped))
		assert.True(t, StatusPending.CanTransitionTo(StatusCompleted))
		assert.True(t, StatusPacked.CanTransitionTo(StatusCompleted))
	})

	t.Run("backward and same-status moves are rejected", func(t *testing.T) {
		assert.False(t, StatusShipped.CanTransitionTo(StatusPacking))
		assert.False(t, StatusCompleted.CanTransitionTo(StatusShipped))
		assert.False(t, StatusPacking.CanTransitionTo(StatusPacking))
	})

	t.Run("unknown statuses are rejected", func(t *testing.T) {
		assert.False(t, StatusPending.CanTransitionTo(OrderStatus("cancelled")))
		assert.False(t, OrderStatus("cancelled").CanTransitionTo(StatusPending))
	})
}

func TestOrderTransitionTo(t *testing.T) {
	newPending := func(t *testing.T) *Order {
		o, err := NewOrder(uuid.New(), uuid.New(), testItems(), testShipping(t), "")
		require.NoError(t, err)
		return o
	}

	t.Run("advances status and bumps version", func(t *testing.T) {
		o := newPending(t)
		err := o.TransitionTo(StatusPacking)
		require.NoError(t, err)
		assert.Equal(t, StatusPacking, o.Status)
		assert.Equal(t, 2, o.GetVersion())
	})

	t.Run("shipped marks the order delivered", func(t *testing.T) {
		o := newPending(t)
		err := o.TransitionTo(StatusShipped)
		require.NoError(t, err)
		assert.Equal(t, StatusShipped, o.Status)
		assert.True(t, o.IsDelivered)
		require.NotNil(t, o.DeliveredAt)
	})

	t.Run("skipping to completed does not mark delivered", func(t *testing.T) {
		o := newPending(t)
		err := o.TransitionTo(StatusCompleted)
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, o.Status)
		assert.False(t, o.IsDelivered)
		assert.Nil(t, o.DeliveredAt)
	})

	t.Run("rejects backward move", func(t *testing.T) {
		o := newPending(t)
		require.NoError(t, o.TransitionTo(StatusShipped))

		err := o.TransitionTo(StatusPacking)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Cannot transition order from shipped to packing")
		assert.Equal(t, StatusShipped, o.Status)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		o := newPending(t)
		err := o.TransitionTo(OrderStatus("cancelled"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Unknown order status")
	})
}

func TestOrderMarkPaid(t *testing.T) {
	t.Run("records payment result once", func(t *testing.T) {
		o, err := NewOrder(uuid.New(), uuid.New(), testItems(), testShipping(t), "")
		require.NoError(t, err)

		result := PaymentResult{TransactionID: "tx-1", Status: "COMPLETED", EmailAddress: "payer@example.com"}
		require.NoError(t, o.MarkPaid(result))

		assert.True(t, o.IsPaid)
		require.NotNil(t, o.PaidAt)
		assert.Equal(t, "tx-1", o.Payment.TransactionID)

		err = o.MarkPaid(result)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already paid")
	})
}

func TestOrderBelongsTo(t *testing.T) {
	accountID := uuid.New()
	o, err := NewOrder(uuid.New(), accountID, testItems(), testShipping(t), "")
	require.NoError(t, err)

	assert.True(t, o.BelongsTo(accountID))
	assert.False(t, o.BelongsTo(uuid.New()))
}
