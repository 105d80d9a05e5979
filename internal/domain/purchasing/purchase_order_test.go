package purchasing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockroom/backend/internal/domain/shared"
)

func newTestOrder(t *testing.T) *PurchaseOrder {
	t.Helper()
	order, err := NewPurchaseOrder(uuid.New(), "PO-2026-00001", uuid.New(), uuid.New())
	require.NoError(t, err)
	return order
}

func newApprovedOrder(t *testing.T, quantities ...int64) (*PurchaseOrder, []uuid.UUID) {
	t.Helper()
	order := newTestOrder(t)
	products := make([]uuid.UUID, 0, len(quantities))
	for i, qty := range quantities {
		productID := uuid.New()
		_, err := order.AddLine(productID, "Product", decimal.NewFromInt(qty), decimal.NewFromInt(int64(10+i)))
		require.NoError(t, err)
		products = append(products, productID)
	}
	require.NoError(t, order.Submit())
	require.NoError(t, order.Approve(uuid.New()))
	return order, products
}

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}

// ============================================================================
// OrderStatus Tests
// ============================================================================

func TestOrderStatus_IsValid(t *testing.T) {
	valid := []OrderStatus{
		OrderStatusDraft, OrderStatusSubmitted, OrderStatusApproved,
		OrderStatusRejected, OrderStatusPartiallyReceived, OrderStatusCompleted, OrderStatusClosed,
	}
	for _, status := range valid {
		assert.True(t, status.IsValid(), "expected %s to be valid", status)
	}
	assert.False(t, OrderStatus("UNKNOWN").IsValid())
	assert.False(t, OrderStatus("").IsValid())
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{"draft to submitted", OrderStatusDraft, OrderStatusSubmitted, true},
		{"draft to closed", OrderStatusDraft, OrderStatusClosed, true},
		{"draft to approved", OrderStatusDraft, OrderStatusApproved, false},
		{"submitted to approved", OrderStatusSubmitted, OrderStatusApproved, true},
		{"submitted to rejected", OrderStatusSubmitted, OrderStatusRejected, true},
		{"submitted to closed", OrderStatusSubmitted, OrderStatusClosed, true},
		{"submitted to completed", OrderStatusSubmitted, OrderStatusCompleted, false},
		{"approved to partially received", OrderStatusApproved, OrderStatusPartiallyReceived, true},
		{"approved to completed", OrderStatusApproved, OrderStatusCompleted, true},
		{"approved to closed", OrderStatusApproved, OrderStatusClosed, true},
		{"approved to rejected", OrderStatusApproved, OrderStatusRejected, false},
		{"partially received to completed", OrderStatusPartiallyReceived, OrderStatusCompleted, true},
		{"partially received to closed", OrderStatusPartiallyReceived, OrderStatusClosed, true},
		{"rejected is terminal", OrderStatusRejected, OrderStatusClosed, false},
		{"completed is terminal", OrderStatusCompleted, OrderStatusClosed, false},
		{"closed is terminal", OrderStatusClosed, OrderStatusSubmitted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestOrderStatus_CanReceive(t *testing.T) {
	assert.True(t, OrderStatusApproved.CanReceive())
	assert.True(t, OrderStatusPartiallyReceived.CanReceive())
	assert.False(t, OrderStatusDraft.CanReceive())
	assert.False(t, OrderStatusSubmitted.CanReceive())
	assert.False(t, OrderStatusCompleted.CanReceive())
	assert.False(t, OrderStatusClosed.CanReceive())
}

func TestOrderStatus_IsTerminal(t *testing.T) {
	assert.True(t, OrderStatusRejected.IsTerminal())
	assert.True(t, OrderStatusCompleted.IsTerminal())
	assert.True(t, OrderStatusClosed.IsTerminal())
	assert.False(t, OrderStatusDraft.IsTerminal())
	assert.False(t, OrderStatusApproved.IsTerminal())
	assert.False(t, OrderStatusPartiallyReceived.IsTerminal())
}

// ============================================================================
// PurchaseOrder Creation Tests
// ============================================================================

func TestNewPurchaseOrder(t *testing.T) {
	t.Run("creates draft order", func(t *testing.T) {
		orgID := uuid.New()
		supplierID := uuid.New()
		warehouseID := uuid.New()

		order, err := NewPurchaseOrder(orgID, "PO-2026-00001", supplierID, warehouseID)
		require.NoError(t, err)

		assert.Equal(t, OrderStatusDraft, order.Status)
		assert.Equal(t, orgID, order.OrgID)
		assert.Equal(t, supplierID, order.SupplierID)
		assert.Equal(t, warehouseID, order.WarehouseID)
		assert.Equal(t, 1, order.Version)
		assert.True(t, order.TotalAmount.IsZero())
		assert.Empty(t, order.Lines)

		events := order.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeOrderCreated, events[0].EventType())
	})

	t.Run("rejects empty order number", func(t *testing.T) {
		_, err := NewPurchaseOrder(uuid.New(), "", uuid.New(), uuid.New())
		assertDomainCode(t, err, shared.CodeValidation)
	})

	t.Run("rejects nil supplier", func(t *testing.T) {
		_, err := NewPurchaseOrder(uuid.New(), "PO-2026-00001", uuid.Nil, uuid.New())
		assertDomainCode(t, err, shared.CodeValidation)
	})

	t.Run("rejects nil warehouse", func(t *testing.T) {
		_, err := NewPurchaseOrder(uuid.New(), "PO-2026-00001", uuid.New(), uuid.Nil)
		assertDomainCode(t, err, shared.CodeValidation)
	})
}

// ============================================================================
// Line Management Tests
// ============================================================================

func TestPurchaseOrder_AddLine(t *testing.T) {
	t.Run("adds line and recalculates total", func(t *testing.T) {
		order := newTestOrder(t)

		line, err := order.AddLine(uuid.New(), "Widget", decimal.NewFromInt(10), decimal.NewFromFloat(2.5))
		require.NoError(t, err)

		assert.Equal(t, order.ID, line.OrderID)
		assert.True(t, line.ReceivedQuantity.IsZero())
		assert.True(t, line.Amount.Equal(decimal.NewFromInt(25)))
		assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(25)))
		assert.Equal(t, 1, order.LineCount())
	})

	t.Run("rejects duplicate product", func(t *testing.T) {
		order := newTestOrder(t)
		productID := uuid.New()

		_, err := order.AddLine(productID, "Widget", decimal.NewFromInt(10), decimal.NewFromInt(1))
		require.NoError(t, err)

		_, err = order.AddLine(productID, "Widget", decimal.NewFromInt(5), decimal.NewFromInt(1))
		assertDomainCode(t, err, shared.CodeAlreadyExists)
	})

	t.Run("rejects non positive quantity", func(t *testing.T) {
		order := newTestOrder(t)
		_, err := order.AddLine(uuid.New(), "Widget", decimal.Zero, decimal.NewFromInt(1))
		assertDomainCode(t, err, shared.CodeValidation)
	})

	t.Run("rejects lines outside draft", func(t *testing.T) {
		order, _ := newApprovedOrder(t, 5)
		_, err := order.AddLine(uuid.New(), "Widget", decimal.NewFromInt(1), decimal.NewFromInt(1))
		assertDomainCode(t, err, shared.CodeInvalidState)
	})
}

func TestPurchaseOrder_RemoveLine(t *testing.T) {
	order := newTestOrder(t)
	line, err := order.AddLine(uuid.New(), "Widget", decimal.NewFromInt(10), decimal.NewFromInt(3))
	require.NoError(t, err)

	require.NoError(t, order.RemoveLine(line.ID))
	assert.Equal(t, 0, order.LineCount())
	assert.True(t, order.TotalAmount.IsZero())

	err = order.RemoveLine(uuid.New())
	assertDomainCode(t, err, shared.CodeNotFound)
}

// ============================================================================
// Lifecycle Tests
// ============================================================================

func TestPurchaseOrder_Submit(t *testing.T) {
	t.Run("submits draft with lines", func(t *testing.T) {
		order := newTestOrder(t)
		_, err := order.AddLine(uuid.New(), "Widget", decimal.NewFromInt(10), decimal.NewFromInt(1))
		require.NoError(t, err)
		order.ClearDomainEvents()

		require.NoError(t, order.Submit())

		assert.Equal(t, OrderStatusSubmitted, order.Status)
		assert.NotNil(t, order.SubmittedAt)
		assert.Equal(t, 2, order.Version)

		events := order.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeOrderSubmitted, events[0].EventType())
	})

	t.Run("rejects empty order", func(t *testing.T) {
		order := newTestOrder(t)
		err := order.Submit()
		assertDomainCode(t, err, shared.CodeValidation)
		assert.Equal(t, OrderStatusDraft, order.Status)
	})

	t.Run("rejects double submit", func(t *testing.T) {
		order := newTestOrder(t)
		_, err := order.AddLine(uuid.New(), "Widget", decimal.NewFromInt(10), decimal.NewFromInt(1))
		require.NoError(t, err)
		require.NoError(t, order.Submit())

		err = order.Submit()
		assertDomainCode(t, err, shared.CodeInvalidState)
	})
}

func TestPurchaseOrder_Approve(t *testing.T) {
	t.Run("approves submitted order", func(t *testing.T) {
		order := newTestOrder(t)
		_, err := order.AddLine(uuid.New(), "Widget", decimal.NewFromInt(10), decimal.NewFromInt(1))
		require.NoError(t, err)
		require.NoError(t, order.Submit())

		approver := uuid.New()
		require.NoError(t, order.Approve(approver))

		assert.Equal(t, OrderStatusApproved, order.Status)
		require.NotNil(t, order.ApprovedBy)
		assert.Equal(t, approver, *order.ApprovedBy)
		assert.NotNil(t, order.ApprovedAt)
		assert.Equal(t, 3, order.Version)
	})

	t.Run("rejects approval of draft", func(t *testing.T) {
		order := newTestOrder(t)
		err := order.Approve(uuid.New())
		assertDomainCode(t, err, shared.CodeInvalidState)
	})
}

func TestPurchaseOrder_Reject(t *testing.T) {
	t.Run("rejects submitted order with reason", func(t *testing.T) {
		order := newTestOrder(t)
		_, err := order.AddLine(uuid.New(), "Widget", decimal.NewFromInt(10), decimal.NewFromInt(1))
		require.NoError(t, err)
		require.NoError(t, order.Submit())

		rejecter := uuid.New()
		require.NoError(t, order.Reject(rejecter, "budget exceeded"))

		assert.Equal(t, OrderStatusRejected, order.Status)
		assert.Equal(t, "budget exceeded", order.RejectionReason)
		require.NotNil(t, order.RejectedBy)
		assert.Equal(t, rejecter, *order.RejectedBy)
		assert.True(t, order.IsTerminal())
	})

	t.Run("requires a reason", func(t *testing.T) {
		order := newTestOrder(t)
		_, err := order.AddLine(uuid.New(), "Widget", decimal.NewFromInt(10), decimal.NewFromInt(1))
		require.NoError(t, err)
		require.NoError(t, order.Submit())

		err = order.Reject(uuid.New(), "")
		assertDomainCode(t, err, shared.CodeValidation)
		assert.Equal(t, OrderStatusSubmitted, order.Status)
	})

	t.Run("cannot reject approved order", func(t *testing.T) {
		order, _ := newApprovedOrder(t, 5)
		err := order.Reject(uuid.New(), "too late")
		assertDomainCode(t, err, shared.CodeInvalidState)
	})
}

func TestPurchaseOrder_Close(t *testing.T) {
	t.Run("closes from any non terminal state", func(t *testing.T) {
		states := []func(t *testing.T) *PurchaseOrder{
			func(t *testing.T) *PurchaseOrder { return newTestOrder(t) },
			func(t *testing.T) *PurchaseOrder {
				order := newTestOrder(t)
				_, err := order.AddLine(uuid.New(), "W", decimal.NewFromInt(1), decimal.NewFromInt(1))
				require.NoError(t, err)
				require.NoError(t, order.Submit())
				return order
			},
			func(t *testing.T) *PurchaseOrder {
				order, _ := newApprovedOrder(t, 10)
				return order
			},
			func(t *testing.T) *PurchaseOrder {
				order, products := newApprovedOrder(t, 10)
				_, err := order.Receive([]ReceiveItem{{ProductID: products[0], Quantity: decimal.NewFromInt(4)}})
				require.NoError(t, err)
				return order
			},
		}

		for _, build := range states {
			order := build(t)
			previous := order.Status
			require.NoError(t, order.Close("supplier discontinued"), "closing from %s", previous)
			assert.Equal(t, OrderStatusClosed, order.Status)
			assert.Equal(t, "supplier discontinued", order.CloseReason)
			assert.NotNil(t, order.ClosedAt)
		}
	})

	t.Run("cannot close terminal order", func(t *testing.T) {
		order, products := newApprovedOrder(t, 5)
		_, err := order.Receive([]ReceiveItem{{ProductID: products[0], Quantity: decimal.NewFromInt(5)}})
		require.NoError(t, err)
		require.Equal(t, OrderStatusCompleted, order.Status)

		err = order.Close("cleanup")
		assertDomainCode(t, err, shared.CodeInvalidState)
	})
}

// ============================================================================
// Receiving Tests
// ============================================================================

func TestPurchaseOrder_Receive(t *testing.T) {
	t.Run("partial receipt moves to partially received", func(t *testing.T) {
		order, products := newApprovedOrder(t, 10, 20)
		order.ClearDomainEvents()
		versionBefore := order.Version

		deltas, err := order.Receive([]ReceiveItem{
			{ProductID: products[0], Quantity: decimal.NewFromInt(4)},
		})
		require.NoError(t, err)

		assert.Equal(t, OrderStatusPartiallyReceived, order.Status)
		assert.Equal(t, versionBefore+1, order.Version)
		require.Len(t, deltas, 1)
		assert.Equal(t, products[0], deltas[0].ProductID)
		assert.True(t, deltas[0].Quantity.Equal(decimal.NewFromInt(4)))
		assert.True(t, deltas[0].ReceivedQuantity.Equal(decimal.NewFromInt(4)))
		assert.True(t, deltas[0].OrderedQuantity.Equal(decimal.NewFromInt(10)))
		assert.False(t, deltas[0].FullyReceived)

		events := order.GetDomainEvents()
		require.Len(t, events, 1)
		received, ok := events[0].(*OrderReceivedEvent)
		require.True(t, ok)
		assert.Equal(t, OrderStatusPartiallyReceived, received.Status)
		assert.Len(t, received.Deltas, 1)
	})

	t.Run("full receipt completes the order", func(t *testing.T) {
		order, products := newApprovedOrder(t, 10, 20)

		deltas, err := order.Receive([]ReceiveItem{
			{ProductID: products[0], Quantity: decimal.NewFromInt(10)},
			{ProductID: products[1], Quantity: decimal.NewFromInt(20)},
		})
		require.NoError(t, err)

		assert.Equal(t, OrderStatusCompleted, order.Status)
		assert.NotNil(t, order.CompletedAt)
		require.Len(t, deltas, 2)
		for _, delta := range deltas {
			assert.True(t, delta.FullyReceived)
		}
	})

	t.Run("receipt in multiple batches", func(t *testing.T) {
		order, products := newApprovedOrder(t, 10)

		_, err := order.Receive([]ReceiveItem{{ProductID: products[0], Quantity: decimal.NewFromInt(6)}})
		require.NoError(t, err)
		assert.Equal(t, OrderStatusPartiallyReceived, order.Status)

		deltas, err := order.Receive([]ReceiveItem{{ProductID: products[0], Quantity: decimal.NewFromInt(4)}})
		require.NoError(t, err)
		assert.Equal(t, OrderStatusCompleted, order.Status)
		require.Len(t, deltas, 1)
		assert.True(t, deltas[0].ReceivedQuantity.Equal(decimal.NewFromInt(10)))
	})

	t.Run("duplicate products in one batch accumulate", func(t *testing.T) {
		order, products := newApprovedOrder(t, 10)

		deltas, err := order.Receive([]ReceiveItem{
			{ProductID: products[0], Quantity: decimal.NewFromInt(3)},
			{ProductID: products[0], Quantity: decimal.NewFromInt(7)},
		})
		require.NoError(t, err)

		require.Len(t, deltas, 1)
		assert.True(t, deltas[0].Quantity.Equal(decimal.NewFromInt(10)))
		assert.Equal(t, OrderStatusCompleted, order.Status)
	})

	t.Run("duplicates exceeding ordered quantity are rejected", func(t *testing.T) {
		order, products := newApprovedOrder(t, 10)

		_, err := order.Receive([]ReceiveItem{
			{ProductID: products[0], Quantity: decimal.NewFromInt(6)},
			{ProductID: products[0], Quantity: decimal.NewFromInt(6)},
		})
		assertDomainCode(t, err, shared.CodeOverReceipt)
		assert.Equal(t, OrderStatusApproved, order.Status)
		assert.True(t, order.Lines[0].ReceivedQuantity.IsZero())
	})

	t.Run("unknown product rejects the whole batch", func(t *testing.T) {
		order, products := newApprovedOrder(t, 10, 20)
		versionBefore := order.Version
		order.ClearDomainEvents()

		_, err := order.Receive([]ReceiveItem{
			{ProductID: products[0], Quantity: decimal.NewFromInt(4)},
			{ProductID: uuid.New(), Quantity: decimal.NewFromInt(1)},
		})
		assertDomainCode(t, err, shared.CodeUnknownLineItem)

		assert.Equal(t, OrderStatusApproved, order.Status)
		assert.Equal(t, versionBefore, order.Version)
		assert.True(t, order.Lines[0].ReceivedQuantity.IsZero())
		assert.Empty(t, order.GetDomainEvents())
	})

	t.Run("over receipt rejects the whole batch", func(t *testing.T) {
		order, products := newApprovedOrder(t, 10, 20)

		_, err := order.Receive([]ReceiveItem{
			{ProductID: products[1], Quantity: decimal.NewFromInt(5)},
			{ProductID: products[0], Quantity: decimal.NewFromInt(11)},
		})
		assertDomainCode(t, err, shared.CodeOverReceipt)
		assert.True(t, order.Lines[0].ReceivedQuantity.IsZero())
		assert.True(t, order.Lines[1].ReceivedQuantity.IsZero())
	})

	t.Run("non positive quantity is rejected", func(t *testing.T) {
		order, products := newApprovedOrder(t, 10)

		_, err := order.Receive([]ReceiveItem{{ProductID: products[0], Quantity: decimal.Zero}})
		assertDomainCode(t, err, shared.CodeValidation)

		_, err = order.Receive([]ReceiveItem{{ProductID: products[0], Quantity: decimal.NewFromInt(-1)}})
		assertDomainCode(t, err, shared.CodeValidation)
	})

	t.Run("empty batch is rejected", func(t *testing.T) {
		order, _ := newApprovedOrder(t, 10)
		_, err := order.Receive(nil)
		assertDomainCode(t, err, shared.CodeValidation)
	})

	t.Run("cannot receive outside approved states", func(t *testing.T) {
		order := newTestOrder(t)
		productID := uuid.New()
		_, err := order.AddLine(productID, "Widget", decimal.NewFromInt(10), decimal.NewFromInt(1))
		require.NoError(t, err)

		_, err = order.Receive([]ReceiveItem{{ProductID: productID, Quantity: decimal.NewFromInt(1)}})
		assertDomainCode(t, err, shared.CodeInvalidState)

		require.NoError(t, order.Submit())
		_, err = order.Receive([]ReceiveItem{{ProductID: productID, Quantity: decimal.NewFromInt(1)}})
		assertDomainCode(t, err, shared.CodeInvalidState)
	})

	t.Run("cannot receive on completed order", func(t *testing.T) {
		order, products := newApprovedOrder(t, 5)
		_, err := order.Receive([]ReceiveItem{{ProductID: products[0], Quantity: decimal.NewFromInt(5)}})
		require.NoError(t, err)

		_, err = order.Receive([]ReceiveItem{{ProductID: products[0], Quantity: decimal.NewFromInt(1)}})
		assertDomainCode(t, err, shared.CodeInvalidState)
	})
}

// ============================================================================
// Quantity Helper Tests
// ============================================================================

func TestPurchaseOrder_QuantityTotals(t *testing.T) {
	order, products := newApprovedOrder(t, 10, 20)

	assert.True(t, order.TotalOrderedQuantity().Equal(decimal.NewFromInt(30)))
	assert.True(t, order.TotalReceivedQuantity().IsZero())
	assert.True(t, order.TotalRemainingQuantity().Equal(decimal.NewFromInt(30)))

	_, err := order.Receive([]ReceiveItem{{ProductID: products[0], Quantity: decimal.NewFromInt(4)}})
	require.NoError(t, err)

	assert.True(t, order.TotalReceivedQuantity().Equal(decimal.NewFromInt(4)))
	assert.True(t, order.TotalRemainingQuantity().Equal(decimal.NewFromInt(26)))
}

func TestOrderLine_RemainingQuantity(t *testing.T) {
	line, err := NewOrderLine(uuid.New(), uuid.New(), "Widget", decimal.NewFromInt(10), decimal.NewFromInt(2))
	require.NoError(t, err)

	assert.True(t, line.RemainingQuantity().Equal(decimal.NewFromInt(10)))
	assert.False(t, line.IsFullyReceived())

	line.ReceivedQuantity = decimal.NewFromInt(10)
	assert.True(t, line.RemainingQuantity().IsZero())
	assert.True(t, line.IsFullyReceived())
}

func TestOrderLine_UpdateQuantity(t *testing.T) {
	line, err := NewOrderLine(uuid.New(), uuid.New(), "Widget", decimal.NewFromInt(10), decimal.NewFromInt(2))
	require.NoError(t, err)

	require.NoError(t, line.UpdateQuantity(decimal.NewFromInt(15)))
	assert.True(t, line.Amount.Equal(decimal.NewFromInt(30)))

	line.ReceivedQuantity = decimal.NewFromInt(8)
	err = line.UpdateQuantity(decimal.NewFromInt(5))
	assertDomainCode(t, err, shared.CodeValidation)
}
