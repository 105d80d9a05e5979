package purchasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockroom/backend/internal/domain/shared"
)

// Purchase order event types
const (
	EventTypeOrderCreated   = "purchasing.order.created"
	EventTypeOrderSubmitted = "purchasing.order.submitted"
	EventTypeOrderApproved  = "purchasing.order.approved"
	EventTypeOrderRejected  = "purchasing.order.rejected"
	EventTypeOrderReceived  = "purchasing.order.received"
	EventTypeOrderClosed    = "purchasing.order.closed"
)

const aggregateTypePurchaseOrder = "PurchaseOrder"

// OrderCreatedEvent is published when a purchase order is created
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string    `json:"order_number"`
	SupplierID  uuid.UUID `json:"supplier_id"`
	WarehouseID uuid.UUID `json:"warehouse_id"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(order *PurchaseOrder) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, aggregateTypePurchaseOrder, order.ID, order.OrgID),
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
		WarehouseID:     order.WarehouseID,
	}
}

// OrderSubmittedEvent is published when a purchase order is submitted for approval
type OrderSubmittedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	SupplierID  uuid.UUID       `json:"supplier_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	LineCount   int             `json:"line_count"`
}

// NewOrderSubmittedEvent creates a new OrderSubmittedEvent
func NewOrderSubmittedEvent(order *PurchaseOrder) *OrderSubmittedEvent {
	return &OrderSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderSubmitted, aggregateTypePurchaseOrder, order.ID, order.OrgID),
		OrderNumber:     order.OrderNumber,
		SupplierID:      order.SupplierID,
		TotalAmount:     order.TotalAmount,
		LineCount:       len(order.Lines),
	}
}

// OrderApprovedEvent is published when a purchase order is approved
type OrderApprovedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string    `json:"order_number"`
	ApprovedBy  uuid.UUID `json:"approved_by"`
	ApprovedAt  time.Time `json:"approved_at"`
}

// NewOrderApprovedEvent creates a new OrderApprovedEvent
func NewOrderApprovedEvent(order *PurchaseOrder) *OrderApprovedEvent {
	event := &OrderApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderApproved, aggregateTypePurchaseOrder, order.ID, order.OrgID),
		OrderNumber:     order.OrderNumber,
	}
	if order.ApprovedBy != nil {
		event.ApprovedBy = *order.ApprovedBy
	}
	if order.ApprovedAt != nil {
		event.ApprovedAt = *order.ApprovedAt
	}
	return event
}

// OrderRejectedEvent is published when a purchase order is rejected
type OrderRejectedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string    `json:"order_number"`
	RejectedBy  uuid.UUID `json:"rejected_by"`
	Reason      string    `json:"reason"`
}

// NewOrderRejectedEvent creates a new OrderRejectedEvent
func NewOrderRejectedEvent(order *PurchaseOrder) *OrderRejectedEvent {
	event := &OrderRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderRejected, aggregateTypePurchaseOrder, order.ID, order.OrgID),
		OrderNumber:     order.OrderNumber,
		Reason:          order.RejectionReason,
	}
	if order.RejectedBy != nil {
		event.RejectedBy = *order.RejectedBy
	}
	return event
}

// OrderReceivedEvent is published after a receiving batch has been
// committed. Deltas describe the per-line changes of this batch only.
type OrderReceivedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string         `json:"order_number"`
	WarehouseID uuid.UUID      `json:"warehouse_id"`
	Status      OrderStatus    `json:"status"`
	Deltas      []ReceiptDelta `json:"deltas"`
}

// NewOrderReceivedEvent creates a new OrderReceivedEvent
func NewOrderReceivedEvent(order *PurchaseOrder, deltas []ReceiptDelta) *OrderReceivedEvent {
	return &OrderReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderReceived, aggregateTypePurchaseOrder, order.ID, order.OrgID),
		OrderNumber:     order.OrderNumber,
		WarehouseID:     order.WarehouseID,
		Status:          order.Status,
		Deltas:          deltas,
	}
}

// OrderClosedEvent is published when a purchase order is administratively closed
type OrderClosedEvent struct {
	shared.BaseDomainEvent
	OrderNumber    string      `json:"order_number"`
	PreviousStatus OrderStatus `json:"previous_status"`
	Reason         string      `json:"reason"`
}

// NewOrderClosedEvent creates a new OrderClosedEvent
func NewOrderClosedEvent(order *PurchaseOrder, previous OrderStatus) *OrderClosedEvent {
	return &OrderClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderClosed, aggregateTypePurchaseOrder, order.ID, order.OrgID),
		OrderNumber:     order.OrderNumber,
		PreviousStatus:  previous,
		Reason:          order.CloseReason,
	}
}
