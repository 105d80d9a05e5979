package purchasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockroom/backend/internal/domain/shared"
)

// OrderStatus represents the lifecycle status of a purchase order
type OrderStatus string

const (
	OrderStatusDraft             OrderStatus = "DRAFT"
	OrderStatusSubmitted         OrderStatus = "SUBMITTED"
	OrderStatusApproved          OrderStatus = "APPROVED"
	OrderStatusRejected          OrderStatus = "REJECTED"
	OrderStatusPartiallyReceived OrderStatus = "PARTIALLY_RECEIVED"
	OrderStatusCompleted         OrderStatus = "COMPLETED"
	OrderStatusClosed            OrderStatus = "CLOSED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusSubmitted, OrderStatusApproved, OrderStatusRejected,
		OrderStatusPartiallyReceived, OrderStatusCompleted, OrderStatusClosed:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusDraft:
		return target == OrderStatusSubmitted || target == OrderStatusClosed
	case OrderStatusSubmitted:
		return target == OrderStatusApproved || target == OrderStatusRejected || target == OrderStatusClosed
	case OrderStatusApproved:
		return target == OrderStatusPartiallyReceived || target == OrderStatusCompleted || target == OrderStatusClosed
	case OrderStatusPartiallyReceived:
		return target == OrderStatusPartiallyReceived || target == OrderStatusCompleted || target == OrderStatusClosed
	case OrderStatusRejected, OrderStatusCompleted, OrderStatusClosed:
		return false // Terminal states
	}
	return false
}

// CanReceive returns true if receiving goods is allowed in this status
func (s OrderStatus) CanReceive() bool {
	return s == OrderStatusApproved || s == OrderStatusPartiallyReceived
}

// IsTerminal returns true for statuses that permit no further transitions
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusRejected || s == OrderStatusCompleted || s == OrderStatusClosed
}

// OrderLine represents a line item in a purchase order
type OrderLine struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName      string          `gorm:"type:varchar(200);not null"`
	OrderedQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReceivedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,4);not null"` // OrderedQuantity * UnitPrice
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderLine) TableName() string {
	return "purchase_order_lines"
}

// NewOrderLine creates a new purchase order line
func NewOrderLine(orderID, productID uuid.UUID, productName string, quantity, unitPrice decimal.Decimal) (*OrderLine, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError(shared.CodeValidation, "Ordered quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Unit price cannot be negative")
	}

	now := time.Now()
	return &OrderLine{
		ID:               uuid.New(),
		OrderID:          orderID,
		ProductID:        productID,
		ProductName:      productName,
		OrderedQuantity:  quantity,
		ReceivedQuantity: decimal.Zero,
		UnitPrice:        unitPrice,
		Amount:           quantity.Mul(unitPrice),
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// UpdateQuantity updates the ordered quantity and recalculates the amount
func (l *OrderLine) UpdateQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError(shared.CodeValidation, "Ordered quantity must be positive")
	}
	if quantity.LessThan(l.ReceivedQuantity) {
		return shared.NewDomainError(shared.CodeValidation, "Ordered quantity cannot be less than received quantity")
	}

	l.OrderedQuantity = quantity
	l.Amount = quantity.Mul(l.UnitPrice)
	l.UpdatedAt = time.Now()

	return nil
}

// RemainingQuantity returns the quantity still to be received
func (l *OrderLine) RemainingQuantity() decimal.Decimal {
	remaining := l.OrderedQuantity.Sub(l.ReceivedQuantity)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// IsFullyReceived returns true if all ordered quantity has been received
func (l *OrderLine) IsFullyReceived() bool {
	return l.ReceivedQuantity.GreaterThanOrEqual(l.OrderedQuantity)
}

// ReceiveItem represents a single line entry in a receiving operation
type ReceiveItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// ReceiptDelta describes what a single receive call changed on one line.
// It is returned to callers for audit trails and notifications.
type ReceiptDelta struct {
	LineID           uuid.UUID       `json:"line_id"`
	ProductID        uuid.UUID       `json:"product_id"`
	ProductName      string          `json:"product_name"`
	Quantity         decimal.Decimal `json:"quantity"`          // Quantity received in this call
	ReceivedQuantity decimal.Decimal `json:"received_quantity"` // Cumulative received after this call
	OrderedQuantity  decimal.Decimal `json:"ordered_quantity"`
	FullyReceived    bool            `json:"fully_received"`
}

// PurchaseOrder is the aggregate root for the purchase order lifecycle.
// It owns the approval workflow and the receiving reconciliation of its
// lines; stock ledger mutations are coordinated by the application layer
// within the same transaction.
type PurchaseOrder struct {
	shared.OrgAggregateRoot
	OrderNumber          string      `gorm:"type:varchar(50);not null;uniqueIndex:idx_purchase_order_org_number,priority:2"`
	SupplierID           uuid.UUID   `gorm:"type:uuid;not null;index"`
	WarehouseID          uuid.UUID   `gorm:"type:uuid;not null;index"` // Target warehouse for receiving
	Lines                []OrderLine `gorm:"foreignKey:OrderID;references:ID"`
	TotalAmount          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Status               OrderStatus `gorm:"type:varchar(20);not null;default:'DRAFT'"`
	ExpectedDeliveryDate *time.Time
	Notes                string     `gorm:"type:text"`
	SubmittedAt          *time.Time `gorm:"index"`
	ApprovedAt           *time.Time
	ApprovedBy           *uuid.UUID `gorm:"type:uuid"`
	RejectedAt           *time.Time
	RejectedBy           *uuid.UUID `gorm:"type:uuid"`
	RejectionReason      string     `gorm:"type:varchar(500)"`
	CompletedAt          *time.Time
	ClosedAt             *time.Time
	CloseReason          string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// NewPurchaseOrder creates a new purchase order in DRAFT status
func NewPurchaseOrder(orgID uuid.UUID, orderNumber string, supplierID, warehouseID uuid.UUID) (*PurchaseOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError(shared.CodeValidation, "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Order number cannot exceed 50 characters")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Supplier ID cannot be empty")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Warehouse ID cannot be empty")
	}

	order := &PurchaseOrder{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		OrderNumber:      orderNumber,
		SupplierID:       supplierID,
		WarehouseID:      warehouseID,
		Lines:            make([]OrderLine, 0),
		TotalAmount:      decimal.Zero,
		Status:           OrderStatusDraft,
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// AddLine adds a new line to the order. Only allowed in DRAFT status.
func (o *PurchaseOrder) AddLine(productID uuid.UUID, productName string, quantity, unitPrice decimal.Decimal) (*OrderLine, error) {
	if o.Status != OrderStatusDraft {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "Cannot add lines to a non-draft order")
	}

	for _, line := range o.Lines {
		if line.ProductID == productID {
			return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Product already exists in order, update quantity instead")
		}
	}

	line, err := NewOrderLine(o.ID, productID, productName, quantity, unitPrice)
	if err != nil {
		return nil, err
	}

	o.Lines = append(o.Lines, *line)
	o.recalculateTotal()
	o.UpdatedAt = time.Now()

	return line, nil
}

// RemoveLine removes a line from the order. Only allowed in DRAFT status.
func (o *PurchaseOrder) RemoveLine(lineID uuid.UUID) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError(shared.CodeInvalidState, "Cannot remove lines from a non-draft order")
	}

	for idx, line := range o.Lines {
		if line.ID == lineID {
			o.Lines = append(o.Lines[:idx], o.Lines[idx+1:]...)
			o.recalculateTotal()
			o.UpdatedAt = time.Now()
			return nil
		}
	}

	return shared.NewDomainError(shared.CodeNotFound, "Order line not found")
}

// SetExpectedDeliveryDate sets the expected delivery date
func (o *PurchaseOrder) SetExpectedDeliveryDate(date *time.Time) {
	o.ExpectedDeliveryDate = date
	o.UpdatedAt = time.Now()
}

// SetNotes sets the order notes
func (o *PurchaseOrder) SetNotes(notes string) {
	o.Notes = notes
	o.UpdatedAt = time.Now()
}

// Submit moves the order from DRAFT to SUBMITTED.
// Requires at least one line with a positive ordered quantity.
func (o *PurchaseOrder) Submit() error {
	if !o.Status.CanTransitionTo(OrderStatusSubmitted) {
		return shared.NewDomainErrorf(shared.CodeInvalidState, "Cannot submit order in %s status", o.Status)
	}
	if len(o.Lines) == 0 {
		return shared.NewDomainError(shared.CodeValidation, "Cannot submit order without lines")
	}
	for _, line := range o.Lines {
		if line.OrderedQuantity.LessThanOrEqual(decimal.Zero) {
			return shared.NewDomainErrorf(shared.CodeValidation, "Line for product %s has no ordered quantity", line.ProductID)
		}
	}

	now := time.Now()
	o.Status = OrderStatusSubmitted
	o.SubmittedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderSubmittedEvent(o))

	return nil
}

// Approve moves the order from SUBMITTED to APPROVED and records the approver
func (o *PurchaseOrder) Approve(approverID uuid.UUID) error {
	if !o.Status.CanTransitionTo(OrderStatusApproved) {
		return shared.NewDomainErrorf(shared.CodeInvalidState, "Cannot approve order in %s status", o.Status)
	}

	now := time.Now()
	o.Status = OrderStatusApproved
	o.ApprovedAt = &now
	o.ApprovedBy = &approverID
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderApprovedEvent(o))

	return nil
}

// Reject moves the order from SUBMITTED to REJECTED.
// A non-empty reason is required.
func (o *PurchaseOrder) Reject(rejecterID uuid.UUID, reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusRejected) {
		return shared.NewDomainErrorf(shared.CodeInvalidState, "Cannot reject order in %s status", o.Status)
	}
	if reason == "" {
		return shared.NewDomainError(shared.CodeValidation, "Rejection reason is required")
	}

	now := time.Now()
	o.Status = OrderStatusRejected
	o.RejectedAt = &now
	o.RejectedBy = &rejecterID
	o.RejectionReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderRejectedEvent(o))

	return nil
}

// Close administratively closes the order from any non-terminal state
func (o *PurchaseOrder) Close(reason string) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainErrorf(shared.CodeInvalidState, "Cannot close order in %s status", o.Status)
	}

	previous := o.Status
	now := time.Now()
	o.Status = OrderStatusClosed
	o.ClosedAt = &now
	o.CloseReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderClosedEvent(o, previous))

	return nil
}

// Receive applies a batch of received quantities to the order lines.
// The batch is validated in full before any line is touched: an unknown
// product, a non-positive quantity, or a cumulative over-receipt on any
// entry rejects the whole call with no changes applied. On success all
// line increments are applied and the status is recomputed from the
// lines (COMPLETED when every line is fully received, otherwise
// PARTIALLY_RECEIVED) rather than taken from the caller.
func (o *PurchaseOrder) Receive(items []ReceiveItem) ([]ReceiptDelta, error) {
	if !o.Status.CanReceive() {
		return nil, shared.NewDomainErrorf(shared.CodeInvalidState, "Cannot receive goods for order in %s status", o.Status)
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError(shared.CodeValidation, "Receive items cannot be empty")
	}

	lineByProduct := make(map[uuid.UUID]*OrderLine, len(o.Lines))
	for idx := range o.Lines {
		lineByProduct[o.Lines[idx].ProductID] = &o.Lines[idx]
	}

	// Validation pass. Quantities for the same product accumulate so a
	// batch cannot sneak past the ordered quantity in two entries.
	pending := make(map[uuid.UUID]decimal.Decimal, len(items))
	for _, item := range items {
		if item.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, shared.NewDomainErrorf(shared.CodeValidation, "Receive quantity for product %s must be positive", item.ProductID)
		}
		line, ok := lineByProduct[item.ProductID]
		if !ok {
			return nil, shared.NewDomainErrorf(shared.CodeUnknownLineItem, "Product %s not found in order", item.ProductID)
		}
		total := pending[item.ProductID].Add(item.Quantity)
		if line.ReceivedQuantity.Add(total).GreaterThan(line.OrderedQuantity) {
			return nil, shared.NewDomainErrorf(shared.CodeOverReceipt,
				"Cannot receive %s of product %s, only %s remaining",
				total.String(), item.ProductID, line.RemainingQuantity().String())
		}
		pending[item.ProductID] = total
	}

	// Apply pass. Nothing below can fail.
	now := time.Now()
	deltas := make([]ReceiptDelta, 0, len(pending))
	for idx := range o.Lines {
		line := &o.Lines[idx]
		qty, ok := pending[line.ProductID]
		if !ok {
			continue
		}
		line.ReceivedQuantity = line.ReceivedQuantity.Add(qty)
		line.UpdatedAt = now
		deltas = append(deltas, ReceiptDelta{
			LineID:           line.ID,
			ProductID:        line.ProductID,
			ProductName:      line.ProductName,
			Quantity:         qty,
			ReceivedQuantity: line.ReceivedQuantity,
			OrderedQuantity:  line.OrderedQuantity,
			FullyReceived:    line.IsFullyReceived(),
		})
	}

	if o.allLinesReceived() {
		o.Status = OrderStatusCompleted
		o.CompletedAt = &now
	} else {
		o.Status = OrderStatusPartiallyReceived
	}

	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderReceivedEvent(o, deltas))

	return deltas, nil
}

// recalculateTotal recomputes the order total from its lines
func (o *PurchaseOrder) recalculateTotal() {
	total := decimal.Zero
	for _, line := range o.Lines {
		total = total.Add(line.Amount)
	}
	o.TotalAmount = total
}

// allLinesReceived checks if every line has been fully received
func (o *PurchaseOrder) allLinesReceived() bool {
	for _, line := range o.Lines {
		if !line.IsFullyReceived() {
			return false
		}
	}
	return len(o.Lines) > 0
}

// TotalOrderedQuantity returns the total ordered quantity across lines
func (o *PurchaseOrder) TotalOrderedQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, line := range o.Lines {
		total = total.Add(line.OrderedQuantity)
	}
	return total
}

// TotalReceivedQuantity returns the total received quantity across lines
func (o *PurchaseOrder) TotalReceivedQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, line := range o.Lines {
		total = total.Add(line.ReceivedQuantity)
	}
	return total
}

// TotalRemainingQuantity returns the total quantity still to be received
func (o *PurchaseOrder) TotalRemainingQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, line := range o.Lines {
		total = total.Add(line.RemainingQuantity())
	}
	return total
}

// GetLine returns a line by its ID
func (o *PurchaseOrder) GetLine(lineID uuid.UUID) *OrderLine {
	for idx := range o.Lines {
		if o.Lines[idx].ID == lineID {
			return &o.Lines[idx]
		}
	}
	return nil
}

// GetLineByProduct returns a line by product ID
func (o *PurchaseOrder) GetLineByProduct(productID uuid.UUID) *OrderLine {
	for idx := range o.Lines {
		if o.Lines[idx].ProductID == productID {
			return &o.Lines[idx]
		}
	}
	return nil
}

// IsDraft returns true if the order is in draft status
func (o *PurchaseOrder) IsDraft() bool {
	return o.Status == OrderStatusDraft
}

// IsCompleted returns true if the order is completed
func (o *PurchaseOrder) IsCompleted() bool {
	return o.Status == OrderStatusCompleted
}

// IsTerminal returns true if the order is in a terminal state
func (o *PurchaseOrder) IsTerminal() bool {
	return o.Status.IsTerminal()
}

// CanModify returns true if order lines can still be edited
func (o *PurchaseOrder) CanModify() bool {
	return o.IsDraft()
}

// CanReceiveGoods returns true if the order can receive goods
func (o *PurchaseOrder) CanReceiveGoods() bool {
	return o.Status.CanReceive()
}

// LineCount returns the number of lines in the order
func (o *PurchaseOrder) LineCount() int {
	return len(o.Lines)
}
