package purchasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockroom/backend/internal/domain/purchasing"
)

// CreateOrderLineRequest represents a line in an order creation request
type CreateOrderLineRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	ProductName string          `json:"product_name" binding:"required,max=200"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CreatePurchaseOrderRequest represents a request to create a purchase order
type CreatePurchaseOrderRequest struct {
	SupplierID           uuid.UUID                `json:"supplier_id" binding:"required"`
	WarehouseID          uuid.UUID                `json:"warehouse_id" binding:"required"`
	Lines                []CreateOrderLineRequest `json:"lines" binding:"omitempty,dive"`
	ExpectedDeliveryDate *time.Time               `json:"expected_delivery_date"`
	Notes                string                   `json:"notes" binding:"max=2000"`
	CreatedBy            *uuid.UUID               `json:"-"`
}

// RejectOrderRequest represents a request to reject a purchase order
type RejectOrderRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// CloseOrderRequest represents a request to close a purchase order
type CloseOrderRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// ReceiveItemRequest represents one line entry of a receiving request
type ReceiveItemRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// ReceiveOrderRequest represents a receiving batch for a purchase order
type ReceiveOrderRequest struct {
	Items []ReceiveItemRequest `json:"items" binding:"required,min=1,dive"`
}

// OrderListFilter represents filter options for listing purchase orders
type OrderListFilter struct {
	Page        int                      `form:"page"`
	PageSize    int                      `form:"page_size"`
	OrderBy     string                   `form:"order_by"`
	OrderDir    string                   `form:"order_dir"`
	Search      string                   `form:"search"`
	SupplierID  *uuid.UUID               `form:"supplier_id"`
	WarehouseID *uuid.UUID               `form:"warehouse_id"`
	Status      *purchasing.OrderStatus  `form:"status"`
	Statuses    []purchasing.OrderStatus `form:"statuses"`
}

// OrderLineResponse represents a purchase order line in API responses
type OrderLineResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"product_id"`
	ProductName       string          `json:"product_name"`
	OrderedQuantity   decimal.Decimal `json:"ordered_quantity"`
	ReceivedQuantity  decimal.Decimal `json:"received_quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	Amount            decimal.Decimal `json:"amount"`
	FullyReceived     bool            `json:"fully_received"`
}

// PurchaseOrderResponse represents a purchase order in API responses
type PurchaseOrderResponse struct {
	ID                   uuid.UUID              `json:"id"`
	OrderNumber          string                 `json:"order_number"`
	SupplierID           uuid.UUID              `json:"supplier_id"`
	WarehouseID          uuid.UUID              `json:"warehouse_id"`
	Status               purchasing.OrderStatus `json:"status"`
	Lines                []OrderLineResponse    `json:"lines"`
	TotalAmount          decimal.Decimal        `json:"total_amount"`
	ExpectedDeliveryDate *time.Time             `json:"expected_delivery_date,omitempty"`
	Notes                string                 `json:"notes,omitempty"`
	SubmittedAt          *time.Time             `json:"submitted_at,omitempty"`
	ApprovedAt           *time.Time             `json:"approved_at,omitempty"`
	ApprovedBy           *uuid.UUID             `json:"approved_by,omitempty"`
	RejectedAt           *time.Time             `json:"rejected_at,omitempty"`
	RejectedBy           *uuid.UUID             `json:"rejected_by,omitempty"`
	RejectionReason      string                 `json:"rejection_reason,omitempty"`
	CompletedAt          *time.Time             `json:"completed_at,omitempty"`
	ClosedAt             *time.Time             `json:"closed_at,omitempty"`
	CloseReason          string                 `json:"close_reason,omitempty"`
	Version              int                    `json:"version"`
	CreatedAt            time.Time              `json:"created_at"`
	UpdatedAt            time.Time              `json:"updated_at"`
}

// ReceiptDeltaResponse represents one line delta of a receiving call
type ReceiptDeltaResponse struct {
	LineID           uuid.UUID       `json:"line_id"`
	ProductID        uuid.UUID       `json:"product_id"`
	ProductName      string          `json:"product_name"`
	Quantity         decimal.Decimal `json:"quantity"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	OrderedQuantity  decimal.Decimal `json:"ordered_quantity"`
	FullyReceived    bool            `json:"fully_received"`
}

// ReceiveOrderResponse represents the result of a receiving call
type ReceiveOrderResponse struct {
	Order  PurchaseOrderResponse  `json:"order"`
	Deltas []ReceiptDeltaResponse `json:"deltas"`
}

// ToOrderLineResponse converts a domain order line to a response DTO
func ToOrderLineResponse(line *purchasing.OrderLine) OrderLineResponse {
	return OrderLineResponse{
		ID:                line.ID,
		ProductID:         line.ProductID,
		ProductName:       line.ProductName,
		OrderedQuantity:   line.OrderedQuantity,
		ReceivedQuantity:  line.ReceivedQuantity,
		RemainingQuantity: line.RemainingQuantity(),
		UnitPrice:         line.UnitPrice,
		Amount:            line.Amount,
		FullyReceived:     line.IsFullyReceived(),
	}
}

// ToPurchaseOrderResponse converts a domain purchase order to a response DTO
func ToPurchaseOrderResponse(order *purchasing.PurchaseOrder) PurchaseOrderResponse {
	lines := make([]OrderLineResponse, 0, len(order.Lines))
	for idx := range order.Lines {
		lines = append(lines, ToOrderLineResponse(&order.Lines[idx]))
	}

	return PurchaseOrderResponse{
		ID:                   order.ID,
		OrderNumber:          order.OrderNumber,
		SupplierID:           order.SupplierID,
		WarehouseID:          order.WarehouseID,
		Status:               order.Status,
		Lines:                lines,
		TotalAmount:          order.TotalAmount,
		ExpectedDeliveryDate: order.ExpectedDeliveryDate,
		Notes:                order.Notes,
		SubmittedAt:          order.SubmittedAt,
		ApprovedAt:           order.ApprovedAt,
		ApprovedBy:           order.ApprovedBy,
		RejectedAt:           order.RejectedAt,
		RejectedBy:           order.RejectedBy,
		RejectionReason:      order.RejectionReason,
		CompletedAt:          order.CompletedAt,
		ClosedAt:             order.ClosedAt,
		CloseReason:          order.CloseReason,
		Version:              order.Version,
		CreatedAt:            order.CreatedAt,
		UpdatedAt:            order.UpdatedAt,
	}
}

// ToReceiptDeltaResponses converts domain receipt deltas to response DTOs
func ToReceiptDeltaResponses(deltas []purchasing.ReceiptDelta) []ReceiptDeltaResponse {
	responses := make([]ReceiptDeltaResponse, 0, len(deltas))
	for _, delta := range deltas {
		responses = append(responses, ReceiptDeltaResponse{
			LineID:           delta.LineID,
			ProductID:        delta.ProductID,
			ProductName:      delta.ProductName,
			Quantity:         delta.Quantity,
			ReceivedQuantity: delta.ReceivedQuantity,
			OrderedQuantity:  delta.OrderedQuantity,
			FullyReceived:    delta.FullyReceived,
		})
	}
	return responses
}

// ToReceiveItems converts receive item requests to domain receive items
func ToReceiveItems(items []ReceiveItemRequest) []purchasing.ReceiveItem {
	result := make([]purchasing.ReceiveItem, 0, len(items))
	for _, item := range items {
		result = append(result, purchasing.ReceiveItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return result
}
