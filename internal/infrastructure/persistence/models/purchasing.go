package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockroom/backend/internal/domain/purchasing"
)

// PurchaseOrderModel is the persistence model for purchase orders
type PurchaseOrderModel struct {
	ID                   uuid.UUID `gorm:"type:uuid;primary_key"`
	OrgID                uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_purchase_orders_org_number,priority:1;index:idx_purchase_orders_org_status,priority:1"`
	OrderNumber          string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_purchase_orders_org_number,priority:2"`
	SupplierID           uuid.UUID `gorm:"type:uuid;not null;index"`
	WarehouseID          uuid.UUID `gorm:"type:uuid;not null;index"`
	Status               string    `gorm:"type:varchar(20);not null;default:'DRAFT';index:idx_purchase_orders_org_status,priority:2"`
	TotalAmount          decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
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
	CloseReason          string     `gorm:"type:varchar(500)"`
	CreatedBy            *uuid.UUID `gorm:"type:uuid"`
	Version              int        `gorm:"not null;default:1"`
	CreatedAt            time.Time  `gorm:"not null"`
	UpdatedAt            time.Time  `gorm:"not null"`

	Lines []PurchaseOrderLineModel `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// PurchaseOrderLineModel is the persistence model for purchase order lines
type PurchaseOrderLineModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName      string          `gorm:"type:varchar(200);not null"`
	OrderedQuantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReceivedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name
func (PurchaseOrderLineModel) TableName() string {
	return "purchase_order_lines"
}

// ToDomain converts the persistence model to a domain aggregate
func (m *PurchaseOrderModel) ToDomain() *purchasing.PurchaseOrder {
	order := &purchasing.PurchaseOrder{
		OrderNumber:          m.OrderNumber,
		SupplierID:           m.SupplierID,
		WarehouseID:          m.WarehouseID,
		Status:               purchasing.OrderStatus(m.Status),
		TotalAmount:          m.TotalAmount,
		ExpectedDeliveryDate: m.ExpectedDeliveryDate,
		Notes:                m.Notes,
		SubmittedAt:          m.SubmittedAt,
		ApprovedAt:           m.ApprovedAt,
		ApprovedBy:           m.ApprovedBy,
		RejectedAt:           m.RejectedAt,
		RejectedBy:           m.RejectedBy,
		RejectionReason:      m.RejectionReason,
		CompletedAt:          m.CompletedAt,
		ClosedAt:             m.ClosedAt,
		CloseReason:          m.CloseReason,
	}
	order.ID = m.ID
	order.OrgID = m.OrgID
	order.CreatedBy = m.CreatedBy
	order.Version = m.Version
	order.CreatedAt = m.CreatedAt
	order.UpdatedAt = m.UpdatedAt

	order.Lines = make([]purchasing.OrderLine, len(m.Lines))
	for i := range m.Lines {
		order.Lines[i] = *m.Lines[i].ToDomain()
	}

	return order
}

// ToDomain converts the line model to a domain order line
func (m *PurchaseOrderLineModel) ToDomain() *purchasing.OrderLine {
	return &purchasing.OrderLine{
		ID:               m.ID,
		OrderID:          m.OrderID,
		ProductID:        m.ProductID,
		ProductName:      m.ProductName,
		OrderedQuantity:  m.OrderedQuantity,
		ReceivedQuantity: m.ReceivedQuantity,
		UnitPrice:        m.UnitPrice,
		Amount:           m.Amount,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// PurchaseOrderModelFromDomain converts a domain aggregate to its persistence model
func PurchaseOrderModelFromDomain(order *purchasing.PurchaseOrder) *PurchaseOrderModel {
	model := &PurchaseOrderModel{
		ID:                   order.ID,
		OrgID:                order.OrgID,
		OrderNumber:          order.OrderNumber,
		SupplierID:           order.SupplierID,
		WarehouseID:          order.WarehouseID,
		Status:               string(order.Status),
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
		CreatedBy:            order.CreatedBy,
		Version:              order.Version,
		CreatedAt:            order.CreatedAt,
		UpdatedAt:            order.UpdatedAt,
	}

	model.Lines = make([]PurchaseOrderLineModel, len(order.Lines))
	for i := range order.Lines {
		model.Lines[i] = *PurchaseOrderLineModelFromDomain(&order.Lines[i])
	}

	return model
}

// PurchaseOrderLineModelFromDomain converts a domain order line to its persistence model
func PurchaseOrderLineModelFromDomain(line *purchasing.OrderLine) *PurchaseOrderLineModel {
	return &PurchaseOrderLineModel{
		ID:               line.ID,
		OrderID:          line.OrderID,
		ProductID:        line.ProductID,
		ProductName:      line.ProductName,
		OrderedQuantity:  line.OrderedQuantity,
		ReceivedQuantity: line.ReceivedQuantity,
		UnitPrice:        line.UnitPrice,
		Amount:           line.Amount,
		CreatedAt:        line.CreatedAt,
		UpdatedAt:        line.UpdatedAt,
	}
}
