package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockroom/backend/internal/domain/shared"
)

// StockLevel tracks the on-hand quantity of one product in one
// warehouse. One record exists per (warehouse, product) pair; receiving
// and adjustments mutate the same record.
type StockLevel struct {
	shared.OrgAggregateRoot
	WarehouseID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_level_wh_product,priority:1"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_level_wh_product,priority:2"`
	OnHand      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (StockLevel) TableName() string {
	return "stock_levels"
}

// NewStockLevel creates a stock level record with zero on-hand quantity
func NewStockLevel(orgID, warehouseID, productID uuid.UUID) (*StockLevel, error) {
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Warehouse ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeValidation, "Product ID cannot be empty")
	}

	return &StockLevel{
		OrgAggregateRoot: shared.NewOrgAggregateRoot(orgID),
		WarehouseID:      warehouseID,
		ProductID:        productID,
		OnHand:           decimal.Zero,
	}, nil
}

// Increase adds quantity to the on-hand balance
func (s *StockLevel) Increase(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError(shared.CodeValidation, "Increase quantity must be positive")
	}

	s.OnHand = s.OnHand.Add(quantity)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewStockIncreasedEvent(s, quantity))

	return nil
}

// Decrease removes quantity from the on-hand balance. The balance never
// goes below zero; a shortfall is clamped and reported in the event.
func (s *StockLevel) Decrease(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError(shared.CodeValidation, "Decrease quantity must be positive")
	}

	applied := quantity
	if applied.GreaterThan(s.OnHand) {
		applied = s.OnHand
	}

	s.OnHand = s.OnHand.Sub(applied)
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewStockDecreasedEvent(s, quantity, applied))

	return nil
}

// IsEmpty returns true when no stock is on hand
func (s *StockLevel) IsEmpty() bool {
	return s.OnHand.IsZero()
}
