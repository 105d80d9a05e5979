package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockroom/backend/internal/domain/shared"
)

// Stock level event types
const (
	EventTypeStockIncreased = "inventory.stock.increased"
	EventTypeStockDecreased = "inventory.stock.decreased"
)

const aggregateTypeStockLevel = "StockLevel"

// StockIncreasedEvent is published when stock is added to a warehouse
type StockIncreasedEvent struct {
	shared.BaseDomainEvent
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	OnHand      decimal.Decimal `json:"on_hand"`
}

// NewStockIncreasedEvent creates a new StockIncreasedEvent
func NewStockIncreasedEvent(level *StockLevel, quantity decimal.Decimal) *StockIncreasedEvent {
	return &StockIncreasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockIncreased, aggregateTypeStockLevel, level.ID, level.OrgID),
		WarehouseID:     level.WarehouseID,
		ProductID:       level.ProductID,
		Quantity:        quantity,
		OnHand:          level.OnHand,
	}
}

// StockDecreasedEvent is published when stock is removed from a
// warehouse. Applied may be less than Requested when the balance was
// clamped at zero.
type StockDecreasedEvent struct {
	shared.BaseDomainEvent
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	Requested   decimal.Decimal `json:"requested"`
	Applied     decimal.Decimal `json:"applied"`
	OnHand      decimal.Decimal `json:"on_hand"`
}

// NewStockDecreasedEvent creates a new StockDecreasedEvent
func NewStockDecreasedEvent(level *StockLevel, requested, applied decimal.Decimal) *StockDecreasedEvent {
	return &StockDecreasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockDecreased, aggregateTypeStockLevel, level.ID, level.OrgID),
		WarehouseID:     level.WarehouseID,
		ProductID:       level.ProductID,
		Requested:       requested,
		Applied:         applied,
		OnHand:          level.OnHand,
	}
}
