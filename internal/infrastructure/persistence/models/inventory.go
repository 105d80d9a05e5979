package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockroom/backend/internal/domain/inventory"
)

// StockLevelModel is the persistence model for stock levels.
// One row per (org, warehouse, product); the unique index backs the
// upsert used by atomic increments.
type StockLevelModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrgID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_levels_org_wh_product,priority:1"`
	WarehouseID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_levels_org_wh_product,priority:2"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_levels_org_wh_product,priority:3"`
	OnHand      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Version     int             `gorm:"not null;default:1"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name
func (StockLevelModel) TableName() string {
	return "stock_levels"
}

// ToDomain converts the persistence model to a domain aggregate
func (m *StockLevelModel) ToDomain() *inventory.StockLevel {
	level := &inventory.StockLevel{
		WarehouseID: m.WarehouseID,
		ProductID:   m.ProductID,
		OnHand:      m.OnHand,
	}
	level.ID = m.ID
	level.OrgID = m.OrgID
	level.Version = m.Version
	level.CreatedAt = m.CreatedAt
	level.UpdatedAt = m.UpdatedAt
	return level
}

// StockLevelModelFromDomain converts a domain aggregate to its persistence model
func StockLevelModelFromDomain(level *inventory.StockLevel) *StockLevelModel {
	return &StockLevelModel{
		ID:          level.ID,
		OrgID:       level.OrgID,
		WarehouseID: level.WarehouseID,
		ProductID:   level.ProductID,
		OnHand:      level.OnHand,
		Version:     level.Version,
		CreatedAt:   level.CreatedAt,
		UpdatedAt:   level.UpdatedAt,
	}
}
