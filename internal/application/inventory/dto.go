package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockroom/backend/internal/domain/inventory"
)

// StockLevelListFilter represents filter options for listing stock levels
type StockLevelListFilter struct {
	Page        int        `form:"page"`
	PageSize    int        `form:"page_size"`
	OrderBy     string     `form:"order_by"`
	OrderDir    string     `form:"order_dir"`
	WarehouseID *uuid.UUID `form:"warehouse_id"`
	ProductID   *uuid.UUID `form:"product_id"`
	InStockOnly bool       `form:"in_stock_only"`
}

// AdjustStockRequest represents a manual stock adjustment
type AdjustStockRequest struct {
	WarehouseID uuid.UUID       `json:"warehouse_id" binding:"required"`
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	Reason      string          `json:"reason" binding:"max=500"`
}

// StockLevelResponse represents a stock level in API responses
type StockLevelResponse struct {
	ID          uuid.UUID       `json:"id"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	OnHand      decimal.Decimal `json:"on_hand"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToStockLevelResponse converts a domain stock level to a response DTO
func ToStockLevelResponse(level *inventory.StockLevel) StockLevelResponse {
	return StockLevelResponse{
		ID:          level.ID,
		WarehouseID: level.WarehouseID,
		ProductID:   level.ProductID,
		OnHand:      level.OnHand,
		UpdatedAt:   level.UpdatedAt,
	}
}
