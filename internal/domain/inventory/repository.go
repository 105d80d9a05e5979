package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockroom/backend/internal/domain/shared"
)

// Repository defines the persistence contract for stock levels.
// Increment and Decrement run as atomic SQL updates so concurrent
// receipts against the same (warehouse, product) pair never lose
// quantity; they do not go through the aggregate.
type Repository interface {
	// Save persists a stock level record
	Save(ctx context.Context, level *StockLevel) error

	// FindByID retrieves a stock level by ID
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*StockLevel, error)

	// FindByWarehouseAndProduct retrieves the stock level for a
	// (warehouse, product) pair
	FindByWarehouseAndProduct(ctx context.Context, orgID, warehouseID, productID uuid.UUID) (*StockLevel, error)

	// FindAll retrieves stock levels matching the filter
	FindAll(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (shared.Paginated[*StockLevel], error)

	// Increment atomically adds quantity to a (warehouse, product)
	// balance, creating the record if it does not exist yet
	Increment(ctx context.Context, orgID, warehouseID, productID uuid.UUID, quantity decimal.Decimal) error

	// Decrement atomically subtracts quantity from a (warehouse,
	// product) balance. The balance is floored at zero: when the
	// requested quantity exceeds the balance, the balance becomes zero.
	Decrement(ctx context.Context, orgID, warehouseID, productID uuid.UUID, quantity decimal.Decimal) error
}
