package purchasing

import (
	"context"

	"github.com/google/uuid"

	"github.com/stockroom/backend/internal/domain/shared"
)

// Repository defines the persistence contract for purchase orders.
// Save and SaveWithLock persist the aggregate together with its lines.
type Repository interface {
	// Save persists a purchase order without a version check
	Save(ctx context.Context, order *PurchaseOrder) error

	// SaveWithLock persists a purchase order using optimistic locking.
	// Returns a CONCURRENCY_CONFLICT error when the stored version no
	// longer matches the version the aggregate was loaded at.
	SaveWithLock(ctx context.Context, order *PurchaseOrder) error

	// FindByID retrieves a purchase order with its lines
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*PurchaseOrder, error)

	// FindByOrderNumber retrieves a purchase order by its order number
	FindByOrderNumber(ctx context.Context, orgID uuid.UUID, orderNumber string) (*PurchaseOrder, error)

	// FindAll retrieves purchase orders matching the filter
	FindAll(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (shared.Paginated[*PurchaseOrder], error)

	// ExistsByOrderNumber checks if an order number is already taken
	ExistsByOrderNumber(ctx context.Context, orgID uuid.UUID, orderNumber string) (bool, error)

	// NextOrderNumber generates the next sequential order number
	NextOrderNumber(ctx context.Context, orgID uuid.UUID) (string, error)

	// Delete removes a purchase order
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}
