package inventory

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
)

// StockService exposes stock ledger queries and manual adjustments.
// Receiving-driven increments do not go through this service; they are
// applied by the receiving reconciler inside the order transaction.
type StockService struct {
	stockRepo inventory.Repository
	logger    *zap.Logger
}

// NewStockService creates a new StockService
func NewStockService(stockRepo inventory.Repository, logger *zap.Logger) *StockService {
	return &StockService{
		stockRepo: stockRepo,
		logger:    logger,
	}
}

// GetByWarehouseAndProduct retrieves the stock level for a (warehouse, product) pair
func (s *StockService) GetByWarehouseAndProduct(ctx context.Context, orgID, warehouseID, productID uuid.UUID) (*StockLevelResponse, error) {
	level, err := s.stockRepo.FindByWarehouseAndProduct(ctx, orgID, warehouseID, productID)
	if err != nil {
		return nil, err
	}
	response := ToStockLevelResponse(level)
	return &response, nil
}

// List retrieves stock levels with filtering and pagination
func (s *StockService) List(ctx context.Context, orgID uuid.UUID, filter StockLevelListFilter) (shared.Paginated[StockLevelResponse], error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}

	if filter.WarehouseID != nil {
		domainFilter.Filters["warehouse_id"] = *filter.WarehouseID
	}
	if filter.ProductID != nil {
		domainFilter.Filters["product_id"] = *filter.ProductID
	}
	if filter.InStockOnly {
		domainFilter.Filters["in_stock_only"] = true
	}

	page, err := s.stockRepo.FindAll(ctx, orgID, domainFilter)
	if err != nil {
		return shared.Paginated[StockLevelResponse]{}, err
	}

	responses := make([]StockLevelResponse, 0, len(page.Items))
	for _, level := range page.Items {
		responses = append(responses, ToStockLevelResponse(level))
	}

	return shared.Paginated[StockLevelResponse]{
		Items:      responses,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}

// Adjust applies a manual stock adjustment. Positive quantities add
// stock, negative quantities remove it with the balance floored at
// zero by the repository.
func (s *StockService) Adjust(ctx context.Context, orgID uuid.UUID, req AdjustStockRequest) (*StockLevelResponse, error) {
	if req.Quantity.IsZero() {
		return nil, shared.NewDomainError(shared.CodeValidation, "Adjustment quantity cannot be zero")
	}

	if req.Quantity.IsPositive() {
		if err := s.stockRepo.Increment(ctx, orgID, req.WarehouseID, req.ProductID, req.Quantity); err != nil {
			return nil, err
		}
	} else {
		if err := s.stockRepo.Decrement(ctx, orgID, req.WarehouseID, req.ProductID, req.Quantity.Neg()); err != nil {
			return nil, err
		}
	}

	s.logger.Info("stock adjusted",
		zap.String("warehouse_id", req.WarehouseID.String()),
		zap.String("product_id", req.ProductID.String()),
		zap.String("quantity", req.Quantity.String()),
		zap.String("reason", req.Reason),
	)

	return s.GetByWarehouseAndProduct(ctx, orgID, req.WarehouseID, req.ProductID)
}
