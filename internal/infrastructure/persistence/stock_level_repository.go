package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/persistence/models"
)

// GormStockLevelRepository implements inventory.Repository using GORM.
// Increment and Decrement are single SQL statements so concurrent
// receipts against the same (warehouse, product) row serialize at the
// database instead of losing updates.
type GormStockLevelRepository struct {
	db *gorm.DB
}

// NewGormStockLevelRepository creates a new GormStockLevelRepository
func NewGormStockLevelRepository(db *gorm.DB) *GormStockLevelRepository {
	return &GormStockLevelRepository{db: db}
}

// Save persists a stock level record
func (r *GormStockLevelRepository) Save(ctx context.Context, level *inventory.StockLevel) error {
	model := models.StockLevelModelFromDomain(level)
	return mapError(r.db.WithContext(ctx).Save(model).Error)
}

// FindByID finds a stock level by ID within an organization
func (r *GormStockLevelRepository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*inventory.StockLevel, error) {
	var model models.StockLevelModel
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND id = ?", orgID, id).
		First(&model).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return model.ToDomain(), nil
}

// FindByWarehouseAndProduct finds the stock level for a (warehouse, product) pair
func (r *GormStockLevelRepository) FindByWarehouseAndProduct(ctx context.Context, orgID, warehouseID, productID uuid.UUID) (*inventory.StockLevel, error) {
	var model models.StockLevelModel
	if err := r.db.WithContext(ctx).
		Where("org_id = ? AND warehouse_id = ? AND product_id = ?", orgID, warehouseID, productID).
		First(&model).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds stock levels matching the filter with pagination
func (r *GormStockLevelRepository) FindAll(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (shared.Paginated[*inventory.StockLevel], error) {
	var empty shared.Paginated[*inventory.StockLevel]

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	filtered := func() *gorm.DB {
		query := r.db.WithContext(ctx).Model(&models.StockLevelModel{}).Where("org_id = ?", orgID)
		for key, value := range filter.Filters {
			switch key {
			case "warehouse_id":
				query = query.Where("warehouse_id = ?", value)
			case "product_id":
				query = query.Where("product_id = ?", value)
			case "in_stock_only":
				if value == true {
					query = query.Where("on_hand > 0")
				}
			}
		}
		return query
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return empty, mapError(err)
	}

	sortField := ValidateSortField(filter.OrderBy, StockLevelSortFields, "updated_at")
	query := filtered().
		Order(sortField + " " + ValidateSortOrder(filter.OrderDir)).
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize)

	var levelModels []models.StockLevelModel
	if err := query.Find(&levelModels).Error; err != nil {
		return empty, mapError(err)
	}

	levels := make([]*inventory.StockLevel, len(levelModels))
	for i := range levelModels {
		levels[i] = levelModels[i].ToDomain()
	}

	return shared.NewPaginated(levels, total, filter.Page, filter.PageSize), nil
}

// Increment atomically adds quantity to a (warehouse, product) balance.
// The row is created on first receipt; concurrent calls resolve through
// the unique index and an in-database addition.
func (r *GormStockLevelRepository) Increment(ctx context.Context, orgID, warehouseID, productID uuid.UUID, quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError(shared.CodeValidation, "Increment quantity must be positive")
	}

	now := time.Now()
	model := models.StockLevelModel{
		ID:          uuid.New(),
		OrgID:       orgID,
		WarehouseID: warehouseID,
		ProductID:   productID,
		OnHand:      quantity,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "org_id"}, {Name: "warehouse_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"on_hand":    gorm.Expr("stock_levels.on_hand + ?", quantity),
			"version":    gorm.Expr("stock_levels.version + 1"),
			"updated_at": now,
		}),
	}).Create(&model).Error

	return mapError(err)
}

// Decrement atomically subtracts quantity from a (warehouse, product)
// balance, flooring it at zero.
func (r *GormStockLevelRepository) Decrement(ctx context.Context, orgID, warehouseID, productID uuid.UUID, quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError(shared.CodeValidation, "Decrement quantity must be positive")
	}

	result := r.db.WithContext(ctx).Model(&models.StockLevelModel{}).
		Where("org_id = ? AND warehouse_id = ? AND product_id = ?", orgID, warehouseID, productID).
		Updates(map[string]interface{}{
			"on_hand":    gorm.Expr("CASE WHEN on_hand > ? THEN on_hand - ? ELSE 0 END", quantity, quantity),
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ inventory.Repository = (*GormStockLevelRepository)(nil)
