package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockroom/backend/internal/domain/purchasing"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/infrastructure/persistence/models"
)

// GormPurchaseOrderRepository implements purchasing.Repository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID finds a purchase order with its lines within an organization
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	var model models.PurchaseOrderModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("org_id = ? AND id = ?", orgID, id).
		First(&model).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return model.ToDomain(), nil
}

// FindByOrderNumber finds a purchase order by order number within an organization
func (r *GormPurchaseOrderRepository) FindByOrderNumber(ctx context.Context, orgID uuid.UUID, orderNumber string) (*purchasing.PurchaseOrder, error) {
	var model models.PurchaseOrderModel
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		Where("org_id = ? AND order_number = ?", orgID, orderNumber).
		First(&model).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds purchase orders matching the filter with pagination
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, orgID uuid.UUID, filter shared.Filter) (shared.Paginated[*purchasing.PurchaseOrder], error) {
	var empty shared.Paginated[*purchasing.PurchaseOrder]

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	filtered := func() *gorm.DB {
		query := r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{}).Where("org_id = ?", orgID)
		return r.applyFilters(query, filter)
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return empty, mapError(err)
	}

	query := r.applySortAndPaging(filtered(), filter)

	var orderModels []models.PurchaseOrderModel
	if err := query.Preload("Lines").Find(&orderModels).Error; err != nil {
		return empty, mapError(err)
	}

	orders := make([]*purchasing.PurchaseOrder, len(orderModels))
	for i := range orderModels {
		orders[i] = orderModels[i].ToDomain()
	}

	return shared.NewPaginated(orders, total, filter.Page, filter.PageSize), nil
}

// Save creates or updates a purchase order together with its lines
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *purchasing.PurchaseOrder) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveOrder(tx, order)
	})
	return mapError(err)
}

// SaveWithLock persists the order with an optimistic version check.
// The aggregate has already incremented its version for this change, so
// the row must still hold the previous version. RowsAffected of zero
// means someone else got there first.
func (r *GormPurchaseOrderRepository) SaveWithLock(ctx context.Context, order *purchasing.PurchaseOrder) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order.UpdatedAt = time.Now()

		result := tx.Model(&models.PurchaseOrderModel{}).
			Where("org_id = ? AND id = ? AND version = ?", order.OrgID, order.ID, order.Version-1).
			Updates(map[string]interface{}{
				"status":                 string(order.Status),
				"total_amount":           order.TotalAmount,
				"expected_delivery_date": order.ExpectedDeliveryDate,
				"notes":                  order.Notes,
				"submitted_at":           order.SubmittedAt,
				"approved_at":            order.ApprovedAt,
				"approved_by":            order.ApprovedBy,
				"rejected_at":            order.RejectedAt,
				"rejected_by":            order.RejectedBy,
				"rejection_reason":       order.RejectionReason,
				"completed_at":           order.CompletedAt,
				"closed_at":              order.ClosedAt,
				"close_reason":           order.CloseReason,
				"version":                order.Version,
				"updated_at":             order.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.PurchaseOrderModel{}).
				Where("org_id = ? AND id = ?", order.OrgID, order.ID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return shared.ErrNotFound
			}
			return shared.ErrConcurrencyConflict
		}

		return saveLines(tx, order)
	})
	return mapError(err)
}

// ExistsByOrderNumber checks if an order number exists within an organization
func (r *GormPurchaseOrderRepository) ExistsByOrderNumber(ctx context.Context, orgID uuid.UUID, orderNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PurchaseOrderModel{}).
		Where("org_id = ? AND order_number = ?", orgID, orderNumber).
		Count(&count).Error; err != nil {
		return false, mapError(err)
	}
	return count > 0, nil
}

// NextOrderNumber generates the next sequential order number.
// Format: PO-YYYY-NNNNN (e.g. PO-2026-00001)
func (r *GormPurchaseOrderRepository) NextOrderNumber(ctx context.Context, orgID uuid.UUID) (string, error) {
	prefix := fmt.Sprintf("PO-%d-", time.Now().Year())

	var lastOrder models.PurchaseOrderModel
	err := r.db.WithContext(ctx).
		Model(&models.PurchaseOrderModel{}).
		Where("org_id = ? AND order_number LIKE ?", orgID, prefix+"%").
		Order("order_number DESC").
		First(&lastOrder).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", mapError(err)
	}

	var nextNum int64 = 1
	if err == nil {
		parts := strings.Split(lastOrder.OrderNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	return fmt.Sprintf("%s%05d", prefix, nextNum), nil
}

// Delete removes a purchase order and its lines
func (r *GormPurchaseOrderRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.PurchaseOrderLineModel{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.PurchaseOrderModel{}, "org_id = ? AND id = ?", orgID, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
	return mapError(err)
}

func saveOrder(tx *gorm.DB, order *purchasing.PurchaseOrder) error {
	model := models.PurchaseOrderModelFromDomain(order)
	if err := tx.Omit("Lines").Save(model).Error; err != nil {
		return err
	}
	return saveLines(tx, order)
}

// saveLines replaces the persisted line set with the aggregate's lines
func saveLines(tx *gorm.DB, order *purchasing.PurchaseOrder) error {
	currentLineIDs := make([]uuid.UUID, len(order.Lines))
	for i := range order.Lines {
		currentLineIDs[i] = order.Lines[i].ID
	}

	if len(currentLineIDs) > 0 {
		if err := tx.Where("order_id = ? AND id NOT IN ?", order.ID, currentLineIDs).
			Delete(&models.PurchaseOrderLineModel{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("order_id = ?", order.ID).
			Delete(&models.PurchaseOrderLineModel{}).Error; err != nil {
			return err
		}
	}

	for i := range order.Lines {
		order.Lines[i].OrderID = order.ID
		lineModel := models.PurchaseOrderLineModelFromDomain(&order.Lines[i])
		if err := tx.Save(lineModel).Error; err != nil {
			return err
		}
	}
	return nil
}

// applyFilters applies search and field filters without paging
func (r *GormPurchaseOrderRepository) applyFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("order_number LIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "statuses":
			if statuses, ok := value.([]string); ok && len(statuses) > 0 {
				query = query.Where("status IN ?", statuses)
			}
		case "start_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at >= ?", t)
			}
		case "end_date":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at <= ?", t)
			}
		}
	}

	return query
}

// applySortAndPaging applies whitelisted ordering and pagination
func (r *GormPurchaseOrderRepository) applySortAndPaging(query *gorm.DB, filter shared.Filter) *gorm.DB {
	sortField := ValidateSortField(filter.OrderBy, PurchaseOrderSortFields, "created_at")
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	return query
}

var _ purchasing.Repository = (*GormPurchaseOrderRepository)(nil)
