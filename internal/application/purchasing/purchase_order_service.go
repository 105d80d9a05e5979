package purchasing

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stockroom/backend/internal/domain/purchasing"
	"github.com/stockroom/backend/internal/domain/shared"
)

// PurchaseOrderService orchestrates the purchase order lifecycle.
// Every mutation checks the caller's permission, reloads the aggregate
// fresh, applies the domain operation and persists with an optimistic
// version check. Conflicts are surfaced to the caller unchanged; the
// service never retries on its own.
type PurchaseOrderService struct {
	orderRepo      purchasing.Repository
	reconciler     *ReceivingReconciler
	permissions    PermissionChecker
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(
	orderRepo purchasing.Repository,
	reconciler *ReceivingReconciler,
	permissions PermissionChecker,
	logger *zap.Logger,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		orderRepo:   orderRepo,
		reconciler:  reconciler,
		permissions: permissions,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PurchaseOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new purchase order in draft status
func (s *PurchaseOrderService) Create(ctx context.Context, orgID, userID uuid.UUID, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	if err := s.checkPermission(ctx, orgID, userID, ActionCreateOrder); err != nil {
		return nil, err
	}

	orderNumber, err := s.orderRepo.NextOrderNumber(ctx, orgID)
	if err != nil {
		return nil, err
	}

	order, err := purchasing.NewPurchaseOrder(orgID, orderNumber, req.SupplierID, req.WarehouseID)
	if err != nil {
		return nil, err
	}

	for _, line := range req.Lines {
		if _, err := order.AddLine(line.ProductID, line.ProductName, line.Quantity, line.UnitPrice); err != nil {
			return nil, err
		}
	}

	if req.ExpectedDeliveryDate != nil {
		order.SetExpectedDeliveryDate(req.ExpectedDeliveryDate)
	}
	if req.Notes != "" {
		order.SetNotes(req.Notes)
	}
	if req.CreatedBy != nil {
		order.SetCreatedBy(*req.CreatedBy)
	} else {
		order.SetCreatedBy(userID)
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// GetByID retrieves a purchase order by ID
func (s *PurchaseOrderService) GetByID(ctx context.Context, orgID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orgID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// GetByOrderNumber retrieves a purchase order by order number
func (s *PurchaseOrderService) GetByOrderNumber(ctx context.Context, orgID uuid.UUID, orderNumber string) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByOrderNumber(ctx, orgID, orderNumber)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// List retrieves purchase orders with filtering and pagination
func (s *PurchaseOrderService) List(ctx context.Context, orgID uuid.UUID, filter OrderListFilter) (shared.Paginated[PurchaseOrderResponse], error) {
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
	domainFilter.Search = filter.Search

	if filter.SupplierID != nil {
		domainFilter.Filters["supplier_id"] = *filter.SupplierID
	}
	if filter.WarehouseID != nil {
		domainFilter.Filters["warehouse_id"] = *filter.WarehouseID
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = string(*filter.Status)
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, status := range filter.Statuses {
			statuses = append(statuses, string(status))
		}
		domainFilter.Filters["statuses"] = statuses
	}

	page, err := s.orderRepo.FindAll(ctx, orgID, domainFilter)
	if err != nil {
		return shared.Paginated[PurchaseOrderResponse]{}, err
	}

	responses := make([]PurchaseOrderResponse, 0, len(page.Items))
	for _, order := range page.Items {
		responses = append(responses, ToPurchaseOrderResponse(order))
	}

	return shared.Paginated[PurchaseOrderResponse]{
		Items:      responses,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}

// Submit submits a draft order for approval
func (s *PurchaseOrderService) Submit(ctx context.Context, orgID, userID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, orgID, userID, orderID, ActionSubmitOrder, func(order *purchasing.PurchaseOrder) error {
		return order.Submit()
	})
}

// Approve approves a submitted order
func (s *PurchaseOrderService) Approve(ctx context.Context, orgID, userID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, orgID, userID, orderID, ActionApproveOrder, func(order *purchasing.PurchaseOrder) error {
		return order.Approve(userID)
	})
}

// Reject rejects a submitted order with a reason
func (s *PurchaseOrderService) Reject(ctx context.Context, orgID, userID, orderID uuid.UUID, req RejectOrderRequest) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, orgID, userID, orderID, ActionRejectOrder, func(order *purchasing.PurchaseOrder) error {
		return order.Reject(userID, req.Reason)
	})
}

// Close administratively closes a non-terminal order
func (s *PurchaseOrderService) Close(ctx context.Context, orgID, userID, orderID uuid.UUID, req CloseOrderRequest) (*PurchaseOrderResponse, error) {
	return s.mutate(ctx, orgID, userID, orderID, ActionCloseOrder, func(order *purchasing.PurchaseOrder) error {
		return order.Close(req.Reason)
	})
}

// Receive records a receiving batch against an approved order. The
// order lines and the stock ledger are updated in one transaction; the
// received event is published after the commit.
func (s *PurchaseOrderService) Receive(ctx context.Context, orgID, userID, orderID uuid.UUID, req ReceiveOrderRequest) (*ReceiveOrderResponse, error) {
	if err := s.checkPermission(ctx, orgID, userID, ActionReceiveOrder); err != nil {
		return nil, err
	}

	result, err := s.reconciler.Reconcile(ctx, orgID, orderID, ToReceiveItems(req.Items))
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, result.Order)

	return &ReceiveOrderResponse{
		Order:  ToPurchaseOrderResponse(result.Order),
		Deltas: ToReceiptDeltaResponses(result.Deltas),
	}, nil
}

// mutate runs one lifecycle operation against a freshly loaded order
// and persists it with a version check.
func (s *PurchaseOrderService) mutate(ctx context.Context, orgID, userID, orderID uuid.UUID, action string, op func(order *purchasing.PurchaseOrder) error) (*PurchaseOrderResponse, error) {
	if err := s.checkPermission(ctx, orgID, userID, action); err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByID(ctx, orgID, orderID)
	if err != nil {
		return nil, err
	}

	if err := op(order); err != nil {
		return nil, err
	}

	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

func (s *PurchaseOrderService) checkPermission(ctx context.Context, orgID, userID uuid.UUID, action string) error {
	allowed, err := s.permissions.Allowed(ctx, orgID, userID, action)
	if err != nil {
		return err
	}
	if !allowed {
		return shared.NewDomainErrorf(shared.CodeForbidden, "User is not allowed to perform %s", action)
	}
	return nil
}

// publishEvents publishes pending domain events after a successful
// commit. Publication is best-effort: a failure is logged and the
// already-committed state stands.
func (s *PurchaseOrderService) publishEvents(ctx context.Context, order *purchasing.PurchaseOrder) {
	if s.eventPublisher == nil {
		return
	}

	events := order.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	order.ClearDomainEvents()

	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish domain events",
			zap.String("order_id", order.ID.String()),
			zap.Int("event_count", len(events)),
			zap.Error(err),
		)
	}
}
