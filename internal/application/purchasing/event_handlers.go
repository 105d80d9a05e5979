package purchasing

import (
	"context"

	"go.uber.org/zap"

	"github.com/stockroom/backend/internal/domain/purchasing"
	"github.com/stockroom/backend/internal/domain/shared"
)

// OrderAuditHandler writes an audit log entry for every purchase order
// lifecycle event. Handlers run after the transaction commits, so a
// failure here never affects the order itself.
type OrderAuditHandler struct {
	logger *zap.Logger
}

// NewOrderAuditHandler creates a new OrderAuditHandler
func NewOrderAuditHandler(logger *zap.Logger) *OrderAuditHandler {
	return &OrderAuditHandler{
		logger: logger.Named("order-audit"),
	}
}

// EventTypes returns the purchase order events this handler audits
func (h *OrderAuditHandler) EventTypes() []string {
	return []string{
		purchasing.EventTypeOrderCreated,
		purchasing.EventTypeOrderSubmitted,
		purchasing.EventTypeOrderApproved,
		purchasing.EventTypeOrderRejected,
		purchasing.EventTypeOrderReceived,
		purchasing.EventTypeOrderClosed,
	}
}

// Handle logs the event with its aggregate and org context
func (h *OrderAuditHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_type", event.EventType()),
		zap.String("order_id", event.AggregateID().String()),
		zap.String("org_id", event.OrgID().String()),
	}

	switch e := event.(type) {
	case *purchasing.OrderReceivedEvent:
		fields = append(fields,
			zap.String("order_number", e.OrderNumber),
			zap.String("status", string(e.Status)),
			zap.Int("delta_count", len(e.Deltas)),
		)
	case *purchasing.OrderClosedEvent:
		fields = append(fields,
			zap.String("previous_status", string(e.PreviousStatus)),
			zap.String("reason", e.Reason),
		)
	case *purchasing.OrderRejectedEvent:
		fields = append(fields, zap.String("reason", e.Reason))
	}

	h.logger.Info("Purchase order event", fields...)
	return nil
}

var _ shared.EventHandler = (*OrderAuditHandler)(nil)
