package purchasing

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stockroom/backend/internal/domain/purchasing"
)

// ReceivingReconciler coordinates a receiving batch against the order
// lines and the stock ledger. The order is reloaded fresh inside the
// transaction, the batch is validated and applied by the aggregate, and
// the order update plus the per-line ledger increments are committed as
// one unit. A failure at any point rolls the whole batch back.
type ReceivingReconciler struct {
	txScope TransactionScope
	logger  *zap.Logger
}

// NewReceivingReconciler creates a new ReceivingReconciler
func NewReceivingReconciler(txScope TransactionScope, logger *zap.Logger) *ReceivingReconciler {
	return &ReceivingReconciler{
		txScope: txScope,
		logger:  logger,
	}
}

// ReconcileResult is the outcome of a committed receiving batch
type ReconcileResult struct {
	Order  *purchasing.PurchaseOrder
	Deltas []purchasing.ReceiptDelta
}

// Reconcile applies a receiving batch to the order and the stock
// ledger. The returned order reflects the committed state; its pending
// domain events have not been published yet.
func (r *ReceivingReconciler) Reconcile(ctx context.Context, orgID, orderID uuid.UUID, items []purchasing.ReceiveItem) (*ReconcileResult, error) {
	var result ReconcileResult

	err := r.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, orgID, orderID)
		if err != nil {
			return err
		}

		deltas, err := order.Receive(items)
		if err != nil {
			return err
		}

		if err := repos.OrderRepo().SaveWithLock(ctx, order); err != nil {
			return err
		}

		for _, delta := range deltas {
			if err := repos.StockRepo().Increment(ctx, orgID, order.WarehouseID, delta.ProductID, delta.Quantity); err != nil {
				return err
			}
		}

		result.Order = order
		result.Deltas = deltas
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("receiving batch committed",
		zap.String("order_id", orderID.String()),
		zap.String("order_number", result.Order.OrderNumber),
		zap.String("status", result.Order.Status.String()),
		zap.Int("lines_affected", len(result.Deltas)),
	)

	return &result, nil
}
