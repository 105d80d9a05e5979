package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apppurchasing "github.com/stockroom/backend/internal/application/purchasing"
	"github.com/stockroom/backend/internal/domain/purchasing"
)

func TestGormTransactionScope_CommitsAsOneUnit(t *testing.T) {
	db := newTestDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()
	orgID := uuid.New()
	warehouseID := uuid.New()
	productID := uuid.New()

	order, err := purchasing.NewPurchaseOrder(orgID, "PO-2026-00001", uuid.New(), warehouseID)
	require.NoError(t, err)
	_, err = order.AddLine(productID, "Widget", decimal.NewFromInt(10), decimal.NewFromInt(2))
	require.NoError(t, err)
	require.NoError(t, order.Submit())
	require.NoError(t, order.Approve(uuid.New()))
	require.NoError(t, NewGormPurchaseOrderRepository(db).Save(ctx, order))

	err = scope.Execute(ctx, func(repos apppurchasing.TransactionalRepositories) error {
		loaded, err := repos.OrderRepo().FindByID(ctx, orgID, order.ID)
		if err != nil {
			return err
		}
		deltas, err := loaded.Receive([]purchasing.ReceiveItem{
			{ProductID: productID, Quantity: decimal.NewFromInt(4)},
		})
		if err != nil {
			return err
		}
		if err := repos.OrderRepo().SaveWithLock(ctx, loaded); err != nil {
			return err
		}
		for _, delta := range deltas {
			if err := repos.StockRepo().Increment(ctx, orgID, warehouseID, delta.ProductID, delta.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	reloaded, err := NewGormPurchaseOrderRepository(db).FindByID(ctx, orgID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, purchasing.OrderStatusPartiallyReceived, reloaded.Status)

	level, err := NewGormStockLevelRepository(db).FindByWarehouseAndProduct(ctx, orgID, warehouseID, productID)
	require.NoError(t, err)
	assert.True(t, level.OnHand.Equal(decimal.NewFromInt(4)))
}

func TestGormTransactionScope_RollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()
	orgID := uuid.New()
	warehouseID := uuid.New()
	productID := uuid.New()

	err := scope.Execute(ctx, func(repos apppurchasing.TransactionalRepositories) error {
		if err := repos.StockRepo().Increment(ctx, orgID, warehouseID, productID, decimal.NewFromInt(9)); err != nil {
			return err
		}
		return errors.New("order save failed")
	})
	require.Error(t, err)

	// The increment must not survive the rollback
	_, err = NewGormStockLevelRepository(db).FindByWarehouseAndProduct(ctx, orgID, warehouseID, productID)
	require.Error(t, err)
}
