package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockroom/backend/internal/domain/shared"
)

func newTestStockLevel(t *testing.T) *StockLevel {
	t.Helper()
	level, err := NewStockLevel(uuid.New(), uuid.New(), uuid.New())
	require.NoError(t, err)
	return level
}

// ============================================================================
// Creation Tests
// ============================================================================

func TestNewStockLevel(t *testing.T) {
	t.Run("creates empty stock level", func(t *testing.T) {
		orgID := uuid.New()
		warehouseID := uuid.New()
		productID := uuid.New()

		level, err := NewStockLevel(orgID, warehouseID, productID)
		require.NoError(t, err)

		assert.Equal(t, orgID, level.OrgID)
		assert.Equal(t, warehouseID, level.WarehouseID)
		assert.Equal(t, productID, level.ProductID)
		assert.True(t, level.OnHand.IsZero())
		assert.True(t, level.IsEmpty())
		assert.Equal(t, 1, level.Version)
	})

	t.Run("rejects nil warehouse", func(t *testing.T) {
		_, err := NewStockLevel(uuid.New(), uuid.Nil, uuid.New())
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeValidation, domainErr.Code)
	})

	t.Run("rejects nil product", func(t *testing.T) {
		_, err := NewStockLevel(uuid.New(), uuid.New(), uuid.Nil)
		require.Error(t, err)
	})
}

// ============================================================================
// Increase Tests
// ============================================================================

func TestStockLevel_Increase(t *testing.T) {
	t.Run("adds quantity and publishes event", func(t *testing.T) {
		level := newTestStockLevel(t)

		require.NoError(t, level.Increase(decimal.NewFromInt(10)))
		require.NoError(t, level.Increase(decimal.NewFromFloat(2.5)))

		assert.True(t, level.OnHand.Equal(decimal.NewFromFloat(12.5)))
		assert.Equal(t, 3, level.Version)

		events := level.GetDomainEvents()
		require.Len(t, events, 2)
		increased, ok := events[0].(*StockIncreasedEvent)
		require.True(t, ok)
		assert.True(t, increased.Quantity.Equal(decimal.NewFromInt(10)))
		assert.True(t, increased.OnHand.Equal(decimal.NewFromInt(10)))
	})

	t.Run("rejects non positive quantity", func(t *testing.T) {
		level := newTestStockLevel(t)

		require.Error(t, level.Increase(decimal.Zero))
		require.Error(t, level.Increase(decimal.NewFromInt(-5)))
		assert.True(t, level.OnHand.IsZero())
	})
}

// ============================================================================
// Decrease Tests
// ============================================================================

func TestStockLevel_Decrease(t *testing.T) {
	t.Run("subtracts quantity", func(t *testing.T) {
		level := newTestStockLevel(t)
		require.NoError(t, level.Increase(decimal.NewFromInt(10)))

		require.NoError(t, level.Decrease(decimal.NewFromInt(4)))

		assert.True(t, level.OnHand.Equal(decimal.NewFromInt(6)))
	})

	t.Run("floors at zero on shortfall", func(t *testing.T) {
		level := newTestStockLevel(t)
		require.NoError(t, level.Increase(decimal.NewFromInt(3)))
		level.ClearDomainEvents()

		require.NoError(t, level.Decrease(decimal.NewFromInt(10)))

		assert.True(t, level.OnHand.IsZero())

		events := level.GetDomainEvents()
		require.Len(t, events, 1)
		decreased, ok := events[0].(*StockDecreasedEvent)
		require.True(t, ok)
		assert.True(t, decreased.Requested.Equal(decimal.NewFromInt(10)))
		assert.True(t, decreased.Applied.Equal(decimal.NewFromInt(3)))
		assert.True(t, decreased.OnHand.IsZero())
	})

	t.Run("rejects non positive quantity", func(t *testing.T) {
		level := newTestStockLevel(t)
		require.NoError(t, level.Increase(decimal.NewFromInt(10)))

		require.Error(t, level.Decrease(decimal.Zero))
		require.Error(t, level.Decrease(decimal.NewFromInt(-1)))
		assert.True(t, level.OnHand.Equal(decimal.NewFromInt(10)))
	})
}
