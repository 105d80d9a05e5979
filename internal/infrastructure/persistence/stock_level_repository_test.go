package persistence

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/stockroom/backend/internal/domain/shared"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// sqlite allows one writer at a time
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, AutoMigrate(db))
	return db
}

func TestGormStockLevelRepository_Increment(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormStockLevelRepository(db)
	ctx := context.Background()
	orgID := uuid.New()
	warehouseID := uuid.New()
	productID := uuid.New()

	t.Run("creates row on first increment", func(t *testing.T) {
		require.NoError(t, repo.Increment(ctx, orgID, warehouseID, productID, decimal.NewFromInt(10)))

		level, err := repo.FindByWarehouseAndProduct(ctx, orgID, warehouseID, productID)
		require.NoError(t, err)
		assert.True(t, level.OnHand.Equal(decimal.NewFromInt(10)))
	})

	t.Run("accumulates on subsequent increments", func(t *testing.T) {
		require.NoError(t, repo.Increment(ctx, orgID, warehouseID, productID, decimal.NewFromFloat(2.5)))

		level, err := repo.FindByWarehouseAndProduct(ctx, orgID, warehouseID, productID)
		require.NoError(t, err)
		assert.True(t, level.OnHand.Equal(decimal.NewFromFloat(12.5)))
	})

	t.Run("rejects non positive quantity", func(t *testing.T) {
		err := repo.Increment(ctx, orgID, warehouseID, productID, decimal.Zero)
		require.Error(t, err)
	})

	t.Run("separate products keep separate balances", func(t *testing.T) {
		otherProduct := uuid.New()
		require.NoError(t, repo.Increment(ctx, orgID, warehouseID, otherProduct, decimal.NewFromInt(3)))

		level, err := repo.FindByWarehouseAndProduct(ctx, orgID, warehouseID, otherProduct)
		require.NoError(t, err)
		assert.True(t, level.OnHand.Equal(decimal.NewFromInt(3)))
	})
}

func TestGormStockLevelRepository_Decrement(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormStockLevelRepository(db)
	ctx := context.Background()
	orgID := uuid.New()
	warehouseID := uuid.New()
	productID := uuid.New()

	require.NoError(t, repo.Increment(ctx, orgID, warehouseID, productID, decimal.NewFromInt(10)))

	t.Run("subtracts quantity", func(t *testing.T) {
		require.NoError(t, repo.Decrement(ctx, orgID, warehouseID, productID, decimal.NewFromInt(4)))

		level, err := repo.FindByWarehouseAndProduct(ctx, orgID, warehouseID, productID)
		require.NoError(t, err)
		assert.True(t, level.OnHand.Equal(decimal.NewFromInt(6)))
	})

	t.Run("floors at zero on shortfall", func(t *testing.T) {
		require.NoError(t, repo.Decrement(ctx, orgID, warehouseID, productID, decimal.NewFromInt(100)))

		level, err := repo.FindByWarehouseAndProduct(ctx, orgID, warehouseID, productID)
		require.NoError(t, err)
		assert.True(t, level.OnHand.IsZero())
	})

	t.Run("unknown pair returns not found", func(t *testing.T) {
		err := repo.Decrement(ctx, orgID, warehouseID, uuid.New(), decimal.NewFromInt(1))
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeNotFound, domainErr.Code)
	})
}

// Concurrent increments against the same row must never lose quantity.
func TestGormStockLevelRepository_ConcurrentIncrements(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormStockLevelRepository(db)
	ctx := context.Background()
	orgID := uuid.New()
	warehouseID := uuid.New()
	productID := uuid.New()

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.Increment(ctx, orgID, warehouseID, productID, decimal.NewFromInt(1))
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	level, err := repo.FindByWarehouseAndProduct(ctx, orgID, warehouseID, productID)
	require.NoError(t, err)
	assert.True(t, level.OnHand.Equal(decimal.NewFromInt(workers)),
		"expected %d, got %s", workers, level.OnHand)
}

func TestGormStockLevelRepository_FindAll(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormStockLevelRepository(db)
	ctx := context.Background()
	orgID := uuid.New()
	warehouseID := uuid.New()

	emptyProduct := uuid.New()
	stockedProduct := uuid.New()
	require.NoError(t, repo.Increment(ctx, orgID, warehouseID, emptyProduct, decimal.NewFromInt(5)))
	require.NoError(t, repo.Decrement(ctx, orgID, warehouseID, emptyProduct, decimal.NewFromInt(5)))
	require.NoError(t, repo.Increment(ctx, orgID, warehouseID, stockedProduct, decimal.NewFromInt(7)))

	filter := shared.DefaultFilter()
	filter.Filters["warehouse_id"] = warehouseID
	filter.Filters["in_stock_only"] = true

	page, err := repo.FindAll(ctx, orgID, filter)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, stockedProduct, page.Items[0].ProductID)

	// Other orgs see nothing
	page, err = repo.FindAll(ctx, uuid.New(), shared.DefaultFilter())
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}
