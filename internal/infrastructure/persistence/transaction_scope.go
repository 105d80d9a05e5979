package persistence

import (
	"context"

	"gorm.io/gorm"

	apppurchasing "github.com/stockroom/backend/internal/application/purchasing"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/purchasing"
)

// GormTransactionScope implements the receiving transaction scope using
// a GORM database transaction. The order repository and the stock level
// repository handed to the callback share one transaction, so an order
// update and its ledger increments commit or roll back together.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn inside a database transaction
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos apppurchasing.TransactionalRepositories) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&transactionalRepositories{tx: tx})
	})
	return mapError(err)
}

type transactionalRepositories struct {
	tx *gorm.DB
}

// OrderRepo returns the purchase order repository bound to the transaction
func (r *transactionalRepositories) OrderRepo() purchasing.Repository {
	return NewGormPurchaseOrderRepository(r.tx)
}

// StockRepo returns the stock level repository bound to the transaction
func (r *transactionalRepositories) StockRepo() inventory.Repository {
	return NewGormStockLevelRepository(r.tx)
}

var _ apppurchasing.TransactionScope = (*GormTransactionScope)(nil)
