package purchasing

import (
	"context"

	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/purchasing"
)

// TransactionScope provides transactional access to the repositories a
// receiving operation touches. Everything executed within a scope is
// committed or rolled back as one unit, so an order update and its
// stock ledger increments can never diverge.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the purchasing and
// inventory repositories within one transaction. Both repositories
// share the same underlying database transaction.
type TransactionalRepositories interface {
	// OrderRepo returns the purchase order repository scoped to the current transaction
	OrderRepo() purchasing.Repository
	// StockRepo returns the stock level repository scoped to the current transaction
	StockRepo() inventory.Repository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing with mock repositories.
type NoOpTransactionScope struct {
	orderRepo purchasing.Repository
	stockRepo inventory.Repository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(orderRepo purchasing.Repository, stockRepo inventory.Repository) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		orderRepo: orderRepo,
		stockRepo: stockRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// OrderRepo returns the purchase order repository.
func (s *NoOpTransactionScope) OrderRepo() purchasing.Repository {
	return s.orderRepo
}

// StockRepo returns the stock level repository.
func (s *NoOpTransactionScope) StockRepo() inventory.Repository {
	return s.stockRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
