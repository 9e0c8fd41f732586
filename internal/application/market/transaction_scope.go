package market

import (
	"context"

	"github.com/comercium/backend/internal/domain/catalog"
	"github.com/comercium/backend/internal/domain/market"
)

// TransactionScope provides transactional access to checkout repositories.
// Order snapshotting and payment settlement must be atomic: an order is
// either fully written (with its items, stock deductions and cart
// cleanup) or not at all.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories that share
// the same underlying database transaction.
type TransactionalRepositories interface {
	OrderRepo() market.OrderRepository
	CartRepo() market.CartRepository
	ProductRepo() catalog.ProductRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful in tests.
type NoOpTransactionScope struct {
	orderRepo   market.OrderRepository
	cartRepo    market.CartRepository
	productRepo catalog.ProductRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	orderRepo market.OrderRepository,
	cartRepo market.CartRepository,
	productRepo catalog.ProductRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// OrderRepo returns the order repository.
func (s *NoOpTransactionScope) OrderRepo() market.OrderRepository {
	return s.orderRepo
}

// CartRepo returns the cart repository.
func (s *NoOpTransactionScope) CartRepo() market.CartRepository {
	return s.cartRepo
}

// ProductRepo returns the product repository.
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
