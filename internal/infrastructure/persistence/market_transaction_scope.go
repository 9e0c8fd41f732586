package persistence

import (
	"context"

	appmarket "github.com/comercium/backend/internal/application/market"
	"github.com/comercium/backend/internal/domain/catalog"
	"github.com/comercium/backend/internal/domain/market"
	"gorm.io/gorm"
)

// GormMarketTransactionScope implements appmarket.TransactionScope using
// a GORM database transaction. Checkout settlement runs order, stock and
// cart writes through it so a payment either settles completely or not
// at all.
type GormMarketTransactionScope struct {
	db *gorm.DB
}

// NewGormMarketTransactionScope creates a transaction scope backed by
// the given database.
func NewGormMarketTransactionScope(db *gorm.DB) *GormMarketTransactionScope {
	return &GormMarketTransactionScope{db: db}
}

// Execute runs fn inside a database transaction. Repositories handed to
// fn are bound to the transaction, so a returned error rolls back every
// write fn made.
func (s *GormMarketTransactionScope) Execute(ctx context.Context, fn func(repos appmarket.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormMarketRepositories{tx: tx})
	})
}

type gormMarketRepositories struct {
	tx *gorm.DB
}

func (r *gormMarketRepositories) OrderRepo() market.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

func (r *gormMarketRepositories) CartRepo() market.CartRepository {
	return NewGormCartRepository(r.tx)
}

func (r *gormMarketRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

var _ appmarket.TransactionScope = (*GormMarketTransactionScope)(nil)
var _ appmarket.TransactionalRepositories = (*gormMarketRepositories)(nil)
