package persistence

import (
	"context"

	appidentity "github.com/comercium/backend/internal/application/identity"
	"github.com/comercium/backend/internal/domain/identity"
	"gorm.io/gorm"
)

// GormIdentityTransactionScope implements appidentity.TransactionScope
// using a GORM database transaction.
type GormIdentityTransactionScope struct {
	db *gorm.DB
}

// NewGormIdentityTransactionScope creates a transaction scope backed by
// the given database.
func NewGormIdentityTransactionScope(db *gorm.DB) *GormIdentityTransactionScope {
	return &GormIdentityTransactionScope{db: db}
}

// Execute runs fn inside a database transaction. Repositories handed to
// fn are bound to the transaction, so a returned error rolls back every
// write fn made.
func (s *GormIdentityTransactionScope) Execute(ctx context.Context, fn func(repos appidentity.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormIdentityRepositories{tx: tx})
	})
}

type gormIdentityRepositories struct {
	tx *gorm.DB
}

func (r *gormIdentityRepositories) UserRepo() identity.UserRepository {
	return NewGormUserRepository(r.tx)
}

func (r *gormIdentityRepositories) ProfileRepo() identity.ProfileRepository {
	return NewGormProfileRepository(r.tx)
}

var _ appidentity.TransactionScope = (*GormIdentityTransactionScope)(nil)
var _ appidentity.TransactionalRepositories = (*gormIdentityRepositories)(nil)
