package identity

import (
	"context"

	"github.com/comercium/backend/internal/domain/identity"
)

// TransactionScope provides transactional access to identity repositories.
// Registration saves the user and its profile atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to identity repositories that
// share the same underlying database transaction.
type TransactionalRepositories interface {
	UserRepo() identity.UserRepository
	ProfileRepo() identity.ProfileRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful in tests.
type NoOpTransactionScope struct {
	userRepo    identity.UserRepository
	profileRepo identity.ProfileRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(userRepo identity.UserRepository, profileRepo identity.ProfileRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{userRepo: userRepo, profileRepo: profileRepo}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// UserRepo returns the user repository.
func (s *NoOpTransactionScope) UserRepo() identity.UserRepository {
	return s.userRepo
}

// ProfileRepo returns the profile repository.
func (s *NoOpTransactionScope) ProfileRepo() identity.ProfileRepository {
	return s.profileRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
