package identity

import (
	"context"
	"testing"
	"time"

	"github.com/comercium/backend/internal/domain/identity"
	"github.com/comercium/backend/internal/domain/shared"
	"github.com/comercium/backend/internal/infrastructure/auth"
	"github.com/comercium/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*identity.User, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockProfileRepository is a mock implementation of identity.ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*identity.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Profile), args.Error(1)
}

func (m *MockProfileRepository) FindByUsers(ctx context.Context, userIDs []uuid.UUID) ([]*identity.Profile, error) {
	args := m.Called(ctx, userIDs)
	return args.Get(0).([]*identity.Profile), args.Error(1)
}

func (m *MockProfileRepository) Save(ctx context.Context, profile *identity.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

// MockActivityRepository is a mock implementation of identity.ActivityRepository
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*identity.UserActivity, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.UserActivity), args.Error(1)
}

func (m *MockActivityRepository) FindByUsers(ctx context.Context, userIDs []uuid.UUID) ([]*identity.UserActivity, error) {
	args := m.Called(ctx, userIDs)
	return args.Get(0).([]*identity.UserActivity), args.Error(1)
}

func (m *MockActivityRepository) Save(ctx context.Context, activity *identity.UserActivity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func newAuthService(userRepo *MockUserRepository, profileRepo *MockProfileRepository) *AuthService {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-unit-tests-only",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "comercium-test",
		MaxRefreshCount:        10,
	})
	txScope := NewNoOpTransactionScope(userRepo, profileRepo)
	return NewAuthService(userRepo, txScope, jwtService, auth.NewInMemoryTokenBlacklist(), zap.NewNop())
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user and profile, returns tokens", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		profileRepo := new(MockProfileRepository)
		svc := newAuthService(userRepo, profileRepo)

		userRepo.On("ExistsByUsername", ctx, "vendedor").Return(false, nil)
		userRepo.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)
		profileRepo.On("Save", ctx, mock.AnythingOfType("*identity.Profile")).Return(nil)

		result, err := svc.Register(ctx, RegisterInput{
			Username: "Vendedor",
			Password: "s3cret-pass",
		})
		require.NoError(t, err)
		assert.Equal(t, "vendedor", result.User.Username)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)

		userRepo.AssertExpectations(t)
		profileRepo.AssertExpectations(t)
	})

	t.Run("rejects taken username", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		profileRepo := new(MockProfileRepository)
		svc := newAuthService(userRepo, profileRepo)

		userRepo.On("ExistsByUsername", ctx, "vendedor").Return(true, nil)

		_, err := svc.Register(ctx, RegisterInput{Username: "vendedor", Password: "s3cret-pass"})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "USERNAME_TAKEN", domainErr.Code)

		userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	newUser := func() *identity.User {
		user, err := identity.NewUser("vendedor", "", "s3cret-pass")
		require.NoError(t, err)
		return user
	}

	t.Run("returns tokens on valid credentials", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		profileRepo := new(MockProfileRepository)
		svc := newAuthService(userRepo, profileRepo)
		user := newUser()

		userRepo.On("FindByUsername", ctx, "vendedor").Return(user, nil)
		userRepo.On("Save", ctx, user).Return(nil)

		result, err := svc.Login(ctx, LoginInput{Username: "Vendedor", Password: "s3cret-pass"})
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotNil(t, user.LastLoginAt)
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		profileRepo := new(MockProfileRepository)
		svc := newAuthService(userRepo, profileRepo)

		userRepo.On("FindByUsername", ctx, "vendedor").Return(newUser(), nil)

		_, err := svc.Login(ctx, LoginInput{Username: "vendedor", Password: "wrong"})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	})

	t.Run("rejects unknown user with same error code", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		profileRepo := new(MockProfileRepository)
		svc := newAuthService(userRepo, profileRepo)

		userRepo.On("FindByUsername", ctx, "nadie").Return(nil, shared.ErrNotFound)

		_, err := svc.Login(ctx, LoginInput{Username: "nadie", Password: "whatever"})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	})

	t.Run("rejects banned account", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		profileRepo := new(MockProfileRepository)
		svc := newAuthService(userRepo, profileRepo)
		user := newUser()
		require.NoError(t, user.Ban())

		userRepo.On("FindByUsername", ctx, "vendedor").Return(user, nil)

		_, err := svc.Login(ctx, LoginInput{Username: "vendedor", Password: "s3cret-pass"})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ACCOUNT_BANNED", domainErr.Code)
	})
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("issues a new pair for a live account", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		profileRepo := new(MockProfileRepository)
		svc := newAuthService(userRepo, profileRepo)

		user, err := identity.NewUser("vendedor", "", "s3cret-pass")
		require.NoError(t, err)

		userRepo.On("ExistsByUsername", ctx, "vendedor").Return(false, nil)
		userRepo.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)
		profileRepo.On("Save", ctx, mock.AnythingOfType("*identity.Profile")).Return(nil)

		registered, err := svc.Register(ctx, RegisterInput{Username: "vendedor", Password: "s3cret-pass"})
		require.NoError(t, err)

		userRepo.On("FindByID", ctx, mock.AnythingOfType("uuid.UUID")).Return(user, nil)

		result, err := svc.Refresh(ctx, RefreshTokenInput{RefreshToken: registered.RefreshToken})
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEqual(t, registered.RefreshToken, result.RefreshToken)
	})

	t.Run("rejects banned account", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		profileRepo := new(MockProfileRepository)
		svc := newAuthService(userRepo, profileRepo)

		user, err := identity.NewUser("vendedor", "", "s3cret-pass")
		require.NoError(t, err)

		userRepo.On("ExistsByUsername", ctx, "vendedor").Return(false, nil)
		userRepo.On("Save", ctx, mock.AnythingOfType("*identity.User")).Return(nil)
		profileRepo.On("Save", ctx, mock.AnythingOfType("*identity.Profile")).Return(nil)

		registered, err := svc.Register(ctx, RegisterInput{Username: "vendedor", Password: "s3cret-pass"})
		require.NoError(t, err)

		require.NoError(t, user.Ban())
		userRepo.On("FindByID", ctx, mock.AnythingOfType("uuid.UUID")).Return(user, nil)

		_, err = svc.Refresh(ctx, RefreshTokenInput{RefreshToken: registered.RefreshToken})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ACCOUNT_BANNED", domainErr.Code)
	})

	t.Run("rejects garbage token", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		profileRepo := new(MockProfileRepository)
		svc := newAuthService(userRepo, profileRepo)

		_, err := svc.Refresh(ctx, RefreshTokenInput{RefreshToken: "garbage"})
		assert.Error(t, err)
	})
}

func TestUserService_Ban(t *testing.T) {
	ctx := context.Background()

	newUsers := func(t *testing.T) (*identity.User, *identity.User) {
		staff, err := identity.NewUser("moderador", "", "s3cret-pass")
		require.NoError(t, err)
		staff.IsStaff = true
		target, err := identity.NewUser("infractor", "", "s3cret-pass")
		require.NoError(t, err)
		return staff, target
	}

	t.Run("staff bans a user and revokes sessions", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		blacklist := auth.NewInMemoryTokenBlacklist()
		svc := NewUserService(userRepo, blacklist, time.Hour, zap.NewNop())
		staff, target := newUsers(t)
		issuedAt := time.Now().Add(-time.Minute)

		userRepo.On("FindByID", ctx, staff.ID).Return(staff, nil)
		userRepo.On("FindByID", ctx, target.ID).Return(target, nil)
		userRepo.On("Save", ctx, target).Return(nil)

		require.NoError(t, svc.Ban(ctx, staff.ID, target.ID))
		assert.True(t, target.IsBanned())

		invalidated, err := blacklist.IsUserTokenInvalidated(ctx, target.ID.String(), issuedAt)
		require.NoError(t, err)
		assert.True(t, invalidated)
	})

	t.Run("non-staff cannot ban", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := NewUserService(userRepo, auth.NewInMemoryTokenBlacklist(), time.Hour, zap.NewNop())
		_, target := newUsers(t)
		caller, err := identity.NewUser("usuario", "", "s3cret-pass")
		require.NoError(t, err)

		userRepo.On("FindByID", ctx, caller.ID).Return(caller, nil)

		err = svc.Ban(ctx, caller.ID, target.ID)
		assert.ErrorIs(t, err, shared.ErrForbidden)
		userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}
