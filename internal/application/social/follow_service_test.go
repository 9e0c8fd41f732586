package social

import (
	"context"
	"testing"

	"github.com/comercium/backend/internal/domain/catalog"
	"github.com/comercium/backend/internal/domain/identity"
	"github.com/comercium/backend/internal/domain/market"
	"github.com/comercium/backend/internal/domain/shared"
	"github.com/comercium/backend/internal/domain/social"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindActiveByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Browse(ctx context.Context, query catalog.ProductQuery) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID, activeOnly bool) ([]catalog.Product, error) {
	args := m.Called(ctx, sellerID, activeOnly)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySellers(ctx context.Context, sellerIDs []uuid.UUID, limit int) ([]catalog.Product, error) {
	args := m.Called(ctx, sellerIDs, limit)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockOrderRepository is a mock implementation of market.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*market.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*market.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByPreferenceID(ctx context.Context, preferenceID string) (*market.Order, error) {
	args := m.Called(ctx, preferenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*market.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByBuyer(ctx context.Context, buyerID uuid.UUID) ([]market.Order, error) {
	args := m.Called(ctx, buyerID)
	return args.Get(0).([]market.Order), args.Error(1)
}

func (m *MockOrderRepository) FindSalesBySeller(ctx context.Context, sellerID uuid.UUID) ([]market.SaleLine, error) {
	args := m.Called(ctx, sellerID)
	return args.Get(0).([]market.SaleLine), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *market.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) DeleteEmpty(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func activeUser(id uuid.UUID, username string) *identity.User {
	user := &identity.User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          username,
		Status:            identity.UserStatusActive,
	}
	user.ID = id
	return user
}

type followFixture struct {
	followRepo       *MockFollowRepository
	userRepo         *MockUserRepository
	productRepo      *MockProductRepository
	notificationRepo *MockNotificationRepository
	service          *FollowService
}

func newFollowFixture() *followFixture {
	f := &followFixture{
		followRepo:       new(MockFollowRepository),
		userRepo:         new(MockUserRepository),
		productRepo:      new(MockProductRepository),
		notificationRepo: new(MockNotificationRepository),
	}
	notificationService := NewNotificationService(f.notificationRepo, f.followRepo, NoOpUnreadCountCache{}, zap.NewNop())
	f.service = NewFollowService(f.followRepo, f.userRepo, f.productRepo, notificationService, zap.NewNop())
	return f
}

func TestFollowService_Follow(t *testing.T) {
	ctx := context.Background()
	followerID := uuid.New()
	followingID := uuid.New()

	t.Run("new follow notifies the target", func(t *testing.T) {
		f := newFollowFixture()

		f.userRepo.On("FindByID", ctx, followingID).Return(activeUser(followingID, "ana"), nil)
		f.userRepo.On("FindByID", ctx, followerID).Return(activeUser(followerID, "pablo"), nil)
		f.followRepo.On("Exists", ctx, followerID, followingID).Return(false, nil)
		f.followRepo.On("Save", ctx, mock.AnythingOfType("*social.Follow")).Return(nil)

		var saved *social.Notification
		f.notificationRepo.On("Save", ctx, mock.AnythingOfType("*social.Notification")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*social.Notification) }).
			Return(nil)

		require.NoError(t, f.service.Follow(ctx, followerID, followingID))
		require.NotNil(t, saved)
		assert.Equal(t, followingID, saved.RecipientID)
		assert.Equal(t, social.NotificationNewFollower, saved.Type)
		assert.Contains(t, saved.Message, "pablo")
	})

	t.Run("repeated follow is idempotent and silent", func(t *testing.T) {
		f := newFollowFixture()

		f.userRepo.On("FindByID", ctx, followingID).Return(activeUser(followingID, "ana"), nil)
		f.followRepo.On("Exists", ctx, followerID, followingID).Return(true, nil)

		require.NoError(t, f.service.Follow(ctx, followerID, followingID))
		f.followRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.notificationRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("self follow is rejected", func(t *testing.T) {
		f := newFollowFixture()
		assert.ErrorIs(t, f.service.Follow(ctx, followerID, followerID), shared.ErrSelfTarget)
	})

	t.Run("banned target is hidden", func(t *testing.T) {
		f := newFollowFixture()
		banned := activeUser(followingID, "ana")
		banned.Status = identity.UserStatusBanned
		f.userRepo.On("FindByID", ctx, followingID).Return(banned, nil)

		assert.ErrorIs(t, f.service.Follow(ctx, followerID, followingID), shared.ErrNotFound)
	})
}

func TestFollowService_Unfollow(t *testing.T) {
	ctx := context.Background()
	followerID := uuid.New()
	followingID := uuid.New()

	t.Run("removes the follow", func(t *testing.T) {
		f := newFollowFixture()
		f.followRepo.On("Delete", ctx, followerID, followingID).Return(int64(1), nil)
		require.NoError(t, f.service.Unfollow(ctx, followerID, followingID))
	})

	t.Run("not following is not found", func(t *testing.T) {
		f := newFollowFixture()
		f.followRepo.On("Delete", ctx, followerID, followingID).Return(int64(0), nil)
		assert.ErrorIs(t, f.service.Unfollow(ctx, followerID, followingID), shared.ErrNotFound)
	})
}

func TestFollowService_UserIDByUsername(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves an existing user", func(t *testing.T) {
		f := newFollowFixture()
		ana := activeUser(uuid.New(), "ana")
		f.userRepo.On("FindByUsername", ctx, "ana").Return(ana, nil)

		id, err := f.service.UserIDByUsername(ctx, "ana")
		require.NoError(t, err)
		assert.Equal(t, ana.ID, id)
	})

	t.Run("unknown username is not found", func(t *testing.T) {
		f := newFollowFixture()
		f.userRepo.On("FindByUsername", ctx, "nadie").Return(nil, shared.ErrNotFound)

		_, err := f.service.UserIDByUsername(ctx, "nadie")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("banned users' lists are hidden", func(t *testing.T) {
		f := newFollowFixture()
		banned := activeUser(uuid.New(), "infractor")
		banned.Status = identity.UserStatusBanned
		f.userRepo.On("FindByUsername", ctx, "infractor").Return(banned, nil)

		_, err := f.service.UserIDByUsername(ctx, "infractor")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestFollowService_Feed(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	sellerID := uuid.New()

	t.Run("returns followed sellers' products", func(t *testing.T) {
		f := newFollowFixture()

		product, err := catalog.NewProduct(sellerID, "Bici rodado 29", catalog.CategoryDeportesFitness,
			"Poco uso", decimal.RequireFromString("120000.00"))
		require.NoError(t, err)
		require.NoError(t, product.SetStock(1))

		f.followRepo.On("FollowingIDs", ctx, userID).Return([]uuid.UUID{sellerID}, nil)
		f.productRepo.On("FindBySellers", ctx, []uuid.UUID{sellerID}, FeedSize).
			Return([]catalog.Product{*product}, nil)

		feed, err := f.service.Feed(ctx, userID)
		require.NoError(t, err)
		require.Len(t, feed, 1)
		assert.Equal(t, "Bici rodado 29", feed[0].Title)
	})

	t.Run("empty when following nobody", func(t *testing.T) {
		f := newFollowFixture()
		f.followRepo.On("FollowingIDs", ctx, userID).Return([]uuid.UUID{}, nil)

		feed, err := f.service.Feed(ctx, userID)
		require.NoError(t, err)
		assert.Empty(t, feed)
		f.productRepo.AssertNotCalled(t, "FindBySellers", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestOrderEventHandler_Handle(t *testing.T) {
	ctx := context.Background()
	buyerID := uuid.New()
	sellerA := uuid.New()
	sellerB := uuid.New()

	notificationRepo := new(MockNotificationRepository)
	orderRepo := new(MockOrderRepository)
	notificationService := NewNotificationService(notificationRepo, new(MockFollowRepository), NoOpUnreadCountCache{}, zap.NewNop())
	handler := NewOrderEventHandler(notificationService, orderRepo, zap.NewNop())

	productA, err := catalog.NewProduct(sellerA, "Teclado mecanico", catalog.CategoryTecnologia,
		"Switches rojos", decimal.RequireFromString("1000.00"))
	require.NoError(t, err)
	require.NoError(t, productA.SetStock(5))
	productB, err := catalog.NewProduct(sellerB, "Mouse gamer", catalog.CategoryTecnologia,
		"Con cable", decimal.RequireFromString("300.00"))
	require.NoError(t, err)
	require.NoError(t, productB.SetStock(5))

	cart := market.NewCart(buyerID)
	itemA, _ := market.NewCartItem(cart.ID, productA.ID, 2)
	itemA.Product = productA
	itemB, _ := market.NewCartItem(cart.ID, productB.ID, 1)
	itemB.Product = productB
	cart.Items = append(cart.Items, *itemA, *itemB)

	order, err := market.NewOrderFromCart(cart)
	require.NoError(t, err)

	orderRepo.On("FindByID", ctx, order.ID).Return(order, nil)

	var saved []*social.Notification
	notificationRepo.On("Save", ctx, mock.AnythingOfType("*social.Notification")).
		Run(func(args mock.Arguments) { saved = append(saved, args.Get(1).(*social.Notification)) }).
		Return(nil)

	event := market.NewOrderPaidEvent(order)
	require.NoError(t, handler.Handle(ctx, event))

	require.Len(t, saved, 2)
	recipients := map[uuid.UUID]*social.Notification{}
	for _, n := range saved {
		recipients[n.RecipientID] = n
	}
	require.Contains(t, recipients, sellerA)
	require.Contains(t, recipients, sellerB)
	assert.Contains(t, recipients[sellerA].Message, "2 item(s)")
	assert.Contains(t, recipients[sellerA].Message, "2000.00")
	assert.Contains(t, recipients[sellerB].Message, "1 item(s)")
}

func TestProductEventHandler_Handle(t *testing.T) {
	ctx := context.Background()
	sellerID := uuid.New()
	followerID := uuid.New()

	notificationRepo := new(MockNotificationRepository)
	followRepo := new(MockFollowRepository)
	userRepo := new(MockUserRepository)
	notificationService := NewNotificationService(notificationRepo, followRepo, NoOpUnreadCountCache{}, zap.NewNop())
	handler := NewProductEventHandler(notificationService, userRepo, zap.NewNop())

	product, err := catalog.NewProduct(sellerID, "Bici rodado 29", catalog.CategoryDeportesFitness,
		"Poco uso", decimal.RequireFromString("120000.00"))
	require.NoError(t, err)
	require.NoError(t, product.SetStock(1))

	t.Run("created product fans out to followers", func(t *testing.T) {
		follow, _ := social.NewFollow(followerID, sellerID)
		userRepo.On("FindByID", ctx, sellerID).Return(activeUser(sellerID, "ana"), nil)
		followRepo.On("FindFollowers", ctx, sellerID).Return([]social.Follow{*follow}, nil)

		var batch []*social.Notification
		notificationRepo.On("SaveBatch", ctx, mock.Anything).
			Run(func(args mock.Arguments) { batch = args.Get(1).([]*social.Notification) }).
			Return(nil)

		require.NoError(t, handler.Handle(ctx, catalog.NewProductCreatedEvent(product)))
		require.Len(t, batch, 1)
		assert.Equal(t, followerID, batch[0].RecipientID)
		assert.Contains(t, batch[0].Message, "ana")
	})

	t.Run("sold out event notifies the seller", func(t *testing.T) {
		var saved *social.Notification
		notificationRepo.On("Save", ctx, mock.AnythingOfType("*social.Notification")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*social.Notification) }).
			Return(nil)

		require.NoError(t, handler.Handle(ctx, catalog.NewProductSoldOutEvent(product)))
		require.NotNil(t, saved)
		assert.Equal(t, sellerID, saved.RecipientID)
		assert.Equal(t, social.NotificationProductSoldOut, saved.Type)
	})
}
