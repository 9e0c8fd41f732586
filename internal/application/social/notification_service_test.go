package social

import (
	"context"
	"testing"
	"time"

	"github.com/comercium/backend/internal/domain/identity"
	"github.com/comercium/backend/internal/domain/shared"
	"github.com/comercium/backend/internal/domain/social"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockNotificationRepository is a mock implementation of social.NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*social.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*social.Notification), args.Error(1)
}

func (m *MockNotificationRepository) FindByRecipient(ctx context.Context, recipientID uuid.UUID, limit int) ([]social.Notification, error) {
	args := m.Called(ctx, recipientID, limit)
	return args.Get(0).([]social.Notification), args.Error(1)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) HasRecentOfType(ctx context.Context, recipientID uuid.UUID, ntype social.NotificationType, productID uuid.UUID, since time.Time) (bool, error) {
	args := m.Called(ctx, recipientID, ntype, productID, since)
	return args.Bool(0), args.Error(1)
}

func (m *MockNotificationRepository) Save(ctx context.Context, notification *social.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) SaveBatch(ctx context.Context, notifications []*social.Notification) error {
	args := m.Called(ctx, notifications)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, recipientID uuid.UUID, ids []uuid.UUID) (int64, error) {
	args := m.Called(ctx, recipientID, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

// MockFollowRepository is a mock implementation of social.FollowRepository
type MockFollowRepository struct {
	mock.Mock
}

func (m *MockFollowRepository) Exists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	args := m.Called(ctx, followerID, followingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockFollowRepository) FindFollowers(ctx context.Context, followingID uuid.UUID) ([]social.Follow, error) {
	args := m.Called(ctx, followingID)
	return args.Get(0).([]social.Follow), args.Error(1)
}

func (m *MockFollowRepository) FindFollowing(ctx context.Context, followerID uuid.UUID) ([]social.Follow, error) {
	args := m.Called(ctx, followerID)
	return args.Get(0).([]social.Follow), args.Error(1)
}

func (m *MockFollowRepository) FollowingIDs(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, followerID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockFollowRepository) CountFollowers(ctx context.Context, followingID uuid.UUID) (int64, error) {
	args := m.Called(ctx, followingID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFollowRepository) CountFollowing(ctx context.Context, followerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, followerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFollowRepository) Save(ctx context.Context, follow *social.Follow) error {
	args := m.Called(ctx, follow)
	return args.Error(0)
}

func (m *MockFollowRepository) Delete(ctx context.Context, followerID, followingID uuid.UUID) (int64, error) {
	args := m.Called(ctx, followerID, followingID)
	return args.Get(0).(int64), args.Error(1)
}

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

// recordingCache is an in-memory UnreadCountCache that records invalidations
type recordingCache struct {
	counts      map[uuid.UUID]int64
	invalidated int
	sets        int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{counts: make(map[uuid.UUID]int64)}
}

func (c *recordingCache) Get(_ context.Context, userID uuid.UUID) (int64, bool) {
	count, ok := c.counts[userID]
	return count, ok
}

func (c *recordingCache) Set(_ context.Context, userID uuid.UUID, count int64) {
	c.sets++
	c.counts[userID] = count
}

func (c *recordingCache) Invalidate(_ context.Context, userID uuid.UUID) {
	c.invalidated++
	delete(c.counts, userID)
}

func TestNotificationService_List(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("marks returned unread notifications read", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		cache := newRecordingCache()
		cache.counts[userID] = 2
		service := NewNotificationService(repo, new(MockFollowRepository), cache, zap.NewNop())

		unread := social.NewNotification(userID, social.NotificationNewFollower, "New follower", "ana is now following you", "")
		read := social.NewNotification(userID, social.NotificationNewSale, "You made a sale", "", "")
		read.MarkRead()

		repo.On("FindByRecipient", ctx, userID, NotificationPageSize).
			Return([]social.Notification{*unread, *read}, nil)
		repo.On("MarkRead", ctx, userID, []uuid.UUID{unread.ID}).Return(int64(1), nil)

		notifications, err := service.List(ctx, userID)
		require.NoError(t, err)
		require.Len(t, notifications, 2)
		// the response still shows the pre-read state
		assert.False(t, notifications[0].IsRead)
		assert.True(t, notifications[1].IsRead)
		repo.AssertExpectations(t)
		assert.Equal(t, 1, cache.invalidated)
	})

	t.Run("all read means no write", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		service := NewNotificationService(repo, new(MockFollowRepository), newRecordingCache(), zap.NewNop())

		read := social.NewNotification(userID, social.NotificationNewSale, "You made a sale", "", "")
		read.MarkRead()
		repo.On("FindByRecipient", ctx, userID, NotificationPageSize).
			Return([]social.Notification{*read}, nil)

		_, err := service.List(ctx, userID)
		require.NoError(t, err)
		repo.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestNotificationService_UnreadCount(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("cache miss counts and caches", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		cache := newRecordingCache()
		service := NewNotificationService(repo, new(MockFollowRepository), cache, zap.NewNop())

		repo.On("CountUnread", ctx, userID).Return(int64(4), nil).Once()

		first, err := service.UnreadCount(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, int64(4), first.Count)

		second, err := service.UnreadCount(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, int64(4), second.Count)
		repo.AssertNumberOfCalls(t, "CountUnread", 1)
	})

	t.Run("mark one read invalidates the counter", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		cache := newRecordingCache()
		cache.counts[userID] = 4
		service := NewNotificationService(repo, new(MockFollowRepository), cache, zap.NewNop())

		notification := social.NewNotification(userID, social.NotificationLowStock, "Low stock", "", "")
		repo.On("FindByID", ctx, notification.ID).Return(notification, nil)
		repo.On("Save", ctx, notification).Return(nil)

		require.NoError(t, service.MarkRead(ctx, notification.ID, userID))
		assert.True(t, notification.IsRead)
		_, cached := cache.Get(ctx, userID)
		assert.False(t, cached)
	})

	t.Run("only the recipient can mark read", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		service := NewNotificationService(repo, new(MockFollowRepository), newRecordingCache(), zap.NewNop())

		notification := social.NewNotification(uuid.New(), social.NotificationLowStock, "Low stock", "", "")
		repo.On("FindByID", ctx, notification.ID).Return(notification, nil)

		assert.ErrorIs(t, service.MarkRead(ctx, notification.ID, userID), shared.ErrForbidden)
	})
}

func TestNotificationService_NotifyLowStock(t *testing.T) {
	ctx := context.Background()
	sellerID := uuid.New()
	productID := uuid.New()

	t.Run("first warning is delivered", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		service := NewNotificationService(repo, new(MockFollowRepository), newRecordingCache(), zap.NewNop())

		repo.On("HasRecentOfType", ctx, sellerID, social.NotificationLowStock, productID,
			mock.AnythingOfType("time.Time")).Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*social.Notification")).Return(nil)

		require.NoError(t, service.NotifyLowStock(ctx, sellerID, productID, "Teclado", 2))
		repo.AssertCalled(t, "Save", ctx, mock.AnythingOfType("*social.Notification"))
	})

	t.Run("repeated warning within a day is suppressed", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		service := NewNotificationService(repo, new(MockFollowRepository), newRecordingCache(), zap.NewNop())

		repo.On("HasRecentOfType", ctx, sellerID, social.NotificationLowStock, productID,
			mock.AnythingOfType("time.Time")).Return(true, nil)

		require.NoError(t, service.NotifyLowStock(ctx, sellerID, productID, "Teclado", 2))
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestNotificationService_NotifyNewProduct(t *testing.T) {
	ctx := context.Background()
	sellerID := uuid.New()
	productID := uuid.New()
	followerA := uuid.New()
	followerB := uuid.New()

	repo := new(MockNotificationRepository)
	followRepo := new(MockFollowRepository)
	cache := newRecordingCache()
	service := NewNotificationService(repo, followRepo, cache, zap.NewNop())

	fa, _ := social.NewFollow(followerA, sellerID)
	fb, _ := social.NewFollow(followerB, sellerID)
	followRepo.On("FindFollowers", ctx, sellerID).Return([]social.Follow{*fa, *fb}, nil)

	var batch []*social.Notification
	repo.On("SaveBatch", ctx, mock.Anything).
		Run(func(args mock.Arguments) { batch = args.Get(1).([]*social.Notification) }).
		Return(nil)

	require.NoError(t, service.NotifyNewProduct(ctx, sellerID, "ana", productID, "Bici rodado 29"))
	require.Len(t, batch, 2)
	assert.Equal(t, followerA, batch[0].RecipientID)
	assert.Equal(t, social.NotificationNewProduct, batch[0].Type)
	assert.Equal(t, productID, *batch[0].RelatedProductID)
	assert.Equal(t, 2, cache.invalidated)
}

func TestNotificationService_NotifySale(t *testing.T) {
	ctx := context.Background()
	sellerID := uuid.New()
	orderID := uuid.New()

	repo := new(MockNotificationRepository)
	service := NewNotificationService(repo, new(MockFollowRepository), newRecordingCache(), zap.NewNop())

	var saved *social.Notification
	repo.On("Save", ctx, mock.AnythingOfType("*social.Notification")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(*social.Notification) }).
		Return(nil)

	require.NoError(t, service.NotifySale(ctx, sellerID, orderID, 3, decimal.RequireFromString("4500.50")))
	require.NotNil(t, saved)
	assert.Equal(t, social.NotificationNewSale, saved.Type)
	assert.Contains(t, saved.Message, "3 item(s)")
	assert.Contains(t, saved.Message, "4500.50")
	assert.Equal(t, orderID, *saved.RelatedOrderID)
}
