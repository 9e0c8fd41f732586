package chat

import (
	"context"

	"github.com/comercium/backend/internal/domain/chat"
	"github.com/comercium/backend/internal/domain/identity"
	"github.com/comercium/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockChannelMessageRepository is a mock implementation of chat.ChannelMessageRepository
type MockChannelMessageRepository struct {
	mock.Mock
}

func (m *MockChannelMessageRepository) ListAfter(ctx context.Context, after *uuid.UUID, limit int) ([]chat.ChannelMessage, error) {
	args := m.Called(ctx, after, limit)
	return args.Get(0).([]chat.ChannelMessage), args.Error(1)
}

func (m *MockChannelMessageRepository) Save(ctx context.Context, msg *chat.ChannelMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MockThreadRepository is a mock implementation of chat.ThreadRepository
type MockThreadRepository struct {
	mock.Mock
}

func (m *MockThreadRepository) FindByID(ctx context.Context, id uuid.UUID) (*chat.DirectThread, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chat.DirectThread), args.Error(1)
}

func (m *MockThreadRepository) FindByPair(ctx context.Context, a, b uuid.UUID) (*chat.DirectThread, error) {
	args := m.Called(ctx, a, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chat.DirectThread), args.Error(1)
}

func (m *MockThreadRepository) FindForUser(ctx context.Context, userID uuid.UUID) ([]chat.DirectThread, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]chat.DirectThread), args.Error(1)
}

func (m *MockThreadRepository) Save(ctx context.Context, thread *chat.DirectThread) error {
	args := m.Called(ctx, thread)
	return args.Error(0)
}

// MockDirectMessageRepository is a mock implementation of chat.DirectMessageRepository
type MockDirectMessageRepository struct {
	mock.Mock
}

func (m *MockDirectMessageRepository) ListByThread(ctx context.Context, threadID uuid.UUID, after *uuid.UUID, limit int) ([]chat.DirectMessage, error) {
	args := m.Called(ctx, threadID, after, limit)
	return args.Get(0).([]chat.DirectMessage), args.Error(1)
}

func (m *MockDirectMessageRepository) Save(ctx context.Context, msg *chat.DirectMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MockBlockRepository is a mock implementation of chat.BlockRepository
type MockBlockRepository struct {
	mock.Mock
}

func (m *MockBlockRepository) Exists(ctx context.Context, blockerID, blockedID uuid.UUID) (bool, error) {
	args := m.Called(ctx, blockerID, blockedID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBlockRepository) ExistsBetween(ctx context.Context, a, b uuid.UUID) (bool, error) {
	args := m.Called(ctx, a, b)
	return args.Bool(0), args.Error(1)
}

func (m *MockBlockRepository) FindByBlocker(ctx context.Context, blockerID uuid.UUID) ([]chat.BlockedUser, error) {
	args := m.Called(ctx, blockerID)
	return args.Get(0).([]chat.BlockedUser), args.Error(1)
}

func (m *MockBlockRepository) Save(ctx context.Context, block *chat.BlockedUser) error {
	args := m.Called(ctx, block)
	return args.Error(0)
}

func (m *MockBlockRepository) Delete(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	args := m.Called(ctx, blockerID, blockedID)
	return args.Error(0)
}

// MockRequestRepository is a mock implementation of chat.RequestRepository
type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*chat.ChatRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chat.ChatRequest), args.Error(1)
}

func (m *MockRequestRepository) FindPending(ctx context.Context, requesterID, targetID uuid.UUID) (*chat.ChatRequest, error) {
	args := m.Called(ctx, requesterID, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*chat.ChatRequest), args.Error(1)
}

func (m *MockRequestRepository) ListIncoming(ctx context.Context, targetID uuid.UUID) ([]chat.ChatRequest, error) {
	args := m.Called(ctx, targetID)
	return args.Get(0).([]chat.ChatRequest), args.Error(1)
}

func (m *MockRequestRepository) ListOutgoing(ctx context.Context, requesterID uuid.UUID) ([]chat.ChatRequest, error) {
	args := m.Called(ctx, requesterID)
	return args.Get(0).([]chat.ChatRequest), args.Error(1)
}

func (m *MockRequestRepository) CountPending(ctx context.Context, userID uuid.UUID) (int64, int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *MockRequestRepository) HasAccepted(ctx context.Context, a, b uuid.UUID) (bool, error) {
	args := m.Called(ctx, a, b)
	return args.Bool(0), args.Error(1)
}

func (m *MockRequestRepository) Save(ctx context.Context, request *chat.ChatRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRequestRepository) DeclineAllBetween(ctx context.Context, a, b uuid.UUID) error {
	args := m.Called(ctx, a, b)
	return args.Error(0)
}

func (m *MockRequestRepository) DeclineAcceptedBetween(ctx context.Context, a, b uuid.UUID) error {
	args := m.Called(ctx, a, b)
	return args.Error(0)
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

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyChatRequest(ctx context.Context, targetID, requesterID uuid.UUID, requesterName string) error {
	args := m.Called(ctx, targetID, requesterID, requesterName)
	return args.Error(0)
}

func (m *MockNotifier) NotifyChatAccepted(ctx context.Context, requesterID, accepterID uuid.UUID, accepterName string) error {
	args := m.Called(ctx, requesterID, accepterID, accepterName)
	return args.Error(0)
}

func activeUser(username string) *identity.User {
	return &identity.User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          username,
		Status:            identity.UserStatusActive,
	}
}
