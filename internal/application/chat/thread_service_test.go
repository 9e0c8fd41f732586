package chat

import (
	"context"
	"testing"

	"github.com/comercium/backend/internal/domain/chat"
	"github.com/comercium/backend/internal/domain/identity"
	"github.com/comercium/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type threadFixture struct {
	threadRepo  *MockThreadRepository
	messageRepo *MockDirectMessageRepository
	blockRepo   *MockBlockRepository
	requestRepo *MockRequestRepository
	userRepo    *MockUserRepository
	notifier    *MockNotifier
	service     *ThreadService
}

func newThreadFixture() *threadFixture {
	f := &threadFixture{
		threadRepo:  new(MockThreadRepository),
		messageRepo: new(MockDirectMessageRepository),
		blockRepo:   new(MockBlockRepository),
		requestRepo: new(MockRequestRepository),
		userRepo:    new(MockUserRepository),
		notifier:    new(MockNotifier),
	}
	f.service = NewThreadService(f.threadRepo, f.messageRepo, f.blockRepo, f.requestRepo,
		f.userRepo, f.notifier, zap.NewNop())
	return f
}

func TestThreadService_StartChat(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	targetID := uuid.New()

	t.Run("self is rejected", func(t *testing.T) {
		f := newThreadFixture()
		_, err := f.service.StartChat(ctx, userID, userID)
		assert.ErrorIs(t, err, shared.ErrSelfTarget)
	})

	t.Run("blocked pair is rejected", func(t *testing.T) {
		f := newThreadFixture()
		f.userRepo.On("FindByID", ctx, targetID).Return(activeUser("marta"), nil)
		f.blockRepo.On("ExistsBetween", ctx, userID, targetID).Return(true, nil)

		_, err := f.service.StartChat(ctx, userID, targetID)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "BLOCKED", domainErr.Code)
	})

	t.Run("accepted request opens the existing thread", func(t *testing.T) {
		f := newThreadFixture()
		thread, _ := chat.NewDirectThread(userID, targetID)

		f.userRepo.On("FindByID", ctx, targetID).Return(activeUser("marta"), nil)
		f.blockRepo.On("ExistsBetween", ctx, userID, targetID).Return(false, nil)
		f.requestRepo.On("HasAccepted", ctx, userID, targetID).Return(true, nil)
		f.threadRepo.On("FindByPair", ctx, userID, targetID).Return(thread, nil)

		result, err := f.service.StartChat(ctx, userID, targetID)
		require.NoError(t, err)
		assert.Equal(t, StartChatThread, result.Status)
		assert.Equal(t, thread.ID, *result.ThreadID)
	})

	t.Run("accepted request creates the thread when missing", func(t *testing.T) {
		f := newThreadFixture()

		f.userRepo.On("FindByID", ctx, targetID).Return(activeUser("marta"), nil)
		f.blockRepo.On("ExistsBetween", ctx, userID, targetID).Return(false, nil)
		f.requestRepo.On("HasAccepted", ctx, userID, targetID).Return(true, nil)
		f.threadRepo.On("FindByPair", ctx, userID, targetID).Return(nil, shared.ErrNotFound)
		f.threadRepo.On("Save", ctx, mock.AnythingOfType("*chat.DirectThread")).Return(nil)

		result, err := f.service.StartChat(ctx, userID, targetID)
		require.NoError(t, err)
		assert.Equal(t, StartChatThread, result.Status)
		require.NotNil(t, result.ThreadID)
		f.threadRepo.AssertCalled(t, "Save", ctx, mock.AnythingOfType("*chat.DirectThread"))
	})

	t.Run("old thread without accepted request is read-only", func(t *testing.T) {
		f := newThreadFixture()
		thread, _ := chat.NewDirectThread(userID, targetID)

		f.userRepo.On("FindByID", ctx, targetID).Return(activeUser("marta"), nil)
		f.blockRepo.On("ExistsBetween", ctx, userID, targetID).Return(false, nil)
		f.requestRepo.On("HasAccepted", ctx, userID, targetID).Return(false, nil)
		f.threadRepo.On("FindByPair", ctx, userID, targetID).Return(thread, nil)

		result, err := f.service.StartChat(ctx, userID, targetID)
		require.NoError(t, err)
		assert.Equal(t, StartChatReadOnly, result.Status)
		assert.Equal(t, thread.ID, *result.ThreadID)
	})

	t.Run("no history creates a pending request and notifies", func(t *testing.T) {
		f := newThreadFixture()

		f.userRepo.On("FindByID", ctx, targetID).Return(activeUser("marta"), nil)
		f.userRepo.On("FindByID", ctx, userID).Return(activeUser("pablo"), nil)
		f.blockRepo.On("ExistsBetween", ctx, userID, targetID).Return(false, nil)
		f.requestRepo.On("HasAccepted", ctx, userID, targetID).Return(false, nil)
		f.threadRepo.On("FindByPair", ctx, userID, targetID).Return(nil, shared.ErrNotFound)
		f.requestRepo.On("FindPending", ctx, userID, targetID).Return(nil, shared.ErrNotFound)
		f.requestRepo.On("Save", ctx, mock.AnythingOfType("*chat.ChatRequest")).Return(nil)
		f.notifier.On("NotifyChatRequest", ctx, targetID, userID, "pablo").Return(nil)

		result, err := f.service.StartChat(ctx, userID, targetID)
		require.NoError(t, err)
		assert.Equal(t, StartChatRequested, result.Status)
		require.NotNil(t, result.RequestID)
		f.notifier.AssertExpectations(t)
	})

	t.Run("duplicate pending request is reused silently", func(t *testing.T) {
		f := newThreadFixture()
		pending, _ := chat.NewChatRequest(userID, targetID)

		f.userRepo.On("FindByID", ctx, targetID).Return(activeUser("marta"), nil)
		f.blockRepo.On("ExistsBetween", ctx, userID, targetID).Return(false, nil)
		f.requestRepo.On("HasAccepted", ctx, userID, targetID).Return(false, nil)
		f.threadRepo.On("FindByPair", ctx, userID, targetID).Return(nil, shared.ErrNotFound)
		f.requestRepo.On("FindPending", ctx, userID, targetID).Return(pending, nil)

		result, err := f.service.StartChat(ctx, userID, targetID)
		require.NoError(t, err)
		assert.Equal(t, StartChatRequested, result.Status)
		assert.Equal(t, pending.ID, *result.RequestID)
		f.requestRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		f.notifier.AssertNotCalled(t, "NotifyChatRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestThreadService_GetThread(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	peerID := uuid.New()

	t.Run("participant sees write state", func(t *testing.T) {
		f := newThreadFixture()
		thread, _ := chat.NewDirectThread(userID, peerID)
		peer := activeUser("marta")
		peer.ID = peerID

		f.threadRepo.On("FindByID", ctx, thread.ID).Return(thread, nil)
		f.blockRepo.On("ExistsBetween", ctx, userID, peerID).Return(false, nil)
		f.requestRepo.On("HasAccepted", ctx, userID, peerID).Return(true, nil)
		f.userRepo.On("FindByIDs", ctx, []uuid.UUID{peerID}).Return([]*identity.User{peer}, nil)

		detail, err := f.service.GetThread(ctx, thread.ID, userID)
		require.NoError(t, err)
		assert.True(t, detail.CanWrite)
		assert.False(t, detail.Blocked)
		assert.Equal(t, peerID, detail.PeerID)
		assert.Equal(t, "marta", detail.PeerUsername)
	})

	t.Run("blocked thread is read-only", func(t *testing.T) {
		f := newThreadFixture()
		thread, _ := chat.NewDirectThread(userID, peerID)
		peer := activeUser("marta")
		peer.ID = peerID

		f.threadRepo.On("FindByID", ctx, thread.ID).Return(thread, nil)
		f.blockRepo.On("ExistsBetween", ctx, userID, peerID).Return(true, nil)
		f.requestRepo.On("HasAccepted", ctx, userID, peerID).Return(true, nil)
		f.userRepo.On("FindByIDs", ctx, []uuid.UUID{peerID}).Return([]*identity.User{peer}, nil)

		detail, err := f.service.GetThread(ctx, thread.ID, userID)
		require.NoError(t, err)
		assert.True(t, detail.Blocked)
		assert.False(t, detail.CanWrite)
	})

	t.Run("outsider is forbidden", func(t *testing.T) {
		f := newThreadFixture()
		thread, _ := chat.NewDirectThread(uuid.New(), peerID)

		f.threadRepo.On("FindByID", ctx, thread.ID).Return(thread, nil)

		_, err := f.service.GetThread(ctx, thread.ID, userID)
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestThreadService_PostMessage(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	peerID := uuid.New()

	t.Run("accepted pair can write", func(t *testing.T) {
		f := newThreadFixture()
		thread, _ := chat.NewDirectThread(userID, peerID)
		sender := activeUser("pablo")
		sender.ID = userID

		f.threadRepo.On("FindByID", ctx, thread.ID).Return(thread, nil)
		f.blockRepo.On("ExistsBetween", ctx, userID, peerID).Return(false, nil)
		f.requestRepo.On("HasAccepted", ctx, userID, peerID).Return(true, nil)
		f.messageRepo.On("Save", ctx, mock.AnythingOfType("*chat.DirectMessage")).Return(nil)
		f.userRepo.On("FindByIDs", ctx, []uuid.UUID{userID}).Return([]*identity.User{sender}, nil)

		response, err := f.service.PostMessage(ctx, thread.ID, userID, PostMessageInput{Text: "hola, sigue disponible?"})
		require.NoError(t, err)
		assert.Equal(t, "hola, sigue disponible?", response.Text)
		assert.Equal(t, "pablo", response.Username)
	})

	t.Run("blocked pair cannot write", func(t *testing.T) {
		f := newThreadFixture()
		thread, _ := chat.NewDirectThread(userID, peerID)

		f.threadRepo.On("FindByID", ctx, thread.ID).Return(thread, nil)
		f.blockRepo.On("ExistsBetween", ctx, userID, peerID).Return(true, nil)

		_, err := f.service.PostMessage(ctx, thread.ID, userID, PostMessageInput{Text: "hola"})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "BLOCKED", domainErr.Code)
		f.messageRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("no accepted request means read-only", func(t *testing.T) {
		f := newThreadFixture()
		thread, _ := chat.NewDirectThread(userID, peerID)

		f.threadRepo.On("FindByID", ctx, thread.ID).Return(thread, nil)
		f.blockRepo.On("ExistsBetween", ctx, userID, peerID).Return(false, nil)
		f.requestRepo.On("HasAccepted", ctx, userID, peerID).Return(false, nil)

		_, err := f.service.PostMessage(ctx, thread.ID, userID, PostMessageInput{Text: "hola"})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CHAT_NOT_ACCEPTED", domainErr.Code)
	})

	t.Run("empty message is rejected", func(t *testing.T) {
		f := newThreadFixture()
		thread, _ := chat.NewDirectThread(userID, peerID)

		f.threadRepo.On("FindByID", ctx, thread.ID).Return(thread, nil)
		f.blockRepo.On("ExistsBetween", ctx, userID, peerID).Return(false, nil)
		f.requestRepo.On("HasAccepted", ctx, userID, peerID).Return(true, nil)

		_, err := f.service.PostMessage(ctx, thread.ID, userID, PostMessageInput{Text: "   "})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "EMPTY_MESSAGE", domainErr.Code)
	})
}

func TestThreadService_ListThreads(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	peerID := uuid.New()

	f := newThreadFixture()
	thread, _ := chat.NewDirectThread(userID, peerID)
	peer := activeUser("marta")
	peer.ID = peerID

	f.threadRepo.On("FindForUser", ctx, userID).Return([]chat.DirectThread{*thread}, nil)
	f.userRepo.On("FindByIDs", ctx, []uuid.UUID{peerID}).Return([]*identity.User{peer}, nil)

	threads, err := f.service.ListThreads(ctx, userID)
	require.NoError(t, err)
	require.Len(t, threads, 1)
	assert.Equal(t, peerID, threads[0].PeerID)
	assert.Equal(t, "marta", threads[0].PeerUsername)
}
