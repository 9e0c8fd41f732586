package chat

import (
	"context"
	"errors"

	"github.com/comercium/backend/internal/domain/chat"
	"github.com/comercium/backend/internal/domain/identity"
	"github.com/comercium/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ThreadService handles private conversations between user pairs
type ThreadService struct {
	threadRepo  chat.ThreadRepository
	messageRepo chat.DirectMessageRepository
	blockRepo   chat.BlockRepository
	requestRepo chat.RequestRepository
	userRepo    identity.UserRepository
	notifier    Notifier
	logger      *zap.Logger
}

// NewThreadService creates a new thread service
func NewThreadService(
	threadRepo chat.ThreadRepository,
	messageRepo chat.DirectMessageRepository,
	blockRepo chat.BlockRepository,
	requestRepo chat.RequestRepository,
	userRepo identity.UserRepository,
	notifier Notifier,
	logger *zap.Logger,
) *ThreadService {
	return &ThreadService{
		threadRepo:  threadRepo,
		messageRepo: messageRepo,
		blockRepo:   blockRepo,
		requestRepo: requestRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

// StartChat opens a conversation with another user. Depending on the
// pair's history this yields a writable thread, a read-only thread or a
// pending request the other side still has to accept.
func (s *ThreadService) StartChat(ctx context.Context, userID, targetID uuid.UUID) (*StartChatResult, error) {
	if userID == targetID {
		return nil, shared.ErrSelfTarget
	}

	target, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil || target.IsBanned() {
		return nil, shared.ErrNotFound
	}

	blocked, err := s.blockRepo.ExistsBetween(ctx, userID, targetID)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check block state")
	}
	if blocked {
		return nil, shared.NewDomainError("BLOCKED", "You cannot chat with this user")
	}

	accepted, err := s.requestRepo.HasAccepted(ctx, userID, targetID)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check request state")
	}

	if accepted {
		thread, err := s.getOrCreateThread(ctx, userID, targetID)
		if err != nil {
			return nil, err
		}
		return &StartChatResult{Status: StartChatThread, ThreadID: &thread.ID}, nil
	}

	// an old thread may survive an unblock; it stays readable but a
	// fresh accepted request is needed to write again
	thread, err := s.threadRepo.FindByPair(ctx, userID, targetID)
	if err == nil {
		return &StartChatResult{Status: StartChatReadOnly, ThreadID: &thread.ID}, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load thread")
	}

	request, err := s.createOrReusePendingRequest(ctx, userID, targetID)
	if err != nil {
		return nil, err
	}
	return &StartChatResult{Status: StartChatRequested, RequestID: &request.ID}, nil
}

// ListThreads returns the caller's conversations, newest first
func (s *ThreadService) ListThreads(ctx context.Context, userID uuid.UUID) ([]ThreadResponse, error) {
	threads, err := s.threadRepo.FindForUser(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list threads", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list threads")
	}

	peerIDs := make([]uuid.UUID, 0, len(threads))
	for i := range threads {
		peerIDs = append(peerIDs, threads[i].OtherParticipant(userID))
	}
	usernames, err := resolveUsernames(ctx, s.userRepo, peerIDs)
	if err != nil {
		s.logger.Warn("Failed to resolve thread peers", zap.Error(err))
	}

	responses := make([]ThreadResponse, 0, len(threads))
	for i := range threads {
		peerID := threads[i].OtherParticipant(userID)
		responses = append(responses, ThreadResponse{
			ID:           threads[i].ID,
			PeerID:       peerID,
			PeerUsername: usernames[peerID],
			CreatedAt:    threads[i].CreatedAt,
		})
	}
	return responses, nil
}

// GetThread returns a thread with its block and write state.
// Participants only.
func (s *ThreadService) GetThread(ctx context.Context, threadID, userID uuid.UUID) (*ThreadDetailResponse, error) {
	thread, err := s.loadParticipantThread(ctx, threadID, userID)
	if err != nil {
		return nil, err
	}
	peerID := thread.OtherParticipant(userID)

	blocked, err := s.blockRepo.ExistsBetween(ctx, userID, peerID)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check block state")
	}
	accepted, err := s.requestRepo.HasAccepted(ctx, userID, peerID)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check request state")
	}

	usernames, err := resolveUsernames(ctx, s.userRepo, []uuid.UUID{peerID})
	if err != nil {
		s.logger.Warn("Failed to resolve thread peer", zap.Error(err))
	}

	return &ThreadDetailResponse{
		ThreadResponse: ThreadResponse{
			ID:           thread.ID,
			PeerID:       peerID,
			PeerUsername: usernames[peerID],
			CreatedAt:    thread.CreatedAt,
		},
		Blocked:  blocked,
		CanWrite: !blocked && accepted,
	}, nil
}

// ListMessages returns thread messages after the cursor, oldest first.
// Participants only.
func (s *ThreadService) ListMessages(ctx context.Context, threadID, userID uuid.UUID, input ListMessagesInput) ([]DirectMessageResponse, error) {
	thread, err := s.loadParticipantThread(ctx, threadID, userID)
	if err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.ListByThread(ctx, thread.ID, input.AfterID, normalizeLimit(input.Limit))
	if err != nil {
		s.logger.Error("Failed to list thread messages", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list messages")
	}

	usernames, err := resolveUsernames(ctx, s.userRepo, []uuid.UUID{thread.User1ID, thread.User2ID})
	if err != nil {
		s.logger.Warn("Failed to resolve message senders", zap.Error(err))
	}

	responses := make([]DirectMessageResponse, 0, len(messages))
	for i := range messages {
		responses = append(responses, toDirectMessageResponse(&messages[i], usernames))
	}
	return responses, nil
}

// PostMessage writes into a thread. The sender must be a participant,
// the pair must not be blocked in either direction and an accepted
// request must exist between them.
func (s *ThreadService) PostMessage(ctx context.Context, threadID, userID uuid.UUID, input PostMessageInput) (*DirectMessageResponse, error) {
	thread, err := s.loadParticipantThread(ctx, threadID, userID)
	if err != nil {
		return nil, err
	}
	peerID := thread.OtherParticipant(userID)

	blocked, err := s.blockRepo.ExistsBetween(ctx, userID, peerID)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check block state")
	}
	if blocked {
		return nil, shared.NewDomainError("BLOCKED", "You cannot message this user")
	}

	accepted, err := s.requestRepo.HasAccepted(ctx, userID, peerID)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check request state")
	}
	if !accepted {
		return nil, shared.NewDomainError("CHAT_NOT_ACCEPTED", "This conversation is read-only until a chat request is accepted")
	}

	message, err := chat.NewDirectMessage(thread.ID, userID, input.Text)
	if err != nil {
		return nil, err
	}
	if err := s.messageRepo.Save(ctx, message); err != nil {
		s.logger.Error("Failed to save thread message", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to post message")
	}

	usernames, err := resolveUsernames(ctx, s.userRepo, []uuid.UUID{userID})
	if err != nil {
		s.logger.Warn("Failed to resolve message sender", zap.Error(err))
	}
	response := toDirectMessageResponse(message, usernames)
	return &response, nil
}

func (s *ThreadService) loadParticipantThread(ctx context.Context, threadID, userID uuid.UUID) (*chat.DirectThread, error) {
	thread, err := s.threadRepo.FindByID(ctx, threadID)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	if !thread.HasParticipant(userID) {
		return nil, shared.ErrForbidden
	}
	return thread, nil
}

func (s *ThreadService) getOrCreateThread(ctx context.Context, a, b uuid.UUID) (*chat.DirectThread, error) {
	thread, err := s.threadRepo.FindByPair(ctx, a, b)
	if err == nil {
		return thread, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load thread")
	}
	thread, err = chat.NewDirectThread(a, b)
	if err != nil {
		return nil, err
	}
	if err := s.threadRepo.Save(ctx, thread); err != nil {
		s.logger.Error("Failed to create thread", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create thread")
	}
	return thread, nil
}

func (s *ThreadService) createOrReusePendingRequest(ctx context.Context, requesterID, targetID uuid.UUID) (*chat.ChatRequest, error) {
	existing, err := s.requestRepo.FindPending(ctx, requesterID, targetID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load request")
	}

	request, err := chat.NewChatRequest(requesterID, targetID)
	if err != nil {
		return nil, err
	}
	if err := s.requestRepo.Save(ctx, request); err != nil {
		s.logger.Error("Failed to create chat request", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create request")
	}

	requester, err := s.userRepo.FindByID(ctx, requesterID)
	if err == nil {
		if err := s.notifier.NotifyChatRequest(ctx, targetID, requesterID, requester.Username); err != nil {
			s.logger.Warn("Failed to notify chat request", zap.Error(err))
		}
	}
	return request, nil
}
