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

// RequestService handles the chat request lifecycle
type RequestService struct {
	requestRepo chat.RequestRepository
	threadRepo  chat.ThreadRepository
	blockRepo   chat.BlockRepository
	userRepo    identity.UserRepository
	notifier    Notifier
	logger      *zap.Logger
}

// NewRequestService creates a new request service
func NewRequestService(
	requestRepo chat.RequestRepository,
	threadRepo chat.ThreadRepository,
	blockRepo chat.BlockRepository,
	userRepo identity.UserRepository,
	notifier Notifier,
	logger *zap.Logger,
) *RequestService {
	return &RequestService{
		requestRepo: requestRepo,
		threadRepo:  threadRepo,
		blockRepo:   blockRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

// ListIncoming returns pending requests addressed to the caller
func (s *RequestService) ListIncoming(ctx context.Context, userID uuid.UUID) ([]ChatRequestResponse, error) {
	requests, err := s.requestRepo.ListIncoming(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list incoming requests", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list requests")
	}
	return s.toResponses(ctx, requests, func(r *chat.ChatRequest) uuid.UUID { return r.RequesterID })
}

// ListOutgoing returns pending requests sent by the caller
func (s *RequestService) ListOutgoing(ctx context.Context, userID uuid.UUID) ([]ChatRequestResponse, error) {
	requests, err := s.requestRepo.ListOutgoing(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list outgoing requests", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list requests")
	}
	return s.toResponses(ctx, requests, func(r *chat.ChatRequest) uuid.UUID { return r.TargetID })
}

// Send creates a pending request towards another user. Sending again
// while one is pending is a no-op returning the existing request.
func (s *RequestService) Send(ctx context.Context, requesterID, targetID uuid.UUID) (*ChatRequestResponse, error) {
	if requesterID == targetID {
		return nil, shared.ErrSelfTarget
	}

	target, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil || target.IsBanned() {
		return nil, shared.ErrNotFound
	}

	blocked, err := s.blockRepo.ExistsBetween(ctx, requesterID, targetID)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check block state")
	}
	if blocked {
		return nil, shared.NewDomainError("BLOCKED", "You cannot send a request to this user")
	}

	existing, err := s.requestRepo.FindPending(ctx, requesterID, targetID)
	if err == nil {
		response := s.toResponse(ctx, existing, existing.TargetID)
		return &response, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load request")
	}

	request, err := chat.NewChatRequest(requesterID, targetID)
	if err != nil {
		return nil, err
	}
	if err := s.requestRepo.Save(ctx, request); err != nil {
		s.logger.Error("Failed to save chat request", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create request")
	}

	if requester, err := s.userRepo.FindByID(ctx, requesterID); err == nil {
		if err := s.notifier.NotifyChatRequest(ctx, targetID, requesterID, requester.Username); err != nil {
			s.logger.Warn("Failed to notify chat request", zap.Error(err))
		}
	}

	response := s.toResponse(ctx, request, request.TargetID)
	return &response, nil
}

// Accept lets the target accept a pending request. The pair's thread is
// created if it does not exist yet and the requester is notified.
func (s *RequestService) Accept(ctx context.Context, requestID, userID uuid.UUID) (*StartChatResult, error) {
	request, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	if request.TargetID != userID {
		return nil, shared.ErrForbidden
	}
	if !request.IsPending() {
		return nil, shared.ErrInvalidState
	}

	blocked, err := s.blockRepo.ExistsBetween(ctx, request.RequesterID, request.TargetID)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check block state")
	}
	if blocked {
		return nil, shared.NewDomainError("BLOCKED", "You cannot chat with this user")
	}

	request.Accept()
	if err := s.requestRepo.Save(ctx, request); err != nil {
		s.logger.Error("Failed to accept request", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to accept request")
	}

	thread, err := s.getOrCreateThread(ctx, request.RequesterID, request.TargetID)
	if err != nil {
		return nil, err
	}

	if accepter, err := s.userRepo.FindByID(ctx, userID); err == nil {
		if err := s.notifier.NotifyChatAccepted(ctx, request.RequesterID, userID, accepter.Username); err != nil {
			s.logger.Warn("Failed to notify chat accepted", zap.Error(err))
		}
	}

	s.logger.Info("Chat request accepted",
		zap.String("request_id", request.ID.String()),
		zap.String("thread_id", thread.ID.String()))

	return &StartChatResult{Status: StartChatThread, ThreadID: &thread.ID}, nil
}

// Decline lets the target decline a pending request
func (s *RequestService) Decline(ctx context.Context, requestID, userID uuid.UUID) error {
	request, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return shared.ErrNotFound
	}
	if request.TargetID != userID {
		return shared.ErrForbidden
	}
	if !request.IsPending() {
		return shared.ErrInvalidState
	}

	request.Decline()
	if err := s.requestRepo.Save(ctx, request); err != nil {
		s.logger.Error("Failed to decline request", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to decline request")
	}
	return nil
}

// Cancel lets the requester withdraw a still-pending request
func (s *RequestService) Cancel(ctx context.Context, requestID, userID uuid.UUID) error {
	request, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		return shared.ErrNotFound
	}
	if request.RequesterID != userID {
		return shared.ErrForbidden
	}
	if !request.IsPending() {
		return shared.ErrInvalidState
	}

	if err := s.requestRepo.Delete(ctx, request.ID); err != nil {
		s.logger.Error("Failed to cancel request", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to cancel request")
	}
	return nil
}

func (s *RequestService) getOrCreateThread(ctx context.Context, a, b uuid.UUID) (*chat.DirectThread, error) {
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

func (s *RequestService) toResponses(ctx context.Context, requests []chat.ChatRequest, peer func(*chat.ChatRequest) uuid.UUID) ([]ChatRequestResponse, error) {
	peerIDs := make([]uuid.UUID, 0, len(requests))
	for i := range requests {
		peerIDs = append(peerIDs, peer(&requests[i]))
	}
	usernames, err := resolveUsernames(ctx, s.userRepo, peerIDs)
	if err != nil {
		s.logger.Warn("Failed to resolve request peers", zap.Error(err))
	}

	responses := make([]ChatRequestResponse, 0, len(requests))
	for i := range requests {
		peerID := peer(&requests[i])
		responses = append(responses, ChatRequestResponse{
			ID:           requests[i].ID,
			PeerID:       peerID,
			PeerUsername: usernames[peerID],
			Status:       string(requests[i].Status),
			CreatedAt:    requests[i].CreatedAt,
		})
	}
	return responses, nil
}

func (s *RequestService) toResponse(ctx context.Context, request *chat.ChatRequest, peerID uuid.UUID) ChatRequestResponse {
	usernames, err := resolveUsernames(ctx, s.userRepo, []uuid.UUID{peerID})
	if err != nil {
		s.logger.Warn("Failed to resolve request peer", zap.Error(err))
	}
	return ChatRequestResponse{
		ID:           request.ID,
		PeerID:       peerID,
		PeerUsername: usernames[peerID],
		Status:       string(request.Status),
		CreatedAt:    request.CreatedAt,
	}
}
