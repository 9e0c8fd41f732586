package chat

import (
	"context"

	"github.com/comercium/backend/internal/domain/chat"
	"github.com/comercium/backend/internal/domain/identity"
	"github.com/comercium/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BlockService handles user blocking
type BlockService struct {
	blockRepo   chat.BlockRepository
	requestRepo chat.RequestRepository
	userRepo    identity.UserRepository
	logger      *zap.Logger
}

// NewBlockService creates a new block service
func NewBlockService(
	blockRepo chat.BlockRepository,
	requestRepo chat.RequestRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *BlockService {
	return &BlockService{
		blockRepo:   blockRepo,
		requestRepo: requestRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// List returns the users the caller has blocked, newest first
func (s *BlockService) List(ctx context.Context, userID uuid.UUID) ([]BlockedUserResponse, error) {
	blocks, err := s.blockRepo.FindByBlocker(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list blocks", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list blocks")
	}

	blockedIDs := make([]uuid.UUID, 0, len(blocks))
	for i := range blocks {
		blockedIDs = append(blockedIDs, blocks[i].BlockedID)
	}
	usernames, err := resolveUsernames(ctx, s.userRepo, blockedIDs)
	if err != nil {
		s.logger.Warn("Failed to resolve blocked users", zap.Error(err))
	}

	responses := make([]BlockedUserResponse, 0, len(blocks))
	for i := range blocks {
		responses = append(responses, BlockedUserResponse{
			BlockedID: blocks[i].BlockedID,
			Username:  usernames[blocks[i].BlockedID],
			BlockedAt: blocks[i].CreatedAt,
		})
	}
	return responses, nil
}

// Block blocks another user. Idempotent. Every request between the
// pair, pending or accepted, is declined so neither side can write.
func (s *BlockService) Block(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	if blockerID == blockedID {
		return shared.ErrSelfTarget
	}
	if _, err := s.userRepo.FindByID(ctx, blockedID); err != nil {
		return shared.ErrNotFound
	}

	exists, err := s.blockRepo.Exists(ctx, blockerID, blockedID)
	if err != nil {
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to check block state")
	}
	if !exists {
		block, err := chat.NewBlockedUser(blockerID, blockedID)
		if err != nil {
			return err
		}
		if err := s.blockRepo.Save(ctx, block); err != nil {
			s.logger.Error("Failed to save block", zap.Error(err))
			return shared.NewDomainError("INTERNAL_ERROR", "Failed to block user")
		}
	}

	if err := s.requestRepo.DeclineAllBetween(ctx, blockerID, blockedID); err != nil {
		s.logger.Error("Failed to decline requests on block", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to block user")
	}

	s.logger.Info("User blocked",
		zap.String("blocker_id", blockerID.String()),
		zap.String("blocked_id", blockedID.String()))
	return nil
}

// Unblock removes the caller's block. Accepted requests between the
// pair are declined so a fresh request is required to chat again.
func (s *BlockService) Unblock(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	exists, err := s.blockRepo.Exists(ctx, blockerID, blockedID)
	if err != nil {
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to check block state")
	}
	if !exists {
		return shared.ErrNotFound
	}

	if err := s.blockRepo.Delete(ctx, blockerID, blockedID); err != nil {
		s.logger.Error("Failed to delete block", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to unblock user")
	}
	if err := s.requestRepo.DeclineAcceptedBetween(ctx, blockerID, blockedID); err != nil {
		s.logger.Error("Failed to decline accepted requests on unblock", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to unblock user")
	}
	return nil
}
