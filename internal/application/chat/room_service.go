package chat

import (
	"context"

	"github.com/comercium/backend/internal/domain/chat"
	"github.com/comercium/backend/internal/domain/identity"
	"github.com/comercium/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RoomService handles the single public chat room
type RoomService struct {
	messageRepo chat.ChannelMessageRepository
	userRepo    identity.UserRepository
	logger      *zap.Logger
}

// NewRoomService creates a new room service
func NewRoomService(messageRepo chat.ChannelMessageRepository, userRepo identity.UserRepository, logger *zap.Logger) *RoomService {
	return &RoomService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// ListMessages returns room messages newer than the cursor, oldest
// first. Clients poll with the last message ID they have seen.
func (s *RoomService) ListMessages(ctx context.Context, input ListMessagesInput) ([]ChannelMessageResponse, error) {
	limit := normalizeLimit(input.Limit)

	messages, err := s.messageRepo.ListAfter(ctx, input.AfterID, limit)
	if err != nil {
		s.logger.Error("Failed to list room messages", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list messages")
	}

	senderIDs := make([]uuid.UUID, 0, len(messages))
	for i := range messages {
		if messages[i].UserID != nil {
			senderIDs = append(senderIDs, *messages[i].UserID)
		}
	}
	usernames, err := resolveUsernames(ctx, s.userRepo, senderIDs)
	if err != nil {
		s.logger.Warn("Failed to resolve message senders", zap.Error(err))
	}

	responses := make([]ChannelMessageResponse, 0, len(messages))
	for i := range messages {
		responses = append(responses, toChannelMessageResponse(&messages[i], usernames))
	}
	return responses, nil
}

// PostMessage publishes a message to the room
func (s *RoomService) PostMessage(ctx context.Context, userID uuid.UUID, input PostMessageInput) (*ChannelMessageResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	message, err := chat.NewChannelMessage(userID, input.Text)
	if err != nil {
		return nil, err
	}
	if err := s.messageRepo.Save(ctx, message); err != nil {
		s.logger.Error("Failed to save room message", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to post message")
	}

	response := toChannelMessageResponse(message, map[uuid.UUID]string{userID: user.Username})
	return &response, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return chat.DefaultPageSize
	}
	if limit > chat.MaxPageSize {
		return chat.MaxPageSize
	}
	return limit
}

// resolveUsernames maps user IDs to usernames for message attribution
func resolveUsernames(ctx context.Context, userRepo identity.UserRepository, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	usernames := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return usernames, nil
	}
	users, err := userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return usernames, err
	}
	for _, user := range users {
		usernames[user.ID] = user.Username
	}
	return usernames, nil
}
