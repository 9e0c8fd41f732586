package persistence

import (
	"context"
	"errors"

	"github.com/comercium/backend/internal/domain/chat"
	"github.com/comercium/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormChannelMessageRepository implements chat.ChannelMessageRepository using GORM
type GormChannelMessageRepository struct {
	db *gorm.DB
}

// NewGormChannelMessageRepository creates a new GORM channel message repository
func NewGormChannelMessageRepository(db *gorm.DB) *GormChannelMessageRepository {
	return &GormChannelMessageRepository{db: db}
}

// ListAfter lists messages newer than the cursor, oldest first
func (r *GormChannelMessageRepository) ListAfter(ctx context.Context, after *uuid.UUID, limit int) ([]chat.ChannelMessage, error) {
	db := r.db.WithContext(ctx).Model(&chat.ChannelMessage{})
	if after != nil {
		db = db.Where(
			"created_at > (?)",
			r.db.Model(&chat.ChannelMessage{}).Select("created_at").Where("id = ?", *after),
		)
	}
	var messages []chat.ChannelMessage
	err := db.Order("created_at ASC").Limit(limit).Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// Save stores a message
func (r *GormChannelMessageRepository) Save(ctx context.Context, msg *chat.ChannelMessage) error {
	return r.db.WithContext(ctx).Save(msg).Error
}

// Ensure GormChannelMessageRepository implements chat.ChannelMessageRepository
var _ chat.ChannelMessageRepository = (*GormChannelMessageRepository)(nil)

// GormThreadRepository implements chat.ThreadRepository using GORM
type GormThreadRepository struct {
	db *gorm.DB
}

// NewGormThreadRepository creates a new GORM thread repository
func NewGormThreadRepository(db *gorm.DB) *GormThreadRepository {
	return &GormThreadRepository{db: db}
}

// FindByID finds a thread
func (r *GormThreadRepository) FindByID(ctx context.Context, id uuid.UUID) (*chat.DirectThread, error) {
	var thread chat.DirectThread
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&thread).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &thread, nil
}

// FindByPair finds the thread of a user pair. Threads store the pair in
// canonical order, so one lookup suffices.
func (r *GormThreadRepository) FindByPair(ctx context.Context, a, b uuid.UUID) (*chat.DirectThread, error) {
	first, second := chat.CanonicalPair(a, b)
	var thread chat.DirectThread
	err := r.db.WithContext(ctx).
		Where("user1_id = ? AND user2_id = ?", first, second).
		First(&thread).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &thread, nil
}

// FindForUser lists threads the user participates in, newest first
func (r *GormThreadRepository) FindForUser(ctx context.Context, userID uuid.UUID) ([]chat.DirectThread, error) {
	var threads []chat.DirectThread
	err := r.db.WithContext(ctx).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&threads).Error
	if err != nil {
		return nil, err
	}
	return threads, nil
}

// Save stores a thread
func (r *GormThreadRepository) Save(ctx context.Context, thread *chat.DirectThread) error {
	return r.db.WithContext(ctx).Save(thread).Error
}

// Ensure GormThreadRepository implements chat.ThreadRepository
var _ chat.ThreadRepository = (*GormThreadRepository)(nil)

// GormDirectMessageRepository implements chat.DirectMessageRepository using GORM
type GormDirectMessageRepository struct {
	db *gorm.DB
}

// NewGormDirectMessageRepository creates a new GORM direct message repository
func NewGormDirectMessageRepository(db *gorm.DB) *GormDirectMessageRepository {
	return &GormDirectMessageRepository{db: db}
}

// ListByThread lists thread messages after the cursor, oldest first
func (r *GormDirectMessageRepository) ListByThread(ctx context.Context, threadID uuid.UUID, after *uuid.UUID, limit int) ([]chat.DirectMessage, error) {
	db := r.db.WithContext(ctx).Model(&chat.DirectMessage{}).Where("thread_id = ?", threadID)
	if after != nil {
		db = db.Where(
			"created_at > (?)",
			r.db.Model(&chat.DirectMessage{}).Select("created_at").Where("id = ?", *after),
		)
	}
	var messages []chat.DirectMessage
	err := db.Order("created_at ASC").Limit(limit).Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// Save stores a message
func (r *GormDirectMessageRepository) Save(ctx context.Context, msg *chat.DirectMessage) error {
	return r.db.WithContext(ctx).Save(msg).Error
}

// Ensure GormDirectMessageRepository implements chat.DirectMessageRepository
var _ chat.DirectMessageRepository = (*GormDirectMessageRepository)(nil)

// GormBlockRepository implements chat.BlockRepository using GORM
type GormBlockRepository struct {
	db *gorm.DB
}

// NewGormBlockRepository creates a new GORM block repository
func NewGormBlockRepository(db *gorm.DB) *GormBlockRepository {
	return &GormBlockRepository{db: db}
}

// Exists reports whether blocker has blocked blocked
func (r *GormBlockRepository) Exists(ctx context.Context, blockerID, blockedID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&chat.BlockedUser{}).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Count(&count).Error
	return count > 0, err
}

// ExistsBetween reports whether a block exists in either direction
func (r *GormBlockRepository) ExistsBetween(ctx context.Context, a, b uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&chat.BlockedUser{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)", a, b, b, a).
		Count(&count).Error
	return count > 0, err
}

// FindByBlocker lists a user's blocks, newest first
func (r *GormBlockRepository) FindByBlocker(ctx context.Context, blockerID uuid.UUID) ([]chat.BlockedUser, error) {
	var blocks []chat.BlockedUser
	err := r.db.WithContext(ctx).
		Where("blocker_id = ?", blockerID).
		Order("created_at DESC").
		Find(&blocks).Error
	if err != nil {
		return nil, err
	}
	return blocks, nil
}

// Save stores a block record
func (r *GormBlockRepository) Save(ctx context.Context, block *chat.BlockedUser) error {
	return r.db.WithContext(ctx).Save(block).Error
}

// Delete removes a block record
func (r *GormBlockRepository) Delete(ctx context.Context, blockerID, blockedID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&chat.BlockedUser{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormBlockRepository implements chat.BlockRepository
var _ chat.BlockRepository = (*GormBlockRepository)(nil)

// GormRequestRepository implements chat.RequestRepository using GORM
type GormRequestRepository struct {
	db *gorm.DB
}

// NewGormRequestRepository creates a new GORM chat request repository
func NewGormRequestRepository(db *gorm.DB) *GormRequestRepository {
	return &GormRequestRepository{db: db}
}

// FindByID finds a request
func (r *GormRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*chat.ChatRequest, error) {
	var request chat.ChatRequest
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// FindPending finds the pending request from requester to target
func (r *GormRequestRepository) FindPending(ctx context.Context, requesterID, targetID uuid.UUID) (*chat.ChatRequest, error) {
	var request chat.ChatRequest
	err := r.db.WithContext(ctx).
		Where("requester_id = ? AND target_id = ? AND status = ?", requesterID, targetID, chat.RequestStatusRequested).
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// ListIncoming lists pending requests addressed to the user
func (r *GormRequestRepository) ListIncoming(ctx context.Context, targetID uuid.UUID) ([]chat.ChatRequest, error) {
	var requests []chat.ChatRequest
	err := r.db.WithContext(ctx).
		Where("target_id = ? AND status = ?", targetID, chat.RequestStatusRequested).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// ListOutgoing lists pending requests sent by the user
func (r *GormRequestRepository) ListOutgoing(ctx context.Context, requesterID uuid.UUID) ([]chat.ChatRequest, error) {
	var requests []chat.ChatRequest
	err := r.db.WithContext(ctx).
		Where("requester_id = ? AND status = ?", requesterID, chat.RequestStatusRequested).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// CountPending returns (incoming, outgoing) pending counts
func (r *GormRequestRepository) CountPending(ctx context.Context, userID uuid.UUID) (int64, int64, error) {
	var incoming, outgoing int64
	err := r.db.WithContext(ctx).Model(&chat.ChatRequest{}).
		Where("target_id = ? AND status = ?", userID, chat.RequestStatusRequested).
		Count(&incoming).Error
	if err != nil {
		return 0, 0, err
	}
	err = r.db.WithContext(ctx).Model(&chat.ChatRequest{}).
		Where("requester_id = ? AND status = ?", userID, chat.RequestStatusRequested).
		Count(&outgoing).Error
	if err != nil {
		return 0, 0, err
	}
	return incoming, outgoing, nil
}

// HasAccepted reports whether an accepted request exists between the
// pair in either direction
func (r *GormRequestRepository) HasAccepted(ctx context.Context, a, b uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&chat.ChatRequest{}).
		Where("status = ?", chat.RequestStatusAccepted).
		Where("(requester_id = ? AND target_id = ?) OR (requester_id = ? AND target_id = ?)", a, b, b, a).
		Count(&count).Error
	return count > 0, err
}

// Save stores a request
func (r *GormRequestRepository) Save(ctx context.Context, request *chat.ChatRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

// Delete removes a request
func (r *GormRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&chat.ChatRequest{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeclineAllBetween declines every request between the pair
func (r *GormRequestRepository) DeclineAllBetween(ctx context.Context, a, b uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&chat.ChatRequest{}).
		Where("(requester_id = ? AND target_id = ?) OR (requester_id = ? AND target_id = ?)", a, b, b, a).
		Where("status <> ?", chat.RequestStatusDeclined).
		Update("status", chat.RequestStatusDeclined).Error
}

// DeclineAcceptedBetween declines accepted requests between the pair
func (r *GormRequestRepository) DeclineAcceptedBetween(ctx context.Context, a, b uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&chat.ChatRequest{}).
		Where("(requester_id = ? AND target_id = ?) OR (requester_id = ? AND target_id = ?)", a, b, b, a).
		Where("status = ?", chat.RequestStatusAccepted).
		Update("status", chat.RequestStatusDeclined).Error
}

// Ensure GormRequestRepository implements chat.RequestRepository
var _ chat.RequestRepository = (*GormRequestRepository)(nil)
