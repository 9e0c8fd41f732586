package chat

import (
	"github.com/comercium/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BlockedUser is a directional block record: blocker blocks blocked.
// Its effects are symmetric: a block in either direction prevents
// requests, thread creation and private messages between the pair.
type BlockedUser struct {
	shared.BaseEntity
	BlockerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_blocked_users_pair,priority:1;index"`
	BlockedID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_blocked_users_pair,priority:2;index"`
}

// TableName returns the table name for GORM
func (BlockedUser) TableName() string {
	return "blocked_users"
}

// NewBlockedUser creates a block record
func NewBlockedUser(blockerID, blockedID uuid.UUID) (*BlockedUser, error) {
	if blockerID == blockedID {
		return nil, shared.ErrSelfTarget
	}
	return &BlockedUser{
		BaseEntity: shared.NewBaseEntity(),
		BlockerID:  blockerID,
		BlockedID:  blockedID,
	}, nil
}
