package social

import (
	"github.com/comercium/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Follow records that follower follows following
type Follow struct {
	shared.BaseEntity
	FollowerID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_follows_pair,priority:1;index"`
	FollowingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_follows_pair,priority:2;index"`
}

// TableName returns the table name for GORM
func (Follow) TableName() string {
	return "follows"
}

// NewFollow creates a follow record. Self-follow is rejected.
func NewFollow(followerID, followingID uuid.UUID) (*Follow, error) {
	if followerID == followingID {
		return nil, shared.ErrSelfTarget
	}
	return &Follow{
		BaseEntity:  shared.NewBaseEntity(),
		FollowerID:  followerID,
		FollowingID: followingID,
	}, nil
}
