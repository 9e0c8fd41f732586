package persistence

import (
	"context"

	"github.com/comercium/backend/internal/domain/social"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormFollowRepository implements social.FollowRepository using GORM
type GormFollowRepository struct {
	db *gorm.DB
}

// NewGormFollowRepository creates a new GORM follow repository
func NewGormFollowRepository(db *gorm.DB) *GormFollowRepository {
	return &GormFollowRepository{db: db}
}

// Exists reports whether follower follows following
func (r *GormFollowRepository) Exists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&social.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

// FindFollowers lists the follows pointing at a user
func (r *GormFollowRepository) FindFollowers(ctx context.Context, followingID uuid.UUID) ([]social.Follow, error) {
	var follows []social.Follow
	err := r.db.WithContext(ctx).
		Where("following_id = ?", followingID).
		Order("created_at DESC").
		Find(&follows).Error
	if err != nil {
		return nil, err
	}
	return follows, nil
}

// FindFollowing lists the follows originating from a user
func (r *GormFollowRepository) FindFollowing(ctx context.Context, followerID uuid.UUID) ([]social.Follow, error) {
	var follows []social.Follow
	err := r.db.WithContext(ctx).
		Where("follower_id = ?", followerID).
		Order("created_at DESC").
		Find(&follows).Error
	if err != nil {
		return nil, err
	}
	return follows, nil
}

// FollowingIDs lists the IDs a user follows
func (r *GormFollowRepository) FollowingIDs(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&social.Follow{}).
		Where("follower_id = ?", followerID).
		Pluck("following_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// CountFollowers counts a user's followers
func (r *GormFollowRepository) CountFollowers(ctx context.Context, followingID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&social.Follow{}).
		Where("following_id = ?", followingID).
		Count(&count).Error
	return count, err
}

// CountFollowing counts how many users a user follows
func (r *GormFollowRepository) CountFollowing(ctx context.Context, followerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&social.Follow{}).
		Where("follower_id = ?", followerID).
		Count(&count).Error
	return count, err
}

// Save stores a follow record
func (r *GormFollowRepository) Save(ctx context.Context, follow *social.Follow) error {
	return r.db.WithContext(ctx).Save(follow).Error
}

// Delete removes a follow record, returns how many rows were removed
func (r *GormFollowRepository) Delete(ctx context.Context, followerID, followingID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&social.Follow{})
	return result.RowsAffected, result.Error
}

// Ensure GormFollowRepository implements social.FollowRepository
var _ social.FollowRepository = (*GormFollowRepository)(nil)
