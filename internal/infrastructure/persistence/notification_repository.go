package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/comercium/backend/internal/domain/shared"
	"github.com/comercium/backend/internal/domain/social"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormNotificationRepository implements social.NotificationRepository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GORM notification repository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// FindByID finds a notification
func (r *GormNotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*social.Notification, error) {
	var notification social.Notification
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &notification, nil
}

// FindByRecipient lists the newest notifications of a user
func (r *GormNotificationRepository) FindByRecipient(ctx context.Context, recipientID uuid.UUID, limit int) ([]social.Notification, error) {
	var notifications []social.Notification
	db := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC")
	if limit > 0 {
		db = db.Limit(limit)
	}
	if err := db.Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// CountUnread counts a user's unread notifications
func (r *GormNotificationRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&social.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}

// HasRecentOfType reports whether a notification of the given type for
// the given product was created since the cutoff
func (r *GormNotificationRepository) HasRecentOfType(ctx context.Context, recipientID uuid.UUID, ntype social.NotificationType, productID uuid.UUID, since time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&social.Notification{}).
		Where("recipient_id = ? AND type = ? AND related_product_id = ? AND created_at >= ?", recipientID, ntype, productID, since).
		Count(&count).Error
	return count > 0, err
}

// Save stores a notification
func (r *GormNotificationRepository) Save(ctx context.Context, notification *social.Notification) error {
	return r.db.WithContext(ctx).Save(notification).Error
}

// SaveBatch stores many notifications at once
func (r *GormNotificationRepository) SaveBatch(ctx context.Context, notifications []*social.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(notifications, 100).Error
}

// MarkRead marks the given notifications as read, returns how many changed
func (r *GormNotificationRepository) MarkRead(ctx context.Context, recipientID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Model(&social.Notification{}).
		Where("recipient_id = ? AND id IN ? AND is_read = ?", recipientID, ids, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

// MarkAllRead marks every unread notification of a user as read
func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Model(&social.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true)
	return result.RowsAffected, result.Error
}

// Ensure GormNotificationRepository implements social.NotificationRepository
var _ social.NotificationRepository = (*GormNotificationRepository)(nil)
