package social

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// NotificationRepository persists notifications
type NotificationRepository interface {
	// FindByID finds a notification
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)

	// FindByRecipient lists the newest notifications of a user
	FindByRecipient(ctx context.Context, recipientID uuid.UUID, limit int) ([]Notification, error)

	// CountUnread counts a user's unread notifications
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)

	// HasRecentOfType reports whether a notification of the given type
	// for the given product was created since the cutoff
	HasRecentOfType(ctx context.Context, recipientID uuid.UUID, ntype NotificationType, productID uuid.UUID, since time.Time) (bool, error)

	// Save stores a notification
	Save(ctx context.Context, notification *Notification) error

	// SaveBatch stores many notifications at once
	SaveBatch(ctx context.Context, notifications []*Notification) error

	// MarkRead marks the given notifications as read, returns how many changed
	MarkRead(ctx context.Context, recipientID uuid.UUID, ids []uuid.UUID) (int64, error)

	// MarkAllRead marks every unread notification of a user as read
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error)
}

// FollowRepository persists follow relationships
type FollowRepository interface {
	// Exists reports whether follower follows following
	Exists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error)

	// FindFollowers lists the follows pointing at a user
	FindFollowers(ctx context.Context, followingID uuid.UUID) ([]Follow, error)

	// FindFollowing lists the follows originating from a user
	FindFollowing(ctx context.Context, followerID uuid.UUID) ([]Follow, error)

	// FollowingIDs lists the IDs a user follows
	FollowingIDs(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error)

	// CountFollowers counts a user's followers
	CountFollowers(ctx context.Context, followingID uuid.UUID) (int64, error)

	// CountFollowing counts how many users a user follows
	CountFollowing(ctx context.Context, followerID uuid.UUID) (int64, error)

	// Save stores a follow record
	Save(ctx context.Context, follow *Follow) error

	// Delete removes a follow record, returns how many rows were removed
	Delete(ctx context.Context, followerID, followingID uuid.UUID) (int64, error)
}
