package social

import (
	"time"

	"github.com/comercium/backend/internal/domain/social"
	"github.com/google/uuid"
)

// NotificationPageSize is how many notifications a listing returns
const NotificationPageSize = 50

// FeedSize is how many products the following feed returns
const FeedSize = 50

// NotificationResponse is a notification in API responses
type NotificationResponse struct {
	ID               uuid.UUID  `json:"id"`
	Type             string     `json:"type"`
	Title            string     `json:"title"`
	Message          string     `json:"message"`
	Link             string     `json:"link,omitempty"`
	IsRead           bool       `json:"is_read"`
	RelatedUserID    *uuid.UUID `json:"related_user_id,omitempty"`
	RelatedProductID *uuid.UUID `json:"related_product_id,omitempty"`
	RelatedOrderID   *uuid.UUID `json:"related_order_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// UnreadCountResponse is the unread notification counter
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// FollowUserResponse is one side of a follow relationship
type FollowUserResponse struct {
	UserID     uuid.UUID `json:"user_id"`
	Username   string    `json:"username,omitempty"`
	FollowedAt time.Time `json:"followed_at"`
}

// FollowStatsResponse counts both sides of a user's follows
type FollowStatsResponse struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}

func toNotificationResponse(n *social.Notification) NotificationResponse {
	return NotificationResponse{
		ID:               n.ID,
		Type:             string(n.Type),
		Title:            n.Title,
		Message:          n.Message,
		Link:             n.Link,
		IsRead:           n.IsRead,
		RelatedUserID:    n.RelatedUserID,
		RelatedProductID: n.RelatedProductID,
		RelatedOrderID:   n.RelatedOrderID,
		CreatedAt:        n.CreatedAt,
	}
}
