package social

import (
	"time"

	"github.com/comercium/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// NotificationType classifies a notification
type NotificationType string

const (
	NotificationNewSale        NotificationType = "new_sale"
	NotificationNewFollower    NotificationType = "new_follower"
	NotificationNewProduct     NotificationType = "new_product"
	NotificationProductSoldOut NotificationType = "product_sold_out"
	NotificationLowStock       NotificationType = "low_stock"
	NotificationChatRequest    NotificationType = "chat_request"
	NotificationChatAccepted   NotificationType = "chat_accepted"
)

// LowStockSuppressionWindow is how long a repeated low-stock alert for
// the same product is suppressed
const LowStockSuppressionWindow = 24 * time.Hour

// Notification is a fire-and-forget message surfaced to a user
type Notification struct {
	shared.BaseEntity
	RecipientID      uuid.UUID        `gorm:"type:uuid;not null;index:idx_notifications_recipient_created,priority:1;index:idx_notifications_recipient_read,priority:1"`
	Type             NotificationType `gorm:"type:varchar(30);not null"`
	Title            string           `gorm:"type:varchar(200);not null"`
	Message          string           `gorm:"type:text;not null"`
	Link             string           `gorm:"type:varchar(500)"`
	IsRead           bool             `gorm:"not null;default:false;index:idx_notifications_recipient_read,priority:2"`
	RelatedUserID    *uuid.UUID       `gorm:"type:uuid"`
	RelatedProductID *uuid.UUID       `gorm:"type:uuid"`
	RelatedOrderID   *uuid.UUID       `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// NewNotification creates an unread notification
func NewNotification(recipientID uuid.UUID, ntype NotificationType, title, message, link string) *Notification {
	return &Notification{
		BaseEntity:  shared.NewBaseEntity(),
		RecipientID: recipientID,
		Type:        ntype,
		Title:       title,
		Message:     message,
		Link:        link,
	}
}

// WithRelatedUser attaches the triggering user
func (n *Notification) WithRelatedUser(userID uuid.UUID) *Notification {
	n.RelatedUserID = &userID
	return n
}

// WithRelatedProduct attaches the related product
func (n *Notification) WithRelatedProduct(productID uuid.UUID) *Notification {
	n.RelatedProductID = &productID
	return n
}

// WithRelatedOrder attaches the related order
func (n *Notification) WithRelatedOrder(orderID uuid.UUID) *Notification {
	n.RelatedOrderID = &orderID
	return n
}

// MarkRead marks the notification as read
func (n *Notification) MarkRead() {
	if !n.IsRead {
		n.IsRead = true
		n.UpdatedAt = time.Now()
	}
}
