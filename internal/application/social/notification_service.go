package social

import (
	"context"
	"fmt"
	"time"

	"github.com/comercium/backend/internal/domain/shared"
	"github.com/comercium/backend/internal/domain/social"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// NotificationService creates and serves user notifications
type NotificationService struct {
	notificationRepo social.NotificationRepository
	followRepo       social.FollowRepository
	unreadCache      UnreadCountCache
	logger           *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(
	notificationRepo social.NotificationRepository,
	followRepo social.FollowRepository,
	unreadCache UnreadCountCache,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		followRepo:       followRepo,
		unreadCache:      unreadCache,
		logger:           logger,
	}
}

// List returns the caller's newest notifications. The unread ones in
// the returned page are marked read: seeing the list counts as reading.
func (s *NotificationService) List(ctx context.Context, userID uuid.UUID) ([]NotificationResponse, error) {
	notifications, err := s.notificationRepo.FindByRecipient(ctx, userID, NotificationPageSize)
	if err != nil {
		s.logger.Error("Failed to list notifications", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list notifications")
	}

	responses := make([]NotificationResponse, 0, len(notifications))
	unreadIDs := make([]uuid.UUID, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, toNotificationResponse(&notifications[i]))
		if !notifications[i].IsRead {
			unreadIDs = append(unreadIDs, notifications[i].ID)
		}
	}

	if len(unreadIDs) > 0 {
		if _, err := s.notificationRepo.MarkRead(ctx, userID, unreadIDs); err != nil {
			s.logger.Warn("Failed to mark listed notifications read", zap.Error(err))
		} else {
			s.unreadCache.Invalidate(ctx, userID)
		}
	}
	return responses, nil
}

// MarkRead marks a single notification read. Recipient only.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	notification, err := s.notificationRepo.FindByID(ctx, notificationID)
	if err != nil {
		return shared.ErrNotFound
	}
	if notification.RecipientID != userID {
		return shared.ErrForbidden
	}
	if notification.IsRead {
		return nil
	}

	notification.MarkRead()
	if err := s.notificationRepo.Save(ctx, notification); err != nil {
		s.logger.Error("Failed to mark notification read", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update notification")
	}
	s.unreadCache.Invalidate(ctx, userID)
	return nil
}

// MarkAllRead marks every unread notification of the caller read
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.notificationRepo.MarkAllRead(ctx, userID); err != nil {
		s.logger.Error("Failed to mark all notifications read", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update notifications")
	}
	s.unreadCache.Invalidate(ctx, userID)
	return nil
}

// UnreadCount returns the unread badge counter, cached between writes
func (s *NotificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (*UnreadCountResponse, error) {
	if count, ok := s.unreadCache.Get(ctx, userID); ok {
		return &UnreadCountResponse{Count: count}, nil
	}

	count, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to count unread notifications", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to count notifications")
	}
	s.unreadCache.Set(ctx, userID, count)
	return &UnreadCountResponse{Count: count}, nil
}

// NotifySale tells a seller that items were sold in a paid order
func (s *NotificationService) NotifySale(ctx context.Context, sellerID, orderID uuid.UUID, itemCount int, total decimal.Decimal) error {
	notification := social.NewNotification(sellerID, social.NotificationNewSale,
		"You made a sale",
		fmt.Sprintf("You sold %d item(s) for a total of $%s", itemCount, total.StringFixed(2)),
		"/sales").
		WithRelatedOrder(orderID)
	return s.deliver(ctx, notification)
}

// NotifyNewFollower tells a user that someone started following them
func (s *NotificationService) NotifyNewFollower(ctx context.Context, userID, followerID uuid.UUID, followerName string) error {
	notification := social.NewNotification(userID, social.NotificationNewFollower,
		"New follower",
		fmt.Sprintf("%s is now following you", followerName),
		"/users/"+followerName).
		WithRelatedUser(followerID)
	return s.deliver(ctx, notification)
}

// NotifyNewProduct announces a listing to every follower of its seller
func (s *NotificationService) NotifyNewProduct(ctx context.Context, sellerID uuid.UUID, sellerName string, productID uuid.UUID, title string) error {
	followers, err := s.followRepo.FindFollowers(ctx, sellerID)
	if err != nil {
		s.logger.Error("Failed to load followers for product announcement", zap.Error(err))
		return err
	}
	if len(followers) == 0 {
		return nil
	}

	notifications := make([]*social.Notification, 0, len(followers))
	for i := range followers {
		notifications = append(notifications,
			social.NewNotification(followers[i].FollowerID, social.NotificationNewProduct,
				"New product from "+sellerName,
				fmt.Sprintf("%s listed a new product: %s", sellerName, title),
				"/products/"+productID.String()).
				WithRelatedUser(sellerID).
				WithRelatedProduct(productID))
	}
	if err := s.notificationRepo.SaveBatch(ctx, notifications); err != nil {
		s.logger.Error("Failed to save product announcements", zap.Error(err))
		return err
	}
	for i := range followers {
		s.unreadCache.Invalidate(ctx, followers[i].FollowerID)
	}
	return nil
}

// NotifyLowStock warns a seller about a listing about to run out.
// Repeated warnings for the same product are suppressed for a day.
func (s *NotificationService) NotifyLowStock(ctx context.Context, sellerID, productID uuid.UUID, title string, stock int) error {
	since := time.Now().Add(-social.LowStockSuppressionWindow)
	recent, err := s.notificationRepo.HasRecentOfType(ctx, sellerID, social.NotificationLowStock, productID, since)
	if err != nil {
		s.logger.Error("Failed to check low-stock suppression", zap.Error(err))
		return err
	}
	if recent {
		return nil
	}

	notification := social.NewNotification(sellerID, social.NotificationLowStock,
		"Low stock",
		fmt.Sprintf("Only %d unit(s) of %q left", stock, title),
		"/products/"+productID.String()).
		WithRelatedProduct(productID)
	return s.deliver(ctx, notification)
}

// NotifySoldOut tells a seller a listing ran out of stock
func (s *NotificationService) NotifySoldOut(ctx context.Context, sellerID, productID uuid.UUID, title string) error {
	notification := social.NewNotification(sellerID, social.NotificationProductSoldOut,
		"Product sold out",
		fmt.Sprintf("%q is sold out", title),
		"/products/"+productID.String()).
		WithRelatedProduct(productID)
	return s.deliver(ctx, notification)
}

// NotifyChatRequest tells a user that someone wants to chat
func (s *NotificationService) NotifyChatRequest(ctx context.Context, targetID, requesterID uuid.UUID, requesterName string) error {
	notification := social.NewNotification(targetID, social.NotificationChatRequest,
		"Chat request",
		fmt.Sprintf("%s wants to chat with you", requesterName),
		"/chat/requests").
		WithRelatedUser(requesterID)
	return s.deliver(ctx, notification)
}

// NotifyChatAccepted tells a requester that their chat request was accepted
func (s *NotificationService) NotifyChatAccepted(ctx context.Context, requesterID, accepterID uuid.UUID, accepterName string) error {
	notification := social.NewNotification(requesterID, social.NotificationChatAccepted,
		"Chat request accepted",
		fmt.Sprintf("%s accepted your chat request", accepterName),
		"/chat").
		WithRelatedUser(accepterID)
	return s.deliver(ctx, notification)
}

func (s *NotificationService) deliver(ctx context.Context, notification *social.Notification) error {
	if err := s.notificationRepo.Save(ctx, notification); err != nil {
		s.logger.Error("Failed to save notification",
			zap.String("type", string(notification.Type)),
			zap.Error(err))
		return err
	}
	s.unreadCache.Invalidate(ctx, notification.RecipientID)
	return nil
}
