package social

import (
	"context"

	appcatalog "github.com/comercium/backend/internal/application/catalog"
	"github.com/comercium/backend/internal/domain/catalog"
	"github.com/comercium/backend/internal/domain/identity"
	"github.com/comercium/backend/internal/domain/shared"
	"github.com/comercium/backend/internal/domain/social"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FollowService handles seller follows and the following feed
type FollowService struct {
	followRepo          social.FollowRepository
	userRepo            identity.UserRepository
	productRepo         catalog.ProductRepository
	notificationService *NotificationService
	logger              *zap.Logger
}

// NewFollowService creates a new follow service
func NewFollowService(
	followRepo social.FollowRepository,
	userRepo identity.UserRepository,
	productRepo catalog.ProductRepository,
	notificationService *NotificationService,
	logger *zap.Logger,
) *FollowService {
	return &FollowService{
		followRepo:          followRepo,
		userRepo:            userRepo,
		productRepo:         productRepo,
		notificationService: notificationService,
		logger:              logger,
	}
}

// Follow makes the caller follow another user. Idempotent; the target
// is notified only when the follow is new.
func (s *FollowService) Follow(ctx context.Context, followerID, followingID uuid.UUID) error {
	if followerID == followingID {
		return shared.ErrSelfTarget
	}

	target, err := s.userRepo.FindByID(ctx, followingID)
	if err != nil || target.IsBanned() {
		return shared.ErrNotFound
	}

	exists, err := s.followRepo.Exists(ctx, followerID, followingID)
	if err != nil {
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to check follow state")
	}
	if exists {
		return nil
	}

	follow, err := social.NewFollow(followerID, followingID)
	if err != nil {
		return err
	}
	if err := s.followRepo.Save(ctx, follow); err != nil {
		s.logger.Error("Failed to save follow", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to follow user")
	}

	if follower, err := s.userRepo.FindByID(ctx, followerID); err == nil {
		if err := s.notificationService.NotifyNewFollower(ctx, followingID, followerID, follower.Username); err != nil {
			s.logger.Warn("Failed to notify new follower", zap.Error(err))
		}
	}
	return nil
}

// Unfollow removes the caller's follow
func (s *FollowService) Unfollow(ctx context.Context, followerID, followingID uuid.UUID) error {
	removed, err := s.followRepo.Delete(ctx, followerID, followingID)
	if err != nil {
		s.logger.Error("Failed to delete follow", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to unfollow user")
	}
	if removed == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// UserIDByUsername resolves whose follow lists are being viewed.
// Banned users' lists are hidden like their profiles.
func (s *FollowService) UserIDByUsername(ctx context.Context, username string) (uuid.UUID, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil || user.IsBanned() {
		return uuid.Nil, shared.ErrNotFound
	}
	return user.ID, nil
}

// Followers lists the users following the given user
func (s *FollowService) Followers(ctx context.Context, userID uuid.UUID) ([]FollowUserResponse, error) {
	follows, err := s.followRepo.FindFollowers(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list followers", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list followers")
	}
	return s.toFollowUsers(ctx, follows, func(f *social.Follow) uuid.UUID { return f.FollowerID })
}

// Following lists the users the given user follows
func (s *FollowService) Following(ctx context.Context, userID uuid.UUID) ([]FollowUserResponse, error) {
	follows, err := s.followRepo.FindFollowing(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to list following", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list following")
	}
	return s.toFollowUsers(ctx, follows, func(f *social.Follow) uuid.UUID { return f.FollowingID })
}

// Stats counts both sides of a user's follow relationships
func (s *FollowService) Stats(ctx context.Context, userID uuid.UUID) (*FollowStatsResponse, error) {
	followers, err := s.followRepo.CountFollowers(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to count followers")
	}
	following, err := s.followRepo.CountFollowing(ctx, userID)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to count following")
	}
	return &FollowStatsResponse{Followers: followers, Following: following}, nil
}

// Feed returns the newest active products of the sellers the caller follows
func (s *FollowService) Feed(ctx context.Context, userID uuid.UUID) ([]appcatalog.ProductResponse, error) {
	sellerIDs, err := s.followRepo.FollowingIDs(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load followed sellers", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load feed")
	}
	if len(sellerIDs) == 0 {
		return []appcatalog.ProductResponse{}, nil
	}

	products, err := s.productRepo.FindBySellers(ctx, sellerIDs, FeedSize)
	if err != nil {
		s.logger.Error("Failed to load feed products", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load feed")
	}
	return appcatalog.ToProductResponses(products), nil
}

func (s *FollowService) toFollowUsers(ctx context.Context, follows []social.Follow, pick func(*social.Follow) uuid.UUID) ([]FollowUserResponse, error) {
	ids := make([]uuid.UUID, 0, len(follows))
	for i := range follows {
		ids = append(ids, pick(&follows[i]))
	}

	usernames := make(map[uuid.UUID]string, len(ids))
	if len(ids) > 0 {
		users, err := s.userRepo.FindByIDs(ctx, ids)
		if err != nil {
			s.logger.Warn("Failed to resolve follow users", zap.Error(err))
		} else {
			for _, user := range users {
				usernames[user.ID] = user.Username
			}
		}
	}

	responses := make([]FollowUserResponse, 0, len(follows))
	for i := range follows {
		id := pick(&follows[i])
		responses = append(responses, FollowUserResponse{
			UserID:     id,
			Username:   usernames[id],
			FollowedAt: follows[i].CreatedAt,
		})
	}
	return responses, nil
}
