package identity

import (
	"context"

	appcatalog "github.com/comercium/backend/internal/application/catalog"
	"github.com/comercium/backend/internal/domain/identity"
	"github.com/comercium/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SellerListings is the slice of the catalog a public profile page
// needs: the seller's products that are up for sale.
type SellerListings interface {
	ListActiveBySeller(ctx context.Context, sellerID uuid.UUID) ([]appcatalog.ProductResponse, error)
}

// ProfileService handles profile reads and updates
type ProfileService struct {
	userRepo     identity.UserRepository
	profileRepo  identity.ProfileRepository
	activityRepo identity.ActivityRepository
	listings     SellerListings
	logger       *zap.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(
	userRepo identity.UserRepository,
	profileRepo identity.ProfileRepository,
	activityRepo identity.ActivityRepository,
	listings SellerListings,
	logger *zap.Logger,
) *ProfileService {
	return &ProfileService{
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		activityRepo: activityRepo,
		listings:     listings,
		logger:       logger,
	}
}

// GetOwn returns the caller's profile
func (s *ProfileService) GetOwn(ctx context.Context, userID uuid.UUID) (*ProfileResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	profile, err := s.profileRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	return toProfileResponse(user, profile), nil
}

// Update changes the caller's editable profile fields
func (s *ProfileService) Update(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*ProfileResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	profile, err := s.profileRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	if err := profile.Update(input.Bio, input.Website, input.AvatarURL); err != nil {
		return nil, err
	}
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		s.logger.Error("Failed to save profile", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save profile")
	}

	return toProfileResponse(user, profile), nil
}

// DeleteAvatar removes the avatar URL from the caller's profile
func (s *ProfileService) DeleteAvatar(ctx context.Context, userID uuid.UUID) error {
	profile, err := s.profileRepo.FindByUser(ctx, userID)
	if err != nil {
		return shared.ErrNotFound
	}
	if profile.AvatarURL == "" {
		return nil
	}
	if err := profile.Update(profile.Bio, profile.Website, ""); err != nil {
		return err
	}
	return s.profileRepo.Save(ctx, profile)
}

// GetPublic returns another user's public profile by username,
// together with their listings that are up for sale
func (s *ProfileService) GetPublic(ctx context.Context, username string) (*PublicProfileResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	if user.IsBanned() {
		return nil, shared.ErrNotFound
	}

	profile, err := s.profileRepo.FindByUser(ctx, user.ID)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	online := false
	if activity, err := s.activityRepo.FindByUser(ctx, user.ID); err == nil && activity != nil {
		online = activity.IsOnline()
	}

	products, err := s.listings.ListActiveBySeller(ctx, user.ID)
	if err != nil {
		s.logger.Error("Failed to load seller listings for profile",
			zap.String("username", username), zap.Error(err))
		return nil, err
	}

	return &PublicProfileResponse{
		UserID:    user.ID,
		Username:  user.Username,
		Bio:       profile.Bio,
		Website:   profile.Website,
		AvatarURL: profile.AvatarURL,
		IsOnline:  online,
		JoinedAt:  user.CreatedAt,
		Products:  products,
	}, nil
}

// ConnectGateway stores the seller's payment gateway credentials
func (s *ProfileService) ConnectGateway(ctx context.Context, userID uuid.UUID, input ConnectGatewayInput) error {
	profile, err := s.profileRepo.FindByUser(ctx, userID)
	if err != nil {
		return shared.ErrNotFound
	}
	if err := profile.ConnectGateway(input.AccessToken, input.RefreshToken, input.PublicKey, input.CollectorID); err != nil {
		return err
	}
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		s.logger.Error("Failed to save gateway credentials", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to link payment gateway")
	}

	s.logger.Info("Payment gateway linked", zap.String("user_id", userID.String()))
	return nil
}

// DisconnectGateway clears the seller's payment gateway credentials
func (s *ProfileService) DisconnectGateway(ctx context.Context, userID uuid.UUID) error {
	profile, err := s.profileRepo.FindByUser(ctx, userID)
	if err != nil {
		return shared.ErrNotFound
	}
	profile.DisconnectGateway()
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to unlink payment gateway")
	}

	s.logger.Info("Payment gateway unlinked", zap.String("user_id", userID.String()))
	return nil
}

// TrackActivity stamps the user's last-seen time, at most once per throttle
// window. Called from middleware on every authenticated request.
func (s *ProfileService) TrackActivity(ctx context.Context, userID uuid.UUID) {
	activity, err := s.activityRepo.FindByUser(ctx, userID)
	if err != nil {
		activity = identity.NewUserActivity(userID)
		if err := s.activityRepo.Save(ctx, activity); err != nil {
			s.logger.Warn("Failed to create activity record", zap.Error(err))
		}
		return
	}
	if activity.Touch() {
		if err := s.activityRepo.Save(ctx, activity); err != nil {
			s.logger.Warn("Failed to update activity record", zap.Error(err))
		}
	}
}

func toProfileResponse(user *identity.User, profile *identity.Profile) *ProfileResponse {
	return &ProfileResponse{
		UserID:           user.ID,
		Username:         user.Username,
		Bio:              profile.Bio,
		Website:          profile.Website,
		AvatarURL:        profile.AvatarURL,
		GatewayConnected: profile.IsGatewayConnected(),
		GatewayLinkedAt:  profile.GatewayConnectedAt,
		CreatedAt:        user.CreatedAt,
	}
}
