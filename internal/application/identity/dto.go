package identity

import (
	"time"

	appcatalog "github.com/comercium/backend/internal/application/catalog"
	"github.com/comercium/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// RegisterInput contains the data for account creation
type RegisterInput struct {
	Username string `json:"username" binding:"required,username"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// LoginInput contains login credentials
type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenInput contains the refresh token
type RefreshTokenInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutInput identifies the session to terminate
type LogoutInput struct {
	UserID      uuid.UUID
	AccessJTI   string
	AccessTTL   time.Duration
	RefreshJTI  string
	RefreshTTL  time.Duration
}

// UserInfo is the public representation of a user
type UserInfo struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name,omitempty"`
	IsStaff     bool      `json:"is_staff,omitempty"`
}

// AuthResult is returned by Login and Register
type AuthResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
	User                  UserInfo  `json:"user"`
}

// RefreshResult is returned by Refresh
type RefreshResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// UpdateProfileInput contains the editable profile fields
type UpdateProfileInput struct {
	Bio       string `json:"bio" binding:"max=500"`
	Website   string `json:"website" binding:"omitempty,url,max=200"`
	AvatarURL string `json:"avatar_url" binding:"omitempty,url,max=500"`
}

// ConnectGatewayInput contains the credentials from the gateway OAuth callback
type ConnectGatewayInput struct {
	AccessToken  string `json:"access_token" binding:"required"`
	RefreshToken string `json:"refresh_token"`
	PublicKey    string `json:"public_key"`
	CollectorID  string `json:"collector_id" binding:"required"`
}

// ProfileResponse is the owner's view of their profile
type ProfileResponse struct {
	UserID           uuid.UUID  `json:"user_id"`
	Username         string     `json:"username"`
	Bio              string     `json:"bio,omitempty"`
	Website          string     `json:"website,omitempty"`
	AvatarURL        string     `json:"avatar_url,omitempty"`
	GatewayConnected bool       `json:"gateway_connected"`
	GatewayLinkedAt  *time.Time `json:"gateway_linked_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// PublicProfileResponse is what other users see on a profile page,
// including the seller's listings that are up for sale
type PublicProfileResponse struct {
	UserID    uuid.UUID                    `json:"user_id"`
	Username  string                       `json:"username"`
	Bio       string                       `json:"bio,omitempty"`
	Website   string                       `json:"website,omitempty"`
	AvatarURL string                       `json:"avatar_url,omitempty"`
	IsOnline  bool                         `json:"is_online"`
	JoinedAt  time.Time                    `json:"joined_at"`
	Products  []appcatalog.ProductResponse `json:"products"`
}

// ToUserInfo converts a user entity into its public representation
func ToUserInfo(user *identity.User) UserInfo {
	return UserInfo{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.DisplayName,
		IsStaff:     user.IsStaff,
	}
}
