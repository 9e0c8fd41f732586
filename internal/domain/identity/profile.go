package identity

import (
	"net/url"
	"strings"
	"time"

	"github.com/comercium/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Profile limits
const (
	MaxBioLength     = 500
	MaxWebsiteLength = 200
)

// Profile holds the public presentation of a user plus the payment
// gateway linkage a seller needs before receiving split payments.
type Profile struct {
	shared.BaseEntity
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Bio       string    `gorm:"type:varchar(500)"`
	Website   string    `gorm:"type:varchar(200)"`
	AvatarURL string    `gorm:"type:varchar(500)"`

	// OAuth credentials issued by the payment gateway when the seller
	// links their collector account.
	GatewayAccessToken  string `gorm:"type:varchar(255)"`
	GatewayRefreshToken string `gorm:"type:varchar(255)"`
	GatewayPublicKey    string `gorm:"type:varchar(255)"`
	GatewayCollectorID  string `gorm:"type:varchar(64)"`
	GatewayConnectedAt  *time.Time
}

// TableName returns the table name for GORM
func (Profile) TableName() string {
	return "profiles"
}

// NewProfile creates an empty profile for a user
func NewProfile(userID uuid.UUID) *Profile {
	return &Profile{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
	}
}

// Update changes the editable profile fields
func (p *Profile) Update(bio, website, avatarURL string) error {
	bio = strings.TrimSpace(bio)
	website = strings.TrimSpace(website)
	if len(bio) > MaxBioLength {
		return shared.NewDomainError("INVALID_BIO", "Bio cannot exceed 500 characters")
	}
	if len(website) > MaxWebsiteLength {
		return shared.NewDomainError("INVALID_WEBSITE", "Website cannot exceed 200 characters")
	}
	if website != "" {
		u, err := url.Parse(website)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return shared.NewDomainError("INVALID_WEBSITE", "Website must be an http(s) URL")
		}
	}
	p.Bio = bio
	p.Website = website
	p.AvatarURL = strings.TrimSpace(avatarURL)
	p.UpdatedAt = time.Now()
	return nil
}

// ConnectGateway stores the credentials returned by the gateway OAuth flow
func (p *Profile) ConnectGateway(accessToken, refreshToken, publicKey, collectorID string) error {
	if strings.TrimSpace(accessToken) == "" || strings.TrimSpace(collectorID) == "" {
		return shared.NewDomainError("INVALID_GATEWAY_CREDENTIALS", "Access token and collector ID are required")
	}
	now := time.Now()
	p.GatewayAccessToken = accessToken
	p.GatewayRefreshToken = refreshToken
	p.GatewayPublicKey = publicKey
	p.GatewayCollectorID = collectorID
	p.GatewayConnectedAt = &now
	p.UpdatedAt = now
	return nil
}

// DisconnectGateway clears the stored gateway credentials
func (p *Profile) DisconnectGateway() {
	p.GatewayAccessToken = ""
	p.GatewayRefreshToken = ""
	p.GatewayPublicKey = ""
	p.GatewayCollectorID = ""
	p.GatewayConnectedAt = nil
	p.UpdatedAt = time.Now()
}

// IsGatewayConnected reports whether the seller can receive payments.
// Both the access token and the collector ID must be present.
func (p *Profile) IsGatewayConnected() bool {
	return p.GatewayAccessToken != "" && p.GatewayCollectorID != ""
}
