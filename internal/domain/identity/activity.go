package identity

import (
	"time"

	"github.com/comercium/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Activity windows
const (
	// ActivityThrottle is the minimum gap between persisted last-seen updates.
	ActivityThrottle = 5 * time.Minute
	// OnlineWindow is how recently a user must have been seen to count as online.
	OnlineWindow = 5 * time.Minute
)

// UserActivity tracks when a user was last seen making a request
type UserActivity struct {
	shared.BaseEntity
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	LastSeen time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (UserActivity) TableName() string {
	return "user_activities"
}

// NewUserActivity records a first sighting of the user
func NewUserActivity(userID uuid.UUID) *UserActivity {
	now := time.Now()
	return &UserActivity{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		LastSeen:   now,
	}
}

// Touch updates last-seen if the throttle window has elapsed.
// Returns true when the record changed and should be persisted.
func (a *UserActivity) Touch() bool {
	now := time.Now()
	if now.Sub(a.LastSeen) < ActivityThrottle {
		return false
	}
	a.LastSeen = now
	a.UpdatedAt = now
	return true
}

// IsOnline reports whether the user was seen within the online window
func (a *UserActivity) IsOnline() bool {
	return time.Since(a.LastSeen) < OnlineWindow
}
