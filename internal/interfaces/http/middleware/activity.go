package middleware

import (
	appidentity "github.com/comercium/backend/internal/application/identity"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ActivityTracking refreshes the authenticated user's last-seen record
// after the request finishes. Tracking failures never affect the
// response.
func ActivityTracking(profileService *appidentity.ProfileService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		userIDStr := GetJWTUserID(c)
		if userIDStr == "" {
			return
		}
		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			return
		}

		profileService.TrackActivity(c.Request.Context(), userID)
	}
}
