package handler

import (
	appsocial "github.com/comercium/backend/internal/application/social"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FollowHandler handles seller follows and the personal feed
type FollowHandler struct {
	BaseHandler
	followService *appsocial.FollowService
}

// NewFollowHandler creates a new follow handler
func NewFollowHandler(followService *appsocial.FollowService) *FollowHandler {
	return &FollowHandler{followService: followService}
}

func (h *FollowHandler) callerAndTarget(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}
	targetID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid user ID")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, targetID, true
}

// Follow handles POST /follows/:id
func (h *FollowHandler) Follow(c *gin.Context) {
	userID, targetID, ok := h.callerAndTarget(c)
	if !ok {
		return
	}

	if err := h.followService.Follow(c.Request.Context(), userID, targetID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Following"})
}

// Unfollow handles DELETE /follows/:id
func (h *FollowHandler) Unfollow(c *gin.Context) {
	userID, targetID, ok := h.callerAndTarget(c)
	if !ok {
		return
	}

	if err := h.followService.Unfollow(c.Request.Context(), userID, targetID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// listSubject picks whose relationships get listed: the caller's by
// default, or any user's via the username query parameter.
func (h *FollowHandler) listSubject(c *gin.Context) (uuid.UUID, bool) {
	if username := c.Query("username"); username != "" {
		subjectID, err := h.followService.UserIDByUsername(c.Request.Context(), username)
		if err != nil {
			h.HandleError(c, err)
			return uuid.Nil, false
		}
		return subjectID, true
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, false
	}
	return userID, true
}

// Followers handles GET /follows/followers
func (h *FollowHandler) Followers(c *gin.Context) {
	subjectID, ok := h.listSubject(c)
	if !ok {
		return
	}

	followers, err := h.followService.Followers(c.Request.Context(), subjectID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, followers)
}

// Following handles GET /follows/following
func (h *FollowHandler) Following(c *gin.Context) {
	subjectID, ok := h.listSubject(c)
	if !ok {
		return
	}

	following, err := h.followService.Following(c.Request.Context(), subjectID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, following)
}

// Stats handles GET /follows/stats
func (h *FollowHandler) Stats(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	stats, err := h.followService.Stats(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}

// Feed handles GET /follows/feed. It returns recent active listings
// from the sellers the caller follows.
func (h *FollowHandler) Feed(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	feed, err := h.followService.Feed(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, feed)
}
