package handler

import (
	appidentity "github.com/comercium/backend/internal/application/identity"
	"github.com/comercium/backend/internal/interfaces/http/dto"
	"github.com/comercium/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserHandler handles staff moderation actions on accounts
type UserHandler struct {
	BaseHandler
	userService *appidentity.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *appidentity.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) staffAndTarget(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	staffID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}
	if !middleware.IsJWTStaff(c) {
		h.Forbidden(c, "Staff access required")
		return uuid.Nil, uuid.Nil, false
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid user ID")
		return uuid.Nil, uuid.Nil, false
	}
	targetID, err := uuid.Parse(uri.ID)
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return uuid.Nil, uuid.Nil, false
	}
	return staffID, targetID, true
}

// Ban handles POST /users/:id/ban
func (h *UserHandler) Ban(c *gin.Context) {
	staffID, targetID, ok := h.staffAndTarget(c)
	if !ok {
		return
	}

	if err := h.userService.Ban(c.Request.Context(), staffID, targetID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "User banned"})
}

// Unban handles POST /users/:id/unban
func (h *UserHandler) Unban(c *gin.Context) {
	staffID, targetID, ok := h.staffAndTarget(c)
	if !ok {
		return
	}

	if err := h.userService.Unban(c.Request.Context(), staffID, targetID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "User unbanned"})
}
