package handler

import (
	appidentity "github.com/comercium/backend/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// ProfileHandler handles profile management and public profile pages
type ProfileHandler struct {
	BaseHandler
	profileService *appidentity.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService *appidentity.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// GetOwn handles GET /profile
func (h *ProfileHandler) GetOwn(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	profile, err := h.profileService.GetOwn(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, profile)
}

// Update handles PUT /profile
func (h *ProfileHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input appidentity.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	profile, err := h.profileService.Update(c.Request.Context(), userID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, profile)
}

// DeleteAvatar handles DELETE /profile/avatar
func (h *ProfileHandler) DeleteAvatar(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.profileService.DeleteAvatar(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

type usernameURI struct {
	Username string `uri:"username" binding:"required,min=3,max=30"`
}

// GetPublic handles GET /users/:username
func (h *ProfileHandler) GetPublic(c *gin.Context) {
	var uri usernameURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid username")
		return
	}

	profile, err := h.profileService.GetPublic(c.Request.Context(), uri.Username)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, profile)
}

// ConnectGateway handles POST /profile/gateway
func (h *ProfileHandler) ConnectGateway(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input appidentity.ConnectGatewayInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.profileService.ConnectGateway(c.Request.Context(), userID, input); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Payment gateway connected"})
}

// DisconnectGateway handles DELETE /profile/gateway
func (h *ProfileHandler) DisconnectGateway(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.profileService.DisconnectGateway(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
