package handler

import (
	"net/http"

	appidentity "github.com/comercium/backend/internal/application/identity"
	"github.com/comercium/backend/internal/infrastructure/auth"
	"github.com/comercium/backend/internal/interfaces/http/dto"
	"github.com/comercium/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles registration, login and token lifecycle
type AuthHandler struct {
	BaseHandler
	authService *appidentity.AuthService
	jwtService  *auth.JWTService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *appidentity.AuthService, jwtService *auth.JWTService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		jwtService:  jwtService,
	}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var input appidentity.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.authService.Register(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input appidentity.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Refresh handles POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var input appidentity.RefreshTokenInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Logout handles POST /auth/logout. It revokes both tokens of the
// session: the access token comes from the Authorization header, the
// refresh token from the body.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req logoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	accessClaims := middleware.GetJWTClaims(c)
	if accessClaims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	userID, err := accessClaims.GetUserUUID()
	if err != nil {
		h.Unauthorized(c, "Invalid token")
		return
	}

	refreshClaims, err := h.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeTokenInvalid, "Invalid refresh token")
		return
	}
	if refreshClaims.UserID != accessClaims.UserID {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeTokenInvalid, "Refresh token does not match the session")
		return
	}

	input := appidentity.LogoutInput{
		UserID:     userID,
		AccessJTI:  accessClaims.ID,
		AccessTTL:  accessClaims.GetRemainingTTL(),
		RefreshJTI: refreshClaims.ID,
		RefreshTTL: refreshClaims.GetRemainingTTL(),
	}
	if err := h.authService.Logout(c.Request.Context(), input); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Logged out"})
}
