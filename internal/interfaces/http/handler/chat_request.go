package handler

import (
	appchat "github.com/comercium/backend/internal/application/chat"
	"github.com/gin-gonic/gin"
)

// ChatRequestHandler handles the chat request inbox and blocking
type ChatRequestHandler struct {
	BaseHandler
	requestService *appchat.RequestService
	blockService   *appchat.BlockService
}

// NewChatRequestHandler creates a new chat request handler
func NewChatRequestHandler(requestService *appchat.RequestService, blockService *appchat.BlockService) *ChatRequestHandler {
	return &ChatRequestHandler{
		requestService: requestService,
		blockService:   blockService,
	}
}

// ListIncoming handles GET /chat/requests/incoming
func (h *ChatRequestHandler) ListIncoming(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	requests, err := h.requestService.ListIncoming(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, requests)
}

// ListOutgoing handles GET /chat/requests/outgoing
func (h *ChatRequestHandler) ListOutgoing(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	requests, err := h.requestService.ListOutgoing(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, requests)
}

// Send handles POST /chat/requests/send/:id where :id is the target user
func (h *ChatRequestHandler) Send(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	targetID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	request, err := h.requestService.Send(c.Request.Context(), userID, targetID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, request)
}

// Accept handles POST /chat/requests/:id/accept
func (h *ChatRequestHandler) Accept(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	requestID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	result, err := h.requestService.Accept(c.Request.Context(), requestID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Decline handles POST /chat/requests/:id/decline
func (h *ChatRequestHandler) Decline(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	requestID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	if err := h.requestService.Decline(c.Request.Context(), requestID, userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Cancel handles DELETE /chat/requests/:id
func (h *ChatRequestHandler) Cancel(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	requestID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid request ID")
		return
	}

	if err := h.requestService.Cancel(c.Request.Context(), requestID, userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// ListBlocks handles GET /chat/blocks
func (h *ChatRequestHandler) ListBlocks(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	blocks, err := h.blockService.List(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, blocks)
}

// Block handles POST /chat/blocks/:id where :id is the user to block
func (h *ChatRequestHandler) Block(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	blockedID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.blockService.Block(c.Request.Context(), userID, blockedID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "User blocked"})
}

// Unblock handles DELETE /chat/blocks/:id
func (h *ChatRequestHandler) Unblock(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	blockedID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.blockService.Unblock(c.Request.Context(), userID, blockedID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
