package handler

import (
	appchat "github.com/comercium/backend/internal/application/chat"
	"github.com/gin-gonic/gin"
)

// ChatHandler handles the public room and direct message threads
type ChatHandler struct {
	BaseHandler
	roomService   *appchat.RoomService
	threadService *appchat.ThreadService
}

// NewChatHandler creates a new chat handler
func NewChatHandler(roomService *appchat.RoomService, threadService *appchat.ThreadService) *ChatHandler {
	return &ChatHandler{
		roomService:   roomService,
		threadService: threadService,
	}
}

// ListRoomMessages handles GET /chat/room/messages
func (h *ChatHandler) ListRoomMessages(c *gin.Context) {
	if _, err := getUserID(c); err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input appchat.ListMessagesInput
	if err := c.ShouldBindQuery(&input); err != nil {
		h.BindError(c, err)
		return
	}

	messages, err := h.roomService.ListMessages(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, messages)
}

// PostRoomMessage handles POST /chat/room/messages
func (h *ChatHandler) PostRoomMessage(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input appchat.PostMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	message, err := h.roomService.PostMessage(c.Request.Context(), userID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, message)
}

// StartChat handles POST /chat/threads/start/:id where :id is the
// target user. Depending on acceptance state this returns either the
// thread or a pending request.
func (h *ChatHandler) StartChat(c *gin.Context) {
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

	result, err := h.threadService.StartChat(c.Request.Context(), userID, targetID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListThreads handles GET /chat/threads
func (h *ChatHandler) ListThreads(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	threads, err := h.threadService.ListThreads(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, threads)
}

// GetThread handles GET /chat/threads/:id
func (h *ChatHandler) GetThread(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	threadID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid thread ID")
		return
	}

	thread, err := h.threadService.GetThread(c.Request.Context(), threadID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, thread)
}

// ListThreadMessages handles GET /chat/threads/:id/messages
func (h *ChatHandler) ListThreadMessages(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	threadID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid thread ID")
		return
	}

	var input appchat.ListMessagesInput
	if err := c.ShouldBindQuery(&input); err != nil {
		h.BindError(c, err)
		return
	}

	messages, err := h.threadService.ListMessages(c.Request.Context(), threadID, userID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, messages)
}

// PostThreadMessage handles POST /chat/threads/:id/messages
func (h *ChatHandler) PostThreadMessage(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	threadID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid thread ID")
		return
	}

	var input appchat.PostMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	message, err := h.threadService.PostMessage(c.Request.Context(), threadID, userID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, message)
}
