package chat

import (
	"time"

	"github.com/comercium/backend/internal/domain/chat"
	"github.com/google/uuid"
)

// PostMessageInput posts a message to the public room or a thread
type PostMessageInput struct {
	Text string `json:"text" binding:"required,max=1000"`
}

// ListMessagesInput is the incremental polling cursor
type ListMessagesInput struct {
	AfterID *uuid.UUID `form:"after_id"`
	Limit   int        `form:"limit" binding:"omitempty,min=1,max=100"`
}

// ChannelMessageResponse is a public room message in API responses
type ChannelMessageResponse struct {
	ID        uuid.UUID  `json:"id"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	Username  string     `json:"username,omitempty"`
	Text      string     `json:"text"`
	CreatedAt time.Time  `json:"created_at"`
}

// DirectMessageResponse is a private message in API responses
type DirectMessageResponse struct {
	ID        uuid.UUID  `json:"id"`
	ThreadID  uuid.UUID  `json:"thread_id"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	Username  string     `json:"username,omitempty"`
	Text      string     `json:"text"`
	CreatedAt time.Time  `json:"created_at"`
}

// ThreadResponse is a private thread from the caller's perspective
type ThreadResponse struct {
	ID           uuid.UUID `json:"id"`
	PeerID       uuid.UUID `json:"peer_id"`
	PeerUsername string    `json:"peer_username,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ThreadDetailResponse adds the write/block state of a thread
type ThreadDetailResponse struct {
	ThreadResponse
	Blocked  bool `json:"blocked"`
	CanWrite bool `json:"can_write"`
}

// Outcome of trying to open a conversation with another user
const (
	StartChatThread    = "thread"    // an accepted thread is ready
	StartChatReadOnly  = "read_only" // a thread exists but writing needs a fresh accepted request
	StartChatRequested = "requested" // a request was created or was already pending
)

// StartChatResult tells the caller what opening a chat produced
type StartChatResult struct {
	Status    string     `json:"status"`
	ThreadID  *uuid.UUID `json:"thread_id,omitempty"`
	RequestID *uuid.UUID `json:"request_id,omitempty"`
}

// ChatRequestResponse is a pending request in API responses
type ChatRequestResponse struct {
	ID           uuid.UUID `json:"id"`
	PeerID       uuid.UUID `json:"peer_id"`
	PeerUsername string    `json:"peer_username,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// BlockedUserResponse is a block record in API responses
type BlockedUserResponse struct {
	BlockedID uuid.UUID `json:"blocked_id"`
	Username  string    `json:"username,omitempty"`
	BlockedAt time.Time `json:"blocked_at"`
}

func toChannelMessageResponse(msg *chat.ChannelMessage, usernames map[uuid.UUID]string) ChannelMessageResponse {
	response := ChannelMessageResponse{
		ID:        msg.ID,
		UserID:    msg.UserID,
		Text:      msg.Text,
		CreatedAt: msg.CreatedAt,
	}
	if msg.UserID != nil {
		response.Username = usernames[*msg.UserID]
	}
	return response
}

func toDirectMessageResponse(msg *chat.DirectMessage, usernames map[uuid.UUID]string) DirectMessageResponse {
	response := DirectMessageResponse{
		ID:        msg.ID,
		ThreadID:  msg.ThreadID,
		UserID:    msg.UserID,
		Text:      msg.Text,
		CreatedAt: msg.CreatedAt,
	}
	if msg.UserID != nil {
		response.Username = usernames[*msg.UserID]
	}
	return response
}
