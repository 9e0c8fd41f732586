package chat

import (
	"strings"

	"github.com/comercium/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	// MaxMessageLength caps chat message bodies
	MaxMessageLength = 1000
	// DefaultPageSize is the default number of messages per fetch
	DefaultPageSize = 50
	// MaxPageSize is the hard cap on messages per fetch
	MaxPageSize = 100
)

// ChannelMessage is a message in the public chat room.
// The sender reference is nullable so messages survive account deletion.
type ChannelMessage struct {
	shared.BaseEntity
	UserID *uuid.UUID `gorm:"type:uuid;index"`
	Text   string     `gorm:"type:varchar(1000);not null"`
}

// TableName returns the table name for GORM
func (ChannelMessage) TableName() string {
	return "channel_messages"
}

// NewChannelMessage creates a public chat message
func NewChannelMessage(userID uuid.UUID, text string) (*ChannelMessage, error) {
	text, err := validateMessageText(text)
	if err != nil {
		return nil, err
	}
	return &ChannelMessage{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     &userID,
		Text:       text,
	}, nil
}

// DirectThread is a private conversation between two users.
// The pair is stored in canonical order (smaller UUID first) so the
// unique constraint catches duplicates regardless of who started it.
type DirectThread struct {
	shared.BaseEntity
	User1ID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_direct_threads_pair,priority:1"`
	User2ID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_direct_threads_pair,priority:2"`
}

// TableName returns the table name for GORM
func (DirectThread) TableName() string {
	return "direct_threads"
}

// CanonicalPair orders two user IDs deterministically
func CanonicalPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if strings.Compare(a.String(), b.String()) > 0 {
		return b, a
	}
	return a, b
}

// NewDirectThread creates a thread for a user pair
func NewDirectThread(a, b uuid.UUID) (*DirectThread, error) {
	if a == b {
		return nil, shared.ErrSelfTarget
	}
	u1, u2 := CanonicalPair(a, b)
	return &DirectThread{
		BaseEntity: shared.NewBaseEntity(),
		User1ID:    u1,
		User2ID:    u2,
	}, nil
}

// HasParticipant reports whether the user belongs to this thread
func (t *DirectThread) HasParticipant(userID uuid.UUID) bool {
	return t.User1ID == userID || t.User2ID == userID
}

// OtherParticipant returns the peer of the given user
func (t *DirectThread) OtherParticipant(userID uuid.UUID) uuid.UUID {
	if t.User1ID == userID {
		return t.User2ID
	}
	return t.User1ID
}

// DirectMessage is a message inside a private thread
type DirectMessage struct {
	shared.BaseEntity
	ThreadID uuid.UUID  `gorm:"type:uuid;not null;index"`
	UserID   *uuid.UUID `gorm:"type:uuid;index"`
	Text     string     `gorm:"type:varchar(1000);not null"`
}

// TableName returns the table name for GORM
func (DirectMessage) TableName() string {
	return "direct_messages"
}

// NewDirectMessage creates a private message
func NewDirectMessage(threadID, userID uuid.UUID, text string) (*DirectMessage, error) {
	text, err := validateMessageText(text)
	if err != nil {
		return nil, err
	}
	return &DirectMessage{
		BaseEntity: shared.NewBaseEntity(),
		ThreadID:   threadID,
		UserID:     &userID,
		Text:       text,
	}, nil
}

func validateMessageText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", shared.NewDomainError("EMPTY_MESSAGE", "Message cannot be empty")
	}
	if len(text) > MaxMessageLength {
		return "", shared.NewDomainError("MESSAGE_TOO_LONG", "Message exceeds the maximum length")
	}
	return text, nil
}
