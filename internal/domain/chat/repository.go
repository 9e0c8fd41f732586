package chat

import (
	"context"

	"github.com/google/uuid"
)

// ChannelMessageRepository persists public room messages
type ChannelMessageRepository interface {
	// ListAfter lists messages with ID cursor semantics: messages newer
	// than afterID (zero UUID means from the beginning), oldest first,
	// capped at limit
	ListAfter(ctx context.Context, after *uuid.UUID, limit int) ([]ChannelMessage, error)

	// Save stores a message
	Save(ctx context.Context, msg *ChannelMessage) error
}

// ThreadRepository persists private threads
type ThreadRepository interface {
	// FindByID finds a thread
	FindByID(ctx context.Context, id uuid.UUID) (*DirectThread, error)

	// FindByPair finds the thread of a user pair (any order)
	FindByPair(ctx context.Context, a, b uuid.UUID) (*DirectThread, error)

	// FindForUser lists threads the user participates in, newest first
	FindForUser(ctx context.Context, userID uuid.UUID) ([]DirectThread, error)

	// Save stores a thread
	Save(ctx context.Context, thread *DirectThread) error
}

// DirectMessageRepository persists private messages
type DirectMessageRepository interface {
	// ListByThread lists thread messages after the cursor, oldest first
	ListByThread(ctx context.Context, threadID uuid.UUID, after *uuid.UUID, limit int) ([]DirectMessage, error)

	// Save stores a message
	Save(ctx context.Context, msg *DirectMessage) error
}

// BlockRepository persists block records
type BlockRepository interface {
	// Exists reports whether blocker has blocked blocked
	Exists(ctx context.Context, blockerID, blockedID uuid.UUID) (bool, error)

	// ExistsBetween reports whether a block exists in either direction
	ExistsBetween(ctx context.Context, a, b uuid.UUID) (bool, error)

	// FindByBlocker lists a user's blocks, newest first
	FindByBlocker(ctx context.Context, blockerID uuid.UUID) ([]BlockedUser, error)

	// Save stores a block record (idempotent on the pair)
	Save(ctx context.Context, block *BlockedUser) error

	// Delete removes a block record
	Delete(ctx context.Context, blockerID, blockedID uuid.UUID) error
}

// RequestRepository persists chat requests
type RequestRepository interface {
	// FindByID finds a request
	FindByID(ctx context.Context, id uuid.UUID) (*ChatRequest, error)

	// FindPending finds the pending request from requester to target
	FindPending(ctx context.Context, requesterID, targetID uuid.UUID) (*ChatRequest, error)

	// ListIncoming lists pending requests addressed to the user
	ListIncoming(ctx context.Context, targetID uuid.UUID) ([]ChatRequest, error)

	// ListOutgoing lists pending requests sent by the user
	ListOutgoing(ctx context.Context, requesterID uuid.UUID) ([]ChatRequest, error)

	// CountPending returns (incoming, outgoing) pending counts
	CountPending(ctx context.Context, userID uuid.UUID) (int64, int64, error)

	// HasAccepted reports whether an accepted request exists between
	// the pair in either direction
	HasAccepted(ctx context.Context, a, b uuid.UUID) (bool, error)

	// Save stores a request
	Save(ctx context.Context, request *ChatRequest) error

	// Delete removes a request
	Delete(ctx context.Context, id uuid.UUID) error

	// DeclineAllBetween declines every request between the pair,
	// pending and accepted. Used when one side blocks the other.
	DeclineAllBetween(ctx context.Context, a, b uuid.UUID) error

	// DeclineAcceptedBetween declines accepted requests between the
	// pair. Used on unblock so a fresh request is required.
	DeclineAcceptedBetween(ctx context.Context, a, b uuid.UUID) error
}
