package chat

import (
	"context"

	"github.com/google/uuid"
)

// Notifier delivers chat notifications. Failures are logged, never
// surfaced: messaging must not break because a notification could not
// be written.
type Notifier interface {
	// NotifyChatRequest tells target that requester wants to chat
	NotifyChatRequest(ctx context.Context, targetID, requesterID uuid.UUID, requesterName string) error

	// NotifyChatAccepted tells the requester that the target accepted
	NotifyChatAccepted(ctx context.Context, requesterID, accepterID uuid.UUID, accepterName string) error
}

// NoOpNotifier drops all notifications. Useful in tests.
type NoOpNotifier struct{}

func (NoOpNotifier) NotifyChatRequest(context.Context, uuid.UUID, uuid.UUID, string) error {
	return nil
}

func (NoOpNotifier) NotifyChatAccepted(context.Context, uuid.UUID, uuid.UUID, string) error {
	return nil
}
