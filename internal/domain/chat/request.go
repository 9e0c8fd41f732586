package chat

import (
	"time"

	"github.com/comercium/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RequestStatus is the state of a chat request
type RequestStatus string

const (
	RequestStatusRequested RequestStatus = "requested"
	RequestStatusAccepted  RequestStatus = "accepted"
	RequestStatusDeclined  RequestStatus = "declined"
)

// ChatRequest asks another user to open a private thread.
//
// requester sends to target (requested); target accepts (accepted, the
// thread is created) or declines (declined). At most one pending
// request may exist per (requester, target) pair.
type ChatRequest struct {
	shared.BaseEntity
	RequesterID uuid.UUID     `gorm:"type:uuid;not null;index"`
	TargetID    uuid.UUID     `gorm:"type:uuid;not null;index"`
	Status      RequestStatus `gorm:"type:varchar(20);not null;default:'requested';index"`
	RespondedAt *time.Time
}

// TableName returns the table name for GORM
func (ChatRequest) TableName() string {
	return "chat_requests"
}

// NewChatRequest creates a pending request
func NewChatRequest(requesterID, targetID uuid.UUID) (*ChatRequest, error) {
	if requesterID == targetID {
		return nil, shared.ErrSelfTarget
	}
	return &ChatRequest{
		BaseEntity:  shared.NewBaseEntity(),
		RequesterID: requesterID,
		TargetID:    targetID,
		Status:      RequestStatusRequested,
	}, nil
}

// IsPending reports whether the request is still awaiting a response
func (r *ChatRequest) IsPending() bool {
	return r.Status == RequestStatusRequested
}

// Accept transitions the request to accepted. No-op unless pending.
func (r *ChatRequest) Accept() {
	if r.Status != RequestStatusRequested {
		return
	}
	now := time.Now()
	r.Status = RequestStatusAccepted
	r.RespondedAt = &now
	r.UpdatedAt = now
}

// Decline transitions the request to declined. No-op unless pending.
func (r *ChatRequest) Decline() {
	if r.Status != RequestStatusRequested {
		return
	}
	now := time.Now()
	r.Status = RequestStatusDeclined
	r.RespondedAt = &now
	r.UpdatedAt = now
}
