package market

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Gateway payment statuses. Mirrors the gateway's vocabulary.
const (
	PaymentStatusApproved  = "approved"
	PaymentStatusPending   = "pending"
	PaymentStatusInProcess = "in_process"
	PaymentStatusRejected  = "rejected"
	PaymentStatusCancelled = "cancelled"
)

// Gateway errors
var (
	// ErrGatewayNotConfigured means the marketplace has no gateway credentials
	ErrGatewayNotConfigured = errors.New("payment gateway is not configured")
	// ErrGatewayRequest means the gateway rejected or failed the call
	ErrGatewayRequest = errors.New("payment gateway request failed")
)

// PreferenceItem is a purchasable line sent to the gateway
type PreferenceItem struct {
	Title     string
	Quantity  int
	UnitPrice decimal.Decimal
	Currency  string
}

// SellerSplit routes a share of the payment to a connected seller,
// minus the marketplace fee.
type SellerSplit struct {
	SellerID    uuid.UUID
	CollectorID string
	Amount      decimal.Decimal
	Fee         decimal.Decimal
}

// CreatePreferenceRequest asks the gateway for a hosted checkout session
type CreatePreferenceRequest struct {
	// ExternalReference ties the preference back to our order (order ID)
	ExternalReference string
	Items             []PreferenceItem
	SuccessURL        string
	FailureURL        string
	PendingURL        string
	NotificationURL   string
	Splits            []SellerSplit
}

// Preference is a created gateway checkout session
type Preference struct {
	ID               string
	InitPoint        string
	SandboxInitPoint string
}

// PaymentInfo is the gateway's record of a payment
type PaymentInfo struct {
	ID                string
	Status            string
	StatusDetail      string
	PaymentType       string
	ExternalReference string
	TransactionAmount decimal.Decimal
}

// PaymentGateway is the port to the external payment provider
type PaymentGateway interface {
	// CreatePreference creates a hosted checkout session
	CreatePreference(ctx context.Context, req *CreatePreferenceRequest) (*Preference, error)

	// GetPayment fetches a payment by its gateway ID
	GetPayment(ctx context.Context, paymentID string) (*PaymentInfo, error)
}
