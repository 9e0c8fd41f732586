package market

import (
	"github.com/comercium/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types for the market context
const (
	EventTypeOrderPaid = "market.order.paid"
)

// OrderPaidEvent is emitted when a payment is confirmed for an order
type OrderPaidEvent struct {
	shared.BaseDomainEvent
	BuyerID      uuid.UUID                   `json:"buyer_id"`
	Total        decimal.Decimal             `json:"total"`
	SellerTotals map[uuid.UUID]decimal.Decimal `json:"seller_totals"`
}

// NewOrderPaidEvent creates a new OrderPaidEvent
func NewOrderPaidEvent(o *Order) *OrderPaidEvent {
	return &OrderPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPaid, "Order", o.ID),
		BuyerID:         o.BuyerID,
		Total:           o.Total,
		SellerTotals:    o.SellerTotals(),
	}
}
