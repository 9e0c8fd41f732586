package market

import (
	"time"

	"github.com/comercium/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPaid    OrderStatus = "paid"
	OrderStatusFailed  OrderStatus = "failed"
)

// Order is an immutable snapshot of a completed checkout.
// It is created from a cart when a payment preference is requested.
type Order struct {
	shared.BaseAggregateRoot
	BuyerID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status        OrderStatus     `gorm:"type:varchar(20);not null;default:'pending';index"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentID     string          `gorm:"type:varchar(100);index"`
	PreferenceID  string          `gorm:"type:varchar(100);index"`
	PaymentStatus string          `gorm:"type:varchar(50)"`
	PaymentType   string          `gorm:"type:varchar(50)"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrderFromCart snapshots a cart into a pending order.
// Every cart line must have its product association loaded.
func NewOrderFromCart(cart *Cart) (*Order, error) {
	if cart.IsEmpty() {
		return nil, shared.NewDomainError("EMPTY_CART", "Cannot create an order from an empty cart")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BuyerID:           cart.UserID,
		Status:            OrderStatusPending,
		Total:             decimal.Zero,
		Items:             make([]OrderItem, 0, len(cart.Items)),
	}

	for i := range cart.Items {
		line := &cart.Items[i]
		if line.Product == nil {
			return nil, shared.NewDomainError("INVALID_CART", "Cart line is missing its product")
		}
		order.Items = append(order.Items, OrderItem{
			BaseEntity:   shared.NewBaseEntity(),
			OrderID:      order.ID,
			ProductID:    line.ProductID,
			SellerID:     line.Product.SellerID,
			ProductTitle: line.Product.Title,
			ProductPrice: line.Product.Price,
			Quantity:     line.Quantity,
		})
		order.Total = order.Total.Add(line.Subtotal())
	}

	return order, nil
}

// MarkPaid transitions a pending order to paid
func (o *Order) MarkPaid(paymentID, paymentStatus, paymentType string) error {
	if o.Status != OrderStatusPending {
		return shared.ErrInvalidState
	}
	o.Status = OrderStatusPaid
	o.PaymentID = paymentID
	o.PaymentStatus = paymentStatus
	o.PaymentType = paymentType
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderPaidEvent(o))

	return nil
}

// MarkFailed transitions a pending order to failed
func (o *Order) MarkFailed(paymentStatus string) error {
	if o.Status != OrderStatusPending {
		return shared.ErrInvalidState
	}
	o.Status = OrderStatusFailed
	o.PaymentStatus = paymentStatus
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// SetPreferenceID records the gateway preference backing this order
func (o *Order) SetPreferenceID(preferenceID string) {
	o.PreferenceID = preferenceID
	o.UpdatedAt = time.Now()
}

// SellerTotals returns the amount owed to each seller in this order
func (o *Order) SellerTotals() map[uuid.UUID]decimal.Decimal {
	totals := make(map[uuid.UUID]decimal.Decimal)
	for i := range o.Items {
		item := &o.Items[i]
		totals[item.SellerID] = totals[item.SellerID].Add(item.Subtotal())
	}
	return totals
}

// ItemsBySeller groups order items per seller
func (o *Order) ItemsBySeller() map[uuid.UUID][]OrderItem {
	grouped := make(map[uuid.UUID][]OrderItem)
	for _, item := range o.Items {
		grouped[item.SellerID] = append(grouped[item.SellerID], item)
	}
	return grouped
}

// OrderItem is a frozen line of an order. Product data is copied at
// checkout so later edits to the listing do not rewrite history.
type OrderItem struct {
	shared.BaseEntity
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	SellerID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductTitle string          `gorm:"type:varchar(200);not null"`
	ProductPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity     int             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// Subtotal is the frozen unit price times quantity
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.ProductPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
