package market

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CartRepository defines the interface for cart persistence
type CartRepository interface {
	// FindByUser finds a user's cart with items and products preloaded
	FindByUser(ctx context.Context, userID uuid.UUID) (*Cart, error)

	// Save creates or updates a cart
	Save(ctx context.Context, cart *Cart) error

	// SaveItem creates or updates a single cart line
	SaveItem(ctx context.Context, item *CartItem) error

	// DeleteItem removes a single cart line
	DeleteItem(ctx context.Context, itemID uuid.UUID) error

	// DeleteItemsByProduct removes a product from every cart.
	// Used when a listing is deleted.
	DeleteItemsByProduct(ctx context.Context, productID uuid.UUID) (int64, error)

	// ClearItems removes every line of a cart
	ClearItems(ctx context.Context, cartID uuid.UUID) error

	// DeleteStale removes carts untouched since the cutoff and returns
	// how many were removed
	DeleteStale(ctx context.Context, cutoff time.Time) (int64, error)
}

// SaleLine is an order item joined with its order for seller views
type SaleLine struct {
	Item  OrderItem
	Order Order
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByPreferenceID finds the order backing a gateway preference
	FindByPreferenceID(ctx context.Context, preferenceID string) (*Order, error)

	// FindByBuyer lists a buyer's orders, newest first
	FindByBuyer(ctx context.Context, buyerID uuid.UUID) ([]Order, error)

	// FindSalesBySeller lists a seller's sold lines, newest first
	FindSalesBySeller(ctx context.Context, sellerID uuid.UUID) ([]SaleLine, error)

	// Save creates or updates an order with its items
	Save(ctx context.Context, order *Order) error

	// DeleteEmpty removes orders that have no items and returns how
	// many were removed
	DeleteEmpty(ctx context.Context) (int64, error)
}
