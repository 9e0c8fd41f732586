package market

import (
	"time"

	"github.com/comercium/backend/internal/domain/market"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AddItemInput adds a product to the caller's cart
type AddItemInput struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"omitempty,min=1"`
}

// CartItemResponse is a cart line in API responses
type CartItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Title     string          `json:"title"`
	ImageURL  string          `json:"image_url,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Available bool            `json:"available"`
	Stock     int             `json:"stock"`
}

// CartResponse is the caller's cart in API responses
type CartResponse struct {
	ID        uuid.UUID          `json:"id"`
	Items     []CartItemResponse `json:"items"`
	Total     decimal.Decimal    `json:"total"`
	ItemCount int                `json:"item_count"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// CheckoutResult is returned when a payment preference is created
type CheckoutResult struct {
	OrderID      uuid.UUID `json:"order_id"`
	PreferenceID string    `json:"preference_id"`
	InitPoint    string    `json:"init_point"`
}

// PaymentNotificationInput is the gateway webhook payload we care about
type PaymentNotificationInput struct {
	Type      string `json:"type"`
	PaymentID string `json:"payment_id"`
}

// OrderItemResponse is a frozen order line in API responses
type OrderItemResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	SellerID  uuid.UUID       `json:"seller_id"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderResponse is a buyer's order in API responses
type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	Status        string              `json:"status"`
	Total         decimal.Decimal     `json:"total"`
	PaymentStatus string              `json:"payment_status,omitempty"`
	PaymentType   string              `json:"payment_type,omitempty"`
	Items         []OrderItemResponse `json:"items"`
	CreatedAt     time.Time           `json:"created_at"`
}

// SaleResponse is one sold line from the seller's perspective
type SaleResponse struct {
	OrderID   uuid.UUID       `json:"order_id"`
	BuyerID   uuid.UUID       `json:"buyer_id"`
	ProductID uuid.UUID       `json:"product_id"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	SoldAt    time.Time       `json:"sold_at"`
}

// ToCartResponse converts a cart with loaded products
func ToCartResponse(cart *market.Cart) *CartResponse {
	items := make([]CartItemResponse, 0, len(cart.Items))
	for i := range cart.Items {
		line := &cart.Items[i]
		item := CartItemResponse{
			ID:        line.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Subtotal:  line.Subtotal(),
		}
		if line.Product != nil {
			item.Title = line.Product.Title
			item.ImageURL = line.Product.ImageURL
			item.UnitPrice = line.Product.Price
			item.Available = line.Product.IsAvailable()
			item.Stock = line.Product.Stock
		}
		items = append(items, item)
	}
	return &CartResponse{
		ID:        cart.ID,
		Items:     items,
		Total:     cart.Total(),
		ItemCount: len(items),
		UpdatedAt: cart.UpdatedAt,
	}
}

// ToOrderResponse converts an order with its items
func ToOrderResponse(order *market.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		items = append(items, OrderItemResponse{
			ProductID: item.ProductID,
			SellerID:  item.SellerID,
			Title:     item.ProductTitle,
			UnitPrice: item.ProductPrice,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal(),
		})
	}
	return OrderResponse{
		ID:            order.ID,
		Status:        string(order.Status),
		Total:         order.Total,
		PaymentStatus: order.PaymentStatus,
		PaymentType:   order.PaymentType,
		Items:         items,
		CreatedAt:     order.CreatedAt,
	}
}

// ToSaleResponses converts seller sale lines
func ToSaleResponses(lines []market.SaleLine) []SaleResponse {
	sales := make([]SaleResponse, 0, len(lines))
	for i := range lines {
		line := &lines[i]
		sales = append(sales, SaleResponse{
			OrderID:   line.Order.ID,
			BuyerID:   line.Order.BuyerID,
			ProductID: line.Item.ProductID,
			Title:     line.Item.ProductTitle,
			UnitPrice: line.Item.ProductPrice,
			Quantity:  line.Item.Quantity,
			Subtotal:  line.Item.Subtotal(),
			SoldAt:    line.Order.UpdatedAt,
		})
	}
	return sales
}
