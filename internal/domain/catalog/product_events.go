package catalog

import (
	"github.com/comercium/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types for the catalog context
const (
	EventTypeProductCreated  = "catalog.product.created"
	EventTypeProductUpdated  = "catalog.product.updated"
	EventTypeProductDeleted  = "catalog.product.deleted"
	EventTypeProductSoldOut  = "catalog.product.sold_out"
	EventTypeProductLowStock = "catalog.product.low_stock"
)

// ProductCreatedEvent is emitted when a listing is published
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	SellerID uuid.UUID       `json:"seller_id"`
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	Active   bool            `json:"active"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, "Product", p.ID),
		SellerID:        p.SellerID,
		Title:           p.Title,
		Price:           p.Price,
		Active:          p.Active,
	}
}

// ProductUpdatedEvent is emitted when a listing changes
type ProductUpdatedEvent struct {
	shared.BaseDomainEvent
	SellerID uuid.UUID `json:"seller_id"`
	Title    string    `json:"title"`
}

// NewProductUpdatedEvent creates a new ProductUpdatedEvent
func NewProductUpdatedEvent(p *Product) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductUpdated, "Product", p.ID),
		SellerID:        p.SellerID,
		Title:           p.Title,
	}
}

// ProductDeletedEvent is emitted when a listing is removed
type ProductDeletedEvent struct {
	shared.BaseDomainEvent
	SellerID uuid.UUID `json:"seller_id"`
	Title    string    `json:"title"`
}

// NewProductDeletedEvent creates a new ProductDeletedEvent
func NewProductDeletedEvent(p *Product) *ProductDeletedEvent {
	return &ProductDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductDeleted, "Product", p.ID),
		SellerID:        p.SellerID,
		Title:           p.Title,
	}
}

// ProductSoldOutEvent is emitted when stock reaches zero
type ProductSoldOutEvent struct {
	shared.BaseDomainEvent
	SellerID uuid.UUID `json:"seller_id"`
	Title    string    `json:"title"`
}

// NewProductSoldOutEvent creates a new ProductSoldOutEvent
func NewProductSoldOutEvent(p *Product) *ProductSoldOutEvent {
	return &ProductSoldOutEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductSoldOut, "Product", p.ID),
		SellerID:        p.SellerID,
		Title:           p.Title,
	}
}

// ProductLowStockEvent is emitted when stock drops to the alert threshold
type ProductLowStockEvent struct {
	shared.BaseDomainEvent
	SellerID uuid.UUID `json:"seller_id"`
	Title    string    `json:"title"`
	Stock    int       `json:"stock"`
}

// NewProductLowStockEvent creates a new ProductLowStockEvent
func NewProductLowStockEvent(p *Product) *ProductLowStockEvent {
	return &ProductLowStockEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductLowStock, "Product", p.ID),
		SellerID:        p.SellerID,
		Title:           p.Title,
		Stock:           p.Stock,
	}
}
