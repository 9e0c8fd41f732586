package persistence

import (
	"context"
	"errors"

	"github.com/comercium/backend/internal/domain/market"
	"github.com/comercium/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements market.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*market.Order, error) {
	var order market.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByPreferenceID finds the order backing a gateway preference
func (r *GormOrderRepository) FindByPreferenceID(ctx context.Context, preferenceID string) (*market.Order, error) {
	var order market.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("preference_id = ?", preferenceID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByBuyer lists a buyer's orders, newest first
func (r *GormOrderRepository) FindByBuyer(ctx context.Context, buyerID uuid.UUID) ([]market.Order, error) {
	var orders []market.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// FindSalesBySeller lists a seller's sold lines, newest first
func (r *GormOrderRepository) FindSalesBySeller(ctx context.Context, sellerID uuid.UUID) ([]market.SaleLine, error) {
	var items []market.OrderItem
	err := r.db.WithContext(ctx).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.seller_id = ? AND orders.status = ?", sellerID, market.OrderStatusPaid).
		Order("orders.created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []market.SaleLine{}, nil
	}

	orderIDs := make([]uuid.UUID, 0, len(items))
	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, item := range items {
		if _, ok := seen[item.OrderID]; !ok {
			seen[item.OrderID] = struct{}{}
			orderIDs = append(orderIDs, item.OrderID)
		}
	}

	var orders []market.Order
	if err := r.db.WithContext(ctx).Where("id IN ?", orderIDs).Find(&orders).Error; err != nil {
		return nil, err
	}
	ordersByID := make(map[uuid.UUID]market.Order, len(orders))
	for _, order := range orders {
		ordersByID[order.ID] = order
	}

	lines := make([]market.SaleLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, market.SaleLine{Item: item, Order: ordersByID[item.OrderID]})
	}
	return lines, nil
}

// Save creates or updates an order with its items
func (r *GormOrderRepository) Save(ctx context.Context, order *market.Order) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(order).Error
}

// DeleteEmpty removes orders that have no items and returns how many
// were removed
func (r *GormOrderRepository) DeleteEmpty(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("NOT EXISTS (SELECT 1 FROM order_items WHERE order_items.order_id = orders.id)").
		Delete(&market.Order{})
	return result.RowsAffected, result.Error
}

// Ensure GormOrderRepository implements market.OrderRepository
var _ market.OrderRepository = (*GormOrderRepository)(nil)
