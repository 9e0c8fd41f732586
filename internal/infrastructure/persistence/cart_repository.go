package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/comercium/backend/internal/domain/market"
	"github.com/comercium/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCartRepository implements market.CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GORM cart repository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByUser finds a user's cart with items and products preloaded
func (r *GormCartRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*market.Cart, error) {
	var cart market.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.created_at ASC")
		}).
		Preload("Items.Product").
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &cart, nil
}

// Save creates or updates a cart. Items are persisted through SaveItem,
// not through the association.
func (r *GormCartRepository) Save(ctx context.Context, cart *market.Cart) error {
	return r.db.WithContext(ctx).Omit("Items").Save(cart).Error
}

// SaveItem creates or updates a single cart line
func (r *GormCartRepository) SaveItem(ctx context.Context, item *market.CartItem) error {
	return r.db.WithContext(ctx).Omit("Product").Save(item).Error
}

// DeleteItem removes a single cart line
func (r *GormCartRepository) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", itemID).Delete(&market.CartItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteItemsByProduct removes a product from every cart
func (r *GormCartRepository) DeleteItemsByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&market.CartItem{})
	return result.RowsAffected, result.Error
}

// ClearItems removes every line of a cart
func (r *GormCartRepository) ClearItems(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&market.CartItem{}).Error
}

// DeleteStale removes carts untouched since the cutoff and returns how
// many were removed. Lines go first so the FK constraint holds on
// databases without cascading deletes.
func (r *GormCartRepository) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("cart_id IN (?)", tx.Model(&market.Cart{}).Select("id").Where("updated_at < ?", cutoff)).
			Delete(&market.CartItem{}).Error; err != nil {
			return err
		}
		result := tx.Where("updated_at < ?", cutoff).Delete(&market.Cart{})
		if result.Error != nil {
			return result.Error
		}
		removed = result.RowsAffected
		return nil
	})
	return removed, err
}

// Ensure GormCartRepository implements market.CartRepository
var _ market.CartRepository = (*GormCartRepository)(nil)
