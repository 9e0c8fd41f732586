package persistence

import (
	"context"
	"errors"

	"github.com/comercium/backend/internal/domain/catalog"
	"github.com/comercium/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GORM product repository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindActiveByID finds an active product by its ID
func (r *GormProductRepository) FindActiveByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	err := r.db.WithContext(ctx).Where("id = ? AND active = ?", id, true).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// Browse finds products matching the query and returns the total count
func (r *GormProductRepository) Browse(ctx context.Context, query catalog.ProductQuery) ([]catalog.Product, int64, error) {
	db := r.db.WithContext(ctx).Model(&catalog.Product{})

	if query.ActiveOnly {
		db = db.Where("active = ?", true)
	}
	if query.SellerID != nil {
		db = db.Where("seller_id = ?", *query.SellerID)
	}
	if len(query.Categories) > 0 {
		db = db.Where("category IN ?", query.Categories)
	}
	if query.Search != "" {
		normalized := catalog.NormalizeSearchText(query.Search)
		if normalized != "" {
			db = db.Where("search_text LIKE ?", "%"+normalized+"%")
		}
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch query.Order {
	case catalog.OrderOldest:
		db = db.Order("created_at ASC")
	case catalog.OrderPriceAsc:
		db = db.Order("price ASC").Order("created_at DESC")
	case catalog.OrderPriceDesc:
		db = db.Order("price DESC").Order("created_at DESC")
	default:
		db = db.Order("created_at DESC")
	}

	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	var products []catalog.Product
	err := db.Offset((page - 1) * pageSize).Limit(pageSize).Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// FindBySeller finds a seller's products, newest first, optionally
// restricted to active listings
func (r *GormProductRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID, activeOnly bool) ([]catalog.Product, error) {
	db := r.db.WithContext(ctx).Where("seller_id = ?", sellerID)
	if activeOnly {
		db = db.Where("active = ?", true)
	}
	var products []catalog.Product
	if err := db.Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindBySellers finds newest active products of the given sellers
func (r *GormProductRepository) FindBySellers(ctx context.Context, sellerIDs []uuid.UUID, limit int) ([]catalog.Product, error) {
	if len(sellerIDs) == 0 {
		return []catalog.Product{}, nil
	}
	var products []catalog.Product
	db := r.db.WithContext(ctx).
		Where("seller_id IN ? AND active = ?", sellerIDs, true).
		Order("created_at DESC")
	if limit > 0 {
		db = db.Limit(limit)
	}
	if err := db.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindByIDs finds multiple products by their IDs
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var products []catalog.Product
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// Delete deletes a product
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&catalog.Product{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormProductRepository implements catalog.ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)

// GormProductImageRepository implements catalog.ProductImageRepository using GORM
type GormProductImageRepository struct {
	db *gorm.DB
}

// NewGormProductImageRepository creates a new GORM product image repository
func NewGormProductImageRepository(db *gorm.DB) *GormProductImageRepository {
	return &GormProductImageRepository{db: db}
}

// FindByID finds an image by its ID
func (r *GormProductImageRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ProductImage, error) {
	var image catalog.ProductImage
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&image).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &image, nil
}

// FindByProduct lists a product's images ordered by (sort_order, created_at)
func (r *GormProductImageRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.ProductImage, error) {
	var images []catalog.ProductImage
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("sort_order ASC").Order("created_at ASC").
		Find(&images).Error
	if err != nil {
		return nil, err
	}
	return images, nil
}

// CountByProduct counts a product's additional images
func (r *GormProductImageRepository) CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&catalog.ProductImage{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count, err
}

// Save creates or updates an image record
func (r *GormProductImageRepository) Save(ctx context.Context, image *catalog.ProductImage) error {
	return r.db.WithContext(ctx).Save(image).Error
}

// Delete deletes an image record
func (r *GormProductImageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&catalog.ProductImage{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteByProduct removes all image records of a product
func (r *GormProductImageRepository) DeleteByProduct(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&catalog.ProductImage{}).Error
}

// Ensure GormProductImageRepository implements catalog.ProductImageRepository
var _ catalog.ProductImageRepository = (*GormProductImageRepository)(nil)
