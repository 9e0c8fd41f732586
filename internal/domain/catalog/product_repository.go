package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductOrder is the supported listing sort order
type ProductOrder string

const (
	OrderRecent    ProductOrder = "recent"
	OrderOldest    ProductOrder = "oldest"
	OrderPriceAsc  ProductOrder = "price_asc"
	OrderPriceDesc ProductOrder = "price_desc"
)

// ProductQuery captures the listing browse parameters
type ProductQuery struct {
	Categories []Category
	Search     string
	Order      ProductOrder
	Page       int
	PageSize   int
	// SellerID restricts results to a single seller when non-nil
	SellerID *uuid.UUID
	// ActiveOnly keeps inactive listings out of public views
	ActiveOnly bool
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindActiveByID finds an active product by its ID
	FindActiveByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// Browse finds products matching the query and returns the total count
	Browse(ctx context.Context, query ProductQuery) ([]Product, int64, error)

	// FindBySeller finds a seller's products, newest first. activeOnly
	// limits the result to publicly visible listings; the seller's own
	// management view passes false to see deactivated ones too.
	FindBySeller(ctx context.Context, sellerID uuid.UUID, activeOnly bool) ([]Product, error)

	// FindBySellers finds newest active products of the given sellers
	FindBySellers(ctx context.Context, sellerIDs []uuid.UUID, limit int) ([]Product, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductImageRepository defines the interface for additional image persistence
type ProductImageRepository interface {
	// FindByID finds an image by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*ProductImage, error)

	// FindByProduct lists a product's images ordered by (sort_order, created_at)
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]ProductImage, error)

	// CountByProduct counts a product's additional images
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)

	// Save creates or updates an image record
	Save(ctx context.Context, image *ProductImage) error

	// Delete deletes an image record
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByProduct removes all image records of a product
	DeleteByProduct(ctx context.Context, productID uuid.UUID) error
}
