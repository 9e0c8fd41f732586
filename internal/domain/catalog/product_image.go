package catalog

import (
	"time"

	"github.com/comercium/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductImage is an additional image attached to a product listing.
// The primary thumbnail lives on the Product itself.
type ProductImage struct {
	shared.BaseEntity
	ProductID uuid.UUID `gorm:"type:uuid;not null;index:idx_product_images_order,priority:1"`
	URL       string    `gorm:"type:varchar(500);not null"`
	SortOrder int       `gorm:"not null;default:0;index:idx_product_images_order,priority:2"`
}

// TableName returns the table name for GORM
func (ProductImage) TableName() string {
	return "product_images"
}

// NewProductImage creates an additional image record for a product
func NewProductImage(productID uuid.UUID, url string, sortOrder int) (*ProductImage, error) {
	if url == "" {
		return nil, shared.NewDomainError("INVALID_IMAGE", "Image URL cannot be empty")
	}
	if sortOrder < 0 {
		return nil, shared.NewDomainError("INVALID_IMAGE", "Sort order cannot be negative")
	}
	return &ProductImage{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		URL:        url,
		SortOrder:  sortOrder,
	}, nil
}

// UploadedAt is the creation timestamp, kept for image ordering ties
func (i *ProductImage) UploadedAt() time.Time {
	return i.CreatedAt
}
