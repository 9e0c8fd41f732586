package catalog

import (
	"time"

	"github.com/comercium/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// MaxTitleLength is the maximum length of a product title
	MaxTitleLength = 200
	// MaxBrandLength is the maximum length of a product brand
	MaxBrandLength = 100
	// DefaultBrand is used when no brand is provided
	DefaultBrand = "Generico"
	// MaxAdditionalImages is the maximum number of extra images per product
	MaxAdditionalImages = 8
	// LowStockThreshold triggers a low-stock alert for the seller
	LowStockThreshold = 5
)

// Product represents a listing published by a seller.
// It is the aggregate root for listing-related operations.
type Product struct {
	shared.BaseAggregateRoot
	SellerID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_products_seller_created,priority:1"`
	Title       string          `gorm:"type:varchar(200);not null;index"`
	Category    Category        `gorm:"type:varchar(50);not null;index:idx_products_category_created,priority:1"`
	Description string          `gorm:"type:text;not null"`
	Brand       string          `gorm:"type:varchar(100);not null;default:'Generico';index"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Stock       int             `gorm:"not null;default:1"`
	ImageURL    string          `gorm:"type:varchar(500)"`
	Active      bool            `gorm:"not null;default:true;index:idx_products_active_created,priority:1"`
	// SearchText is a lowercased, accent-stripped concatenation of the
	// searchable fields, maintained on every write.
	SearchText string `gorm:"type:text;not null;index"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product listing
func NewProduct(sellerID uuid.UUID, title string, category Category, description string, price decimal.Decimal) (*Product, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if price.IsNegative() || price.IsZero() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price must be positive")
	}
	if category == "" {
		category = DefaultCategory
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Unknown category")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SellerID:          sellerID,
		Title:             title,
		Category:          category,
		Description:       description,
		Brand:             DefaultBrand,
		Price:             price,
		Stock:             1,
		Active:            true,
	}
	product.refreshSearchText()

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the listing's editable fields
func (p *Product) Update(title string, category Category, description, brand string, price decimal.Decimal) error {
	if err := validateTitle(title); err != nil {
		return err
	}
	if description == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if !category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", "Unknown category")
	}
	if price.IsNegative() || price.IsZero() {
		return shared.NewDomainError("INVALID_PRICE", "Price must be positive")
	}
	if brand == "" {
		brand = DefaultBrand
	}
	if len(brand) > MaxBrandLength {
		return shared.NewDomainError("INVALID_BRAND", "Brand cannot exceed 100 characters")
	}

	p.Title = title
	p.Category = category
	p.Description = description
	p.Brand = brand
	p.Price = price
	p.refreshSearchText()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetBrand replaces the brand, falling back to the default when empty
func (p *Product) SetBrand(brand string) error {
	if brand == "" {
		brand = DefaultBrand
	}
	if len(brand) > MaxBrandLength {
		return shared.NewDomainError("INVALID_BRAND", "Brand cannot exceed 100 characters")
	}
	p.Brand = brand
	p.refreshSearchText()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// SetImageURL sets the primary image URL
func (p *Product) SetImageURL(url string) {
	p.ImageURL = url
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetStock replaces the current stock level
func (p *Product) SetStock(stock int) error {
	if stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}
	p.Stock = stock
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// DecreaseStock deducts sold quantity and emits stock alerts.
// Returns ErrInsufficientStock when quantity exceeds the current stock.
func (p *Product) DecreaseStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity > p.Stock {
		return shared.ErrInsufficientStock
	}

	p.Stock -= quantity
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	if p.Stock == 0 {
		p.AddDomainEvent(NewProductSoldOutEvent(p))
	} else if p.Stock <= LowStockThreshold {
		p.AddDomainEvent(NewProductLowStockEvent(p))
	}

	return nil
}

// Deactivate hides the listing without deleting it
func (p *Product) Deactivate() {
	p.Active = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// Activate republishes the listing
func (p *Product) Activate() {
	p.Active = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// IsAvailable reports whether the listing can be added to a cart
func (p *Product) IsAvailable() bool {
	return p.Active && p.Stock > 0
}

func (p *Product) refreshSearchText() {
	p.SearchText = NormalizeSearchText(
		p.Title + " " + p.Description + " " + p.Brand + " " + string(p.Category) + " " + p.Category.DisplayName())
}

func validateTitle(title string) error {
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if len(title) > MaxTitleLength {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 200 characters")
	}
	return nil
}
