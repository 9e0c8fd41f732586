package catalog

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/comercium/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultPageSize is the number of listings per browse page
const DefaultPageSize = 50

// BrowseInput captures the listing browse parameters from the query string
type BrowseInput struct {
	Categories []string `form:"category"`
	Search     string   `form:"q"`
	Order      string   `form:"order" binding:"omitempty,oneof=recent oldest price_asc price_desc"`
	Page       int      `form:"page" binding:"omitempty,min=1"`
}

// CacheKey builds a stable redis key for this browse query
func (in BrowseInput) CacheKey() string {
	cats := append([]string(nil), in.Categories...)
	sort.Strings(cats)

	var b strings.Builder
	b.WriteString("products:list:")
	b.WriteString(strings.Join(cats, ","))
	b.WriteString("|q=")
	b.WriteString(catalog.NormalizeSearchText(in.Search))
	b.WriteString("|o=")
	b.WriteString(in.Order)
	b.WriteString("|p=")
	b.WriteString(strconv.Itoa(in.Page))
	return b.String()
}

// ProductResponse is a listing in API responses
type ProductResponse struct {
	ID              uuid.UUID       `json:"id"`
	SellerID        uuid.UUID       `json:"seller_id"`
	Title           string          `json:"title"`
	Category        string          `json:"category"`
	CategoryDisplay string          `json:"category_display"`
	Description     string          `json:"description"`
	Brand           string          `json:"brand"`
	Price           decimal.Decimal `json:"price"`
	Stock           int             `json:"stock"`
	ImageURL        string          `json:"image_url,omitempty"`
	Available       bool            `json:"available"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ProductDetailResponse is a listing with its additional images
type ProductDetailResponse struct {
	ProductResponse
	Images []ProductImageResponse `json:"images"`
}

// ProductImageResponse is an additional image in API responses
type ProductImageResponse struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url"`
	SortOrder int       `json:"sort_order"`
}

// BrowseResult is one page of listings
type BrowseResult struct {
	Products   []ProductResponse `json:"products"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// CreateProductInput contains the data for a new listing
type CreateProductInput struct {
	Title       string          `json:"title" binding:"required,max=200"`
	Category    string          `json:"category"`
	Description string          `json:"description" binding:"required"`
	Brand       string          `json:"brand" binding:"max=100"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Stock       *int            `json:"stock" binding:"omitempty,min=0"`
	ImageURL    string          `json:"image_url" binding:"omitempty,url,max=500"`
}

// UpdateProductInput contains the editable listing fields
type UpdateProductInput struct {
	Title       string          `json:"title" binding:"required,max=200"`
	Category    string          `json:"category" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Brand       string          `json:"brand" binding:"max=100"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Stock       *int            `json:"stock" binding:"omitempty,min=0"`
	ImageURL    string          `json:"image_url" binding:"omitempty,url,max=500"`
	Active      *bool           `json:"active"`
}

// AddImageInput contains a new additional image
type AddImageInput struct {
	URL       string `json:"url" binding:"required,url,max=500"`
	SortOrder int    `json:"sort_order" binding:"min=0"`
}

// CategoryResponse is a category option for pickers
type CategoryResponse struct {
	Slug    string `json:"slug"`
	Display string `json:"display"`
}

// ToProductResponse converts a product entity into its API representation
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:              p.ID,
		SellerID:        p.SellerID,
		Title:           p.Title,
		Category:        string(p.Category),
		CategoryDisplay: p.Category.DisplayName(),
		Description:     p.Description,
		Brand:           p.Brand,
		Price:           p.Price,
		Stock:           p.Stock,
		ImageURL:        p.ImageURL,
		Available:       p.IsAvailable(),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}

func toImageResponses(images []catalog.ProductImage) []ProductImageResponse {
	responses := make([]ProductImageResponse, len(images))
	for i, img := range images {
		responses[i] = ProductImageResponse{
			ID:        img.ID,
			URL:       img.URL,
			SortOrder: img.SortOrder,
		}
	}
	return responses
}
