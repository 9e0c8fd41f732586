package catalog

import (
	"context"

	"github.com/comercium/backend/internal/domain/catalog"
	"github.com/comercium/backend/internal/domain/market"
	"github.com/comercium/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductService handles listing operations
type ProductService struct {
	productRepo    catalog.ProductRepository
	imageRepo      catalog.ProductImageRepository
	cartRepo       market.CartRepository
	cache          ListCache
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(
	productRepo catalog.ProductRepository,
	imageRepo catalog.ProductImageRepository,
	cartRepo market.CartRepository,
	cache ListCache,
	logger *zap.Logger,
) *ProductService {
	if cache == nil {
		cache = NoOpListCache{}
	}
	return &ProductService{
		productRepo: productRepo,
		imageRepo:   imageRepo,
		cartRepo:    cartRepo,
		cache:       cache,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Browse returns one page of active listings matching the filters.
// Pages are cached for a few minutes and invalidated on any write.
func (s *ProductService) Browse(ctx context.Context, input BrowseInput) (*BrowseResult, error) {
	if input.Page < 1 {
		input.Page = 1
	}

	key := input.CacheKey()
	if cached, ok := s.cache.Get(ctx, key); ok {
		return cached, nil
	}

	categories := make([]catalog.Category, 0, len(input.Categories))
	for _, slug := range input.Categories {
		c := catalog.Category(slug)
		if !c.IsValid() {
			return nil, shared.NewDomainError("INVALID_CATEGORY", "Unknown category: "+slug)
		}
		categories = append(categories, c)
	}

	order := catalog.ProductOrder(input.Order)
	if order == "" {
		order = catalog.OrderRecent
	}

	products, total, err := s.productRepo.Browse(ctx, catalog.ProductQuery{
		Categories: categories,
		Search:     catalog.NormalizeSearchText(input.Search),
		Order:      order,
		Page:       input.Page,
		PageSize:   DefaultPageSize,
		ActiveOnly: true,
	})
	if err != nil {
		s.logger.Error("Failed to browse products", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list products")
	}

	totalPages := int((total + DefaultPageSize - 1) / DefaultPageSize)
	result := &BrowseResult{
		Products:   ToProductResponses(products),
		Total:      total,
		Page:       input.Page,
		PageSize:   DefaultPageSize,
		TotalPages: totalPages,
	}
	s.cache.Set(ctx, key, result)
	return result, nil
}

// Get returns an active listing with its additional images
func (s *ProductService) Get(ctx context.Context, productID uuid.UUID) (*ProductDetailResponse, error) {
	product, err := s.productRepo.FindActiveByID(ctx, productID)
	if err != nil {
		return nil, shared.ErrNotFound
	}

	images, err := s.imageRepo.FindByProduct(ctx, productID)
	if err != nil {
		s.logger.Error("Failed to load product images", zap.Error(err))
		images = nil
	}

	return &ProductDetailResponse{
		ProductResponse: ToProductResponse(product),
		Images:          toImageResponses(images),
	}, nil
}

// GetOwn returns a listing regardless of active state, for its seller
func (s *ProductService) GetOwn(ctx context.Context, sellerID, productID uuid.UUID) (*ProductDetailResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	if product.SellerID != sellerID {
		return nil, shared.ErrForbidden
	}

	images, err := s.imageRepo.FindByProduct(ctx, productID)
	if err != nil {
		images = nil
	}

	return &ProductDetailResponse{
		ProductResponse: ToProductResponse(product),
		Images:          toImageResponses(images),
	}, nil
}

// ListBySeller returns all of a seller's listings, newest first. This
// is the management view, so deactivated listings are included.
func (s *ProductService) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]ProductResponse, error) {
	products, err := s.productRepo.FindBySeller(ctx, sellerID, false)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list seller products")
	}
	return ToProductResponses(products), nil
}

// ListActiveBySeller returns a seller's publicly visible listings,
// newest first. Used by public profile pages.
func (s *ProductService) ListActiveBySeller(ctx context.Context, sellerID uuid.UUID) ([]ProductResponse, error) {
	products, err := s.productRepo.FindBySeller(ctx, sellerID, true)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list seller products")
	}
	return ToProductResponses(products), nil
}

// Create publishes a new listing for the seller
func (s *ProductService) Create(ctx context.Context, sellerID uuid.UUID, input CreateProductInput) (*ProductResponse, error) {
	product, err := catalog.NewProduct(sellerID, input.Title, catalog.Category(input.Category), input.Description, input.Price)
	if err != nil {
		return nil, err
	}

	if input.Brand != "" {
		if err := product.SetBrand(input.Brand); err != nil {
			return nil, err
		}
	}
	if input.Stock != nil {
		if err := product.SetStock(*input.Stock); err != nil {
			return nil, err
		}
	}
	if input.ImageURL != "" {
		product.SetImageURL(input.ImageURL)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		s.logger.Error("Failed to save product", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create product")
	}

	s.cache.Invalidate(ctx)
	s.publishDomainEvents(ctx, product)

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("seller_id", sellerID.String()),
		zap.String("title", product.Title))

	response := ToProductResponse(product)
	return &response, nil
}

// Update changes a listing. Only the seller may update it.
func (s *ProductService) Update(ctx context.Context, callerID, productID uuid.UUID, input UpdateProductInput) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	if product.SellerID != callerID {
		return nil, shared.ErrForbidden
	}

	if err := product.Update(input.Title, catalog.Category(input.Category), input.Description, input.Brand, input.Price); err != nil {
		return nil, err
	}
	if input.Stock != nil {
		if err := product.SetStock(*input.Stock); err != nil {
			return nil, err
		}
	}
	if input.ImageURL != "" {
		product.SetImageURL(input.ImageURL)
	}
	if input.Active != nil {
		if *input.Active {
			product.Activate()
		} else {
			product.Deactivate()
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		s.logger.Error("Failed to update product", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update product")
	}

	s.cache.Invalidate(ctx)
	s.publishDomainEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// Delete removes a listing. Allowed for the seller, or for staff as a
// moderation action. The product is pulled out of every cart and its
// image records are removed.
func (s *ProductService) Delete(ctx context.Context, callerID uuid.UUID, callerIsStaff bool, productID uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return shared.ErrNotFound
	}
	if product.SellerID != callerID && !callerIsStaff {
		return shared.ErrForbidden
	}

	removed, err := s.cartRepo.DeleteItemsByProduct(ctx, productID)
	if err != nil {
		s.logger.Error("Failed to remove product from carts", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete product")
	}
	if removed > 0 {
		s.logger.Info("Product removed from carts",
			zap.String("product_id", productID.String()),
			zap.Int64("cart_items", removed))
	}

	if err := s.imageRepo.DeleteByProduct(ctx, productID); err != nil {
		s.logger.Error("Failed to delete product images", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete product")
	}

	if err := s.productRepo.Delete(ctx, productID); err != nil {
		s.logger.Error("Failed to delete product", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete product")
	}

	s.cache.Invalidate(ctx)
	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, catalog.NewProductDeletedEvent(product))
	}

	s.logger.Info("Product deleted",
		zap.String("product_id", productID.String()),
		zap.String("deleted_by", callerID.String()),
		zap.Bool("moderation", product.SellerID != callerID))
	return nil
}

// AddImage attaches an additional image to a listing. Seller only,
// capped at the per-product maximum.
func (s *ProductService) AddImage(ctx context.Context, callerID, productID uuid.UUID, input AddImageInput) (*ProductImageResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	if product.SellerID != callerID {
		return nil, shared.ErrForbidden
	}

	count, err := s.imageRepo.CountByProduct(ctx, productID)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to add image")
	}
	if count >= catalog.MaxAdditionalImages {
		return nil, shared.NewDomainError("TOO_MANY_IMAGES", "A product can have at most 8 additional images")
	}

	image, err := catalog.NewProductImage(productID, input.URL, input.SortOrder)
	if err != nil {
		return nil, err
	}
	if err := s.imageRepo.Save(ctx, image); err != nil {
		s.logger.Error("Failed to save product image", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to add image")
	}

	return &ProductImageResponse{ID: image.ID, URL: image.URL, SortOrder: image.SortOrder}, nil
}

// RemoveImage detaches an additional image. Seller only.
func (s *ProductService) RemoveImage(ctx context.Context, callerID, imageID uuid.UUID) error {
	image, err := s.imageRepo.FindByID(ctx, imageID)
	if err != nil {
		return shared.ErrNotFound
	}
	product, err := s.productRepo.FindByID(ctx, image.ProductID)
	if err != nil {
		return shared.ErrNotFound
	}
	if product.SellerID != callerID {
		return shared.ErrForbidden
	}
	return s.imageRepo.Delete(ctx, imageID)
}

// Categories returns every category option
func (s *ProductService) Categories() []CategoryResponse {
	categories := catalog.AllCategories()
	responses := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		responses[i] = CategoryResponse{Slug: string(c), Display: c.DisplayName()}
	}
	return responses
}

func (s *ProductService) publishDomainEvents(ctx context.Context, product *catalog.Product) {
	if s.eventPublisher == nil {
		return
	}
	events := product.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	product.ClearDomainEvents()
}
