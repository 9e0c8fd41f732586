package market

import (
	"context"
	"errors"
	"time"

	"github.com/comercium/backend/internal/domain/catalog"
	"github.com/comercium/backend/internal/domain/market"
	"github.com/comercium/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CartService handles the per-user shopping cart
type CartService struct {
	cartRepo    market.CartRepository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(cartRepo market.CartRepository, productRepo catalog.ProductRepository, logger *zap.Logger) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// Get returns the caller's cart, creating it on first use
func (s *CartService) Get(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	cart, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToCartResponse(cart), nil
}

// AddItem puts a product in the cart. When the product is already in the
// cart, the requested quantity is added on top of the existing one. The
// combined quantity must not exceed the product's stock or the per-item cap.
func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*CartResponse, error) {
	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}

	product, err := s.productRepo.FindActiveByID(ctx, input.ProductID)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	if !product.IsAvailable() {
		return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product is not available")
	}

	cart, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	newQuantity := quantity
	existing := cart.ItemFor(product.ID)
	if existing != nil {
		newQuantity += existing.Quantity
	}
	if newQuantity > market.MaxQuantityPerItem {
		return nil, shared.NewDomainError("QUANTITY_CAP", "Quantity exceeds the per-item cap")
	}
	if newQuantity > product.Stock {
		return nil, shared.NewDomainError("INSUFFICIENT_STOCK", "Requested quantity exceeds available stock")
	}

	if existing != nil {
		if err := existing.SetQuantity(newQuantity); err != nil {
			return nil, err
		}
		if err := s.cartRepo.SaveItem(ctx, existing); err != nil {
			s.logger.Error("Failed to update cart line", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update cart")
		}
	} else {
		item, err := market.NewCartItem(cart.ID, product.ID, newQuantity)
		if err != nil {
			return nil, err
		}
		item.Product = product
		if err := s.cartRepo.SaveItem(ctx, item); err != nil {
			s.logger.Error("Failed to add cart line", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update cart")
		}
		cart.Items = append(cart.Items, *item)
	}

	cart.Touch()
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		s.logger.Error("Failed to touch cart", zap.Error(err))
	}

	s.logger.Info("Cart item added",
		zap.String("user_id", userID.String()),
		zap.String("product_id", product.ID.String()),
		zap.Int("quantity", newQuantity))

	return s.Get(ctx, userID)
}

// IncreaseItem bumps a cart line by one, bounded by stock and the cap
func (s *CartService) IncreaseItem(ctx context.Context, userID, productID uuid.UUID) (*CartResponse, error) {
	return s.changeQuantity(ctx, userID, productID, +1)
}

// DecreaseItem lowers a cart line by one. At quantity one the line is removed.
func (s *CartService) DecreaseItem(ctx context.Context, userID, productID uuid.UUID) (*CartResponse, error) {
	return s.changeQuantity(ctx, userID, productID, -1)
}

// RemoveItem drops a product from the cart entirely
func (s *CartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartResponse, error) {
	cart, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	item := cart.ItemFor(productID)
	if item == nil {
		return nil, shared.ErrNotFound
	}
	if err := s.cartRepo.DeleteItem(ctx, item.ID); err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update cart")
	}
	cart.Touch()
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		s.logger.Error("Failed to touch cart", zap.Error(err))
	}
	return s.Get(ctx, userID)
}

// ValidateForCheckout checks that every cart line can actually be bought
func (s *CartService) ValidateForCheckout(ctx context.Context, cart *market.Cart) error {
	if cart.IsEmpty() {
		return shared.NewDomainError("EMPTY_CART", "Cart is empty")
	}
	for i := range cart.Items {
		line := &cart.Items[i]
		if line.Product == nil || !line.Product.IsAvailable() {
			return shared.NewDomainError("PRODUCT_UNAVAILABLE", "A product in the cart is no longer available")
		}
		if line.Quantity > line.Product.Stock {
			return shared.NewDomainError("INSUFFICIENT_STOCK",
				"Not enough stock for \""+line.Product.Title+"\"")
		}
	}
	return nil
}

// CleanupStale deletes carts untouched for longer than the cutoff window.
// Runs from the housekeeping scheduler.
func (s *CartService) CleanupStale(ctx context.Context, staleAfter time.Duration) (int64, error) {
	cutoff := time.Now().Add(-staleAfter)
	removed, err := s.cartRepo.DeleteStale(ctx, cutoff)
	if err != nil {
		s.logger.Error("Failed to clean up stale carts", zap.Error(err))
		return 0, err
	}
	return removed, nil
}

func (s *CartService) changeQuantity(ctx context.Context, userID, productID uuid.UUID, delta int) (*CartResponse, error) {
	cart, err := s.getOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	item := cart.ItemFor(productID)
	if item == nil {
		return nil, shared.ErrNotFound
	}

	newQuantity := item.Quantity + delta
	if newQuantity <= 0 {
		if err := s.cartRepo.DeleteItem(ctx, item.ID); err != nil {
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update cart")
		}
	} else {
		if delta > 0 {
			product, err := s.productRepo.FindActiveByID(ctx, productID)
			if err != nil {
				return nil, shared.ErrNotFound
			}
			if newQuantity > product.Stock {
				return nil, shared.NewDomainError("INSUFFICIENT_STOCK", "Requested quantity exceeds available stock")
			}
		}
		if err := item.SetQuantity(newQuantity); err != nil {
			return nil, err
		}
		if err := s.cartRepo.SaveItem(ctx, item); err != nil {
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update cart")
		}
	}

	cart.Touch()
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		s.logger.Error("Failed to touch cart", zap.Error(err))
	}
	return s.Get(ctx, userID)
}

func (s *CartService) getOrCreate(ctx context.Context, userID uuid.UUID) (*market.Cart, error) {
	cart, err := s.cartRepo.FindByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to load cart", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load cart")
	}

	cart = market.NewCart(userID)
	if err := s.cartRepo.Save(ctx, cart); err != nil {
		s.logger.Error("Failed to create cart", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create cart")
	}
	return cart, nil
}
