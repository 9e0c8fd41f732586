package social

import (
	"context"

	"github.com/comercium/backend/internal/domain/catalog"
	"github.com/comercium/backend/internal/domain/identity"
	"github.com/comercium/backend/internal/domain/market"
	"github.com/comercium/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductEventHandler turns catalog events into notifications:
// new listings fan out to the seller's followers, stock alerts go to
// the seller.
type ProductEventHandler struct {
	notificationService *NotificationService
	userRepo            identity.UserRepository
	logger              *zap.Logger
}

// NewProductEventHandler creates a new product event handler
func NewProductEventHandler(
	notificationService *NotificationService,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *ProductEventHandler {
	return &ProductEventHandler{
		notificationService: notificationService,
		userRepo:            userRepo,
		logger:              logger,
	}
}

// EventTypes returns the catalog events this handler consumes
func (h *ProductEventHandler) EventTypes() []string {
	return []string{
		catalog.EventTypeProductCreated,
		catalog.EventTypeProductSoldOut,
		catalog.EventTypeProductLowStock,
	}
}

// Handle processes a catalog event
func (h *ProductEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *catalog.ProductCreatedEvent:
		if !e.Active {
			return nil
		}
		seller, err := h.userRepo.FindByID(ctx, e.SellerID)
		if err != nil {
			h.logger.Warn("Product created by unknown seller",
				zap.String("seller_id", e.SellerID.String()))
			return nil
		}
		return h.notificationService.NotifyNewProduct(ctx, e.SellerID, seller.Username, e.AggregateID(), e.Title)

	case *catalog.ProductSoldOutEvent:
		return h.notificationService.NotifySoldOut(ctx, e.SellerID, e.AggregateID(), e.Title)

	case *catalog.ProductLowStockEvent:
		return h.notificationService.NotifyLowStock(ctx, e.SellerID, e.AggregateID(), e.Title, e.Stock)
	}
	return nil
}

// OrderEventHandler turns paid orders into per-seller sale notifications
type OrderEventHandler struct {
	notificationService *NotificationService
	orderRepo           market.OrderRepository
	logger              *zap.Logger
}

// NewOrderEventHandler creates a new order event handler
func NewOrderEventHandler(
	notificationService *NotificationService,
	orderRepo market.OrderRepository,
	logger *zap.Logger,
) *OrderEventHandler {
	return &OrderEventHandler{
		notificationService: notificationService,
		orderRepo:           orderRepo,
		logger:              logger,
	}
}

// EventTypes returns the market events this handler consumes
func (h *OrderEventHandler) EventTypes() []string {
	return []string{market.EventTypeOrderPaid}
}

// Handle notifies each seller involved in a paid order once, with
// their item count and their share of the total.
func (h *OrderEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	paid, ok := event.(*market.OrderPaidEvent)
	if !ok {
		return nil
	}

	order, err := h.orderRepo.FindByID(ctx, paid.AggregateID())
	if err != nil {
		h.logger.Error("Paid order not found for sale notifications",
			zap.String("order_id", paid.AggregateID().String()),
			zap.Error(err))
		return err
	}

	totals := order.SellerTotals()
	for sellerID, items := range order.ItemsBySeller() {
		itemCount := 0
		for i := range items {
			itemCount += items[i].Quantity
		}
		if err := h.notificationService.NotifySale(ctx, sellerID, order.ID, itemCount, totals[sellerID]); err != nil {
			h.logger.Warn("Failed to notify sale",
				zap.String("seller_id", sellerID.String()),
				zap.Error(err))
		}
	}
	return nil
}
