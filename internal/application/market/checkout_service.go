package market

import (
	"context"
	"errors"

	"github.com/comercium/backend/internal/domain/identity"
	"github.com/comercium/backend/internal/domain/market"
	"github.com/comercium/backend/internal/domain/shared"
	"github.com/comercium/backend/internal/domain/shared/valueobject"
	"github.com/comercium/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CheckoutConfig carries the marketplace payment settings
type CheckoutConfig struct {
	// MarketplaceFeePercent is the cut kept from each connected seller's share
	MarketplaceFeePercent float64
	Currency              string
	SuccessURL            string
	FailureURL            string
	PendingURL            string
	NotificationURL       string
}

// CheckoutService turns carts into orders and settles gateway payments
type CheckoutService struct {
	txScope        TransactionScope
	orderRepo      market.OrderRepository
	cartService    *CartService
	profileRepo    identity.ProfileRepository
	gateway        market.PaymentGateway
	config         CheckoutConfig
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	txScope TransactionScope,
	orderRepo market.OrderRepository,
	cartService *CartService,
	profileRepo identity.ProfileRepository,
	gateway market.PaymentGateway,
	config CheckoutConfig,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		txScope:     txScope,
		orderRepo:   orderRepo,
		cartService: cartService,
		profileRepo: profileRepo,
		gateway:     gateway,
		config:      config,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for order events
func (s *CheckoutService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreatePreference snapshots the buyer's cart into a pending order and
// opens a hosted checkout session at the gateway. The cart itself is
// kept until the payment is confirmed.
func (s *CheckoutService) CreatePreference(ctx context.Context, buyerID uuid.UUID) (*CheckoutResult, error) {
	if s.gateway == nil {
		return nil, market.ErrGatewayNotConfigured
	}

	ctx, span := telemetry.StartSpan(ctx, "checkout.create_preference",
		telemetry.WithAttribute("buyer_id", buyerID))
	defer span.End()

	cart, err := s.cartService.getOrCreate(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if err := s.cartService.ValidateForCheckout(ctx, cart); err != nil {
		return nil, err
	}

	order, err := market.NewOrderFromCart(cart)
	if err != nil {
		return nil, err
	}

	splits, err := s.buildSellerSplits(ctx, order)
	if err != nil {
		return nil, err
	}

	if err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		return repos.OrderRepo().Save(ctx, order)
	}); err != nil {
		s.logger.Error("Failed to save order", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create order")
	}

	items := make([]market.PreferenceItem, 0, len(order.Items))
	for i := range order.Items {
		item := &order.Items[i]
		items = append(items, market.PreferenceItem{
			Title:     item.ProductTitle,
			Quantity:  item.Quantity,
			UnitPrice: item.ProductPrice,
			Currency:  s.config.Currency,
		})
	}

	preference, err := s.gateway.CreatePreference(ctx, &market.CreatePreferenceRequest{
		ExternalReference: order.ID.String(),
		Items:             items,
		SuccessURL:        s.config.SuccessURL,
		FailureURL:        s.config.FailureURL,
		PendingURL:        s.config.PendingURL,
		NotificationURL:   s.config.NotificationURL,
		Splits:            splits,
	})
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Gateway preference creation failed",
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
		return nil, err
	}

	order.SetPreferenceID(preference.ID)
	if err := s.orderRepo.Save(ctx, order); err != nil {
		s.logger.Error("Failed to record preference on order", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create order")
	}

	s.logger.Info("Checkout preference created",
		zap.String("order_id", order.ID.String()),
		zap.String("preference_id", preference.ID),
		zap.String("total", order.Total.String()))

	return &CheckoutResult{
		OrderID:      order.ID,
		PreferenceID: preference.ID,
		InitPoint:    preference.InitPoint,
	}, nil
}

// HandlePaymentNotification processes a gateway webhook. Approved
// payments settle the order: stock is deducted, the purchased lines
// leave the buyer's cart and the order is marked paid. The handler is
// idempotent; a replayed notification for a settled order is a no-op.
func (s *CheckoutService) HandlePaymentNotification(ctx context.Context, input PaymentNotificationInput) error {
	if input.Type != "payment" || input.PaymentID == "" {
		return nil
	}
	if s.gateway == nil {
		return market.ErrGatewayNotConfigured
	}

	ctx, span := telemetry.StartSpan(ctx, "checkout.payment_notification",
		telemetry.WithAttribute("payment_id", input.PaymentID))
	defer span.End()

	payment, err := s.gateway.GetPayment(ctx, input.PaymentID)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to fetch payment from gateway",
			zap.String("payment_id", input.PaymentID),
			zap.Error(err))
		return err
	}

	orderID, err := uuid.Parse(payment.ExternalReference)
	if err != nil {
		s.logger.Warn("Payment notification with unknown external reference",
			zap.String("payment_id", payment.ID),
			zap.String("external_reference", payment.ExternalReference))
		return nil
	}

	switch payment.Status {
	case market.PaymentStatusApproved:
		return s.settleOrder(ctx, orderID, payment)
	case market.PaymentStatusRejected, market.PaymentStatusCancelled:
		return s.failOrder(ctx, orderID, payment)
	default:
		s.logger.Info("Payment still in progress",
			zap.String("order_id", orderID.String()),
			zap.String("status", payment.Status))
		return nil
	}
}

// ListPurchases returns the buyer's orders, newest first
func (s *CheckoutService) ListPurchases(ctx context.Context, buyerID uuid.UUID) ([]OrderResponse, error) {
	orders, err := s.orderRepo.FindByBuyer(ctx, buyerID)
	if err != nil {
		s.logger.Error("Failed to list purchases", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list purchases")
	}
	responses := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, ToOrderResponse(&orders[i]))
	}
	return responses, nil
}

// ListSales returns the lines sold by a seller, newest first
func (s *CheckoutService) ListSales(ctx context.Context, sellerID uuid.UUID) ([]SaleResponse, error) {
	lines, err := s.orderRepo.FindSalesBySeller(ctx, sellerID)
	if err != nil {
		s.logger.Error("Failed to list sales", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list sales")
	}
	return ToSaleResponses(lines), nil
}

// buildSellerSplits computes the per-seller payment routing. Only sellers
// with a linked gateway account get a split; the rest of the money stays
// on the marketplace account for manual settlement.
func (s *CheckoutService) buildSellerSplits(ctx context.Context, order *market.Order) ([]market.SellerSplit, error) {
	totals := order.SellerTotals()
	sellerIDs := make([]uuid.UUID, 0, len(totals))
	for sellerID := range totals {
		sellerIDs = append(sellerIDs, sellerID)
	}

	profiles, err := s.profileRepo.FindByUsers(ctx, sellerIDs)
	if err != nil {
		s.logger.Error("Failed to load seller profiles", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to prepare checkout")
	}

	feePercent := decimal.NewFromFloat(s.config.MarketplaceFeePercent)
	splits := make([]market.SellerSplit, 0, len(profiles))
	for _, profile := range profiles {
		if !profile.IsGatewayConnected() {
			continue
		}
		amount := totals[profile.UserID]
		fee := valueobject.NewMoneyARS(amount).Percentage(feePercent)
		splits = append(splits, market.SellerSplit{
			SellerID:    profile.UserID,
			CollectorID: profile.GatewayCollectorID,
			Amount:      amount,
			Fee:         fee.Amount(),
		})
	}
	return splits, nil
}

func (s *CheckoutService) settleOrder(ctx context.Context, orderID uuid.UUID, payment *market.PaymentInfo) error {
	var events []shared.DomainEvent

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		if err := order.MarkPaid(payment.ID, payment.Status, payment.PaymentType); err != nil {
			if errors.Is(err, shared.ErrInvalidState) {
				// already settled by an earlier notification
				return nil
			}
			return err
		}
		if err := repos.OrderRepo().Save(ctx, order); err != nil {
			return err
		}

		for i := range order.Items {
			item := &order.Items[i]
			product, err := repos.ProductRepo().FindByID(ctx, item.ProductID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					continue
				}
				return err
			}
			if err := product.DecreaseStock(item.Quantity); err != nil {
				if !errors.Is(err, shared.ErrInsufficientStock) {
					return err
				}
				// oversold between checkout and payment
				if err := product.SetStock(0); err != nil {
					return err
				}
			}
			if err := repos.ProductRepo().Save(ctx, product); err != nil {
				return err
			}
			events = append(events, product.GetDomainEvents()...)
			product.ClearDomainEvents()
		}

		if err := s.clearPurchasedLines(ctx, repos.CartRepo(), order); err != nil {
			return err
		}

		events = append(events, order.GetDomainEvents()...)
		order.ClearDomainEvents()
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to settle order",
			zap.String("order_id", orderID.String()),
			zap.Error(err))
		return err
	}

	if s.eventPublisher != nil && len(events) > 0 {
		if err := s.eventPublisher.Publish(ctx, events...); err != nil {
			s.logger.Warn("Failed to publish order events", zap.Error(err))
		}
	}

	s.logger.Info("Order settled",
		zap.String("order_id", orderID.String()),
		zap.String("payment_id", payment.ID))
	return nil
}

func (s *CheckoutService) failOrder(ctx context.Context, orderID uuid.UUID, payment *market.PaymentInfo) error {
	return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.OrderRepo().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := order.MarkFailed(payment.Status); err != nil {
			if errors.Is(err, shared.ErrInvalidState) {
				return nil
			}
			return err
		}
		s.logger.Info("Order payment failed",
			zap.String("order_id", orderID.String()),
			zap.String("status", payment.Status))
		return repos.OrderRepo().Save(ctx, order)
	})
}

// clearPurchasedLines removes the just-bought products from the buyer's
// cart, leaving anything else the buyer had in it.
func (s *CheckoutService) clearPurchasedLines(ctx context.Context, cartRepo market.CartRepository, order *market.Order) error {
	cart, err := cartRepo.FindByUser(ctx, order.BuyerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}

	purchased := make(map[uuid.UUID]bool, len(order.Items))
	for i := range order.Items {
		purchased[order.Items[i].ProductID] = true
	}
	for i := range cart.Items {
		if purchased[cart.Items[i].ProductID] {
			if err := cartRepo.DeleteItem(ctx, cart.Items[i].ID); err != nil {
				return err
			}
		}
	}
	return nil
}
