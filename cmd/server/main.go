package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/comercium/backend/internal/application/catalog"
	chatapp "github.com/comercium/backend/internal/application/chat"
	identityapp "github.com/comercium/backend/internal/application/identity"
	marketapp "github.com/comercium/backend/internal/application/market"
	socialapp "github.com/comercium/backend/internal/application/social"
	"github.com/comercium/backend/internal/domain/market"
	"github.com/comercium/backend/internal/infrastructure/auth"
	"github.com/comercium/backend/internal/infrastructure/cache"
	"github.com/comercium/backend/internal/infrastructure/config"
	"github.com/comercium/backend/internal/infrastructure/event"
	"github.com/comercium/backend/internal/infrastructure/logger"
	"github.com/comercium/backend/internal/infrastructure/payment"
	"github.com/comercium/backend/internal/infrastructure/persistence"
	"github.com/comercium/backend/internal/infrastructure/scheduler"
	"github.com/comercium/backend/internal/infrastructure/telemetry"
	"github.com/comercium/backend/internal/interfaces/http/handler"
	"github.com/comercium/backend/internal/interfaces/http/middleware"
	"github.com/comercium/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Comercium Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Warn("Failed to initialize tracing, continuing without it", zap.Error(err))
	}

	// Database with zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := db.EnableTracing(); err != nil {
			log.Warn("Failed to enable database tracing", zap.Error(err))
		}
	}

	// Redis is optional: without it the server falls back to in-memory
	// token revocation and uncached listings.
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, falling back to in-memory token revocation", zap.Error(err))
		redisClient = nil
	} else {
		log.Info("Redis connected successfully")
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	profileRepo := persistence.NewGormProfileRepository(db.DB)
	activityRepo := persistence.NewGormActivityRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	imageRepo := persistence.NewGormProductImageRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	channelMessageRepo := persistence.NewGormChannelMessageRepository(db.DB)
	threadRepo := persistence.NewGormThreadRepository(db.DB)
	directMessageRepo := persistence.NewGormDirectMessageRepository(db.DB)
	blockRepo := persistence.NewGormBlockRepository(db.DB)
	requestRepo := persistence.NewGormRequestRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	followRepo := persistence.NewGormFollowRepository(db.DB)

	identityTxScope := persistence.NewGormIdentityTransactionScope(db.DB)
	marketTxScope := persistence.NewGormMarketTransactionScope(db.DB)

	// Auth infrastructure
	jwtService := auth.NewJWTService(cfg.JWT)
	var blacklist auth.TokenBlacklist
	var listingCache catalogapp.ListCache
	var unreadCache socialapp.UnreadCountCache
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
		listingCache = cache.NewRedisListingCache(redisClient, log)
		unreadCache = cache.NewRedisUnreadCountCache(redisClient, log)
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
		listingCache = catalogapp.NoOpListCache{}
		unreadCache = socialapp.NoOpUnreadCountCache{}
	}

	// Payment gateway
	var gateway market.PaymentGateway
	if cfg.IsPaymentConfigured() {
		adapter, err := payment.NewMercadoPagoAdapter(&cfg.Payment)
		if err != nil {
			log.Fatal("Failed to initialize payment gateway", zap.Error(err))
		}
		gateway = adapter
		log.Info("Payment gateway configured")
	} else {
		log.Warn("Payment gateway not configured; checkout is disabled")
	}

	// Event bus
	eventBus := event.NewBus(log)

	// Application services
	authService := identityapp.NewAuthService(userRepo, identityTxScope, jwtService, blacklist, log)
	userService := identityapp.NewUserService(userRepo, blacklist, cfg.JWT.RefreshTokenExpiration, log)

	productService := catalogapp.NewProductService(productRepo, imageRepo, cartRepo, listingCache, log)
	productService.SetEventPublisher(eventBus)

	profileService := identityapp.NewProfileService(userRepo, profileRepo, activityRepo, productService, log)

	cartService := marketapp.NewCartService(cartRepo, productRepo, log)
	checkoutService := marketapp.NewCheckoutService(
		marketTxScope,
		orderRepo,
		cartService,
		profileRepo,
		gateway,
		marketapp.CheckoutConfig{
			MarketplaceFeePercent: cfg.Payment.MarketplaceFee,
			Currency:              "ARS",
			SuccessURL:            cfg.Payment.SuccessURL,
			FailureURL:            cfg.Payment.FailureURL,
			PendingURL:            cfg.Payment.PendingURL,
			NotificationURL:       cfg.App.BaseURL + "/api/v1/webhooks/payments",
		},
		log,
	)
	checkoutService.SetEventPublisher(eventBus)

	notificationService := socialapp.NewNotificationService(notificationRepo, followRepo, unreadCache, log)
	followService := socialapp.NewFollowService(followRepo, userRepo, productRepo, notificationService, log)

	roomService := chatapp.NewRoomService(channelMessageRepo, userRepo, log)
	threadService := chatapp.NewThreadService(threadRepo, directMessageRepo, blockRepo, requestRepo, userRepo, notificationService, log)
	requestService := chatapp.NewRequestService(requestRepo, threadRepo, blockRepo, userRepo, notificationService, log)
	blockService := chatapp.NewBlockService(blockRepo, requestRepo, userRepo, log)

	// Event subscriptions: catalog and order events fan out into the
	// notification inbox.
	productEventHandler := socialapp.NewProductEventHandler(notificationService, userRepo, log)
	eventBus.Subscribe(productEventHandler, productEventHandler.EventTypes()...)
	orderEventHandler := socialapp.NewOrderEventHandler(notificationService, orderRepo, log)
	eventBus.Subscribe(orderEventHandler, orderEventHandler.EventTypes()...)

	// HTTP handlers
	handlers := router.Handlers{
		System:       handler.NewSystemHandler(db, redisClient, version),
		Auth:         handler.NewAuthHandler(authService, jwtService),
		Profile:      handler.NewProfileHandler(profileService),
		User:         handler.NewUserHandler(userService),
		Product:      handler.NewProductHandler(productService),
		Cart:         handler.NewCartHandler(cartService),
		Checkout:     handler.NewCheckoutHandler(checkoutService),
		Chat:         handler.NewChatHandler(roomService, threadService),
		ChatRequest:  handler.NewChatRequestHandler(requestService, blockService),
		Notification: handler.NewNotificationHandler(notificationService),
		Follow:       handler.NewFollowHandler(followService),
	}

	engine := router.New(router.Dependencies{
		Config:           cfg,
		Logger:           log,
		JWTService:       jwtService,
		TokenBlacklist:   blacklist,
		ActivityTracking: middleware.ActivityTracking(profileService),
	}, handlers)

	// Background housekeeping: abandoned carts and empty orders are
	// dropped so their rows do not pile up.
	housekeeping := scheduler.NewHousekeeping(log, cartService, orderRepo, scheduler.HousekeepingConfig{
		CartStaleAfter:     cfg.Cart.StaleAfter,
		CartSweepInterval:  cfg.Cart.CleanupInterval,
		OrderPurgeInterval: cfg.Cart.CleanupInterval,
	})
	housekeeping.Start()
	defer housekeeping.Stop()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}
	if tracerProvider != nil {
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}

	log.Info("Server exited gracefully")
}
