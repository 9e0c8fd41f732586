package router

import (
	"github.com/comercium/backend/internal/infrastructure/auth"
	"github.com/comercium/backend/internal/infrastructure/config"
	"github.com/comercium/backend/internal/infrastructure/logger"
	"github.com/comercium/backend/internal/interfaces/http/handler"
	"github.com/comercium/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// Handlers groups everything the router mounts
type Handlers struct {
	System       *handler.SystemHandler
	Auth         *handler.AuthHandler
	Profile      *handler.ProfileHandler
	User         *handler.UserHandler
	Product      *handler.ProductHandler
	Cart         *handler.CartHandler
	Checkout     *handler.CheckoutHandler
	Chat         *handler.ChatHandler
	ChatRequest  *handler.ChatRequestHandler
	Notification *handler.NotificationHandler
	Follow       *handler.FollowHandler
}

// Dependencies carries the cross-cutting pieces the middleware stack needs
type Dependencies struct {
	Config           *config.Config
	Logger           *zap.Logger
	JWTService       *auth.JWTService
	TokenBlacklist   auth.TokenBlacklist
	ActivityTracking gin.HandlerFunc
}

// New builds the Gin engine with the full middleware stack and route
// table mounted under /api/v1.
func New(deps Dependencies, h Handlers) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(deps.Config.HTTP.TrustedProxies) > 0 {
		_ = engine.SetTrustedProxies(deps.Config.HTTP.TrustedProxies)
	}

	engine.Use(logger.Recovery(deps.Logger))
	if deps.Config.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(deps.Config.Telemetry.ServiceName))
	}
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(deps.Logger))
	engine.Use(middleware.Secure())
	engine.Use(corsMiddleware(deps.Config))
	if deps.Config.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(deps.Config.HTTP.MaxBodySize))
	}

	authRequired := middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     deps.JWTService,
		TokenBlacklist: deps.TokenBlacklist,
		Logger:         deps.Logger,
	})

	// Probes stay outside the API prefix so infrastructure can reach
	// them without versioning concerns.
	engine.GET("/health", h.System.Health)
	engine.GET("/ready", h.System.Ready)

	api := engine.Group("/api/v1")
	// Stamps last_seen after the handler ran, for whichever routes
	// authenticated the caller.
	if deps.ActivityTracking != nil {
		api.Use(deps.ActivityTracking)
	}
	if deps.Config.HTTP.RateLimitEnabled {
		api.Use(middleware.RateLimit(middleware.NewRateLimiter(
			deps.Config.HTTP.RateLimitRequests,
			deps.Config.HTTP.RateLimitWindow,
		)))
	}

	registerAuthRoutes(api, deps, h, authRequired)
	registerCatalogRoutes(api, h, authRequired)
	registerMarketRoutes(api, h, authRequired)
	registerChatRoutes(api, deps, h, authRequired)
	registerSocialRoutes(api, h, authRequired)

	return engine
}

func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	return middleware.CORSWithConfig(corsCfg)
}

func registerAuthRoutes(api *gin.RouterGroup, deps Dependencies, h Handlers, authRequired gin.HandlerFunc) {
	authGroup := api.Group("/auth")
	if deps.Config.HTTP.RateLimitEnabled {
		// Credential endpoints get a much stricter bucket than the rest
		// of the API.
		authGroup.Use(middleware.RateLimit(middleware.NewRateLimiter(
			deps.Config.HTTP.AuthRateLimitRequests,
			deps.Config.HTTP.AuthRateLimitWindow,
		)))
	}
	authGroup.POST("/register", h.Auth.Register)
	authGroup.POST("/login", h.Auth.Login)
	authGroup.POST("/refresh", h.Auth.Refresh)
	authGroup.POST("/logout", authRequired, h.Auth.Logout)

	profile := api.Group("/profile", authRequired)
	profile.GET("", h.Profile.GetOwn)
	profile.PUT("", h.Profile.Update)
	profile.DELETE("/avatar", h.Profile.DeleteAvatar)
	profile.POST("/gateway", h.Profile.ConnectGateway)
	profile.DELETE("/gateway", h.Profile.DisconnectGateway)

	api.GET("/users/:username", h.Profile.GetPublic)

	admin := api.Group("/admin", authRequired)
	admin.POST("/users/:id/ban", h.User.Ban)
	admin.POST("/users/:id/unban", h.User.Unban)
}

func registerCatalogRoutes(api *gin.RouterGroup, h Handlers, authRequired gin.HandlerFunc) {
	api.GET("/products", h.Product.Browse)
	api.GET("/products/:id", h.Product.Get)
	api.GET("/categories", h.Product.Categories)

	my := api.Group("/my/products", authRequired)
	my.GET("", h.Product.ListOwn)
	my.POST("", h.Product.Create)
	my.GET("/:id", h.Product.GetOwn)
	my.PUT("/:id", h.Product.Update)
	my.DELETE("/:id", h.Product.Delete)
	my.POST("/:id/images", h.Product.AddImage)
	my.DELETE("/images/:id", h.Product.RemoveImage)
}

func registerMarketRoutes(api *gin.RouterGroup, h Handlers, authRequired gin.HandlerFunc) {
	cart := api.Group("/cart", authRequired)
	cart.GET("", h.Cart.Get)
	cart.POST("/items", h.Cart.AddItem)
	cart.POST("/items/:id/increase", h.Cart.IncreaseItem)
	cart.POST("/items/:id/decrease", h.Cart.DecreaseItem)
	cart.DELETE("/items/:id", h.Cart.RemoveItem)

	api.POST("/checkout", authRequired, h.Checkout.CreatePreference)
	api.GET("/orders", authRequired, h.Checkout.ListPurchases)
	api.GET("/sales", authRequired, h.Checkout.ListSales)

	// The gateway authenticates notifications by payment lookup, not by
	// user session.
	api.POST("/webhooks/payments", h.Checkout.PaymentWebhook)
}

func registerChatRoutes(api *gin.RouterGroup, deps Dependencies, h Handlers, authRequired gin.HandlerFunc) {
	chat := api.Group("/chat", authRequired)

	room := chat.Group("/room")
	room.GET("/messages", h.Chat.ListRoomMessages)
	if deps.Config.HTTP.RateLimitEnabled {
		// Posting is throttled per user, not per IP, so shared
		// networks do not starve each other.
		room.POST("/messages", middleware.RateLimitByUser(middleware.NewRateLimiter(
			deps.Config.HTTP.ChatRateLimitRequests,
			deps.Config.HTTP.ChatRateLimitWindow,
		)), h.Chat.PostRoomMessage)
	} else {
		room.POST("/messages", h.Chat.PostRoomMessage)
	}

	threads := chat.Group("/threads")
	threads.GET("", h.Chat.ListThreads)
	threads.POST("/start/:id", h.Chat.StartChat)
	threads.GET("/:id", h.Chat.GetThread)
	threads.GET("/:id/messages", h.Chat.ListThreadMessages)
	threads.POST("/:id/messages", h.Chat.PostThreadMessage)

	requests := chat.Group("/requests")
	requests.GET("/incoming", h.ChatRequest.ListIncoming)
	requests.GET("/outgoing", h.ChatRequest.ListOutgoing)
	requests.POST("/send/:id", h.ChatRequest.Send)
	requests.POST("/:id/accept", h.ChatRequest.Accept)
	requests.POST("/:id/decline", h.ChatRequest.Decline)
	requests.DELETE("/:id", h.ChatRequest.Cancel)

	blocks := chat.Group("/blocks")
	blocks.GET("", h.ChatRequest.ListBlocks)
	blocks.POST("/:id", h.ChatRequest.Block)
	blocks.DELETE("/:id", h.ChatRequest.Unblock)
}

func registerSocialRoutes(api *gin.RouterGroup, h Handlers, authRequired gin.HandlerFunc) {
	notifications := api.Group("/notifications", authRequired)
	notifications.GET("", h.Notification.List)
	notifications.GET("/unread", h.Notification.UnreadCount)
	notifications.POST("/:id/read", h.Notification.MarkRead)
	notifications.POST("/read-all", h.Notification.MarkAllRead)

	follows := api.Group("/follows", authRequired)
	follows.GET("/followers", h.Follow.Followers)
	follows.GET("/following", h.Follow.Following)
	follows.GET("/stats", h.Follow.Stats)
	follows.GET("/feed", h.Follow.Feed)
	follows.POST("/:id", h.Follow.Follow)
	follows.DELETE("/:id", h.Follow.Unfollow)
}
