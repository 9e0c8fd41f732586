package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/comercium/backend/internal/infrastructure/auth"
	"github.com/comercium/backend/internal/infrastructure/config"
	"github.com/comercium/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()

	cfg := &config.Config{
		App: config.AppConfig{Name: "comercium", Env: "test"},
		JWT: config.JWTConfig{
			Secret:                 "test-secret",
			RefreshSecret:          "test-refresh-secret",
			AccessTokenExpiration:  15 * time.Minute,
			RefreshTokenExpiration: 24 * time.Hour,
			Issuer:                 "comercium-test",
		},
	}
	jwtService := auth.NewJWTService(cfg.JWT)

	deps := Dependencies{
		Config:         cfg,
		Logger:         zap.NewNop(),
		JWTService:     jwtService,
		TokenBlacklist: auth.NewInMemoryTokenBlacklist(),
	}
	handlers := Handlers{
		System:       handler.NewSystemHandler(nil, nil, "test"),
		Auth:         handler.NewAuthHandler(nil, jwtService),
		Profile:      handler.NewProfileHandler(nil),
		User:         handler.NewUserHandler(nil),
		Product:      handler.NewProductHandler(nil),
		Cart:         handler.NewCartHandler(nil),
		Checkout:     handler.NewCheckoutHandler(nil),
		Chat:         handler.NewChatHandler(nil, nil),
		ChatRequest:  handler.NewChatRequestHandler(nil, nil),
		Notification: handler.NewNotificationHandler(nil),
		Follow:       handler.NewFollowHandler(nil),
	}
	return New(deps, handlers)
}

func TestRouterHealthEndpoint(t *testing.T) {
	engine := newTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestRouterUnknownRoute(t *testing.T) {
	engine := newTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/nothing-here", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouterProtectedRoutesRequireAuth(t *testing.T) {
	engine := newTestEngine(t)

	protected := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/cart"},
		{http.MethodGet, "/api/v1/profile"},
		{http.MethodGet, "/api/v1/orders"},
		{http.MethodGet, "/api/v1/chat/threads"},
		{http.MethodGet, "/api/v1/notifications"},
		{http.MethodGet, "/api/v1/follows/feed"},
		{http.MethodPost, "/api/v1/my/products"},
	}

	for _, route := range protected {
		req := httptest.NewRequest(route.method, route.path, nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equalf(t, http.StatusUnauthorized, w.Code, "%s %s should require auth", route.method, route.path)
	}
}

func TestRouterRejectsMalformedToken(t *testing.T) {
	engine := newTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_INVALID")
}

func TestRouterRequestIDHeader(t *testing.T) {
	engine := newTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
