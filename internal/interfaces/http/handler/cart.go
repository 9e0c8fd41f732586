package handler

import (
	appmarket "github.com/comercium/backend/internal/application/market"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CartHandler handles shopping cart operations
type CartHandler struct {
	BaseHandler
	cartService *appmarket.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *appmarket.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Get handles GET /cart
func (h *CartHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	cart, err := h.cartService.Get(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input appmarket.AddItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), userID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

func (h *CartHandler) itemAction(c *gin.Context, fn func(ctx *gin.Context, userID, productID uuid.UUID) (*appmarket.CartResponse, error)) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	productID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	cart, err := fn(c, userID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// IncreaseItem handles POST /cart/items/:id/increase
func (h *CartHandler) IncreaseItem(c *gin.Context) {
	h.itemAction(c, func(ctx *gin.Context, userID, productID uuid.UUID) (*appmarket.CartResponse, error) {
		return h.cartService.IncreaseItem(ctx.Request.Context(), userID, productID)
	})
}

// DecreaseItem handles POST /cart/items/:id/decrease
func (h *CartHandler) DecreaseItem(c *gin.Context) {
	h.itemAction(c, func(ctx *gin.Context, userID, productID uuid.UUID) (*appmarket.CartResponse, error) {
		return h.cartService.DecreaseItem(ctx.Request.Context(), userID, productID)
	})
}

// RemoveItem handles DELETE /cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	h.itemAction(c, func(ctx *gin.Context, userID, productID uuid.UUID) (*appmarket.CartResponse, error) {
		return h.cartService.RemoveItem(ctx.Request.Context(), userID, productID)
	})
}
