package handler

import (
	"net/http"

	appmarket "github.com/comercium/backend/internal/application/market"
	"github.com/gin-gonic/gin"
)

// CheckoutHandler handles checkout, order history and the payment webhook
type CheckoutHandler struct {
	BaseHandler
	checkoutService *appmarket.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *appmarket.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// CreatePreference handles POST /checkout. It snapshots the cart into a
// pending order and returns the gateway redirect URL.
func (h *CheckoutHandler) CreatePreference(c *gin.Context) {
	buyerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.checkoutService.CreatePreference(c.Request.Context(), buyerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

type webhookBody struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// PaymentWebhook handles POST /webhooks/payments. The gateway sends the
// event either as query parameters or as a JSON body; both shapes are
// accepted. The response is always 200 so the gateway stops retrying;
// transient failures come back as 500 and are redelivered.
func (h *CheckoutHandler) PaymentWebhook(c *gin.Context) {
	input := appmarket.PaymentNotificationInput{
		Type:      c.Query("type"),
		PaymentID: c.Query("data.id"),
	}
	if input.Type == "" {
		var body webhookBody
		if err := c.ShouldBindJSON(&body); err == nil {
			input.Type = body.Type
			input.PaymentID = body.Data.ID
		}
	}

	if err := h.checkoutService.HandlePaymentNotification(c.Request.Context(), input); err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Status(http.StatusOK)
}

// ListPurchases handles GET /orders
func (h *CheckoutHandler) ListPurchases(c *gin.Context) {
	buyerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orders, err := h.checkoutService.ListPurchases(c.Request.Context(), buyerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, orders)
}

// ListSales handles GET /sales
func (h *CheckoutHandler) ListSales(c *gin.Context) {
	sellerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	sales, err := h.checkoutService.ListSales(c.Request.Context(), sellerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sales)
}
