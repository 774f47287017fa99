package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/artyaffairs/storefront/internal/cart"
	"github.com/artyaffairs/storefront/internal/models"
	"github.com/artyaffairs/storefront/internal/payment"
)

//
// --- Checkout Handlers ---
//

// CreatePaymentOrder handles POST /v1/checkout/order
// It opens a gateway order for the current cart total and records it against
// the user; the client hands the returned order to the payment widget.
func (h *Handlers) CreatePaymentOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	store := h.Carts.For(ctx, user)

	if err := store.FetchCartItems(ctx); err != nil {
		respondError(c, err, "Failed to load cart")
		return
	}
	total := store.TotalPrice()
	if store.TotalItems() == 0 || !total.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": cart.MsgEmptyCart})
		return
	}

	receipt := fmt.Sprintf("rcpt_%d", time.Now().UnixMilli())
	order, err := h.Payments.CreateOrder(ctx, total, receipt)
	if err != nil {
		respondError(c, err, "Failed to create payment order")
		return
	}

	err = h.PaymentOrders.InsertPaymentOrder(ctx, models.PaymentOrder{
		ID:          order.ID,
		UserID:      user.ID,
		AmountMinor: order.Amount,
		Currency:    order.Currency,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		respondError(c, err, "Failed to create payment order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order, "total": total})
}

// Checkout handles POST /v1/checkout
// The body is the widget callback. The cart store verifies it, records one
// order per line and clears the cart.
func (h *Handlers) Checkout(c *gin.Context) {
	var cb payment.Callback
	if err := c.ShouldBindJSON(&cb); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	store, ok := h.cartStore(c)
	if !ok {
		return
	}

	processor := payment.NewCallbackProcessor(h.Payments, h.PaymentOrders, cb)
	co, err := store.ProcessCheckout(c.Request.Context(), processor)
	if err != nil {
		n, isNotice := cart.AsNotice(err)
		if !isNotice {
			respondError(c, err, "Checkout failed")
			return
		}
		c.JSON(noticeStatus(n), gin.H{
			"error":    n.Message,
			"kind":     n.Kind.String(),
			"checkout": co,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order placed", "checkout": co})
}
