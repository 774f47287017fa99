package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/artyaffairs/storefront/internal/cart"
	"github.com/artyaffairs/storefront/internal/middleware"
	"github.com/artyaffairs/storefront/internal/models"
	"github.com/artyaffairs/storefront/internal/wishlist"
)

// noticeStatus maps a store notice to an HTTP status.
func noticeStatus(n *cart.Notice) int {
	switch n.Kind {
	case cart.KindInput:
		switch n.Message {
		case cart.MsgNotEnoughQuantity, cart.MsgUnavailable, wishlist.MsgAlreadyWished:
			return http.StatusConflict
		case cart.MsgSignIn:
			return http.StatusUnauthorized
		}
		return http.StatusBadRequest
	case cart.KindRemote:
		return http.StatusBadGateway
	case cart.KindPayment:
		return http.StatusPaymentRequired
	case cart.KindFulfillment:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}

// respondError writes err as {"error": ...}. Store notices carry their own
// user-facing message; anything else is logged and reported generically.
func respondError(c *gin.Context, err error, fallback string) {
	if n, ok := cart.AsNotice(err); ok {
		c.JSON(noticeStatus(n), gin.H{"error": n.Message, "kind": n.Kind.String()})
		return
	}
	if errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	log.Printf("handlers: %s: %v", fallback, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
}

// currentUser reads the user set by the auth middleware.
func currentUser(c *gin.Context) (models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
	}
	return user, ok
}
