package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetMyOrders handles GET /v1/orders
// Newest first; image URLs are normalised the same way as the catalog.
func (h *Handlers) GetMyOrders(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	orders, err := h.Orders.ListOrders(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err, "Failed to fetch orders")
		return
	}

	for i := range orders {
		orders[i].ImageURL = h.Media.ImageURL(orders[i].ImageURL)
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}
