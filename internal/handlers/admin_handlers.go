package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/artyaffairs/storefront/internal/models"
)

//
// --- Admin: Order Handlers ---
//

// GetAllOrders is the handler for GET /v1/admin/orders
// It lists every order with its buyer, newest first.
func (h *Handlers) GetAllOrders(c *gin.Context) {
	orders, err := h.Admin.ListAllOrders(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch orders")
		return
	}
	for i := range orders {
		orders[i].ImageURL = h.Media.ImageURL(orders[i].ImageURL)
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// DispatchOrder is the handler for PATCH /v1/admin/orders/:id/dispatch
// Only paid orders still pending dispatch can move.
func (h *Handlers) DispatchOrder(c *gin.Context) {
	err := h.Admin.MarkOrderDispatched(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	case errors.Is(err, models.ErrWrongState):
		c.JSON(http.StatusConflict, gin.H{"error": "Only paid, pending orders can be dispatched"})
		return
	case err != nil:
		respondError(c, err, "Failed to update order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order marked as dispatched"})
}

//
// --- Admin: Artwork Availability ---
//

// ToggleAvailability is the handler for PATCH /v1/admin/artworks/:id/availability
// It flips the status between Available and Sold; stock is left alone.
func (h *Handlers) ToggleAvailability(c *gin.Context) {
	ctx := c.Request.Context()

	// 1. Load the current status
	a, err := h.Catalog.GetArtwork(ctx, c.Param("id"))
	if errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Artwork not found"})
		return
	}
	if err != nil {
		respondError(c, err, "Failed to load artwork")
		return
	}

	// 2. Flip it. Legacy lowercase values compare equal.
	if models.NormalizeStatus(a.Status) == models.NormalizeStatus(models.StatusAvailable) {
		a.Status = models.StatusSold
	} else {
		a.Status = models.StatusAvailable
	}
	a.UpdatedAt = time.Now().UTC()

	// 3. Save
	if err := h.Catalog.UpdateArtwork(ctx, a); err != nil {
		respondError(c, err, "Failed to update artwork")
		return
	}
	c.JSON(http.StatusOK, h.artworkResponse(a))
}
