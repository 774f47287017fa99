package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/artyaffairs/storefront/internal/cart"
	"github.com/artyaffairs/storefront/internal/models"
)

//
// --- Cart Handlers (Signed-in Users) ---
//

// cartStore returns the signed-in user's cart, or writes 401.
func (h *Handlers) cartStore(c *gin.Context) (*cart.Store, bool) {
	user, ok := currentUser(c)
	if !ok {
		return nil, false
	}
	return h.Carts.For(c.Request.Context(), user), true
}

func cartBody(s *cart.Store) gin.H {
	snap := s.Snapshot()
	return gin.H{
		"items":       snap.Items,
		"total_price": s.TotalPrice(),
		"total_items": s.TotalItems(),
		"loading":     snap.Loading,
	}
}

// GetCart handles GET /v1/cart
// It refetches the remote cart so stock changes since the last visit apply.
func (h *Handlers) GetCart(c *gin.Context) {
	store, ok := h.cartStore(c)
	if !ok {
		return
	}
	if err := store.FetchCartItems(c.Request.Context()); err != nil {
		respondError(c, err, "Failed to load cart")
		return
	}
	c.JSON(http.StatusOK, cartBody(store))
}

// AddToCartInput defines the JSON for adding an item to the cart.
type AddToCartInput struct {
	ArtworkID string `json:"artwork_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// AddToCart handles POST /v1/cart/items
func (h *Handlers) AddToCart(c *gin.Context) {
	var input AddToCartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	if input.Quantity == 0 {
		input.Quantity = 1
	}

	store, ok := h.cartStore(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	// 1. Load the artwork the client is pointing at
	artwork, err := h.Catalog.GetArtwork(ctx, input.ArtworkID)
	if errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Artwork not found"})
		return
	}
	if err != nil {
		respondError(c, err, "Failed to load artwork")
		return
	}

	// 2. The store applies the stock rules and syncs the remote cart
	if err := store.AddItem(ctx, artwork, input.Quantity); err != nil {
		respondError(c, err, "Failed to add item to cart")
		return
	}
	c.JSON(http.StatusOK, cartBody(store))
}

// UpdateCartItemInput defines the JSON for changing a line's quantity.
type UpdateCartItemInput struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// UpdateCartItem handles PUT /v1/cart/items/:id
// A quantity of zero or less removes the line.
func (h *Handlers) UpdateCartItem(c *gin.Context) {
	var input UpdateCartItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	store, ok := h.cartStore(c)
	if !ok {
		return
	}
	if err := store.UpdateQuantity(c.Request.Context(), c.Param("id"), *input.Quantity); err != nil {
		respondError(c, err, "Failed to update cart")
		return
	}
	c.JSON(http.StatusOK, cartBody(store))
}

// RemoveCartItem handles DELETE /v1/cart/items/:id
func (h *Handlers) RemoveCartItem(c *gin.Context) {
	store, ok := h.cartStore(c)
	if !ok {
		return
	}
	if err := store.RemoveItem(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to remove item")
		return
	}
	c.JSON(http.StatusOK, cartBody(store))
}

// ClearCart handles DELETE /v1/cart
func (h *Handlers) ClearCart(c *gin.Context) {
	store, ok := h.cartStore(c)
	if !ok {
		return
	}
	if err := store.ClearCart(c.Request.Context()); err != nil {
		respondError(c, err, "Failed to clear cart")
		return
	}
	c.JSON(http.StatusOK, cartBody(store))
}
