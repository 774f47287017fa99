package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/artyaffairs/storefront/internal/models"
	"github.com/artyaffairs/storefront/internal/wishlist"
)

//
// --- Wishlist Handlers (Signed-in Users) ---
//

func (h *Handlers) wishlistStore(c *gin.Context) (*wishlist.Store, bool) {
	user, ok := currentUser(c)
	if !ok {
		return nil, false
	}
	return h.Wishlists.For(c.Request.Context(), user), true
}

func wishlistBody(s *wishlist.Store) gin.H {
	return gin.H{
		"items":       s.Items(),
		"total_items": s.TotalItems(),
		"loading":     s.Loading(),
	}
}

// GetWishlist handles GET /v1/wishlist
func (h *Handlers) GetWishlist(c *gin.Context) {
	store, ok := h.wishlistStore(c)
	if !ok {
		return
	}
	if err := store.FetchItems(c.Request.Context()); err != nil {
		respondError(c, err, "Failed to load wishlist")
		return
	}
	c.JSON(http.StatusOK, wishlistBody(store))
}

// WishlistInput defines the JSON for adding to the wishlist.
type WishlistInput struct {
	ArtworkID string `json:"artwork_id" binding:"required"`
}

// AddToWishlist handles POST /v1/wishlist/items
func (h *Handlers) AddToWishlist(c *gin.Context) {
	var input WishlistInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	store, ok := h.wishlistStore(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	artwork, err := h.Catalog.GetArtwork(ctx, input.ArtworkID)
	if errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Artwork not found"})
		return
	}
	if err != nil {
		respondError(c, err, "Failed to load artwork")
		return
	}

	if err := store.AddItem(ctx, artwork); err != nil {
		respondError(c, err, "Failed to add item to wishlist")
		return
	}
	c.JSON(http.StatusOK, wishlistBody(store))
}

// CheckWishlist handles GET /v1/wishlist/items/:id (an artwork id)
func (h *Handlers) CheckWishlist(c *gin.Context) {
	store, ok := h.wishlistStore(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"in_wishlist": store.IsInWishlist(c.Param("id"))})
}

// RemoveFromWishlist handles DELETE /v1/wishlist/items/:id (a wishlist id).
func (h *Handlers) RemoveFromWishlist(c *gin.Context) {
	store, ok := h.wishlistStore(c)
	if !ok {
		return
	}
	if err := store.RemoveItem(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to remove item from wishlist")
		return
	}
	c.JSON(http.StatusOK, wishlistBody(store))
}

// ClearWishlist handles DELETE /v1/wishlist
func (h *Handlers) ClearWishlist(c *gin.Context) {
	store, ok := h.wishlistStore(c)
	if !ok {
		return
	}
	if err := store.ClearWishlist(c.Request.Context()); err != nil {
		respondError(c, err, "Failed to clear wishlist")
		return
	}
	c.JSON(http.StatusOK, wishlistBody(store))
}
