package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

//
// --- Session Handlers ---
//

// GetProfile handles GET /v1/session/me
func (h *Handlers) GetProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Logout handles POST /v1/session/logout
// Both stores drop their items and forget the user. Bearer tokens are
// stateless, so the client discards its own copy.
func (h *Handlers) Logout(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	h.Carts.SignOut(ctx, user.ID)
	h.Wishlists.SignOut(ctx, user.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}
