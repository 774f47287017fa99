package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/artyaffairs/storefront/internal/auth"
	"github.com/artyaffairs/storefront/internal/models"
)

// Context keys set by AuthMiddleware.
const (
	UserIDKey = "userID"
	UserKey   = "user"
)

// TokenValidator resolves a bearer token to a user.
type TokenValidator interface {
	ValidateToken(token string) (models.User, error)
}

// ProfileStore loads and creates user profile rows.
type ProfileStore interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	EnsureProfile(ctx context.Context, u models.User) error
}

// AuthMiddleware requires a valid "Authorization: Bearer <token>" header.
// The user is stored on the gin context and on the request context.
func AuthMiddleware(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Read the header
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			return
		}
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must be a Bearer token"})
			return
		}

		// 2. Validate it
		user, err := tokens.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		// 3. Expose the user to handlers
		c.Set(UserIDKey, user.ID)
		c.Set(UserKey, user)
		c.Request = c.Request.WithContext(auth.WithUser(c.Request.Context(), user))
		c.Next()
	}
}

// AdminMiddleware lets through only users whose profile carries the admin
// role. It must run after AuthMiddleware.
func AdminMiddleware(profiles ProfileStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		ctx := c.Request.Context()
		profile, err := profiles.GetUser(ctx, user.ID)
		if errors.Is(err, models.ErrNotFound) {
			// first request from this identity; the role comes from ADMIN_EMAILS
			if err = profiles.EnsureProfile(ctx, user); err == nil {
				profile, err = profiles.GetUser(ctx, user.ID)
			}
		}
		if err != nil {
			log.Printf("middleware: failed to load profile %s: %v", user.ID, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
			return
		}
		if !profile.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user set by AuthMiddleware.
func CurrentUser(c *gin.Context) (models.User, bool) {
	raw, ok := c.Get(UserKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := raw.(models.User)
	return user, ok
}
