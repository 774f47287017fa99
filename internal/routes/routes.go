package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/artyaffairs/storefront/internal/handlers"
	"github.com/artyaffairs/storefront/internal/middleware"
)

// Options are the router settings that do not belong to any handler.
type Options struct {
	CORSOrigins []string
	Tokens      middleware.TokenValidator
	Profiles    middleware.ProfileStore
	// StaticPath and StaticRoot serve locally stored uploads; empty disables it.
	StaticPath string
	StaticRoot string
}

// CORSMiddleware tells the browser which storefront origins may call the API
// with a bearer token.
func CORSMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", "Cache-Control", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowOrigins = nil
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	}
	return cors.New(cfg)
}

func SetupRouter(h *handlers.Handlers, opts Options) *gin.Engine {
	router := gin.Default()

	// --- APPLY THE CORS GUARD ---
	// This must be the very first thing the router uses
	router.Use(CORSMiddleware(opts.CORSOrigins))

	if opts.StaticPath != "" && opts.StaticRoot != "" {
		router.Static(opts.StaticPath, opts.StaticRoot)
	}

	v1 := router.Group("/v1")
	{
		// --- Ping Route (Public) ---
		v1.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong!"})
		})

		// --- Public Catalog Routes ---
		v1.GET("/artworks", h.ListArtworks)
		v1.GET("/artworks/:id", h.GetArtwork)
		v1.POST("/enquiries", h.SubmitEnquiry)

		// --- Protected Routes (Login Required) ---
		auth := v1.Group("/")
		auth.Use(middleware.AuthMiddleware(opts.Tokens))
		{
			auth.GET("/session/me", h.GetProfile)
			auth.POST("/session/logout", h.Logout)

			// --- Cart Routes ---
			auth.GET("/cart", h.GetCart)
			auth.POST("/cart/items", h.AddToCart)
			auth.PUT("/cart/items/:id", h.UpdateCartItem)
			auth.DELETE("/cart/items/:id", h.RemoveCartItem)
			auth.DELETE("/cart", h.ClearCart)

			// --- Checkout & Order Routes ---
			auth.POST("/checkout/order", h.CreatePaymentOrder)
			auth.POST("/checkout", h.Checkout)
			auth.GET("/orders", h.GetMyOrders)

			// --- Wishlist Routes ---
			auth.GET("/wishlist", h.GetWishlist)
			auth.POST("/wishlist/items", h.AddToWishlist)
			auth.GET("/wishlist/items/:id", h.CheckWishlist)
			auth.DELETE("/wishlist/items/:id", h.RemoveFromWishlist)
			auth.DELETE("/wishlist", h.ClearWishlist)

			// --- Admin Routes ---
			admin := auth.Group("/admin")
			admin.Use(middleware.AdminMiddleware(opts.Profiles))
			{
				admin.POST("/artworks", h.CreateArtwork)
				admin.PUT("/artworks/:id", h.UpdateArtwork)
				admin.DELETE("/artworks/:id", h.DeleteArtwork)
				admin.PATCH("/artworks/:id/availability", h.ToggleAvailability)
				admin.GET("/orders", h.GetAllOrders)
				admin.PATCH("/orders/:id/dispatch", h.DispatchOrder)
				admin.GET("/dashboard-stats", h.GetDashboardStats)
				admin.POST("/upload", h.UploadFile)
			}
		}
	}

	return router
}
