package main

import (
	"context"
	"log"
	"time"

	"github.com/artyaffairs/storefront/internal/auth"
	"github.com/artyaffairs/storefront/internal/cache"
	"github.com/artyaffairs/storefront/internal/cart"
	"github.com/artyaffairs/storefront/internal/config"
	"github.com/artyaffairs/storefront/internal/database"
	"github.com/artyaffairs/storefront/internal/email"
	"github.com/artyaffairs/storefront/internal/handlers"
	"github.com/artyaffairs/storefront/internal/media"
	"github.com/artyaffairs/storefront/internal/payment"
	"github.com/artyaffairs/storefront/internal/routes"
	"github.com/artyaffairs/storefront/internal/storage"
	"github.com/artyaffairs/storefront/internal/wishlist"
)

func main() {
	// 0. --- Load Configuration (.env + environment) ---
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("CRITICAL ERROR: JWT_SECRET environment variable is not set.")
	}

	// 1. --- Database Connection (the remote store) ---
	db, err := database.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("Failed to connect to primary database: %v", err)
	}
	defer db.Close()

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = database.Migrate(migrateCtx, db, cfg.DBDriver)
	cancel()
	if err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}
	repo := database.NewRepository(db, cfg.DBDriver, cfg.AdminEmails)

	// 2. --- Persisted Store Snapshots (Redis or in-memory) ---
	var snapshots cache.Cache = cache.NewMemory()
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedis(cfg.RedisURL, "artyaffairs", 0)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer rc.Close()
		snapshots = rc
	} else {
		log.Println("WARNING: REDIS_URL not set. Cart and wishlist snapshots are kept in memory.")
	}

	// 3. --- External Services ---
	uploads := storage.NewLocal(cfg.UploadDir, cfg.StorageURL, cfg.StorageBucket)
	normalizer := media.NewNormalizer(uploads.PublicBase())

	gateway := payment.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	if gateway.Mock() {
		log.Println("WARNING: RAZORPAY_KEY_ID not set. Payments run in mock mode.")
	}

	mailer := email.NewMailer(cfg.ResendAPIKey, cfg.MailFrom, cfg.EnquiryEmail)
	if cfg.ResendAPIKey == "" {
		log.Println("WARNING: RESEND_API_KEY not set. Receipts and enquiries will not be sent.")
	}

	tokens := auth.NewTokens(cfg.JWTSecret, auth.DefaultTokenTTL)

	// 4. --- Per-user Stores ---
	carts := cart.NewRegistry(cart.Deps{
		Remote:         repo,
		Media:          normalizer,
		Cache:          snapshots,
		Session:        auth.ContextSession{},
		Receipts:       mailer,
		SessionTimeout: cfg.SessionTimeout,
	})
	wishlists := wishlist.NewRegistry(repo, normalizer, snapshots)

	app := &handlers.Handlers{
		Catalog:       repo,
		Orders:        repo,
		Admin:         repo,
		Carts:         carts,
		Wishlists:     wishlists,
		Media:         normalizer,
		Payments:      gateway,
		PaymentOrders: repo,
		Uploads:       uploads,
		Mailer:        mailer,
	}

	// --- 5. Background Workers ---
	// Idle stores are dropped from memory; their snapshots stay in the cache.
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()

		log.Println("Background Worker Started: evicting idle cart and wishlist stores...")

		for now := range ticker.C {
			c := carts.EvictIdle(now, cfg.StoreIdleTTL)
			w := wishlists.EvictIdle(now, cfg.StoreIdleTTL)
			if c+w > 0 {
				log.Printf("Evicted %d idle carts and %d idle wishlists", c, w)
			}
		}
	}()

	// --- Router Setup ---
	router := routes.SetupRouter(app, routes.Options{
		CORSOrigins: cfg.CORSOrigins,
		Tokens:      tokens,
		Profiles:    repo,
		StaticPath:  storage.PublicPrefix + "/" + cfg.StorageBucket,
		StaticRoot:  uploads.Root(),
	})

	// --- Start Server ---
	log.Printf("Starting Arty Affairs API server on port %s...", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
