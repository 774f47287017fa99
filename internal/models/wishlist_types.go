package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WishlistLine is the model for the 'wishlist' table.
type WishlistLine struct {
	ID        string    `json:"wishlist_id" db:"wishlist_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	ArtworkID string    `json:"artwork_id" db:"artwork_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// WishlistRow is a wishlist line joined with its artwork (nil when missing).
type WishlistRow struct {
	WishlistLine
	Artwork *Artwork
}

// WishlistItem is the cached, display-ready wishlist entry.
type WishlistItem struct {
	WishlistID        string          `json:"wishlist_id"`
	ArtworkID         string          `json:"artwork_id"`
	Title             string          `json:"title"`
	ArtistName        string          `json:"artist_name"`
	Category          Category        `json:"category"`
	Price             decimal.Decimal `json:"price"`
	ImageURL          string          `json:"image_url"`
	QuantityAvailable int             `json:"quantity_available"`
	Status            string          `json:"status"`
}
