package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is the model for the 'cart' table: one row per user and artwork.
type CartLine struct {
	ID        string    `json:"cart_id" db:"cart_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	ArtworkID string    `json:"artwork_id" db:"artwork_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CartRow is a cart line joined with its artwork.
// Artwork is nil when the referenced artwork no longer exists.
type CartRow struct {
	CartLine
	Artwork *Artwork
}

// LineItem is the display-ready, denormalized cart entry kept in the local cache.
type LineItem struct {
	CartID            string          `json:"cart_id"`
	ArtworkID         string          `json:"artwork_id"`
	Title             string          `json:"title"`
	ArtistName        string          `json:"artist_name"`
	Category          Category        `json:"category"`
	Price             decimal.Decimal `json:"price"`
	ImageURL          string          `json:"image_url"`
	Quantity          int             `json:"quantity"`
	QuantityAvailable int             `json:"quantity_available"`
	Status            string          `json:"status"`
	AddedAt           time.Time       `json:"created_at"`
}

// LineTotal is price times quantity.
func (l LineItem) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
