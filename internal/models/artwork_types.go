package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Category is one of the fixed catalog sections.
type Category string

const (
	CategoryOriginal Category = "original"
	CategoryResinArt Category = "resin_art"
	CategoryGiftable Category = "giftable"
	CategoryBouquet  Category = "bouquet"
	CategoryCrochet  Category = "crochet"
	CategoryCeramic  Category = "ceramic"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryOriginal,
	CategoryResinArt,
	CategoryGiftable,
	CategoryBouquet,
	CategoryCrochet,
	CategoryCeramic,
}

// ParseCategory validates a raw category value (case-insensitive).
func ParseCategory(raw string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", raw)
}

// Stored status values. Older rows use lowercase; always compare through NormalizeStatus.
const (
	StatusAvailable = "Available"
	StatusSold      = "Sold"

	statusAvailableKey = "available"
)

// NormalizeStatus folds a stored status into its comparison form.
func NormalizeStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}

// IsPurchasable applies the availability rule: the status must normalize to
// "available" and at least one unit must be in stock.
func IsPurchasable(status string, quantityAvailable int) bool {
	return NormalizeStatus(status) == statusAvailableKey && quantityAvailable > 0
}

// Artwork is the model for the 'artworks' table.
// ImageURL and ImageURLs hold the raw stored media references; run them
// through the media normalizer before handing them to a client.
type Artwork struct {
	ID                string          `json:"artwork_id" db:"artwork_id"`
	Title             string          `json:"title" db:"title"`
	ArtistName        string          `json:"artist_name" db:"artist_name"`
	Description       string          `json:"description" db:"description"`
	Category          Category        `json:"category" db:"category"`
	Price             decimal.Decimal `json:"price" db:"price"`
	QuantityAvailable int             `json:"quantity_available" db:"quantity_available"`
	Status            string          `json:"status" db:"status"`
	ImageURL          *string         `json:"image_url,omitempty" db:"image_url"`
	ImageURLs         *string         `json:"image_urls,omitempty" db:"image_urls"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`
}

// IsOriginal reports whether the piece is one-of-a-kind.
func (a *Artwork) IsOriginal() bool {
	return a.Category == CategoryOriginal
}

// IsPurchasable reports whether the artwork can be added to a cart right now.
func (a *Artwork) IsPurchasable() bool {
	if a == nil {
		return false
	}
	return IsPurchasable(a.Status, a.QuantityAvailable)
}

// Stock is the slice of an artwork read before decrementing inventory.
type Stock struct {
	QuantityAvailable int      `db:"quantity_available"`
	Category          Category `db:"category"`
}

// IsOriginal mirrors Artwork.IsOriginal for a stock snapshot.
func (s Stock) IsOriginal() bool {
	return s.Category == CategoryOriginal
}
