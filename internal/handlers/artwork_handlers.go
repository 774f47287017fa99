package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/artyaffairs/storefront/internal/media"
	"github.com/artyaffairs/storefront/internal/models"
)

//
// --- Catalog Handlers (Public) ---
//

// ArtworkResponse is an artwork with its media normalised for display.
type ArtworkResponse struct {
	models.Artwork
	ImageURL    *string  `json:"image_url"`
	ImageURLs   []string `json:"image_urls"`
	IsOriginal  bool     `json:"is_original"`
	Purchasable bool     `json:"purchasable"`
}

func (h *Handlers) artworkResponse(a *models.Artwork) ArtworkResponse {
	m := h.Media.Artwork(a)
	return ArtworkResponse{
		Artwork:     *a,
		ImageURL:    m.ImageURL,
		ImageURLs:   m.ImageURLs,
		IsOriginal:  a.IsOriginal(),
		Purchasable: a.IsPurchasable(),
	}
}

// ListArtworks handles GET /v1/artworks?category=&available=
func (h *Handlers) ListArtworks(c *gin.Context) {
	var category models.Category
	if raw := c.Query("category"); raw != "" {
		parsed, err := models.ParseCategory(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		category = parsed
	}
	onlyAvailable := c.Query("available") == "true"

	artworks, err := h.Catalog.ListArtworks(c.Request.Context(), category)
	if err != nil {
		respondError(c, err, "Failed to load artworks")
		return
	}

	out := make([]ArtworkResponse, 0, len(artworks))
	for i := range artworks {
		if onlyAvailable && !artworks[i].IsPurchasable() {
			continue
		}
		out = append(out, h.artworkResponse(&artworks[i]))
	}
	c.JSON(http.StatusOK, gin.H{"artworks": out})
}

// GetArtwork handles GET /v1/artworks/:id
func (h *Handlers) GetArtwork(c *gin.Context) {
	a, err := h.Catalog.GetArtwork(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Artwork not found"})
			return
		}
		respondError(c, err, "Failed to load artwork")
		return
	}
	c.JSON(http.StatusOK, h.artworkResponse(a))
}

//
// --- Admin Catalog Handlers ---
//

// ArtworkInput is the JSON body for creating or updating an artwork.
type ArtworkInput struct {
	Title             string          `json:"title" binding:"required"`
	ArtistName        string          `json:"artist_name"`
	Description       string          `json:"description"`
	Category          string          `json:"category" binding:"required"`
	Price             decimal.Decimal `json:"price"`
	QuantityAvailable *int            `json:"quantity_available" binding:"required,min=0"`
	Status            string          `json:"status"`
	ImageURL          string          `json:"image_url"`
	ImageURLs         []string        `json:"image_urls"`
}

// apply validates the input and copies it onto a.
func (in ArtworkInput) apply(a *models.Artwork) error {
	category, err := models.ParseCategory(in.Category)
	if err != nil {
		return err
	}
	if in.Price.IsNegative() {
		return errors.New("price must not be negative")
	}

	status := models.StatusAvailable
	switch models.NormalizeStatus(in.Status) {
	case "":
	case models.NormalizeStatus(models.StatusAvailable):
	case models.NormalizeStatus(models.StatusSold):
		status = models.StatusSold
	default:
		return errors.New("status must be Available or Sold")
	}

	a.Title = strings.TrimSpace(in.Title)
	a.ArtistName = strings.TrimSpace(in.ArtistName)
	a.Description = in.Description
	a.Category = category
	a.Price = in.Price
	a.QuantityAvailable = *in.QuantityAvailable
	a.Status = status

	a.ImageURL = nil
	if v := media.StripQuotes(in.ImageURL); v != "" {
		a.ImageURL = &v
	}
	a.ImageURLs = nil
	if len(in.ImageURLs) > 0 {
		encoded, err := json.Marshal(in.ImageURLs)
		if err != nil {
			return err
		}
		s := string(encoded)
		a.ImageURLs = &s
	}
	return nil
}

// CreateArtwork handles POST /v1/admin/artworks
func (h *Handlers) CreateArtwork(c *gin.Context) {
	var input ArtworkInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	now := time.Now().UTC()
	a := &models.Artwork{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	if err := input.apply(a); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Catalog.CreateArtwork(c.Request.Context(), a); err != nil {
		respondError(c, err, "Failed to create artwork")
		return
	}
	c.JSON(http.StatusCreated, h.artworkResponse(a))
}

// UpdateArtwork handles PUT /v1/admin/artworks/:id
func (h *Handlers) UpdateArtwork(c *gin.Context) {
	var input ArtworkInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	a, err := h.Catalog.GetArtwork(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Artwork not found"})
			return
		}
		respondError(c, err, "Failed to load artwork")
		return
	}
	if err := input.apply(a); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a.UpdatedAt = time.Now().UTC()

	if err := h.Catalog.UpdateArtwork(ctx, a); err != nil {
		respondError(c, err, "Failed to update artwork")
		return
	}
	c.JSON(http.StatusOK, h.artworkResponse(a))
}

// DeleteArtwork handles DELETE /v1/admin/artworks/:id
func (h *Handlers) DeleteArtwork(c *gin.Context) {
	err := h.Catalog.DeleteArtwork(c.Request.Context(), c.Param("id"))
	if errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Artwork not found"})
		return
	}
	if err != nil {
		respondError(c, err, "Failed to delete artwork")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Artwork deleted"})
}
