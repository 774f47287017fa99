package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/artyaffairs/storefront/internal/models"
)

const artworkColumns = `artwork_id, title, artist_name, description, category, price,
	quantity_available, status, image_url, image_urls, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArtwork(row rowScanner) (*models.Artwork, error) {
	var (
		a         models.Artwork
		imageURL  sql.NullString
		imageURLs sql.NullString
	)
	err := row.Scan(
		&a.ID, &a.Title, &a.ArtistName, &a.Description, &a.Category, &a.Price,
		&a.QuantityAvailable, &a.Status, &imageURL, &imageURLs, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if imageURL.Valid {
		a.ImageURL = &imageURL.String
	}
	if imageURLs.Valid {
		a.ImageURLs = &imageURLs.String
	}
	return &a, nil
}

// ListArtworks returns the catalog, newest first, optionally filtered by category.
func (r *Repository) ListArtworks(ctx context.Context, category models.Category) ([]models.Artwork, error) {
	query := `SELECT ` + artworkColumns + ` FROM artworks`
	var args []any
	if category != "" {
		query += ` WHERE category = ?`
		args = append(args, category)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	artworks := []models.Artwork{}
	for rows.Next() {
		a, err := scanArtwork(rows)
		if err != nil {
			return nil, err
		}
		artworks = append(artworks, *a)
	}
	return artworks, rows.Err()
}

// GetArtwork loads a single artwork.
func (r *Repository) GetArtwork(ctx context.Context, artworkID string) (*models.Artwork, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+artworkColumns+` FROM artworks WHERE artwork_id = ?`, artworkID)
	a, err := scanArtwork(row)
	if err != nil {
		return nil, mapError(err)
	}
	return a, nil
}

// CreateArtwork inserts a new artwork. ID and timestamps must already be set.
func (r *Repository) CreateArtwork(ctx context.Context, a *models.Artwork) error {
	query := `
		INSERT INTO artworks
		(artwork_id, title, artist_name, description, category, price,
		 quantity_available, is_original, status, image_url, image_urls, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.DB.ExecContext(ctx, query,
		a.ID, a.Title, a.ArtistName, a.Description, a.Category, a.Price,
		a.QuantityAvailable, a.IsOriginal(), a.Status, a.ImageURL, a.ImageURLs, a.CreatedAt, a.UpdatedAt,
	)
	return mapError(err)
}

// UpdateArtwork overwrites the editable columns of an artwork.
func (r *Repository) UpdateArtwork(ctx context.Context, a *models.Artwork) error {
	query := `
		UPDATE artworks SET
			title = ?, artist_name = ?, description = ?, category = ?, price = ?,
			quantity_available = ?, is_original = ?, status = ?, image_url = ?, image_urls = ?, updated_at = ?
		WHERE artwork_id = ?`
	res, err := r.DB.ExecContext(ctx, query,
		a.Title, a.ArtistName, a.Description, a.Category, a.Price,
		a.QuantityAvailable, a.IsOriginal(), a.Status, a.ImageURL, a.ImageURLs, a.UpdatedAt, a.ID,
	)
	return requireAffected(res, err)
}

// DeleteArtwork removes an artwork; cart and wishlist rows cascade.
func (r *Repository) DeleteArtwork(ctx context.Context, artworkID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM artworks WHERE artwork_id = ?`, artworkID)
	return requireAffected(res, err)
}

// GetStock re-reads the current inventory of an artwork.
func (r *Repository) GetStock(ctx context.Context, artworkID string) (models.Stock, error) {
	var s models.Stock
	err := r.DB.QueryRowContext(ctx,
		`SELECT quantity_available, category FROM artworks WHERE artwork_id = ?`, artworkID,
	).Scan(&s.QuantityAvailable, &s.Category)
	return s, mapError(err)
}

// UpdateStock writes a new inventory level and status.
func (r *Repository) UpdateStock(ctx context.Context, artworkID string, quantity int, status string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE artworks SET quantity_available = ?, status = ?, updated_at = ? WHERE artwork_id = ?`,
		quantity, status, time.Now().UTC(), artworkID,
	)
	return requireAffected(res, err)
}

// requireAffected maps a zero-row write to ErrNotFound.
func requireAffected(res sql.Result, err error) error {
	if err != nil {
		return mapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}
