package database

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/artyaffairs/storefront/internal/models"
)

// ListCart returns the user's cart lines joined with their artworks.
// A line whose artwork row is gone comes back with a nil Artwork.
func (r *Repository) ListCart(ctx context.Context, userID string) ([]models.CartRow, error) {
	query := `
		SELECT
			c.cart_id, c.user_id, c.artwork_id, c.quantity, c.created_at,
			a.artwork_id, a.title, a.artist_name, a.category, a.price,
			a.quantity_available, a.status, a.image_url, a.image_urls
		FROM cart c
		LEFT JOIN artworks a ON a.artwork_id = c.artwork_id
		WHERE c.user_id = ?
		ORDER BY c.created_at ASC`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []models.CartRow
	for rows.Next() {
		var (
			row models.CartRow
			j   joinedArtwork
		)
		if err := rows.Scan(
			&row.ID, &row.UserID, &row.ArtworkID, &row.Quantity, &row.CreatedAt,
			&j.id, &j.title, &j.artist, &j.category, &j.price,
			&j.quantity, &j.status, &j.imageURL, &j.imageURLs,
		); err != nil {
			return nil, err
		}
		row.Artwork = j.artwork()
		out = append(out, row)
	}
	return out, rows.Err()
}

// joinedArtwork holds the nullable side of a LEFT JOIN onto artworks.
type joinedArtwork struct {
	id, title, artist, category, status sql.NullString
	price                               decimal.NullDecimal
	quantity                            sql.NullInt64
	imageURL, imageURLs                 sql.NullString
}

func (j joinedArtwork) artwork() *models.Artwork {
	if !j.id.Valid {
		return nil
	}
	a := &models.Artwork{
		ID:                j.id.String,
		Title:             j.title.String,
		ArtistName:        j.artist.String,
		Category:          models.Category(j.category.String),
		Price:             j.price.Decimal,
		QuantityAvailable: int(j.quantity.Int64),
		Status:            j.status.String,
	}
	if j.imageURL.Valid {
		a.ImageURL = &j.imageURL.String
	}
	if j.imageURLs.Valid {
		a.ImageURLs = &j.imageURLs.String
	}
	return a
}

// InsertCartLine creates a new cart row. It fails with models.ErrDuplicate when
// the user already has a row for the artwork and with models.ErrMissingReference
// when the user profile or artwork does not exist.
func (r *Repository) InsertCartLine(ctx context.Context, line models.CartLine) error {
	query := `INSERT INTO cart (cart_id, user_id, artwork_id, quantity, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := r.DB.ExecContext(ctx, query, line.ID, line.UserID, line.ArtworkID, line.Quantity, line.CreatedAt)
	return mapError(err)
}

// UpsertCartLine inserts the line or, if the (user, artwork) row exists,
// increments its quantity in the same statement, never beyond limit.
func (r *Repository) UpsertCartLine(ctx context.Context, line models.CartLine, limit int) error {
	var query string
	switch r.Driver {
	case DriverSQLite:
		query = `
			INSERT INTO cart (cart_id, user_id, artwork_id, quantity, created_at) VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (user_id, artwork_id) DO UPDATE SET quantity = MIN(cart.quantity + excluded.quantity, ?)`
	default:
		query = `
			INSERT INTO cart (cart_id, user_id, artwork_id, quantity, created_at) VALUES (?, ?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE quantity = LEAST(quantity + VALUES(quantity), ?)`
	}
	_, err := r.DB.ExecContext(ctx, query, line.ID, line.UserID, line.ArtworkID, line.Quantity, line.CreatedAt, limit)
	return mapError(err)
}

// FindCartLine loads the user's row for an artwork.
func (r *Repository) FindCartLine(ctx context.Context, userID, artworkID string) (models.CartLine, error) {
	var line models.CartLine
	query := `SELECT cart_id, user_id, artwork_id, quantity, created_at FROM cart WHERE user_id = ? AND artwork_id = ?`
	err := r.DB.QueryRowContext(ctx, query, userID, artworkID).Scan(
		&line.ID, &line.UserID, &line.ArtworkID, &line.Quantity, &line.CreatedAt,
	)
	return line, mapError(err)
}

// UpdateCartQuantity sets the quantity of one of the user's cart rows.
func (r *Repository) UpdateCartQuantity(ctx context.Context, userID, cartID string, quantity int) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE cart SET quantity = ? WHERE cart_id = ? AND user_id = ?`, quantity, cartID, userID)
	return requireAffected(res, err)
}

// DeleteCartLine removes one of the user's cart rows.
func (r *Repository) DeleteCartLine(ctx context.Context, userID, cartID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM cart WHERE cart_id = ? AND user_id = ?`, cartID, userID)
	return mapError(err)
}

// DeleteCart removes every cart row of the user.
func (r *Repository) DeleteCart(ctx context.Context, userID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM cart WHERE user_id = ?`, userID)
	return mapError(err)
}
