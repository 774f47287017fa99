package database

import (
	"context"

	"github.com/artyaffairs/storefront/internal/models"
)

// ListWishlist returns the user's wishlist joined with artworks.
func (r *Repository) ListWishlist(ctx context.Context, userID string) ([]models.WishlistRow, error) {
	query := `
		SELECT
			w.wishlist_id, w.user_id, w.artwork_id, w.created_at,
			a.artwork_id, a.title, a.artist_name, a.category, a.price,
			a.quantity_available, a.status, a.image_url, a.image_urls
		FROM wishlist w
		LEFT JOIN artworks a ON a.artwork_id = w.artwork_id
		WHERE w.user_id = ?
		ORDER BY w.created_at ASC`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var out []models.WishlistRow
	for rows.Next() {
		var (
			row models.WishlistRow
			j   joinedArtwork
		)
		if err := rows.Scan(
			&row.ID, &row.UserID, &row.ArtworkID, &row.CreatedAt,
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

// InsertWishlistLine adds an artwork to the wishlist.
func (r *Repository) InsertWishlistLine(ctx context.Context, line models.WishlistLine) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO wishlist (wishlist_id, user_id, artwork_id, created_at) VALUES (?, ?, ?, ?)`,
		line.ID, line.UserID, line.ArtworkID, line.CreatedAt)
	return mapError(err)
}

// DeleteWishlistLine removes one of the user's wishlist rows.
func (r *Repository) DeleteWishlistLine(ctx context.Context, userID, wishlistID string) error {
	_, err := r.DB.ExecContext(ctx,
		`DELETE FROM wishlist WHERE wishlist_id = ? AND user_id = ?`, wishlistID, userID)
	return mapError(err)
}

// DeleteWishlist removes every wishlist row of the user.
func (r *Repository) DeleteWishlist(ctx context.Context, userID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM wishlist WHERE user_id = ?`, userID)
	return mapError(err)
}
