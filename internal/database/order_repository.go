package database

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"

	"github.com/artyaffairs/storefront/internal/models"
)

// InsertOrder records one purchased cart line.
func (r *Repository) InsertOrder(ctx context.Context, o models.Order) error {
	query := `
		INSERT INTO orders
		(order_id, user_id, artwork_id, quantity, total_amount, payment_status, order_status,
		 razorpay_payment_id, razorpay_order_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.DB.ExecContext(ctx, query,
		o.ID, o.UserID, o.ArtworkID, o.Quantity, o.TotalAmount, o.PaymentStatus, o.OrderStatus,
		o.PaymentID, o.GatewayOrderID, o.CreatedAt,
	)
	return mapError(err)
}

// ListOrders returns the user's orders with artwork details, newest first.
// ImageURL carries the raw stored reference.
func (r *Repository) ListOrders(ctx context.Context, userID string) ([]models.OrderDetail, error) {
	query := `
		SELECT
			o.order_id, o.user_id, o.artwork_id, o.quantity, o.total_amount, o.payment_status,
			o.order_status, o.razorpay_payment_id, o.razorpay_order_id, o.created_at,
			a.title, a.artist_name, a.image_url, a.price
		FROM orders o
		LEFT JOIN artworks a ON a.artwork_id = o.artwork_id
		WHERE o.user_id = ?
		ORDER BY o.created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	orders := []models.OrderDetail{}
	for rows.Next() {
		var (
			d                       models.OrderDetail
			title, artist, imageURL sql.NullString
			price                   decimal.NullDecimal
		)
		if err := rows.Scan(
			&d.ID, &d.UserID, &d.ArtworkID, &d.Quantity, &d.TotalAmount, &d.PaymentStatus,
			&d.OrderStatus, &d.PaymentID, &d.GatewayOrderID, &d.CreatedAt,
			&title, &artist, &imageURL, &price,
		); err != nil {
			return nil, err
		}
		d.Title = title.String
		d.ArtistName = artist.String
		d.ImageURL = imageURL.String
		d.Price = price.Decimal
		orders = append(orders, d)
	}
	return orders, rows.Err()
}
