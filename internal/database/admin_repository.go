package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/artyaffairs/storefront/internal/models"
)

// ListAllOrders returns every order with its buyer and artwork, newest first.
func (r *Repository) ListAllOrders(ctx context.Context) ([]models.AdminOrder, error) {
	query := `
		SELECT
			o.order_id, o.user_id, o.artwork_id, o.quantity, o.total_amount, o.payment_status,
			o.order_status, o.razorpay_payment_id, o.razorpay_order_id, o.created_at,
			a.title, a.artist_name, a.image_url, a.price,
			u.name, u.email
		FROM orders o
		LEFT JOIN artworks a ON a.artwork_id = o.artwork_id
		LEFT JOIN users u ON u.user_id = o.user_id
		ORDER BY o.created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	orders := []models.AdminOrder{}
	for rows.Next() {
		var (
			o                       models.AdminOrder
			title, artist, imageURL sql.NullString
			name, email             sql.NullString
			price                   decimal.NullDecimal
		)
		if err := rows.Scan(
			&o.ID, &o.UserID, &o.ArtworkID, &o.Quantity, &o.TotalAmount, &o.PaymentStatus,
			&o.OrderStatus, &o.PaymentID, &o.GatewayOrderID, &o.CreatedAt,
			&title, &artist, &imageURL, &price,
			&name, &email,
		); err != nil {
			return nil, err
		}
		o.Title = title.String
		o.ArtistName = artist.String
		o.ImageURL = imageURL.String
		o.Price = price.Decimal
		o.CustomerName = name.String
		o.CustomerEmail = email.String
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// MarkOrderDispatched moves a paid, pending order to Dispatched. It returns
// ErrNotFound for an unknown order and ErrWrongState for one that is unpaid or
// already dispatched.
func (r *Repository) MarkOrderDispatched(ctx context.Context, orderID string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE orders SET order_status = ? WHERE order_id = ? AND payment_status = ? AND order_status = ?`,
		models.OrderStatusDispatched, orderID, models.PaymentStatusPaid, models.OrderStatusPending,
	)
	err = requireAffected(res, err)
	if !errors.Is(err, models.ErrNotFound) {
		return err
	}

	var exists int
	if err := r.DB.QueryRowContext(ctx, `SELECT 1 FROM orders WHERE order_id = ?`, orderID).Scan(&exists); err != nil {
		return mapError(err)
	}
	return models.ErrWrongState
}

// SalesStats computes the dashboard counters.
func (r *Repository) SalesStats(ctx context.Context) (models.SalesStats, error) {
	var stats models.SalesStats

	// 1. Orders by payment status. Amounts are summed as decimals here
	// because SQLite keeps them as text.
	rows, err := r.DB.QueryContext(ctx, `SELECT payment_status, total_amount FROM orders`)
	if err != nil {
		return stats, mapError(err)
	}
	defer rows.Close()

	stats.TotalRevenue = decimal.Zero
	for rows.Next() {
		var (
			status string
			amount decimal.Decimal
		)
		if err := rows.Scan(&status, &amount); err != nil {
			return stats, err
		}
		stats.TotalOrders++
		switch status {
		case models.PaymentStatusPaid:
			stats.PaidOrders++
			stats.TotalRevenue = stats.TotalRevenue.Add(amount)
		case models.PaymentStatusPending:
			stats.PendingOrders++
		}
	}
	if err := rows.Err(); err != nil {
		return stats, err
	}

	// 2. Catalog and customer counts
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM artworks`).Scan(&stats.TotalArtworks); err != nil {
		return stats, mapError(err)
	}
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&stats.TotalUsers); err != nil {
		return stats, mapError(err)
	}
	return stats, nil
}
