package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/artyaffairs/storefront/internal/models"
)

// InsertPaymentOrder records a gateway order opened for a user's cart.
func (r *Repository) InsertPaymentOrder(ctx context.Context, p models.PaymentOrder) error {
	query := `
		INSERT INTO payment_orders (gateway_order_id, user_id, amount_minor, currency, created_at)
		VALUES (?, ?, ?, ?, ?)`
	_, err := r.DB.ExecContext(ctx, query, p.ID, p.UserID, p.AmountMinor, p.Currency, p.CreatedAt)
	return mapError(err)
}

// GetPaymentOrder returns the recorded gateway order, or models.ErrNotFound.
func (r *Repository) GetPaymentOrder(ctx context.Context, orderID string) (*models.PaymentOrder, error) {
	query := `
		SELECT gateway_order_id, user_id, amount_minor, currency, payment_id, created_at, paid_at
		FROM payment_orders WHERE gateway_order_id = ?`

	var (
		p         models.PaymentOrder
		paymentID sql.NullString
		paidAt    sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx, query, orderID).Scan(
		&p.ID, &p.UserID, &p.AmountMinor, &p.Currency, &paymentID, &p.CreatedAt, &paidAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	p.PaymentID = paymentID.String
	if paidAt.Valid {
		p.PaidAt = &paidAt.Time
	}
	return &p, nil
}

// ClaimPaymentOrder binds paymentID to an unclaimed gateway order. It returns
// models.ErrWrongState when the order was already claimed and
// models.ErrDuplicate when paymentID was claimed against another order.
func (r *Repository) ClaimPaymentOrder(ctx context.Context, orderID, paymentID string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE payment_orders SET payment_id = ?, paid_at = ? WHERE gateway_order_id = ? AND payment_id IS NULL`,
		paymentID, time.Now().UTC(), orderID,
	)
	err = requireAffected(res, err)
	if !errors.Is(err, models.ErrNotFound) {
		return err
	}

	var exists int
	if err := r.DB.QueryRowContext(ctx, `SELECT 1 FROM payment_orders WHERE gateway_order_id = ?`, orderID).Scan(&exists); err != nil {
		return mapError(err)
	}
	return models.ErrWrongState
}
