package cart

import (
	"context"

	"github.com/artyaffairs/storefront/internal/models"
	"github.com/artyaffairs/storefront/internal/payment"
)

// Remote is the authoritative relational store behind the cart.
// *database.Repository satisfies it.
type Remote interface {
	EnsureProfile(ctx context.Context, u models.User) error
	ListCart(ctx context.Context, userID string) ([]models.CartRow, error)
	InsertCartLine(ctx context.Context, line models.CartLine) error
	FindCartLine(ctx context.Context, userID, artworkID string) (models.CartLine, error)
	UpdateCartQuantity(ctx context.Context, userID, cartID string, quantity int) error
	DeleteCartLine(ctx context.Context, userID, cartID string) error
	DeleteCart(ctx context.Context, userID string) error

	InsertOrder(ctx context.Context, o models.Order) error
	GetStock(ctx context.Context, artworkID string) (models.Stock, error)
	UpdateStock(ctx context.Context, artworkID string, quantity int, status string) error
}

// Upserter is implemented by remotes that can insert-or-increment a cart row
// in one statement, capping the quantity at limit.
type Upserter interface {
	UpsertCartLine(ctx context.Context, line models.CartLine, limit int) error
}

// SessionSource resolves the signed-in user straight from the session when the
// store's own user reference is missing.
type SessionSource interface {
	CurrentUser(ctx context.Context) (*models.User, error)
}

// PaymentProcessor collects payment for a checkout. A cancelled attempt
// returns payment.ErrCancelled.
type PaymentProcessor interface {
	ProcessPayment(ctx context.Context, req payment.Request, user models.User) (payment.Result, error)
}

// ReceiptSender delivers order receipts. Failures are logged and never affect checkout.
type ReceiptSender interface {
	SendOrderReceipt(ctx context.Context, r models.OrderReceipt) error
}
