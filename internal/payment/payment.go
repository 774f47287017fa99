// Package payment talks to the Razorpay gateway: it creates gateway orders for
// the hosted checkout widget and verifies the signed result the widget hands
// back before a payment is treated as successful.
package payment

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/artyaffairs/storefront/internal/models"
)

// CurrencyINR is the only currency the storefront charges in.
const CurrencyINR = "INR"

var (
	// ErrCancelled is returned when the buyer dismissed the payment widget.
	ErrCancelled = errors.New("payment cancelled")
	// ErrVerification is returned when the widget result carries a bad signature.
	ErrVerification = errors.New("payment verification failed")
)

// Request describes what is being paid for.
type Request struct {
	Items       []models.LineItem
	TotalAmount decimal.Decimal
	Currency    string
}

// Result is the resolved outcome of a payment attempt.
type Result struct {
	Success   bool   `json:"success"`
	PaymentID string `json:"payment_id,omitempty"`
	OrderID   string `json:"order_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// MinorUnits converts a rupee amount to paise, rounding half away from zero.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
