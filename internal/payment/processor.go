package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/artyaffairs/storefront/internal/models"
)

// Callback is what the hosted widget reports back to the browser.
type Callback struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
	Cancelled bool   `json:"cancelled"`
	Error     string `json:"error"`
}

// Verifier checks a widget signature.
type Verifier interface {
	VerifySignature(orderID, paymentID, signature string) bool
}

// Ledger remembers the gateway orders opened by CreatePaymentOrder.
// *database.Repository satisfies it.
type Ledger interface {
	GetPaymentOrder(ctx context.Context, orderID string) (*models.PaymentOrder, error)
	ClaimPaymentOrder(ctx context.Context, orderID, paymentID string) error
}

// Reasons a verified callback is still refused.
const (
	ReasonUnknownOrder   = "unknown payment order"
	ReasonOtherUser      = "payment order belongs to another account"
	ReasonAmountMismatch = "payment amount does not match the cart total"
	ReasonAlreadyUsed    = "payment has already been used"
)

// CallbackProcessor resolves a payment from a widget callback that has already
// happened in the browser.
type CallbackProcessor struct {
	verifier Verifier
	ledger   Ledger
	callback Callback
}

// NewCallbackProcessor binds a callback to the verifier that checks its
// signature and the ledger that checks what it paid for.
func NewCallbackProcessor(v Verifier, l Ledger, cb Callback) *CallbackProcessor {
	return &CallbackProcessor{verifier: v, ledger: l, callback: cb}
}

// ProcessPayment returns ErrCancelled for a dismissed widget, a failed Result
// for a declined payment, and ErrVerification for a bad signature.
//
// A verified callback only succeeds when its gateway order was opened for
// user, for exactly req.TotalAmount, and has not been claimed before.
func (p *CallbackProcessor) ProcessPayment(ctx context.Context, req Request, user models.User) (Result, error) {
	cb := p.callback
	if cb.Cancelled {
		return Result{}, ErrCancelled
	}
	if cb.Error != "" {
		return Result{Success: false, Error: cb.Error}, nil
	}
	if cb.PaymentID == "" || cb.OrderID == "" {
		return Result{Success: false, Error: "missing payment reference"}, nil
	}
	if !p.verifier.VerifySignature(cb.OrderID, cb.PaymentID, cb.Signature) {
		return Result{}, fmt.Errorf("%w for order %s", ErrVerification, cb.OrderID)
	}

	order, err := p.ledger.GetPaymentOrder(ctx, cb.OrderID)
	if errors.Is(err, models.ErrNotFound) {
		return Result{Success: false, Error: ReasonUnknownOrder}, nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("failed to load payment order %s: %w", cb.OrderID, err)
	}
	if order.UserID != user.ID {
		return Result{Success: false, Error: ReasonOtherUser}, nil
	}
	currency := req.Currency
	if currency == "" {
		currency = CurrencyINR
	}
	if order.AmountMinor != MinorUnits(req.TotalAmount) || order.Currency != currency {
		return Result{Success: false, Error: ReasonAmountMismatch}, nil
	}

	err = p.ledger.ClaimPaymentOrder(ctx, cb.OrderID, cb.PaymentID)
	switch {
	case errors.Is(err, models.ErrWrongState), errors.Is(err, models.ErrDuplicate):
		return Result{Success: false, Error: ReasonAlreadyUsed}, nil
	case err != nil:
		return Result{}, fmt.Errorf("failed to claim payment order %s: %w", cb.OrderID, err)
	}
	return Result{Success: true, PaymentID: cb.PaymentID, OrderID: cb.OrderID}, nil
}
