package cart

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/artyaffairs/storefront/internal/models"
	"github.com/artyaffairs/storefront/internal/payment"
)

// receiptTimeout bounds the detached receipt send.
const receiptTimeout = 30 * time.Second

// Checkout is the record of one checkout attempt.
type Checkout struct {
	State     CheckoutState   `json:"state"`
	PaymentID string          `json:"payment_id,omitempty"`
	OrderID   string          `json:"order_id,omitempty"`
	Total     decimal.Decimal `json:"total"`
	Orders    []models.Order  `json:"orders,omitempty"`

	// Trail lists every state the attempt passed through, starting at StateIdle.
	Trail []CheckoutState `json:"-"`
}

func newCheckout() *Checkout {
	return &Checkout{State: StateIdle, Trail: []CheckoutState{StateIdle}}
}

func (c *Checkout) advance(to CheckoutState) {
	if !c.State.CanTransition(to) {
		// unreachable unless the flow below is edited incorrectly
		log.Printf("cart: illegal checkout transition %s -> %s", c.State, to)
	}
	c.State = to
	c.Trail = append(c.Trail, to)
}

// ProcessCheckout reloads the cart, charges it through processor and, once
// paid, records one order per line, decrements stock and clears the cart.
//
// The returned Checkout is never nil. On failure the error is a *Notice whose
// Kind tells a payment failure (cart kept, nothing recorded) apart from a
// fulfillment failure (payment taken, recording incomplete).
func (s *Store) ProcessCheckout(ctx context.Context, processor PaymentProcessor) (*Checkout, error) {
	co := newCheckout()

	user := s.resolveUser(ctx)
	if user == nil {
		return co, inputNotice(MsgSignIn)
	}
	// Re-read the cart so price and stock changes since the last load are
	// charged as they stand now.
	if err := s.FetchCartItems(ctx); err != nil {
		return co, err
	}
	items := s.Items()
	if len(items) == 0 {
		return co, inputNotice(MsgEmptyCart)
	}
	co.Total = totalPrice(items)

	co.advance(StateAwaitingPayment)
	result, err := processor.ProcessPayment(ctx, payment.Request{
		Items:       items,
		TotalAmount: co.Total,
		Currency:    payment.CurrencyINR,
	}, *user)
	switch {
	case errors.Is(err, payment.ErrCancelled):
		co.advance(StatePaymentCancelled)
		return co, &Notice{Kind: KindPayment, Message: MsgPaymentCancelled, Err: err}
	case err != nil:
		log.Printf("cart: payment error for %s: %v", user.ID, err)
		co.advance(StatePaymentFailed)
		return co, &Notice{Kind: KindPayment, Message: MsgPaymentFailed, Err: err}
	case !result.Success:
		co.advance(StatePaymentFailed)
		var cause error
		if result.Error != "" {
			cause = errors.New(result.Error)
		}
		return co, &Notice{Kind: KindPayment, Message: MsgPaymentFailed, Err: cause}
	}

	co.advance(StatePaymentSucceeded)
	co.PaymentID = result.PaymentID
	co.OrderID = result.OrderID

	co.advance(StateFulfilling)
	orders, err := s.fulfill(ctx, *user, items, result)
	co.Orders = orders
	if err != nil {
		log.Printf("cart: fulfillment failed for payment %s (%d of %d orders recorded): %v",
			result.PaymentID, len(orders), len(items), err)
		co.advance(StateFulfillmentFailed)
		s.resync(ctx)
		return co, &Notice{Kind: KindFulfillment, Message: MsgFulfillmentFailed, Err: err}
	}
	co.advance(StateFulfillmentSucceeded)

	s.clearAfterCheckout(ctx, user.ID)
	s.sendReceipt(ctx, models.OrderReceipt{
		User:      *user,
		PaymentID: result.PaymentID,
		OrderID:   result.OrderID,
		Items:     items,
		Total:     co.Total,
		PlacedAt:  s.now().UTC(),
	})
	return co, nil
}

// fulfill records an order and decrements stock for each line in turn,
// stopping at the first failure. Nothing already written is rolled back.
func (s *Store) fulfill(ctx context.Context, user models.User, items []models.LineItem, result payment.Result) ([]models.Order, error) {
	orders := make([]models.Order, 0, len(items))
	for _, item := range items {
		order := models.Order{
			ID:             s.newID(),
			UserID:         user.ID,
			ArtworkID:      item.ArtworkID,
			Quantity:       item.Quantity,
			TotalAmount:    item.LineTotal(),
			PaymentStatus:  models.PaymentStatusPaid,
			OrderStatus:    models.OrderStatusPending,
			PaymentID:      result.PaymentID,
			GatewayOrderID: result.OrderID,
			CreatedAt:      s.now().UTC(),
		}
		if err := s.remote.InsertOrder(ctx, order); err != nil {
			return orders, fmt.Errorf("failed to record order for artwork %s: %w", item.ArtworkID, err)
		}
		orders = append(orders, order)

		if err := s.decrementStock(ctx, item); err != nil {
			return orders, err
		}
	}
	return orders, nil
}

// decrementStock re-reads current stock so a concurrent sale is not overwritten.
func (s *Store) decrementStock(ctx context.Context, item models.LineItem) error {
	stock, err := s.remote.GetStock(ctx, item.ArtworkID)
	if err != nil {
		return fmt.Errorf("failed to read stock for artwork %s: %w", item.ArtworkID, err)
	}

	remaining := max(0, stock.QuantityAvailable-item.Quantity)
	status := models.StatusAvailable
	if remaining == 0 && stock.IsOriginal() {
		status = models.StatusSold
	}
	if err := s.remote.UpdateStock(ctx, item.ArtworkID, remaining, status); err != nil {
		return fmt.Errorf("failed to update stock for artwork %s: %w", item.ArtworkID, err)
	}
	return nil
}

// clearAfterCheckout empties the cart once orders are recorded. If the remote
// delete fails the local items are resynced rather than assumed gone.
func (s *Store) clearAfterCheckout(ctx context.Context, userID string) {
	if err := s.remote.DeleteCart(ctx, userID); err != nil {
		log.Printf("cart: orders recorded but clearing cart for %s failed: %v", userID, err)
		s.resync(ctx)
		return
	}
	s.emptyItems(ctx, userID)
}

func (s *Store) sendReceipt(ctx context.Context, r models.OrderReceipt) {
	if s.receipts == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(ctx, receiptTimeout)
		defer cancel()
		if err := s.receipts.SendOrderReceipt(ctx, r); err != nil {
			log.Printf("cart: failed to send receipt for payment %s: %v", r.PaymentID, err)
		}
	}()
}
