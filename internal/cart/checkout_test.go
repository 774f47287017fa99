package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artyaffairs/storefront/internal/models"
	"github.com/artyaffairs/storefront/internal/payment"
)

func cartWith(t *testing.T, remote *fakeRemote, mods ...func(*Deps)) *Store {
	t.Helper()
	ctx := context.Background()
	original := remote.addArtwork("orig", models.CategoryOriginal, 1, 1000)
	prints := remote.addArtwork("print", models.CategoryCeramic, 5, 250)
	s := signedIn(t, remote, mods...)
	require.NoError(t, s.AddItem(ctx, original, 1))
	require.NoError(t, s.AddItem(ctx, prints, 2))
	return s
}

func TestCheckoutState_Transitions(t *testing.T) {
	assert.True(t, StateIdle.CanTransition(StateAwaitingPayment))
	assert.True(t, StateAwaitingPayment.CanTransition(StatePaymentCancelled))
	assert.True(t, StatePaymentSucceeded.CanTransition(StateFulfilling))
	assert.False(t, StateIdle.CanTransition(StateFulfilling))
	assert.False(t, StatePaymentFailed.CanTransition(StateFulfilling))
	for _, s := range []CheckoutState{StatePaymentCancelled, StatePaymentFailed, StateFulfillmentFailed, StateFulfillmentSucceeded} {
		assert.True(t, s.Terminal(), s.String())
	}
	assert.False(t, StateFulfilling.Terminal())
	assert.Equal(t, "fulfillment_failed", StateFulfillmentFailed.String())
}

func TestProcessCheckout_Success(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	receipts := newFakeReceipts()
	s := cartWith(t, remote, func(d *Deps) { d.Receipts = receipts })
	proc := paid()

	co, err := s.ProcessCheckout(ctx, proc)
	require.NoError(t, err)
	assert.Equal(t, StateFulfillmentSucceeded, co.State)
	assert.Equal(t, []CheckoutState{
		StateIdle, StateAwaitingPayment, StatePaymentSucceeded, StateFulfilling, StateFulfillmentSucceeded,
	}, co.Trail)
	assert.Equal(t, "pay_1", co.PaymentID)
	assert.True(t, co.Total.Equal(decimal.NewFromInt(1500)))
	assert.True(t, proc.last.TotalAmount.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, payment.CurrencyINR, proc.last.Currency)

	orders := remote.recordedOrders()
	require.Len(t, orders, 2)
	assert.Equal(t, "orig", orders[0].ArtworkID)
	assert.Equal(t, models.PaymentStatusPaid, orders[0].PaymentStatus)
	assert.Equal(t, models.OrderStatusPending, orders[0].OrderStatus)
	assert.Equal(t, "order_1", orders[0].GatewayOrderID)
	assert.True(t, orders[1].TotalAmount.Equal(decimal.NewFromInt(500)))

	orig := remote.artwork("orig")
	assert.Equal(t, 0, orig.QuantityAvailable)
	assert.Equal(t, models.StatusSold, orig.Status)
	prints := remote.artwork("print")
	assert.Equal(t, 3, prints.QuantityAvailable)
	assert.Equal(t, models.StatusAvailable, prints.Status)

	assert.Empty(t, s.Items())
	assert.Empty(t, remote.remoteLines("u1"))

	select {
	case rec := <-receipts.sent:
		assert.Equal(t, "pay_1", rec.PaymentID)
		assert.Len(t, rec.Items, 2)
	case <-time.After(2 * time.Second):
		t.Fatal("receipt was not sent")
	}
}

func TestProcessCheckout_NonOriginalSoldOutStaysAvailable(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	a := remote.addArtwork("bouquet", models.CategoryBouquet, 1, 300)
	s := signedIn(t, remote)
	require.NoError(t, s.AddItem(ctx, a, 1))

	_, err := s.ProcessCheckout(ctx, paid())
	require.NoError(t, err)
	got := remote.artwork("bouquet")
	assert.Equal(t, 0, got.QuantityAvailable)
	assert.Equal(t, models.StatusAvailable, got.Status)
	assert.False(t, got.IsPurchasable())
}

func TestProcessCheckout_StockNeverNegative(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	s := cartWith(t, remote)
	// someone else bought four prints in the meantime
	remote.setArtwork("print", func(a *models.Artwork) { a.QuantityAvailable = 1 })

	_, err := s.ProcessCheckout(ctx, paid())
	require.NoError(t, err)
	assert.Equal(t, 0, remote.artwork("print").QuantityAvailable)
}

func TestProcessCheckout_ReloadsCartBeforePaying(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	s := cartWith(t, remote)
	// the original sold elsewhere and the print went up in price
	remote.setArtwork("orig", func(a *models.Artwork) {
		a.QuantityAvailable = 0
		a.Status = models.StatusSold
	})
	remote.setArtwork("print", func(a *models.Artwork) { a.Price = decimal.NewFromInt(300) })
	proc := paid()

	co, err := s.ProcessCheckout(ctx, proc)
	require.NoError(t, err)
	assert.True(t, proc.last.TotalAmount.Equal(decimal.NewFromInt(600)), proc.last.TotalAmount.String())
	assert.True(t, co.Total.Equal(decimal.NewFromInt(600)))
	require.Len(t, proc.last.Items, 1)
	assert.Equal(t, "print", proc.last.Items[0].ArtworkID)

	orders := remote.recordedOrders()
	require.Len(t, orders, 1)
	assert.Equal(t, "print", orders[0].ArtworkID)
	assert.Equal(t, models.StatusSold, remote.artwork("orig").Status)
}

func TestProcessCheckout_ReloadFailureNeverPays(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	s := cartWith(t, remote)
	remote.fail["ListCart"] = errors.New("connection reset")
	proc := paid()

	co, err := s.ProcessCheckout(ctx, proc)
	requireNotice(t, err, KindRemote)
	assert.Equal(t, StateIdle, co.State)
	assert.Equal(t, 0, proc.calls)
	assert.Empty(t, remote.recordedOrders())
}

func TestProcessCheckout_SoldOutCartNeverPays(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	a := remote.addArtwork("orig", models.CategoryOriginal, 1, 1000)
	s := signedIn(t, remote)
	require.NoError(t, s.AddItem(ctx, a, 1))
	remote.setArtwork("orig", func(a *models.Artwork) {
		a.QuantityAvailable = 0
		a.Status = models.StatusSold
	})
	proc := paid()

	_, err := s.ProcessCheckout(ctx, proc)
	n := requireNotice(t, err, KindInput)
	assert.Equal(t, MsgEmptyCart, n.Message)
	assert.Equal(t, 0, proc.calls)
}

func TestProcessCheckout_EmptyCartNeverPays(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	s := signedIn(t, remote)
	proc := paid()

	co, err := s.ProcessCheckout(ctx, proc)
	n := requireNotice(t, err, KindInput)
	assert.Equal(t, MsgEmptyCart, n.Message)
	assert.Equal(t, StateIdle, co.State)
	assert.Equal(t, 0, proc.calls)
}

func TestProcessCheckout_NoUser(t *testing.T) {
	proc := paid()
	co, err := newTestStore(t, newFakeRemote()).ProcessCheckout(context.Background(), proc)
	requireNotice(t, err, KindInput)
	assert.Equal(t, StateIdle, co.State)
	assert.Equal(t, 0, proc.calls)
}

func TestProcessCheckout_SessionFallback(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	a := remote.addArtwork("a1", models.CategoryCeramic, 2, 100)
	require.NoError(t, remote.EnsureProfile(ctx, buyer))
	require.NoError(t, remote.InsertCartLine(ctx, models.CartLine{ID: "c1", UserID: "u1", ArtworkID: a.ID, Quantity: 1}))

	s := newTestStore(t, remote, func(d *Deps) {
		d.Session = sessionFunc(func(context.Context) (*models.User, error) { return &buyer, nil })
	})
	s.items = []models.LineItem{{CartID: "c1", ArtworkID: "a1", Price: decimal.NewFromInt(100), Quantity: 1, QuantityAvailable: 2}}

	co, err := s.ProcessCheckout(ctx, paid())
	require.NoError(t, err)
	assert.Equal(t, StateFulfillmentSucceeded, co.State)
	require.NotNil(t, s.Snapshot().User)
	assert.Equal(t, "u1", s.Snapshot().User.ID)
}

func TestProcessCheckout_SessionTimeoutTreatedAsSignedOut(t *testing.T) {
	s := newTestStore(t, newFakeRemote(), func(d *Deps) {
		d.SessionTimeout = 20 * time.Millisecond
		d.Session = sessionFunc(func(ctx context.Context) (*models.User, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})
	})
	proc := paid()

	start := time.Now()
	_, err := s.ProcessCheckout(context.Background(), proc)
	requireNotice(t, err, KindInput)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 0, proc.calls)
}

func TestProcessCheckout_PaymentCancelled(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	s := cartWith(t, remote)

	co, err := s.ProcessCheckout(ctx, &fakeProcessor{err: payment.ErrCancelled})
	n := requireNotice(t, err, KindPayment)
	assert.Equal(t, MsgPaymentCancelled, n.Message)
	assert.Equal(t, StatePaymentCancelled, co.State)
	assert.Len(t, s.Items(), 2)
	assert.Empty(t, remote.recordedOrders())
}

func TestProcessCheckout_PaymentFailed(t *testing.T) {
	ctx := context.Background()

	for name, proc := range map[string]*fakeProcessor{
		"declined":  {result: payment.Result{Success: false, Error: "card declined"}},
		"error":     {err: errors.New("gateway unreachable")},
		"signature": {err: payment.ErrVerification},
	} {
		t.Run(name, func(t *testing.T) {
			remote := newFakeRemote()
			s := cartWith(t, remote)

			co, err := s.ProcessCheckout(ctx, proc)
			n := requireNotice(t, err, KindPayment)
			assert.Equal(t, MsgPaymentFailed, n.Message)
			assert.Equal(t, StatePaymentFailed, co.State)
			assert.Len(t, s.Items(), 2)
			assert.Len(t, remote.remoteLines("u1"), 2)
			assert.Empty(t, remote.recordedOrders())
		})
	}
}

func TestProcessCheckout_FulfillmentFailureKeepsCart(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	receipts := newFakeReceipts()
	s := cartWith(t, remote, func(d *Deps) { d.Receipts = receipts })
	remote.failOrderAfter = 1

	co, err := s.ProcessCheckout(ctx, paid())
	n := requireNotice(t, err, KindFulfillment)
	assert.Equal(t, MsgFulfillmentFailed, n.Message)
	assert.NotEqual(t, MsgPaymentFailed, n.Message)
	assert.Equal(t, StateFulfillmentFailed, co.State)
	assert.Equal(t, "pay_1", co.PaymentID)
	assert.Len(t, co.Orders, 1)

	assert.NotEmpty(t, s.Items())
	assert.Len(t, remote.remoteLines("u1"), 2)
	assert.Equal(t, 0, remote.count("DeleteCart"))
	assert.Empty(t, receipts.sent)
}

func TestProcessCheckout_StockUpdateFailure(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	s := cartWith(t, remote)
	remote.fail["UpdateStock"] = errors.New("lock wait timeout")

	co, err := s.ProcessCheckout(ctx, paid())
	requireNotice(t, err, KindFulfillment)
	assert.Equal(t, StateFulfillmentFailed, co.State)
	assert.Len(t, remote.recordedOrders(), 1)
	assert.Len(t, remote.remoteLines("u1"), 2)
}

func TestProcessCheckout_CartClearFailureResyncs(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	s := cartWith(t, remote)
	remote.fail["DeleteCart"] = errors.New("deadlock")

	co, err := s.ProcessCheckout(ctx, paid())
	require.NoError(t, err)
	assert.Equal(t, StateFulfillmentSucceeded, co.State)
	// the original sold out, so only the print line survives the resync
	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "print", items[0].ArtworkID)
}

func TestProcessCheckout_ReceiptFailureDoesNotFailCheckout(t *testing.T) {
	ctx := context.Background()
	remote := newFakeRemote()
	receipts := newFakeReceipts()
	receipts.err = errors.New("mail provider down")
	s := cartWith(t, remote, func(d *Deps) { d.Receipts = receipts })

	co, err := s.ProcessCheckout(ctx, paid())
	require.NoError(t, err)
	assert.Equal(t, StateFulfillmentSucceeded, co.State)
	select {
	case <-receipts.sent:
	case <-time.After(2 * time.Second):
		t.Fatal("receipt was not attempted")
	}
}
