package cart

import (
	"errors"
	"fmt"
)

// NoticeKind classifies a user-visible failure.
type NoticeKind int

const (
	// KindInput is a rejected request; nothing was sent to the remote store.
	KindInput NoticeKind = iota
	// KindRemote is a failed remote call; local state has been resynced where possible.
	KindRemote
	// KindPayment ends a checkout attempt before anything was recorded. The cart is kept.
	KindPayment
	// KindFulfillment means payment went through but recording the order did not.
	KindFulfillment
)

func (k NoticeKind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindRemote:
		return "remote"
	case KindPayment:
		return "payment"
	case KindFulfillment:
		return "fulfillment"
	default:
		return fmt.Sprintf("NoticeKind(%d)", int(k))
	}
}

// Notice is the error type returned by store operations. Message is safe to
// show to the user; Err keeps the underlying cause for logs.
type Notice struct {
	Kind    NoticeKind
	Message string
	Err     error
}

func (n *Notice) Error() string {
	if n.Err != nil {
		return fmt.Sprintf("%s: %v", n.Message, n.Err)
	}
	return n.Message
}

func (n *Notice) Unwrap() error { return n.Err }

func inputNotice(msg string) *Notice {
	return &Notice{Kind: KindInput, Message: msg}
}

func remoteNotice(msg string, err error) *Notice {
	return &Notice{Kind: KindRemote, Message: msg, Err: err}
}

// AsNotice extracts a *Notice from err.
func AsNotice(err error) (*Notice, bool) {
	var n *Notice
	if errors.As(err, &n) {
		return n, true
	}
	return nil, false
}

// User-visible messages.
const (
	MsgSignIn            = "Please sign in to continue"
	MsgInvalidArtwork    = "Invalid artwork"
	MsgUnavailable       = "This artwork is no longer available"
	MsgNotEnoughQuantity = "Not enough quantity available"
	MsgItemNotInCart     = "Item is not in your cart"
	MsgEmptyCart         = "Your cart is empty"
	MsgPaymentCancelled  = "Payment was cancelled"
	MsgPaymentFailed     = "Payment failed"
	MsgFulfillmentFailed = "Payment succeeded but we could not record your order. Please contact support with your payment ID"
)
