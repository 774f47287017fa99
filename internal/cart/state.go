package cart

import "fmt"

// CheckoutState is the position of a single checkout attempt.
type CheckoutState int

const (
	StateIdle CheckoutState = iota
	StateAwaitingPayment
	StatePaymentCancelled
	StatePaymentFailed
	StatePaymentSucceeded
	StateFulfilling
	StateFulfillmentFailed
	StateFulfillmentSucceeded
)

var checkoutStateNames = map[CheckoutState]string{
	StateIdle:                 "idle",
	StateAwaitingPayment:      "awaiting_payment",
	StatePaymentCancelled:     "payment_cancelled",
	StatePaymentFailed:        "payment_failed",
	StatePaymentSucceeded:     "payment_succeeded",
	StateFulfilling:           "fulfilling",
	StateFulfillmentFailed:    "fulfillment_failed",
	StateFulfillmentSucceeded: "fulfillment_succeeded",
}

func (s CheckoutState) String() string {
	if name, ok := checkoutStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("CheckoutState(%d)", int(s))
}

// MarshalText renders the state by name in JSON responses.
func (s CheckoutState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Terminal reports whether no further transition follows s.
func (s CheckoutState) Terminal() bool {
	switch s {
	case StatePaymentCancelled, StatePaymentFailed, StateFulfillmentFailed, StateFulfillmentSucceeded:
		return true
	}
	return false
}

var checkoutTransitions = map[CheckoutState][]CheckoutState{
	StateIdle:             {StateAwaitingPayment},
	StateAwaitingPayment:  {StatePaymentCancelled, StatePaymentFailed, StatePaymentSucceeded},
	StatePaymentSucceeded: {StateFulfilling},
	StateFulfilling:       {StateFulfillmentFailed, StateFulfillmentSucceeded},
}

// CanTransition reports whether to is a legal successor of s.
func (s CheckoutState) CanTransition(to CheckoutState) bool {
	for _, next := range checkoutTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}
