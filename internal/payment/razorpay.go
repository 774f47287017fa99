package payment

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"
	"github.com/shopspring/decimal"
)

// Order is a gateway order the widget is opened against.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status,omitempty"`
	KeyID    string `json:"key_id,omitempty"`
}

// orderCreator is the part of the Razorpay SDK used to open orders.
type orderCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// Client wraps the Razorpay SDK. With no KeyID configured it runs in mock
// mode: orders are fabricated locally and signatures are not checked.
type Client struct {
	KeyID     string
	KeySecret string
	orders    orderCreator
}

// NewClient returns a client for the given credentials.
func NewClient(keyID, keySecret string) *Client {
	c := &Client{KeyID: keyID, KeySecret: keySecret}
	if keyID != "" {
		c.orders = razorpay.NewClient(keyID, keySecret).Order
	}
	return c
}

// Mock reports whether the client fabricates orders instead of calling the gateway.
func (c *Client) Mock() bool {
	return c.KeyID == ""
}

// CreateOrder registers an order of amount rupees with the gateway.
func (c *Client) CreateOrder(ctx context.Context, amount decimal.Decimal, receipt string) (*Order, error) {
	if amount.Sign() <= 0 {
		return nil, fmt.Errorf("order amount must be positive, got %s", amount)
	}
	minor := MinorUnits(amount)

	if c.Mock() {
		log.Printf("payment: no gateway key configured, creating mock order for %d paise", minor)
		return &Order{
			ID:       "order_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:14],
			Amount:   minor,
			Currency: CurrencyINR,
			Receipt:  receipt,
			Status:   "created",
		}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, err := c.orders.Create(map[string]interface{}{
		"amount":   minor,
		"currency": CurrencyINR,
		"receipt":  receipt,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("payment gateway rejected order: %w", err)
	}

	order := &Order{
		ID:       stringField(body, "id"),
		Amount:   int64Field(body, "amount"),
		Currency: stringField(body, "currency"),
		Receipt:  stringField(body, "receipt"),
		Status:   stringField(body, "status"),
		KeyID:    c.KeyID,
	}
	if order.ID == "" {
		return nil, fmt.Errorf("invalid gateway response: missing order id")
	}
	if order.Amount == 0 {
		order.Amount = minor
	}
	return order, nil
}

// VerifySignature checks the signature returned by the checkout widget.
// In mock mode every signature is accepted.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	if c.Mock() {
		return true
	}
	return utils.VerifyPaymentSignature(map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}, signature, c.KeySecret)
}

func stringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

func int64Field(m map[string]interface{}, key string) int64 {
	switch v := m[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}
