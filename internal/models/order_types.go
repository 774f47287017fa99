package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order states written at fulfillment time.
const (
	PaymentStatusPaid    = "Paid"
	PaymentStatusPending = "Pending"

	OrderStatusPending    = "Pending"
	OrderStatusDispatched = "Dispatched"
)

// Order is the model for the 'orders' table. One row is written per purchased cart line.
type Order struct {
	ID             string          `json:"order_id" db:"order_id"`
	UserID         string          `json:"user_id" db:"user_id"`
	ArtworkID      string          `json:"artwork_id" db:"artwork_id"`
	Quantity       int             `json:"quantity" db:"quantity"`
	TotalAmount    decimal.Decimal `json:"total_amount" db:"total_amount"`
	PaymentStatus  string          `json:"payment_status" db:"payment_status"`
	OrderStatus    string          `json:"order_status" db:"order_status"`
	PaymentID      string          `json:"razorpay_payment_id" db:"razorpay_payment_id"`
	GatewayOrderID string          `json:"razorpay_order_id" db:"razorpay_order_id"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

// PaymentOrder is a gateway order opened for a user's cart. The widget
// callback is only honoured for the user and amount recorded here, and a
// gateway payment can be claimed against one order only.
type PaymentOrder struct {
	ID          string     `json:"razorpay_order_id" db:"gateway_order_id"`
	UserID      string     `json:"user_id" db:"user_id"`
	AmountMinor int64      `json:"amount" db:"amount_minor"`
	Currency    string     `json:"currency" db:"currency"`
	PaymentID   string     `json:"razorpay_payment_id,omitempty" db:"payment_id"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	PaidAt      *time.Time `json:"paid_at,omitempty" db:"paid_at"`
}

// OrderDetail is an order joined with the artwork it bought, for order history.
type OrderDetail struct {
	Order
	Title      string          `json:"title"`
	ArtistName string          `json:"artist_name"`
	ImageURL   string          `json:"image_url"`
	Price      decimal.Decimal `json:"price"`
}

// OrderReceipt summarises a completed checkout for the buyer's email.
type OrderReceipt struct {
	User      User
	PaymentID string
	OrderID   string
	Items     []LineItem
	Total     decimal.Decimal
	PlacedAt  time.Time
}

// AdminOrder is an order with its buyer and artwork, for the admin dashboard.
type AdminOrder struct {
	OrderDetail
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
}

// SalesStats are the admin dashboard counters. Revenue counts paid orders only.
type SalesStats struct {
	TotalOrders   int             `json:"total_orders"`
	PaidOrders    int             `json:"paid_orders"`
	PendingOrders int             `json:"pending_orders"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalArtworks int             `json:"total_artworks"`
	TotalUsers    int             `json:"total_users"`
}
