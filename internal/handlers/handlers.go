package handlers

import (
	"context"
	"mime/multipart"

	"github.com/shopspring/decimal"

	"github.com/artyaffairs/storefront/internal/cart"
	"github.com/artyaffairs/storefront/internal/email"
	"github.com/artyaffairs/storefront/internal/media"
	"github.com/artyaffairs/storefront/internal/models"
	"github.com/artyaffairs/storefront/internal/payment"
	"github.com/artyaffairs/storefront/internal/storage"
	"github.com/artyaffairs/storefront/internal/wishlist"
)

// Catalog reads and writes artworks. *database.Repository satisfies it.
type Catalog interface {
	ListArtworks(ctx context.Context, category models.Category) ([]models.Artwork, error)
	GetArtwork(ctx context.Context, artworkID string) (*models.Artwork, error)
	CreateArtwork(ctx context.Context, a *models.Artwork) error
	UpdateArtwork(ctx context.Context, a *models.Artwork) error
	DeleteArtwork(ctx context.Context, artworkID string) error
}

// OrderHistory lists a user's past orders.
type OrderHistory interface {
	ListOrders(ctx context.Context, userID string) ([]models.OrderDetail, error)
}

// AdminStore backs the admin dashboard.
type AdminStore interface {
	ListAllOrders(ctx context.Context) ([]models.AdminOrder, error)
	MarkOrderDispatched(ctx context.Context, orderID string) error
	SalesStats(ctx context.Context) (models.SalesStats, error)
}

// Gateway creates payment orders and verifies widget signatures.
type Gateway interface {
	CreateOrder(ctx context.Context, amount decimal.Decimal, receipt string) (*payment.Order, error)
	payment.Verifier
}

// PaymentLedger records the gateway orders handed to the widget so the
// callback can be matched against them. *database.Repository satisfies it.
type PaymentLedger interface {
	InsertPaymentOrder(ctx context.Context, p models.PaymentOrder) error
	payment.Ledger
}

// Uploader stores media files.
type Uploader interface {
	Save(file *multipart.FileHeader, dir string) (*storage.Object, error)
}

// EnquirySender forwards site enquiries to the studio.
type EnquirySender interface {
	SendEnquiry(ctx context.Context, e email.Enquiry) error
}

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	Catalog       Catalog
	Orders        OrderHistory
	Admin         AdminStore
	Carts         *cart.Registry
	Wishlists     *wishlist.Registry
	Media         *media.Normalizer
	Payments      Gateway
	PaymentOrders PaymentLedger
	Uploads       Uploader
	Mailer        EnquirySender
}
