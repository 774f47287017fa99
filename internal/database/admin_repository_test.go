package database

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artyaffairs/storefront/internal/models"
)

func TestAdminOrders(t *testing.T) {
	ctx := context.Background()
	r := newTestRepo(t)
	seedArtwork(t, r, "a1", models.CategoryOriginal, 1)
	require.NoError(t, r.EnsureProfile(ctx, models.User{ID: "u1", Name: "Meera", Email: "meera@example.com"}))

	paid := models.Order{
		ID:            "o1",
		UserID:        "u1",
		ArtworkID:     "a1",
		Quantity:      1,
		TotalAmount:   decimal.RequireFromString("1500.50"),
		PaymentStatus: models.PaymentStatusPaid,
		OrderStatus:   models.OrderStatusPending,
		CreatedAt:     time.Now().UTC().Add(-time.Hour),
	}
	unpaid := paid
	unpaid.ID = "o2"
	unpaid.PaymentStatus = models.PaymentStatusPending
	unpaid.TotalAmount = decimal.RequireFromString("99.99")
	unpaid.CreatedAt = time.Now().UTC()
	require.NoError(t, r.InsertOrder(ctx, paid))
	require.NoError(t, r.InsertOrder(ctx, unpaid))

	orders, err := r.ListAllOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "o2", orders[0].ID)
	assert.Equal(t, "Meera", orders[0].CustomerName)
	assert.Equal(t, "meera@example.com", orders[0].CustomerEmail)
	assert.Equal(t, "Piece a1", orders[0].Title)

	stats, err := r.SalesStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalOrders)
	assert.Equal(t, 1, stats.PaidOrders)
	assert.Equal(t, 1, stats.PendingOrders)
	assert.True(t, stats.TotalRevenue.Equal(decimal.RequireFromString("1500.50")), stats.TotalRevenue.String())
	assert.Equal(t, 1, stats.TotalArtworks)
	assert.Equal(t, 1, stats.TotalUsers)

	require.NoError(t, r.MarkOrderDispatched(ctx, "o1"))
	assert.ErrorIs(t, r.MarkOrderDispatched(ctx, "o1"), models.ErrWrongState)
	assert.ErrorIs(t, r.MarkOrderDispatched(ctx, "o2"), models.ErrWrongState)
	assert.ErrorIs(t, r.MarkOrderDispatched(ctx, "missing"), models.ErrNotFound)

	orders, err = r.ListAllOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDispatched, orders[1].OrderStatus)
}

func TestSalesStatsEmpty(t *testing.T) {
	stats, err := newTestRepo(t).SalesStats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalOrders)
	assert.True(t, stats.TotalRevenue.IsZero())
}
