package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artyaffairs/storefront/internal/cart"
	"github.com/artyaffairs/storefront/internal/models"
	"github.com/artyaffairs/storefront/internal/wishlist"
)

func TestNoticeStatus(t *testing.T) {
	cases := []struct {
		notice *cart.Notice
		want   int
	}{
		{&cart.Notice{Kind: cart.KindInput, Message: cart.MsgInvalidArtwork}, http.StatusBadRequest},
		{&cart.Notice{Kind: cart.KindInput, Message: cart.MsgNotEnoughQuantity}, http.StatusConflict},
		{&cart.Notice{Kind: cart.KindInput, Message: wishlist.MsgAlreadyWished}, http.StatusConflict},
		{&cart.Notice{Kind: cart.KindInput, Message: cart.MsgSignIn}, http.StatusUnauthorized},
		{&cart.Notice{Kind: cart.KindRemote, Message: "x"}, http.StatusBadGateway},
		{&cart.Notice{Kind: cart.KindPayment, Message: cart.MsgPaymentFailed}, http.StatusPaymentRequired},
		{&cart.Notice{Kind: cart.KindFulfillment, Message: cart.MsgFulfillmentFailed}, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, noticeStatus(tc.notice), tc.notice.Message)
	}
}

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	respondError(c, errors.New("connection refused"), "Failed to load cart")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to load cart"}`, w.Body.String())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	respondError(c, &cart.Notice{Kind: cart.KindRemote, Message: "Failed to update cart"}, "unused")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.JSONEq(t, `{"error":"Failed to update cart","kind":"remote"}`, w.Body.String())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	respondError(c, models.ErrNotFound, "unused")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestArtworkInputApply(t *testing.T) {
	qty := 2
	in := ArtworkInput{
		Title:             "  Lotus Pond ",
		Category:          "Resin_Art",
		Price:             decimal.RequireFromString("2500"),
		QuantityAvailable: &qty,
		ImageURL:          `"lotus.jpg"`,
		ImageURLs:         []string{"lotus-1.jpg"},
	}

	var a models.Artwork
	require.NoError(t, in.apply(&a))
	assert.Equal(t, "Lotus Pond", a.Title)
	assert.Equal(t, models.CategoryResinArt, a.Category)
	assert.Equal(t, models.StatusAvailable, a.Status)
	require.NotNil(t, a.ImageURL)
	assert.Equal(t, "lotus.jpg", *a.ImageURL)
	require.NotNil(t, a.ImageURLs)
	assert.JSONEq(t, `["lotus-1.jpg"]`, *a.ImageURLs)

	in.Status = "SOLD"
	require.NoError(t, in.apply(&a))
	assert.Equal(t, models.StatusSold, a.Status)

	in.Status = "archived"
	assert.Error(t, in.apply(&a))

	in.Status = ""
	in.Price = decimal.NewFromInt(-1)
	assert.Error(t, in.apply(&a))

	in.Price = decimal.Zero
	in.Category = "poster"
	assert.Error(t, in.apply(&a))
}
