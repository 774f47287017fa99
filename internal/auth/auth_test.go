package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artyaffairs/storefront/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)
	want := models.User{ID: "7f1c", Email: "buyer@example.com", Name: "Buyer"}

	signed, err := tokens.GenerateToken(want)
	require.NoError(t, err)

	got, err := tokens.ValidateToken(signed)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	signed, err := NewTokens("a", time.Hour).GenerateToken(models.User{ID: "u1"})
	require.NoError(t, err)
	_, err = NewTokens("b", time.Hour).ValidateToken(signed)
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	claims := jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(-time.Minute).Unix()}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s"))
	require.NoError(t, err)
	_, err = NewTokens("s", 0).ValidateToken(signed)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestValidateToken_MissingSubject(t *testing.T) {
	claims := jwt.MapClaims{"sub": 42, "exp": time.Now().Add(time.Minute).Unix()}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s"))
	require.NoError(t, err)
	_, err = NewTokens("s", 0).ValidateToken(signed)
	assert.ErrorIs(t, err, ErrInvalidSubject)
}

func TestValidateToken_RejectsNone(t *testing.T) {
	claims := jwt.MapClaims{"sub": "u1"}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = NewTokens("s", 0).ValidateToken(signed)
	assert.Error(t, err)
}

func TestContextSession(t *testing.T) {
	ctx := context.Background()
	u, err := ContextSession{}.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, u)

	ctx = WithUser(ctx, models.User{ID: "u1"})
	u, err = ContextSession{}.CurrentUser(ctx)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "u1", u.ID)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = ContextSession{}.CurrentUser(cancelled)
	assert.Error(t, err)
}
