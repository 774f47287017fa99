package auth

import (
	"context"

	"github.com/artyaffairs/storefront/internal/models"
)

type contextKey struct{}

// WithUser returns a copy of ctx carrying the authenticated user.
func WithUser(ctx context.Context, u models.User) context.Context {
	return context.WithValue(ctx, contextKey{}, u)
}

// UserFrom returns the authenticated user stored in ctx.
func UserFrom(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(contextKey{}).(models.User)
	return u, ok
}

// ContextSession reads the current user from the request context. A request
// without an authenticated user yields (nil, nil).
type ContextSession struct{}

func (ContextSession) CurrentUser(ctx context.Context) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	u, ok := UserFrom(ctx)
	if !ok {
		return nil, nil
	}
	return &u, nil
}
