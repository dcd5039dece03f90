package middleware

import (
	"context"

	"github.com/angelmondragon/storefront-checkout/api/responses"
	"github.com/angelmondragon/storefront-checkout/internal/cart"
)

type contextKey string

const ctxCartOwner contextKey = "cart_owner"

// CartOwnerFromContext returns the cart owner resolved by CartOwner.
func CartOwnerFromContext(ctx context.Context) (cart.Owner, bool) {
	if ctx == nil {
		return "", false
	}
	owner, ok := ctx.Value(ctxCartOwner).(cart.Owner)
	return owner, ok && owner != ""
}

// WithCartOwner injects the cart owner into the context.
func WithCartOwner(ctx context.Context, owner cart.Owner) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxCartOwner, owner)
}

// RequestIDFromContext returns the id assigned by RequestID.
func RequestIDFromContext(ctx context.Context) string {
	return responses.RequestID(ctx)
}
