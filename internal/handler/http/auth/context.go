package auth

import (
	"context"

	authservice "postboard/internal/service/auth"
)

type ctxKey string

const ctxClaims ctxKey = "claims"

// WithClaims returns a copy of ctx carrying the verified token claims.
func WithClaims(ctx context.Context, claims *authservice.Claims) context.Context {
	return context.WithValue(ctx, ctxClaims, claims)
}

// ClaimsFromContext returns the claims placed by Gate, if any.
func ClaimsFromContext(ctx context.Context) (*authservice.Claims, bool) {
	claims, ok := ctx.Value(ctxClaims).(*authservice.Claims)
	return claims, ok && claims != nil
}
