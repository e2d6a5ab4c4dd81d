package auth

import (
	"context"

	"github.com/pkordes/tripplanner/internal/domain"
)

type ctxKey struct{}

// WithIdentity stores the caller's identity in ctx.
func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IdentityFrom returns the caller's identity, or the anonymous identity when
// none was stored.
func IdentityFrom(ctx context.Context) domain.Identity {
	id, _ := ctx.Value(ctxKey{}).(domain.Identity)
	return id
}
