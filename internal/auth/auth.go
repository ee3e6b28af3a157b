// Package auth is the access gate: it turns credentials into sessions and
// session tokens into caller identities. The rest of the system only ever
// consumes the resulting CallerIdentity.
package auth

import (
	"context"

	"github.com/openinventory/inventory-admin/internal/model"
)

// Authenticator resolves a bearer token to a caller identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (model.CallerIdentity, error)
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying the caller identity.
func NewContext(ctx context.Context, identity model.CallerIdentity) context.Context {
	return context.WithValue(ctx, ctxKey{}, identity)
}

// FromContext returns the caller identity carried by ctx, if any.
func FromContext(ctx context.Context) (model.CallerIdentity, bool) {
	identity, ok := ctx.Value(ctxKey{}).(model.CallerIdentity)
	return identity, ok && !identity.IsZero()
}
