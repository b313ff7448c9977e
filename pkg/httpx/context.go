package httpx

import "context"

type ctxKey string

const (
	CtxKeyName   ctxKey = "identity_name"
	CtxKeyEmail  ctxKey = "identity_email"
	CtxKeyClaims ctxKey = "claims" // full jwtx.Claims if you need them
)

// Identity is the verified identity attached to a request context by
// AuthnMiddleware. Handlers must take the caller's name and email from here,
// never from the request body.
type Identity struct {
	Name  string
	Email string
}

// IdentityFromContext returns the verified identity for the request, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	name, ok := ctx.Value(CtxKeyName).(string)
	if !ok || name == "" {
		return Identity{}, false
	}
	email, _ := ctx.Value(CtxKeyEmail).(string)
	return Identity{Name: name, Email: email}, true
}
