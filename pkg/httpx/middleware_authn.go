package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/cartelera/cartelera/pkg/jwtx"
	"github.com/cartelera/cartelera/pkg/slogx"
)

// AuthnMiddleware gates handlers behind bearer-token authentication.
//
// A request with no Authorization header, or a header with no token after
// "Bearer", never attempted to authenticate and gets 401. A request that
// presents a token which fails verification gets 403. The response body is
// the same generic denial either way; the verification failure cause only
// reaches the server log.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			// The scheme must be exactly "Bearer" followed by a space; a
			// header like "Bearerfoo" never presented a token and gets 401.
			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				writeBearerDenied(w, http.StatusUnauthorized)
				return
			}

			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
			if raw == "" {
				writeBearerDenied(w, http.StatusUnauthorized)
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("token verification failed", "err", err)
				writeBearerDenied(w, http.StatusForbidden)
				return
			}

			// Inject verified identity for downstream handlers.
			ctx = contextWithIdentity(ctx, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func contextWithIdentity(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyName, c.Name)
	ctx = context.WithValue(ctx, CtxKeyEmail, c.Email)
	ctx = context.WithValue(ctx, CtxKeyClaims, c)
	return ctx
}

// RFC 6750-style denial for bearer auth. Same body for every failure mode.
func writeBearerDenied(w http.ResponseWriter, code int) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	WriteError(w, code, "access_denied", "Access denied.")
}
