package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cartelera/cartelera/pkg/jwtx"
)

func newTestVerifier(t *testing.T) *jwtx.Signer {
	t.Helper()
	s, err := jwtx.NewSigner(
		[]byte("0123456789abcdef0123456789abcdef"), "cartelera-test", time.Hour)
	require.NoError(t, err)
	return s
}

func TestAuthnMiddleware_MissingHeader(t *testing.T) {
	s := newTestVerifier(t)
	handler := Chain(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run without credentials")
		}),
		AuthnMiddleware(s),
	)

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"empty bearer", "Bearer"},
		{"bearer with only spaces", "Bearer   "},
		{"no space after scheme", "Bearerfoo"},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/reviews", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			handler.ServeHTTP(rec, req)

			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
			require.Contains(t, rec.Body.String(), "access_denied")
		})
	}
}

func TestAuthnMiddleware_InvalidToken(t *testing.T) {
	s := newTestVerifier(t)
	handler := Chain(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run with a bad token")
		}),
		AuthnMiddleware(s),
	)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/reviews", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code,
		"a presented-but-invalid token is forbidden, not unauthorized")
	require.Contains(t, rec.Body.String(), "access_denied")
}

func TestAuthnMiddleware_AttachesIdentity(t *testing.T) {
	s := newTestVerifier(t)

	token, err := s.Issue("frank", "frank@example.com")
	require.NoError(t, err)

	var got Identity
	handler := Chain(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			require.True(t, ok, "identity must be attached for verified requests")
			got = identity
			w.WriteHeader(http.StatusOK)
		}),
		AuthnMiddleware(s),
	)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/reviews", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "frank", got.Name)
	require.Equal(t, "frank@example.com", got.Email)
}

func TestIdentityFromContext_Absent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := IdentityFromContext(req.Context())
	require.False(t, ok)
}
