package jwtx

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestSigner(t *testing.T) *Signer {
	t.Helper()
	s, err := NewSigner(testSecret, "cartelera-test", time.Hour)
	require.NoError(t, err)
	return s
}

func TestNewSigner_RejectsShortSecret(t *testing.T) {
	_, err := NewSigner([]byte("too-short"), "cartelera-test", time.Hour)
	require.Error(t, err)

	_, err = NewSigner(nil, "cartelera-test", time.Hour)
	require.Error(t, err)
}

func TestIssueAndVerify(t *testing.T) {
	s := newTestSigner(t)

	token, err := s.Issue("alice", "alice@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := s.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Name)
	require.Equal(t, "alice@example.com", claims.Email)
	require.Equal(t, "cartelera-test", claims.Issuer)
	require.Equal(t, "alice", claims.Subject)
	require.NotEmpty(t, claims.ID, "every token carries a unique jti")
	require.NotNil(t, claims.ExpiresAt)
}

func TestIssue_TokensDiffer(t *testing.T) {
	s := newTestSigner(t)

	first, err := s.Issue("bob", "bob@example.com")
	require.NoError(t, err)
	second, err := s.Issue("bob", "bob@example.com")
	require.NoError(t, err)

	require.NotEqual(t, first, second, "jti must differ between issuances")

	// Both stay valid until their own expiry.
	_, err = s.Verify(first)
	require.NoError(t, err)
	_, err = s.Verify(second)
	require.NoError(t, err)
}

func TestVerify_Expired(t *testing.T) {
	s := newTestSigner(t)

	token, err := s.issueAt("carol", "carol@example.com", time.Now().Add(-61*time.Minute))
	require.NoError(t, err)

	_, err = s.Verify(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_AllFailuresCollapse(t *testing.T) {
	s := newTestSigner(t)

	good, err := s.Issue("dave", "dave@example.com")
	require.NoError(t, err)

	other, err := NewSigner([]byte("ffffffffffffffffffffffffffffffff"), "cartelera-test", time.Hour)
	require.NoError(t, err)
	wrongKey, err := other.Issue("dave", "dave@example.com")
	require.NoError(t, err)

	// Flip a character in the signature segment.
	parts := strings.Split(good, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"garbage token", "not.a.jwt"},
		{"missing signature", parts[0] + "." + parts[1] + "."},
		{"tampered signature", tampered},
		{"signed with different secret", wrongKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Verify(tt.token)
			require.ErrorIs(t, err, ErrInvalidToken,
				"every verification failure must map to the same error")
		})
	}
}

func TestVerify_RejectsAlgNone(t *testing.T) {
	s := newTestSigner(t)

	// Header {"alg":"none","typ":"JWT"} with an empty signature.
	unsigned := "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0." +
		"eyJuYW1lIjoiZXZlIiwiZW1haWwiOiJldmVAZXhhbXBsZS5jb20ifQ."

	_, err := s.Verify(unsigned)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewSigner_DefaultTTL(t *testing.T) {
	s, err := NewSigner(testSecret, "cartelera-test", 0)
	require.NoError(t, err)
	require.Equal(t, DefaultTokenTTL, s.ttl)
}
