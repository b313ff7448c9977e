// Package jwtx issues and verifies the signed identity tokens handed out at
// registration and login. Tokens are HS256 JWTs over a single server-held
// secret; rotating the secret invalidates every outstanding token, which is
// accepted operational behaviour.
package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is the only error Verify ever returns. Signature, format
// and expiry failures all collapse into it so that callers cannot build an
// oracle from distinguishable outcomes. The wrapped detail exists for
// server-side logs only.
var ErrInvalidToken = errors.New("jwtx: invalid token")

const minSecretLength = 32

// Verifier validates a serialized token and returns its claims when legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// Signer issues and verifies HS256 identity tokens with a shared secret.
// The secret is loaded once at process start and never mutated, so a Signer
// is safe for concurrent use without locking.
type Signer struct {
	secret []byte
	issuer string
	ttl    time.Duration

	now func() time.Time // overridable for tests
}

// NewSigner builds a Signer. The secret must be at least 32 bytes; a ttl of
// zero falls back to DefaultTokenTTL.
func NewSigner(secret []byte, issuer string, ttl time.Duration) (*Signer, error) {
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("jwtx: signing secret must be at least %d bytes", minSecretLength)
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	return &Signer{
		secret: secret,
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue serializes and signs claims for the given identity. Two issuances
// for the same identity yield different tokens (iat/jti differ) but both
// remain valid until their own expiry.
func (s *Signer) Issue(name, email string) (string, error) {
	return s.issueAt(name, email, s.now().UTC())
}

func (s *Signer) issueAt(name, email string, now time.Time) (string, error) {
	claims := NewClaims(name, email, s.issuer, s.ttl, now)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks signature integrity and expiry and returns the embedded
// claims. Every failure mode returns ErrInvalidToken.
func (s *Signer) Verify(raw string) (Claims, error) {
	var claims Claims

	token, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}
