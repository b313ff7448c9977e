package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the default lifetime for identity tokens.
const DefaultTokenTTL = time.Hour

// Claims are the identity claims embedded in an issued token. The set is
// deliberately minimal: name and email, never anything derived from the
// stored credential.
type Claims struct {
	jwt.RegisteredClaims

	// Name is the unique identity name of the authenticated user.
	Name string `json:"name,omitempty"`

	// Email is the normalized email address of the authenticated user.
	Email string `json:"email,omitempty"`
}

// NewClaims builds claims for an identity, valid from now until now+ttl.
func NewClaims(name, email, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   name,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        newJTI(),
		},
		Name:  name,
		Email: email,
	}
}

// newJTI returns a URL-safe random identifier for the "jti" claim. It keeps
// two tokens issued within the same second distinguishable.
func newJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
