package domain

import "time"

// User is a registered identity. PasswordHash is the PHC-encoded Argon2id
// output produced at registration; the plaintext is never retained and the
// hash never leaves the store/service boundary.
type User struct {
	ID           string
	Name         string // unique identity name, 3-30 chars
	Email        string // normalized (lower-cased), unique
	PasswordHash string
	CreatedAt    time.Time
}
