package domain

import "time"

// Review is a user-submitted movie review. Name and Email always come from
// the verified token claims of the submitter, never from the request body.
type Review struct {
	ID        string
	MovieID   string
	Name      string
	Email     string
	Text      string
	CreatedAt time.Time
}
