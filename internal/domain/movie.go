package domain

import "time"

type Movie struct {
	ID        string
	Title     string
	Year      int
	Genres    []string
	Plot      string
	Poster    string
	CreatedAt time.Time
}

// MovieFilter narrows movie listings and counts. Zero values mean
// "don't filter on this field".
type MovieFilter struct {
	Genre string // exact genre membership
	Title string // case-insensitive substring
}
