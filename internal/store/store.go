package store

import (
	"context"
	"errors"

	"github.com/cartelera/cartelera/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today,
// postgres later) implement this. It exposes sub-repositories to keep
// concerns tidy and testable.
type Store interface {
	Users() Users
	Movies() Movies
	Reviews() Reviews

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Users interface {
	// GetUserByName returns a user by its unique identity name.
	GetUserByName(ctx context.Context, name string) (domain.User, error)

	// CreateUser inserts a new user. The schema enforces uniqueness of both
	// name and email; a conflict surfaces as ErrAlreadyExists. That
	// constraint is what resolves the lookup/insert race between two
	// concurrent registrations of the same name.
	CreateUser(ctx context.Context, u domain.User) error
}

// Movies is read-only; the catalogue is loaded out of band.
type Movies interface {
	// ListMovies pages through the catalogue. pageSize <= 0 means no limit.
	ListMovies(ctx context.Context, pageSize, page int) ([]domain.Movie, error)

	// ListMoviesFiltered pages through movies matching the filter.
	ListMoviesFiltered(ctx context.Context, f domain.MovieFilter, pageSize, page int) ([]domain.Movie, error)

	// GetMovieByID returns a single movie.
	GetMovieByID(ctx context.Context, id string) (domain.Movie, error)

	// CountMovies counts movies matching the filter.
	CountMovies(ctx context.Context, f domain.MovieFilter) (int64, error)
}

type Reviews interface {
	// CreateReview inserts a new review.
	CreateReview(ctx context.Context, r domain.Review) error

	// ListReviews pages through all reviews, newest first.
	ListReviews(ctx context.Context, pageSize, page int) ([]domain.Review, error)

	// ListReviewsByMovie pages through reviews for one movie.
	ListReviewsByMovie(ctx context.Context, movieID string, pageSize, page int) ([]domain.Review, error)

	// ListReviewsByUser pages through reviews by one identity name.
	ListReviewsByUser(ctx context.Context, name string, pageSize, page int) ([]domain.Review, error)

	// CountReviewsByMovie returns the total review count for a movie.
	CountReviewsByMovie(ctx context.Context, movieID string) (int64, error)

	// CountReviewsByUser returns the total review count for an identity name.
	CountReviewsByUser(ctx context.Context, name string) (int64, error)
}
