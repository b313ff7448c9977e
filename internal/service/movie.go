package service

import (
	"context"

	"github.com/cartelera/cartelera/internal/domain"
	"github.com/cartelera/cartelera/internal/store"
)

// MovieService exposes the read-only movie catalogue.
type MovieService struct {
	Store store.Store
}

func (s *MovieService) List(ctx context.Context, pageSize, page int) ([]domain.Movie, error) {
	return s.Store.Movies().ListMovies(ctx, pageSize, page)
}

func (s *MovieService) ListFiltered(
	ctx context.Context,
	f domain.MovieFilter,
	pageSize, page int,
) ([]domain.Movie, error) {
	return s.Store.Movies().ListMoviesFiltered(ctx, f, pageSize, page)
}

func (s *MovieService) Get(ctx context.Context, id string) (domain.Movie, error) {
	return s.Store.Movies().GetMovieByID(ctx, id)
}

func (s *MovieService) Count(ctx context.Context, f domain.MovieFilter) (int64, error) {
	return s.Store.Movies().CountMovies(ctx, f)
}
