package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cartelera/cartelera/internal/domain"
	"github.com/cartelera/cartelera/internal/store"
	"github.com/cartelera/cartelera/pkg/idx"
	"github.com/cartelera/cartelera/pkg/slogx"
)

// ErrInvalidReview reports a submission missing its movie ID or text.
var ErrInvalidReview = errors.New("movie id and review text are required")

// ReviewService handles review submission and the listing/count queries.
type ReviewService struct {
	Store store.Store
}

// Submit stores a review. Name and email must come from the submitter's
// verified token claims; the handler enforces that, this layer just trusts
// its arguments.
func (s *ReviewService) Submit(
	ctx context.Context,
	movieID, name, email, text string,
) (domain.Review, error) {
	log := slogx.FromContext(ctx)

	movieID = strings.TrimSpace(movieID)
	text = strings.TrimSpace(text)
	if movieID == "" || text == "" {
		return domain.Review{}, ErrInvalidReview
	}

	review := domain.Review{
		ID:        idx.New().String(),
		MovieID:   movieID,
		Name:      name,
		Email:     email,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.Store.Reviews().CreateReview(ctx, review); err != nil {
		log.Error("failed to create review", slog.Any("error", err))
		return domain.Review{}, fmt.Errorf("creating review: %w", err)
	}

	log.Debug("review submitted",
		slog.String("review_id", review.ID),
		slog.String("movie_id", review.MovieID),
		slog.String("name", review.Name),
	)
	return review, nil
}

func (s *ReviewService) List(ctx context.Context, pageSize, page int) ([]domain.Review, error) {
	return s.Store.Reviews().ListReviews(ctx, pageSize, page)
}

func (s *ReviewService) ListByMovie(
	ctx context.Context,
	movieID string,
	pageSize, page int,
) ([]domain.Review, error) {
	return s.Store.Reviews().ListReviewsByMovie(ctx, movieID, pageSize, page)
}

func (s *ReviewService) ListByUser(
	ctx context.Context,
	name string,
	pageSize, page int,
) ([]domain.Review, error) {
	return s.Store.Reviews().ListReviewsByUser(ctx, name, pageSize, page)
}

func (s *ReviewService) CountByMovie(ctx context.Context, movieID string) (int64, error) {
	return s.Store.Reviews().CountReviewsByMovie(ctx, movieID)
}

func (s *ReviewService) CountByUser(ctx context.Context, name string) (int64, error) {
	return s.Store.Reviews().CountReviewsByUser(ctx, name)
}
