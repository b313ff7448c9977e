package sqlite

import (
	"context"
	"database/sql"

	"github.com/cartelera/cartelera/internal/domain"
)

type reviewsRepo struct {
	db *sql.DB
}

const reviewColumns = `id, movie_id, name, email, text, created_at`

func (r *reviewsRepo) CreateReview(ctx context.Context, rev domain.Review) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO reviews (id, movie_id, name, email, text, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rev.ID, rev.MovieID, rev.Name, rev.Email, rev.Text, rev.CreatedAt)
	return mapConflict(err)
}

func (r *reviewsRepo) ListReviews(ctx context.Context, pageSize, page int) ([]domain.Review, error) {
	limit, offset := limitOffset(pageSize, page)
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+reviewColumns+`
		FROM reviews
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReviews(rows)
}

func (r *reviewsRepo) ListReviewsByMovie(
	ctx context.Context,
	movieID string,
	pageSize, page int,
) ([]domain.Review, error) {
	limit, offset := limitOffset(pageSize, page)
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+reviewColumns+`
		FROM reviews
		WHERE movie_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`, movieID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReviews(rows)
}

func (r *reviewsRepo) ListReviewsByUser(
	ctx context.Context,
	name string,
	pageSize, page int,
) ([]domain.Review, error) {
	limit, offset := limitOffset(pageSize, page)
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+reviewColumns+`
		FROM reviews
		WHERE name = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`, name, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReviews(rows)
}

func (r *reviewsRepo) CountReviewsByMovie(ctx context.Context, movieID string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reviews WHERE movie_id = ?`, movieID).Scan(&count)
	return count, err
}

func (r *reviewsRepo) CountReviewsByUser(ctx context.Context, name string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reviews WHERE name = ?`, name).Scan(&count)
	return count, err
}

func scanReviews(rows *sql.Rows) ([]domain.Review, error) {
	reviews := []domain.Review{}
	for rows.Next() {
		var rev domain.Review
		if err := rows.Scan(&rev.ID, &rev.MovieID, &rev.Name, &rev.Email,
			&rev.Text, &rev.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}
