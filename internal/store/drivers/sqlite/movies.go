package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/cartelera/cartelera/internal/domain"
)

type moviesRepo struct {
	db *sql.DB
}

const movieColumns = `id, title, year, genres, plot, poster, created_at`

func (r *moviesRepo) ListMovies(ctx context.Context, pageSize, page int) ([]domain.Movie, error) {
	limit, offset := limitOffset(pageSize, page)
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+movieColumns+`
		FROM movies
		ORDER BY title
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMovies(rows)
}

func (r *moviesRepo) ListMoviesFiltered(
	ctx context.Context,
	f domain.MovieFilter,
	pageSize, page int,
) ([]domain.Movie, error) {
	where, args := movieFilterClause(f)
	limit, offset := limitOffset(pageSize, page)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+movieColumns+`
		FROM movies
		`+where+`
		ORDER BY title
		LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMovies(rows)
}

func (r *moviesRepo) GetMovieByID(ctx context.Context, id string) (domain.Movie, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+movieColumns+`
		FROM movies
		WHERE id = ?`, id)
	return scanMovie(row.Scan)
}

func (r *moviesRepo) CountMovies(ctx context.Context, f domain.MovieFilter) (int64, error) {
	where, args := movieFilterClause(f)
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies `+where, args...).Scan(&count)
	return count, err
}

// movieFilterClause builds the WHERE clause for a MovieFilter. Genre tests
// membership in the comma-joined genres column; title matches a
// case-insensitive substring.
func movieFilterClause(f domain.MovieFilter) (string, []any) {
	var conds []string
	var args []any

	if f.Genre != "" {
		conds = append(conds, `(',' || genres || ',') LIKE ('%,' || ? || ',%')`)
		args = append(args, f.Genre)
	}
	if f.Title != "" {
		conds = append(conds, `title LIKE ('%' || ? || '%') COLLATE NOCASE`)
		args = append(args, f.Title)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

type scanFunc func(dest ...any) error

func scanMovie(scan scanFunc) (domain.Movie, error) {
	var m domain.Movie
	var genres string
	err := scan(&m.ID, &m.Title, &m.Year, &genres, &m.Plot, &m.Poster, &m.CreatedAt)
	if err != nil {
		return domain.Movie{}, mapNotFound(err)
	}
	m.Genres = splitGenres(genres)
	return m, nil
}

func scanMovies(rows *sql.Rows) ([]domain.Movie, error) {
	movies := []domain.Movie{}
	for rows.Next() {
		m, err := scanMovie(rows.Scan)
		if err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}
