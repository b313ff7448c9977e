package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/cartelera/cartelera/internal/domain"
	"github.com/cartelera/cartelera/internal/store"
	_ "modernc.org/sqlite"
)

type Store struct {
	db  *sql.DB
	dsn string
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Enforce FKs
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{
		db:  db,
		dsn: dsn,
	}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Users() store.Users     { return &usersRepo{db: s.db} }
func (s *Store) Movies() store.Movies   { return &moviesRepo{db: s.db} }
func (s *Store) Reviews() store.Reviews { return &reviewsRepo{db: s.db} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapConflict translates a sqlite unique-constraint violation into the
// store-level sentinel. The driver reports constraint failures as plain
// error strings, so matching the message is the only handle we have.
func mapConflict(err error) error {
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

// Genres are persisted as a single comma-joined column; sqlite has no array
// type and the filter only ever tests membership.
func joinGenres(genres []string) string {
	return strings.Join(genres, ",")
}

func splitGenres(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// limitOffset turns (pageSize, page) pagination into LIMIT/OFFSET arguments.
// pageSize <= 0 means no limit, matching the listing endpoints' contract.
func limitOffset(pageSize, page int) (int, int) {
	if pageSize <= 0 {
		return -1, 0 // sqlite treats LIMIT -1 as unbounded
	}
	if page < 0 {
		page = 0
	}
	return pageSize, pageSize * page
}

func mapUser(row *sql.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}
