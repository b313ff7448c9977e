package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cartelera/cartelera/internal/domain"
	"github.com/cartelera/cartelera/internal/store"
	"github.com/cartelera/cartelera/pkg/idx"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db")
	s, err := NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func insertMovie(t *testing.T, s *Store, title string, year int, genres string) string {
	t.Helper()

	id := idx.New().String()
	_, err := s.db.Exec(`
		INSERT INTO movies (id, title, year, genres, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		id, title, year, genres, time.Now().UTC())
	require.NoError(t, err)
	return id
}

func testUser(name, email string) domain.User {
	return domain.User{
		ID:           idx.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=16384,t=1,p=1$c2FsdHNhbHQ$aGFzaGhhc2g",
		CreatedAt:    time.Now().UTC(),
	}
}

func TestUsers_CreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := testUser("alice", "alice@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	got, err := s.Users().GetUserByName(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.Equal(t, u.Email, got.Email)
	require.Equal(t, u.PasswordHash, got.PasswordHash)
}

func TestUsers_GetMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Users().GetUserByName(context.Background(), "nobody")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsers_UniqueConstraints(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Users().CreateUser(ctx, testUser("alice", "alice@example.com")))

	err := s.Users().CreateUser(ctx, testUser("alice", "other@example.com"))
	require.ErrorIs(t, err, store.ErrAlreadyExists, "duplicate name must conflict")

	err = s.Users().CreateUser(ctx, testUser("other", "alice@example.com"))
	require.ErrorIs(t, err, store.ErrAlreadyExists, "duplicate email must conflict")
}

func TestMovies_ListAndPaginate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertMovie(t, s, "Alien", 1979, "Horror,Sci-Fi")
	insertMovie(t, s, "Brazil", 1985, "Sci-Fi")
	insertMovie(t, s, "Casablanca", 1942, "Drama,Romance")

	all, err := s.Movies().ListMovies(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 3, "pageSize <= 0 lists everything")
	require.Equal(t, "Alien", all[0].Title, "listing is ordered by title")
	require.Equal(t, []string{"Horror", "Sci-Fi"}, all[0].Genres)

	page, err := s.Movies().ListMovies(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, "Alien", page[0].Title)
	require.Equal(t, "Brazil", page[1].Title)

	page, err = s.Movies().ListMovies(ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, "Casablanca", page[0].Title)

	page, err = s.Movies().ListMovies(ctx, 2, 5)
	require.NoError(t, err)
	require.Empty(t, page, "a page past the end is empty, not an error")
}

func TestMovies_Filter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insertMovie(t, s, "Alien", 1979, "Horror,Sci-Fi")
	insertMovie(t, s, "Aliens", 1986, "Action,Sci-Fi")
	insertMovie(t, s, "Casablanca", 1942, "Drama")

	t.Run("by genre membership", func(t *testing.T) {
		got, err := s.Movies().ListMoviesFiltered(ctx,
			domain.MovieFilter{Genre: "Sci-Fi"}, 0, 0)
		require.NoError(t, err)
		require.Len(t, got, 2)
	})

	t.Run("genre does not match substrings", func(t *testing.T) {
		got, err := s.Movies().ListMoviesFiltered(ctx,
			domain.MovieFilter{Genre: "Sci"}, 0, 0)
		require.NoError(t, err)
		require.Empty(t, got, "partial genre names must not match")
	})

	t.Run("by title substring, case-insensitive", func(t *testing.T) {
		got, err := s.Movies().ListMoviesFiltered(ctx,
			domain.MovieFilter{Title: "alien"}, 0, 0)
		require.NoError(t, err)
		require.Len(t, got, 2)
	})

	t.Run("genre and title combined", func(t *testing.T) {
		got, err := s.Movies().ListMoviesFiltered(ctx,
			domain.MovieFilter{Genre: "Action", Title: "alien"}, 0, 0)
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, "Aliens", got[0].Title)
	})
}

func TestMovies_GetAndCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id := insertMovie(t, s, "Brazil", 1985, "Sci-Fi")

	got, err := s.Movies().GetMovieByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Brazil", got.Title)
	require.Equal(t, 1985, got.Year)

	_, err = s.Movies().GetMovieByID(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	count, err := s.Movies().CountMovies(ctx, domain.MovieFilter{})
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	count, err = s.Movies().CountMovies(ctx, domain.MovieFilter{Genre: "Drama"})
	require.NoError(t, err)
	require.EqualValues(t, 0, count)
}

func TestReviews(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	movieA := insertMovie(t, s, "Alien", 1979, "Horror")
	movieB := insertMovie(t, s, "Brazil", 1985, "Sci-Fi")

	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	reviews := []domain.Review{
		{ID: idx.New().String(), MovieID: movieA, Name: "alice",
			Email: "alice@example.com", Text: "terrifying", CreatedAt: base},
		{ID: idx.New().String(), MovieID: movieA, Name: "bob",
			Email: "bob@example.com", Text: "a classic", CreatedAt: base.Add(time.Minute)},
		{ID: idx.New().String(), MovieID: movieB, Name: "alice",
			Email: "alice@example.com", Text: "surreal", CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, rev := range reviews {
		require.NoError(t, s.Reviews().CreateReview(ctx, rev))
	}

	all, err := s.Reviews().ListReviews(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "surreal", all[0].Text, "newest review first")

	byMovie, err := s.Reviews().ListReviewsByMovie(ctx, movieA, 0, 0)
	require.NoError(t, err)
	require.Len(t, byMovie, 2)
	require.Equal(t, "a classic", byMovie[0].Text)

	byUser, err := s.Reviews().ListReviewsByUser(ctx, "alice", 0, 0)
	require.NoError(t, err)
	require.Len(t, byUser, 2)

	count, err := s.Reviews().CountReviewsByMovie(ctx, movieA)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)

	count, err = s.Reviews().CountReviewsByUser(ctx, "alice")
	require.NoError(t, err)
	require.EqualValues(t, 2, count)

	count, err = s.Reviews().CountReviewsByMovie(ctx, "missing")
	require.NoError(t, err)
	require.EqualValues(t, 0, count)
}

func TestPing(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Ping(context.Background()))
}

func TestApplyMigrations_Idempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.ApplyMigrations(), "re-applying migrations is a no-op")
}
