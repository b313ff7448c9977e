package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cartelera/cartelera/internal/domain"
	"github.com/cartelera/cartelera/internal/service"
	"github.com/cartelera/cartelera/internal/store"
	"github.com/cartelera/cartelera/pkg/httpx"
	"github.com/cartelera/cartelera/pkg/slogx"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// MovieResponse is the wire shape of a catalogue entry.
type MovieResponse struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Year   int      `json:"year,omitempty"`
	Genres []string `json:"genres,omitempty"`
	Plot   string   `json:"plot,omitempty"`
	Poster string   `json:"poster,omitempty"`
}

// MovieListResponse wraps a page of movies with its paging echo.
type MovieListResponse struct {
	Movies   []MovieResponse `json:"movies"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// MoviesHandler serves the read-only movie catalogue.
type MoviesHandler struct {
	MovieService *service.MovieService
}

func (h *MoviesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	pageSize, page := pagination(r)

	movies, err := h.MovieService.List(r.Context(), pageSize, page)
	if err != nil {
		writeQueryError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, MovieListResponse{
		Movies:   toMovieResponses(movies),
		Page:     page,
		PageSize: pageSize,
	})
}

func (h *MoviesHandler) HandleFilter(w http.ResponseWriter, r *http.Request) {
	pageSize, page := pagination(r)
	filter := domain.MovieFilter{
		Genre: r.URL.Query().Get("genre"),
		Title: r.URL.Query().Get("title"),
	}

	movies, err := h.MovieService.ListFiltered(r.Context(), filter, pageSize, page)
	if err != nil {
		writeQueryError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, MovieListResponse{
		Movies:   toMovieResponses(movies),
		Page:     page,
		PageSize: pageSize,
	})
}

func (h *MoviesHandler) HandleCount(w http.ResponseWriter, r *http.Request) {
	filter := domain.MovieFilter{
		Genre: r.URL.Query().Get("genre"),
		Title: r.URL.Query().Get("title"),
	}

	count, err := h.MovieService.Count(r.Context(), filter)
	if err != nil {
		writeQueryError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, CountResponse{Count: count})
}

func (h *MoviesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	movie, err := h.MovieService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Movie not found.")
			return
		}
		writeQueryError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toMovieResponse(movie))
}

// CountResponse carries a single aggregate count.
type CountResponse struct {
	Count int64 `json:"count"`
}

func toMovieResponse(m domain.Movie) MovieResponse {
	return MovieResponse{
		ID:     m.ID,
		Title:  m.Title,
		Year:   m.Year,
		Genres: m.Genres,
		Plot:   m.Plot,
		Poster: m.Poster,
	}
}

func toMovieResponses(movies []domain.Movie) []MovieResponse {
	out := make([]MovieResponse, 0, len(movies))
	for _, m := range movies {
		out = append(out, toMovieResponse(m))
	}
	return out
}

// pagination reads pageSize and page from the query string, clamping both to
// sane values. Missing or garbage parameters fall back to defaults rather
// than erroring.
func pagination(r *http.Request) (pageSize, page int) {
	pageSize = queryInt(r, "pageSize", defaultPageSize)
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	page = queryInt(r, "page", 0)
	if page < 0 {
		page = 0
	}
	return pageSize, page
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// writeQueryError logs the store failure and answers with an opaque 500.
func writeQueryError(w http.ResponseWriter, r *http.Request, err error) {
	slogx.FromContext(r.Context()).Error("query failed",
		slog.String("path", r.URL.Path),
		slog.Any("error", err))
	httpx.WriteError(w, http.StatusInternalServerError, "server_error",
		"Something went wrong, please try again later.")
}
