package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/cartelera/cartelera/internal/domain"
	"github.com/cartelera/cartelera/internal/service"
	"github.com/cartelera/cartelera/pkg/httpx"
)

// ReviewResponse is the wire shape of a review.
type ReviewResponse struct {
	ID      string    `json:"id"`
	MovieID string    `json:"movie_id"`
	Name    string    `json:"name"`
	Text    string    `json:"text"`
	Date    time.Time `json:"date"`
}

// ReviewListResponse wraps a page of reviews with its paging echo.
type ReviewListResponse struct {
	Reviews  []ReviewResponse `json:"reviews"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// SubmitReviewInput is the review submission payload. The author's identity
// never appears here; it comes from the verified token claims.
type SubmitReviewInput struct {
	MovieID string `json:"movie_id"`
	Text    string `json:"text"`
}

// ReviewsHandler serves review submission and the listing/count queries.
type ReviewsHandler struct {
	ReviewService *service.ReviewService
}

func (h *ReviewsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	pageSize, page := pagination(r)

	reviews, err := h.ReviewService.List(r.Context(), pageSize, page)
	if err != nil {
		writeQueryError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, ReviewListResponse{
		Reviews:  toReviewResponses(reviews),
		Page:     page,
		PageSize: pageSize,
	})
}

func (h *ReviewsHandler) HandleListByMovie(w http.ResponseWriter, r *http.Request) {
	pageSize, page := pagination(r)

	reviews, err := h.ReviewService.ListByMovie(r.Context(), r.PathValue("id"), pageSize, page)
	if err != nil {
		writeQueryError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, ReviewListResponse{
		Reviews:  toReviewResponses(reviews),
		Page:     page,
		PageSize: pageSize,
	})
}

func (h *ReviewsHandler) HandleListByUser(w http.ResponseWriter, r *http.Request) {
	pageSize, page := pagination(r)

	reviews, err := h.ReviewService.ListByUser(r.Context(), r.PathValue("name"), pageSize, page)
	if err != nil {
		writeQueryError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, ReviewListResponse{
		Reviews:  toReviewResponses(reviews),
		Page:     page,
		PageSize: pageSize,
	})
}

func (h *ReviewsHandler) HandleCountByMovie(w http.ResponseWriter, r *http.Request) {
	count, err := h.ReviewService.CountByMovie(r.Context(), r.PathValue("id"))
	if err != nil {
		writeQueryError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, CountResponse{Count: count})
}

func (h *ReviewsHandler) HandleCountByUser(w http.ResponseWriter, r *http.Request) {
	count, err := h.ReviewService.CountByUser(r.Context(), r.PathValue("name"))
	if err != nil {
		writeQueryError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, CountResponse{Count: count})
}

// HandleSubmit stores a review for the authenticated caller. It sits behind
// AuthnMiddleware, so a missing identity here means a wiring bug, not a
// client mistake.
func (h *ReviewsHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	identity, ok := httpx.IdentityFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "access_denied", "Access denied.")
		return
	}

	var in SubmitReviewInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Malformed request body.")
		return
	}

	review, err := h.ReviewService.Submit(r.Context(), in.MovieID, identity.Name, identity.Email, in.Text)
	if err != nil {
		if errors.Is(err, service.ErrInvalidReview) {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request",
				"A movie id and review text are required.")
			return
		}
		writeQueryError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toReviewResponse(review))
}

func toReviewResponse(rv domain.Review) ReviewResponse {
	return ReviewResponse{
		ID:      rv.ID,
		MovieID: rv.MovieID,
		Name:    rv.Name,
		Text:    rv.Text,
		Date:    rv.CreatedAt,
	}
}

func toReviewResponses(reviews []domain.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for _, rv := range reviews {
		out = append(out, toReviewResponse(rv))
	}
	return out
}
