package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cartelera/cartelera/internal/service"
	"github.com/cartelera/cartelera/internal/validate"
	"github.com/cartelera/cartelera/pkg/httpx"
	"github.com/cartelera/cartelera/pkg/slogx"
)

// TokenResponse carries a freshly issued bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

// RegisterHandler creates a new account and returns a token for it.
type RegisterHandler struct {
	AccountService *service.AccountService
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var in validate.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Malformed request body.")
		return
	}

	token, err := h.AccountService.Register(r.Context(), in)
	if err != nil {
		writeAccountError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, TokenResponse{Token: token})
}

// LoginHandler verifies credentials and returns a fresh token.
type LoginHandler struct {
	AccountService *service.AccountService
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var in validate.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Malformed request body.")
		return
	}

	token, err := h.AccountService.Login(r.Context(), in)
	if err != nil {
		writeAccountError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, TokenResponse{Token: token})
}

// writeAccountError maps account service errors onto the wire. Validation
// failures list every violated rule; credential failures stay deliberately
// vague; everything else becomes an opaque 500.
func writeAccountError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError

	switch {
	case errors.As(err, &verr):
		httpx.WriteJSON(w, http.StatusBadRequest, httpx.ErrorResponse{
			Error:   "validation_failed",
			Message: "Invalid input.",
			Fields:  verr.Violations,
		})
	case errors.Is(err, service.ErrDuplicateIdentity):
		httpx.WriteError(w, http.StatusBadRequest, "duplicate_identity",
			"That name is already registered.")
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_credentials",
			"Invalid name or password.")
	default:
		slogx.FromContext(r.Context()).Error("account operation failed",
			slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, "server_error",
			"Something went wrong, please try again later.")
	}
}
