// Package http wires the API routes, their middleware chains and the
// translation from service errors to wire responses.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cartelera/cartelera/internal/service"
	"github.com/cartelera/cartelera/internal/store"
	"github.com/cartelera/cartelera/pkg/httpx"
	"github.com/cartelera/cartelera/pkg/jwtx"
	"github.com/cartelera/cartelera/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	AccountService *service.AccountService
	MovieService   *service.MovieService
	ReviewService  *service.ReviewService

	// Rate limiters are injected, one instance per protected route class,
	// so tests get isolated counters and deployments can swap the backend.
	LoginLimiter  httpx.Limiter
	ReviewLimiter httpx.Limiter

	// TrustProxyHeaders switches the rate limit key from the socket address
	// to forwarding headers. Leave false unless a trusted proxy sets them.
	TrustProxyHeaders bool
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerUsers()
	r.registerMovies()
	r.registerReviews()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerUsers() {
	registerHandler := &RegisterHandler{AccountService: r.AccountService}
	r.Mux.Handle("POST /api/users/register", registerHandler)

	// Login attempts are counted per client IP before the handler runs.
	loginHandler := &LoginHandler{AccountService: r.AccountService}
	r.Mux.Handle("POST /api/users/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitMiddleware(r.LoginLimiter, r.clientKeyExtractor()),
		),
	)
}

// clientKeyExtractor picks how rate limited requests identify their client.
func (r *Router) clientKeyExtractor() httpx.KeyExtractor {
	if r.TrustProxyHeaders {
		return httpx.ForwardedIPKeyExtractor
	}
	return httpx.IPKeyExtractor
}

func (r *Router) registerMovies() {
	h := &MoviesHandler{MovieService: r.MovieService}

	r.Mux.HandleFunc("GET /api/movies", h.HandleList)
	r.Mux.HandleFunc("GET /api/movies/filter", h.HandleFilter)
	r.Mux.HandleFunc("GET /api/movies/count", h.HandleCount)
	r.Mux.HandleFunc("GET /api/movies/{id}", h.HandleGet)
}

func (r *Router) registerReviews() {
	h := &ReviewsHandler{ReviewService: r.ReviewService}

	r.Mux.HandleFunc("GET /api/reviews", h.HandleList)
	r.Mux.HandleFunc("GET /api/reviews/movie/{id}", h.HandleListByMovie)
	r.Mux.HandleFunc("GET /api/reviews/movie/{id}/count", h.HandleCountByMovie)
	r.Mux.HandleFunc("GET /api/reviews/user/{name}", h.HandleListByUser)
	r.Mux.HandleFunc("GET /api/reviews/user/{name}/count", h.HandleCountByUser)

	// Submission requires a verified bearer token and is rate limited per
	// client IP.
	r.Mux.Handle("POST /api/reviews",
		httpx.Chain(http.HandlerFunc(h.HandleSubmit),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitMiddleware(r.ReviewLimiter, r.clientKeyExtractor()),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
