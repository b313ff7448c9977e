package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cartelera/cartelera/internal/store"
	"github.com/cartelera/cartelera/pkg/httpx"
	"github.com/cartelera/cartelera/pkg/slogx"
)

// HealthResponse reports process status for the probe endpoints.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// LivezHandler answers as long as the process is serving requests.
func LivezHandler(startTime time.Time, version string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: version,
			Uptime:  time.Since(startTime).Round(time.Second).String(),
		})
	})
}

// ReadyzHandler additionally pings the store; a failed ping reports 503 so
// load balancers stop routing here until the database recovers.
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := st.Ping(r.Context()); err != nil {
			slogx.FromContext(r.Context()).Error("readiness ping failed",
				slog.Any("error", err))
			httpx.WriteJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status:  "unavailable",
				Version: version,
				Uptime:  time.Since(startTime).Round(time.Second).String(),
			})
			return
		}

		httpx.WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: version,
			Uptime:  time.Since(startTime).Round(time.Second).String(),
		})
	})
}
