// Package httpapi exposes the reporting service over a thin chi HTTP
// surface. Handlers parse identifiers and date windows, delegate to the
// service, and render engine result objects as JSON; decimals marshal as
// strings so downstream formatters never see binary floats.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/harborpoint/reporting-backend/internal/metrics"
	"github.com/harborpoint/reporting-backend/internal/usecase/reporting"
)

// Server carries the HTTP surface's dependencies
type Server struct {
	Reporting *reporting.ReportingService
	logger    zerolog.Logger
}

// NewServer creates a new HTTP server instance
func NewServer(reportingService *reporting.ReportingService, logger zerolog.Logger) *Server {
	return &Server{
		Reporting: reportingService,
		logger:    logger.With().Str("component", "httpapi").Logger(),
	}
}

// Router assembles the route tree with metrics, logging, and token auth.
func (s *Server) Router(apiToken string) http.Handler {
	r := chi.NewRouter()
	r.Use(metrics.Middleware)
	r.Use(RequestLogger(s.logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(TokenAuth(apiToken))
		r.Route("/accounts/{accountID}", func(r chi.Router) {
			r.Get("/aum", s.handleAUM)
			r.Get("/returns", s.handleReturns)
			r.Get("/holdings", s.handleHoldings)
			r.Get("/fees", s.handleFees)
			r.Get("/lots", s.handleLots)
			r.Get("/report", s.handleReport)
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// parseDateParam reads a YYYY-MM-DD query parameter, falling back to def
// when absent. A malformed value returns false after responding 400.
func parseDateParam(w http.ResponseWriter, r *http.Request, name string, def time.Time) (time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	d, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name+" date, expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return d, true
}
