package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/harborpoint/reporting-backend/internal/domain"
	"github.com/harborpoint/reporting-backend/internal/usecase/lots"
)

// defaultWindowDays is the reporting window used when no start is given.
const defaultWindowDays = 30

func (s *Server) handleAUM(w http.ResponseWriter, r *http.Request) {
	accountID, start, end, ok := s.reportParams(w, r)
	if !ok {
		return
	}

	result, err := s.Reporting.AUMReport(r.Context(), accountID, start, end)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleReturns(w http.ResponseWriter, r *http.Request) {
	accountID, start, end, ok := s.reportParams(w, r)
	if !ok {
		return
	}

	report, err := s.Reporting.ReturnsReport(r.Context(), accountID, start, end)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleHoldings(w http.ResponseWriter, r *http.Request) {
	accountID, ok := parseAccountID(w, r)
	if !ok {
		return
	}
	asOf, ok := parseDateParam(w, r, "as_of", time.Now().UTC())
	if !ok {
		return
	}

	report, err := s.Reporting.HoldingsReport(r.Context(), accountID, asOf)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleFees(w http.ResponseWriter, r *http.Request) {
	accountID, start, end, ok := s.reportParams(w, r)
	if !ok {
		return
	}

	result, err := s.Reporting.FeeReport(r.Context(), accountID, start, end)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleLots(w http.ResponseWriter, r *http.Request) {
	accountID, ok := parseAccountID(w, r)
	if !ok {
		return
	}
	end, ok := parseDateParam(w, r, "end", time.Now().UTC())
	if !ok {
		return
	}

	method := lots.FIFO
	if raw := r.URL.Query().Get("method"); raw != "" {
		parsed, err := lots.ParseMethod(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		method = parsed
	}

	report, err := s.Reporting.TaxLotReport(r.Context(), accountID, end, method)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	accountID, start, end, ok := s.reportParams(w, r)
	if !ok {
		return
	}

	report, err := s.Reporting.GeneratePerformanceReport(r.Context(), accountID, start, end)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// reportParams parses the account ID path segment and the start/end window,
// defaulting to the trailing 30 days ending today.
func (s *Server) reportParams(w http.ResponseWriter, r *http.Request) (uuid.UUID, time.Time, time.Time, bool) {
	accountID, ok := parseAccountID(w, r)
	if !ok {
		return uuid.Nil, time.Time{}, time.Time{}, false
	}

	end, ok := parseDateParam(w, r, "end", time.Now().UTC())
	if !ok {
		return uuid.Nil, time.Time{}, time.Time{}, false
	}
	start, ok := parseDateParam(w, r, "start", end.AddDate(0, 0, -defaultWindowDays))
	if !ok {
		return uuid.Nil, time.Time{}, time.Time{}, false
	}
	return accountID, start, end, true
}

func parseAccountID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	accountID, err := uuid.Parse(chi.URLParam(r, "accountID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid account ID")
		return uuid.Nil, false
	}
	return accountID, true
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	if domain.IsInvalidInput(err) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Error().
		Str("path", r.URL.Path).
		Err(err).
		Msg("report request failed")
	writeError(w, http.StatusInternalServerError, "internal error")
}
