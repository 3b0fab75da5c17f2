// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily mission.
// Exposes two endpoints under /daily:
//   - GET /daily         → the date's shared seed (today by default)
//   - GET /daily/results → finished missions logged for a date
//
// Everyone gets the same seed for a date; clients create the mission through
// POST /missions with that seed. Results come from the optional SQLite log.

package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/defuse/internal/daily"
)

const maxResultsLimit = 100

func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Get("/", s.handleDailySeed)
		r.Get("/results", s.handleDailyResults)
	})
}

// dateParam returns ?date= when it is a valid YYYY-MM-DD key, otherwise
// today's key. ok is false for a malformed date.
func (s *Server) dateParam(r *http.Request) (date string, ok bool) {
	q := r.URL.Query().Get("date")
	if q == "" {
		return daily.DateKey(s.clock.Now()), true
	}
	if _, err := daily.ParseDateKey(q); err != nil {
		return "", false
	}
	return q, true
}

type dailySeedRes struct {
	Date string `json:"date"`
	Seed string `json:"seed"`
}

func (s *Server) handleDailySeed(w http.ResponseWriter, r *http.Request) {
	date, ok := s.dateParam(r)
	if !ok {
		http.Error(w, `{"error":"bad_date"}`, http.StatusBadRequest)
		return
	}
	t, _ := daily.ParseDateKey(date)
	writeJSON(w, http.StatusOK, dailySeedRes{Date: date, Seed: daily.Seed(t, s.salt)})
}

type dailyResultsRes struct {
	Date    string         `json:"date"`
	Results []daily.Result `json:"results"`
}

func (s *Server) handleDailyResults(w http.ResponseWriter, r *http.Request) {
	if s.results == nil {
		http.Error(w, `{"error":"results_disabled"}`, http.StatusServiceUnavailable)
		return
	}
	date, ok := s.dateParam(r)
	if !ok {
		http.Error(w, `{"error":"bad_date"}`, http.StatusBadRequest)
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, `{"error":"bad_limit"}`, http.StatusBadRequest)
			return
		}
		limit = min(n, maxResultsLimit)
	}
	rows, err := s.results.Results(r.Context(), date, limit)
	if err != nil {
		s.log.Error().Err(err).Str("date", date).Msg("query results")
		http.Error(w, `{"error":"server_error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, dailyResultsRes{Date: date, Results: rows})
}
