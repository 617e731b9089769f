// internal/httpserver/routes_daily.go
//
// HTTP routes for the equation of the day.
//   - GET /daily          → solver outcome for today (or ?date=YYYY-MM-DD)
//   - GET /daily/history  → latest recorded daily outcomes
//
// The secret is chosen by HMAC(salt, date) over the corpus. With a results
// store, the first outcome for a date is persisted and served from then on.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/nerdle-solver/internal/daily"
)

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Get("/", s.handleDaily)
		r.Get("/history", s.handleDailyHistory)
	})
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	date := time.Now().UTC()
	if v := r.URL.Query().Get("date"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_date")
			return
		}
		date = d
	}

	res, err := s.playDaily(r.Context(), date)
	if err != nil {
		log.Error().Err(err).Str("date", daily.DateKey(date)).Msg("daily")
		writeError(w, http.StatusInternalServerError, "daily_failed")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// playDaily returns the stored outcome for date, or solves the day's equation
// and records it.
func (s *Server) playDaily(ctx context.Context, date time.Time) (*daily.Result, error) {
	key := daily.DateKey(date)
	if s.daily != nil {
		res, err := s.daily.Get(ctx, key)
		if err == nil {
			return res, nil
		}
		if !errors.Is(err, daily.ErrNotPlayed) {
			return nil, err
		}
	}

	res, err := daily.Play(ctx, s.corpus, s.sel, date, s.cfg.Server.DailySalt)
	if err != nil {
		return nil, err
	}
	if s.daily != nil {
		if err := s.daily.Record(ctx, *res); err != nil {
			log.Warn().Err(err).Str("date", key).Msg("record daily")
		}
	}
	return res, nil
}

func (s *Server) handleDailyHistory(w http.ResponseWriter, r *http.Request) {
	if s.daily == nil {
		writeError(w, http.StatusServiceUnavailable, "persistence_disabled")
		return
	}
	limit := 30
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 {
		limit = n
	}
	hist, err := s.daily.History(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	if hist == nil {
		hist = []daily.Result{}
	}
	writeJSON(w, http.StatusOK, hist)
}
