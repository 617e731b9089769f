package httpserver

import (
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/nerdle-solver/internal/batch"
	"github.com/robalobadob/nerdle-solver/internal/equation"
	"github.com/robalobadob/nerdle-solver/internal/results"
)

// maxAPIGames bounds a simulation request; full-corpus runs belong to the CLI.
const maxAPIGames = 500

func (s *Server) mountSimulate(r chi.Router) {
	r.Post("/simulate", s.handleSimulate)
	r.Get("/runs", s.handleListRuns)
	r.Get("/runs/{id}", s.handleGetRun)
}

type simulateReq struct {
	Games   int      `json:"games"`   // random secrets, sampled with replacement
	Secrets []string `json:"secrets"` // explicit secrets; overrides games
	Seed    uint64   `json:"seed"`
	Detail  bool     `json:"detail"` // include per-game results
	Save    bool     `json:"save"`
	Label   string   `json:"label"`
}

type simulateRes struct {
	*batch.Report
	RunID string `json:"runId,omitempty"`
}

// handleSimulate plays a batch of games against known secrets.
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if req.Seed == 0 {
		req.Seed = rand.Uint64()
	}

	var secrets []equation.Equation
	if len(req.Secrets) > 0 {
		for _, sec := range req.Secrets {
			e := equation.Equation(sec)
			if !s.corpus.Contains(e) {
				writeError(w, http.StatusBadRequest, "unknown_secret: "+sec)
				return
			}
			secrets = append(secrets, e)
		}
	} else if req.Games > 0 && req.Games <= maxAPIGames {
		secrets = batch.Sample(s.corpus, req.Games, req.Seed)
	}
	if len(secrets) == 0 || len(secrets) > maxAPIGames {
		writeError(w, http.StatusBadRequest, "games must be between 1 and "+strconv.Itoa(maxAPIGames))
		return
	}
	if req.Save && s.runs == nil {
		writeError(w, http.StatusServiceUnavailable, "persistence_disabled")
		return
	}

	rep, err := batch.Evaluate(r.Context(), s.corpus, s.sel, secrets, batch.Options{Seed: req.Seed})
	if err != nil {
		log.Error().Err(err).Msg("simulate")
		writeError(w, http.StatusInternalServerError, "simulate_failed")
		return
	}

	res := simulateRes{Report: rep}
	if req.Save {
		id, err := s.runs.Save(r.Context(), rep, s.sel.Config(), req.Label)
		if err != nil {
			log.Error().Err(err).Msg("save run")
			writeError(w, http.StatusInternalServerError, "save_failed")
			return
		}
		res.RunID = id
	}
	if !req.Detail {
		trimmed := *rep
		trimmed.Results = nil
		res.Report = &trimmed
	}
	writeJSON(w, http.StatusOK, res)
}

// handleListRuns returns saved runs, newest first (?limit=, default 20).
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		writeError(w, http.StatusServiceUnavailable, "persistence_disabled")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := s.runs.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		writeError(w, http.StatusServiceUnavailable, "persistence_disabled")
		return
	}
	run, err := s.runs.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, results.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, run)
}
