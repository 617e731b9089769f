// internal/httpserver/routes_session.go
//
// Solver sessions: the server proposes guesses, the client reports the G/P/B
// feedback it saw, and the session narrows its candidates.
//   - POST   /session/new          → start a session, returns token + first guess
//   - GET    /session              → current state and history
//   - POST   /session/feedback     → apply feedback for the pending guess
//   - GET    /session/suggestions  → ranked candidates with score components
//   - DELETE /session              → end the session

package httpserver

import (
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/nerdle-solver/internal/equation"
	"github.com/robalobadob/nerdle-solver/internal/feedback"
	"github.com/robalobadob/nerdle-solver/internal/selector"
	"github.com/robalobadob/nerdle-solver/internal/solve"
	"github.com/robalobadob/nerdle-solver/internal/store"
)

func (s *Server) mountSessions(r chi.Router) {
	r.Post("/session/new", s.handleNewSession)
	r.Group(func(r chi.Router) {
		r.Use(s.requireSession())
		r.Get("/session", s.handleGetSession)
		r.Post("/session/feedback", s.handleFeedback)
		r.Get("/session/suggestions", s.handleSuggestions)
		r.Delete("/session", s.handleDeleteSession)
	})
}

type newSessionReq struct {
	Seed *uint64 `json:"seed"` // optional, for reproducible sessions
}

// sessionView is the JSON shape of a session.
type sessionView struct {
	SessionID    string            `json:"sessionId"`
	Token        string            `json:"token,omitempty"`
	State        solve.State       `json:"state"`
	Turn         int               `json:"turn"`
	Guess        equation.Equation `json:"guess,omitempty"` // pending guess
	Remaining    int               `json:"remaining"`
	LimitReached bool              `json:"limitReached,omitempty"`
	History      []solve.Round     `json:"history"`
}

func (s *Server) view(sess *store.Session) sessionView {
	g := sess.Game
	v := sessionView{
		SessionID:    sess.ID,
		State:        g.State(),
		Turn:         g.Turn(),
		Remaining:    g.Candidates().Len(),
		LimitReached: s.limitReached(g),
		History:      g.History(),
	}
	if g.State() == solve.AwaitingFeedback || g.State() == solve.Solved {
		v.Guess = g.Guess()
	}
	return v
}

func (s *Server) limitReached(g *solve.Game) bool {
	return s.cfg.MaxTurns > 0 && g.State() == solve.AwaitingGuess && g.Turn() > s.cfg.MaxTurns
}

// advance asks for the next guess unless the game is over or out of turns.
func (s *Server) advance(g *solve.Game) error {
	if g.State() != solve.AwaitingGuess || s.limitReached(g) {
		return nil
	}
	_, err := g.Next()
	if errors.Is(err, solve.ErrExhausted) {
		return nil
	}
	return err
}

// handleNewSession creates a game, stores it, and returns the first guess with
// a session token.
func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	var req newSessionReq
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_json")
			return
		}
	}
	seed := s.cfg.Seed
	if req.Seed != nil {
		seed = *req.Seed
	}
	if seed == 0 {
		seed = rand.Uint64()
	}

	g := solve.NewGame(s.corpus, s.sel, seed)
	if err := s.advance(g); err != nil {
		log.Error().Err(err).Msg("first guess")
		writeError(w, http.StatusInternalServerError, "select_failed")
		return
	}
	sess, err := s.sessions.Create(r.Context(), g)
	if err != nil {
		log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	tok, _, err := s.signSessionToken(sess.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sign_failed")
		return
	}

	sess.Lock()
	v := s.view(sess)
	sess.Unlock()
	v.Token = tok
	log.Info().Str("session", sess.ID).Uint64("seed", seed).Msg("session started")
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	sess.Lock()
	defer sess.Unlock()
	writeJSON(w, http.StatusOK, s.view(sess))
}

type feedbackReq struct {
	Feedback string `json:"feedback"`
}

// handleFeedback applies G/P/B feedback to the pending guess and proposes the
// next one. Invalid feedback is rejected without touching the game.
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	var req feedbackReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	sess.Lock()
	defer sess.Unlock()
	g := sess.Game
	switch {
	case g.State().Terminal():
		writeError(w, http.StatusConflict, "game_over")
		return
	case s.limitReached(g):
		writeError(w, http.StatusConflict, "turn_limit")
		return
	}

	p, err := feedback.ParsePattern(req.Feedback, g.Length())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_feedback")
		return
	}
	if _, err := g.Observe(p); err != nil {
		if errors.Is(err, feedback.ErrInvalidPattern) {
			writeError(w, http.StatusBadRequest, "invalid_feedback")
			return
		}
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err := s.advance(g); err != nil {
		log.Error().Err(err).Str("session", sess.ID).Msg("next guess")
		writeError(w, http.StatusInternalServerError, "select_failed")
		return
	}
	writeJSON(w, http.StatusOK, s.view(sess))
}

// handleSuggestions ranks the session's remaining candidates (?limit=, default 10).
func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "bad_limit")
			return
		}
		limit = n
	}
	sess := currentSession(r)
	sess.Lock()
	ranked := sess.Game.Suggestions(limit)
	sess.Unlock()
	if ranked == nil {
		ranked = []selector.Scored{}
	}
	writeJSON(w, http.StatusOK, ranked)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	_ = s.sessions.Delete(r.Context(), sess.ID)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
