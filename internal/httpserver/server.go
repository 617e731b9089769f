// internal/httpserver/server.go
//
// HTTP server wiring for the solver API.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/corpus", "POST /score".
//   - Solver sessions (bearer session token): mounted under /session.
//   - Batch simulation and saved runs: "POST /simulate", "/runs".
//   - Equation of the day: mounted under /daily.
//
// Notes:
//   - Sessions live in memory; a session token is an HS256 JWT carrying the session id.
//   - Saved runs and daily results need a results store; without one those
//     routes answer 503.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/nerdle-solver/internal/config"
	"github.com/robalobadob/nerdle-solver/internal/corpus"
	"github.com/robalobadob/nerdle-solver/internal/daily"
	"github.com/robalobadob/nerdle-solver/internal/equation"
	"github.com/robalobadob/nerdle-solver/internal/feedback"
	"github.com/robalobadob/nerdle-solver/internal/results"
	"github.com/robalobadob/nerdle-solver/internal/selector"
	"github.com/robalobadob/nerdle-solver/internal/store"
)

// Deps are the collaborators a Server needs. Runs may be nil.
type Deps struct {
	Config   config.Config
	Corpus   *corpus.Corpus
	Sessions store.Store
	Runs     *results.Store
}

// Server bundles router, session store and persistence.
type Server struct {
	r        *chi.Mux
	cfg      config.Config
	corpus   *corpus.Corpus
	sel      *selector.Selector
	sessions store.Store
	runs     *results.Store
	daily    *daily.Store
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      d.Config,
		corpus:   d.Corpus,
		sel:      selector.New(d.Config.Selector),
		sessions: d.Sessions,
		runs:     d.Runs,
	}
	if d.Runs != nil {
		s.daily = daily.NewStore(d.Runs.DB())
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog)                       // zerolog request log
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(30 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(corsFromEnv)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"nerdle-solver","endpoints":["/health","/corpus","POST /score","POST /session/new","POST /session/feedback","GET /session","POST /simulate","/runs","/daily"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/corpus", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, s.corpus.Stats())
	})
	s.r.Post("/score", s.handleScore)

	s.mountSessions(s.r)
	s.mountSimulate(s.r)
	s.mountDaily(s.r)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// accessLog writes one debug line per request.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Str("requestId", chimw.GetReqID(r.Context())).
			Msg("request")
	})
}

// ------------------------------ SCORE --------------------------------------

type scoreReq struct {
	Secret string `json:"secret"`
	Guess  string `json:"guess"`
}
type scoreRes struct {
	Pattern feedback.Pattern `json:"pattern"`
	Solved  bool             `json:"solved"`
}

// handleScore scores a guess against a given secret.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req scoreReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	p, err := feedback.Score(equation.Equation(req.Secret), equation.Equation(req.Guess))
	if errors.Is(err, feedback.ErrLengthMismatch) {
		writeError(w, http.StatusBadRequest, "length_mismatch")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, scoreRes{Pattern: p, Solved: p.Solved()})
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
