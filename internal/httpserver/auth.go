package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/robalobadob/nerdle-solver/internal/store"
)

// ctxSessionKey is the context key type for the resolved session.
type ctxSessionKey struct{}

// signSessionToken creates an HS256 JWT bound to a session id. A zero ttl
// yields a token without expiry.
func (s *Server) signSessionToken(sid string) (string, time.Time, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sid": sid,
		"iat": now.Unix(),
	}
	var exp time.Time
	if ttl := s.cfg.Server.SessionTTL; ttl > 0 {
		exp = now.Add(ttl)
		claims["exp"] = exp.Unix()
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := t.SignedString([]byte(s.cfg.Server.JWTSecret))
	return ss, exp, err
}

// parseSessionToken validates tok and returns its session id.
func (s *Server) parseSessionToken(tok string) (string, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Server.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", errors.New("invalid token")
	}
	return sid, nil
}

// bearer extracts a token from the Authorization header.
func bearer(r *http.Request) string {
	// Authorization: Bearer <token>
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	return ""
}

// requireSession enforces a valid session token and injects the session into
// the request context.
func (s *Server) requireSession() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := bearer(r)
			if tok == "" {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			sid, err := s.parseSessionToken(tok)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			sess, err := s.sessions.Get(r.Context(), sid)
			if err != nil {
				writeError(w, http.StatusNotFound, "session_not_found")
				return
			}
			ctx := context.WithValue(r.Context(), ctxSessionKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func currentSession(r *http.Request) *store.Session {
	sess, _ := r.Context().Value(ctxSessionKey{}).(*store.Session)
	return sess
}
