// internal/store/memory.go
//
// In-memory session store for the HTTP API.
//
// Characteristics:
//   - Sessions hold a live *solve.Game keyed by a uuid.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Each Session carries its own mutex; handlers lock it while driving the game.
//   - Idle sessions expire after the configured TTL (zero disables expiry).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/nerdle-solver/internal/solve"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("store: session not found")

// Session is one solver game exposed over the API.
type Session struct {
	sync.Mutex
	ID      string
	Game    *solve.Game
	Created time.Time
	touched time.Time
}

// Store defines the persistence interface for sessions.
type Store interface {
	// Create registers g under a fresh id.
	Create(ctx context.Context, g *solve.Game) (*Session, error)

	// Get retrieves a session by id and marks it as used.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete removes a session; unknown ids are ignored.
	Delete(ctx context.Context, id string) error

	// Len reports the number of live sessions.
	Len() int
}

type memory struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore constructs an in-memory Store. ttl <= 0 keeps sessions forever.
func NewMemoryStore(ttl time.Duration) Store {
	return &memory{sessions: make(map[string]*Session), ttl: ttl, now: time.Now}
}

func (m *memory) Create(ctx context.Context, g *solve.Game) (*Session, error) {
	now := m.now()
	s := &Session{ID: uuid.NewString(), Game: g, Created: now, touched: now}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked(now)
	m.sessions[s.ID] = s
	return s, nil
}

func (m *memory) Get(ctx context.Context, id string) (*Session, error) {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if m.expired(s, now) {
		delete(m.sessions, id)
		return nil, ErrNotFound
	}
	s.touched = now
	return s, nil
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *memory) expired(s *Session, now time.Time) bool {
	return m.ttl > 0 && now.Sub(s.touched) > m.ttl
}

// sweepLocked drops idle sessions; caller holds m.mu.
func (m *memory) sweepLocked(now time.Time) {
	for id, s := range m.sessions {
		if m.expired(s, now) {
			delete(m.sessions, id)
		}
	}
}
