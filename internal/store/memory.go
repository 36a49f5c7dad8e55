package store

import (
	"context"
	"sync"

	"github.com/guardline/vishsim/internal/model/simulation"
)

// MemoryStore implements Repository with a mutex-guarded map, suitable for
// development and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]simulation.Session
}

// NewMemoryStore bootstraps an empty in-memory repository.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]simulation.Session)}
}

// Load retrieves a session by identifier.
func (s *MemoryStore) Load(_ context.Context, sessionID string) (*simulation.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	copied := session
	copied.Exchanges = append([]simulation.Exchange(nil), session.Exchanges...)
	copied.Alerts = append([]simulation.SecurityAlert(nil), session.Alerts...)
	copied.TacticsUsed = append(copied.TacticsUsed[:0:0], session.TacticsUsed...)
	return &copied, nil
}

// Save upserts the session.
func (s *MemoryStore) Save(_ context.Context, session *simulation.Session) error {
	if session == nil || session.ID == "" {
		return ErrSessionNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = *session
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }
