// Package memory provides an in-process session store for development and
// tests. Nothing survives a restart.
package memory

import (
	"context"
	"sync"

	"github.com/factoryhq/console/internal/core/domain"
	"github.com/factoryhq/console/internal/core/ports"
)

type Store struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

var _ ports.SessionStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{sessions: make(map[string]domain.Session)}
}

func (s *Store) Save(_ context.Context, id string, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = *session
	return nil
}

func (s *Store) Load(_ context.Context, id string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	clone := sess
	return &clone, nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *Store) Ping(_ context.Context) error { return nil }

// Len reports the number of stored sessions; used by tests.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
