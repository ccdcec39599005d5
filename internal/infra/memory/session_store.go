package memory

import (
	"context"
	"sync"

	"adaptive-quiz-service/internal/domain"
	"adaptive-quiz-service/internal/session"
)

// SessionStore is an in-memory implementation of app.SessionRepository.
type SessionStore struct {
	mu        sync.RWMutex
	snapshots map[string]session.Snapshot
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		snapshots: make(map[string]session.Snapshot),
	}
}

func (s *SessionStore) Save(_ context.Context, snap session.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[snap.ID] = snap
	return nil
}

func (s *SessionStore) Load(_ context.Context, sessionID string) (session.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[sessionID]
	if !ok {
		return session.Snapshot{}, domain.ErrSessionNotFound
	}
	return snap, nil
}

func (s *SessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, sessionID)
	return nil
}
