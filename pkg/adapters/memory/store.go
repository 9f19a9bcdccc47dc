package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/musicbox-realtime/pkg/domain"
)

// SessionStore implements ports.SessionStore in memory.
// Safe for concurrent use.
type SessionStore struct {
	data map[string]domain.ClientSession
	mu   sync.RWMutex
}

// NewSessionStore creates a new in-memory store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		data: make(map[string]domain.ClientSession),
	}
}

// Save records the session.
func (s *SessionStore) Save(ctx context.Context, session domain.ClientSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[session.ID] = session
	return nil
}

// Load retrieves the session.
func (s *SessionStore) Load(ctx context.Context, id string) (*domain.ClientSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.data[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &session, nil
}

// Delete removes the session.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns recorded sessions, oldest first.
func (s *SessionStore) List(ctx context.Context) ([]domain.ClientSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]domain.ClientSession, 0, len(s.data))
	for _, session := range s.data {
		sessions = append(sessions, session)
	}
	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].ConnectedAt.Equal(sessions[j].ConnectedAt) {
			return sessions[i].ConnectedAt.Before(sessions[j].ConnectedAt)
		}
		return sessions[i].ID < sessions[j].ID
	})
	return sessions, nil
}
