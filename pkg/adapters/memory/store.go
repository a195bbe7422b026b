package memory

import (
	"context"
	"sync"

	"github.com/aretw0/renfebot/pkg/domain"
)

// Store implements ports.StateStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.State
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.State),
	}
}

// Save persists a copy of the state in memory.
func (s *Store) Save(ctx context.Context, sessionID string, state *domain.State) error {
	copied := state.Snapshot()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = copied
	return nil
}

// Load retrieves the state from memory.
// It returns a copy so callers can't mutate store state directly by pointer.
func (s *Store) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return state.Snapshot(), nil
}

// Delete removes the state.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns active sessions.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]string, 0, len(s.data))
	for id := range s.data {
		sessions = append(sessions, id)
	}
	return sessions, nil
}

// LastRequest implements ports.LastRequestStore in memory.
type LastRequest struct {
	mu  sync.RWMutex
	req *domain.SearchRequest
}

// NewLastRequest creates an empty snapshot holder.
func NewLastRequest() *LastRequest {
	return &LastRequest{}
}

// Save replaces the snapshot.
func (l *LastRequest) Save(ctx context.Context, req domain.SearchRequest) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.req = &req
	return nil
}

// Load returns the snapshot.
func (l *LastRequest) Load(ctx context.Context) (domain.SearchRequest, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.req == nil {
		return domain.SearchRequest{}, domain.ErrNoLastRequest
	}
	return *l.req, nil
}
