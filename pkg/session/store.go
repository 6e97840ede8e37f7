package session

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by a Store when no session exists for the
// given id.
var ErrNotFound = errors.New("session not found")

// Store persists session data keyed by session id.
type Store interface {
	Get(ctx context.Context, id string) (*Data, error)
	Save(ctx context.Context, id string, data *Data) error
	Delete(ctx context.Context, id string) error
}

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Data
}

// NewMemoryStore creates an in-process Store. Sessions do not survive
// a restart; use the redis store when that matters.
func NewMemoryStore() Store {
	return &memoryStore{
		sessions: make(map[string]Data),
	}
}

func (s *memoryStore) Get(ctx context.Context, id string) (*Data, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &data, nil
}

func (s *memoryStore) Save(ctx context.Context, id string, data *Data) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = *data
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
