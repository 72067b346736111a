package store

import (
	"context"
	"sync"

	"github.com/MeiJie12/siwesession/core"
	"github.com/MeiJie12/siwesession/ports"
)

// MemoryStore is an in-memory implementation of the SessionStore interface.
// This is primarily intended for testing purposes.
type MemoryStore struct {
	mu      sync.RWMutex
	session *core.Session
}

var _ ports.SessionStore = (*MemoryStore)(nil)

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the stored session
func (s *MemoryStore) Load(ctx context.Context) (core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.session == nil {
		return core.Session{}, core.ErrNoSession
	}

	return *s.session, nil
}

// Save overwrites the stored session
func (s *MemoryStore) Save(ctx context.Context, session core.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = &session
	return nil
}

// Clear removes the stored session.
// This is useful for testing to reset the store between tests.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = nil
}
