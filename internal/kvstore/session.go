package kvstore

import (
	"context"
	"sync"

	"github.com/alexedwards/scs/v2"
)

// Session implements Store on the caller's browser session. The request
// context must have passed through the session manager's LoadAndSave
// middleware. Keys are namespaced per store so several stores can share a
// session.
type Session struct {
	manager *scs.SessionManager
	prefix  string
	mu      sync.Mutex
}

// NewSession creates a session-backed store.
func NewSession(manager *scs.SessionManager, prefix string) *Session {
	return &Session{manager: manager, prefix: prefix}
}

// Get returns the value at key in the current session.
func (s *Session) Get(ctx context.Context, key string) ([]byte, error) {
	if !s.manager.Exists(ctx, s.prefix+key) {
		return nil, ErrNotFound
	}
	return s.manager.GetBytes(ctx, s.prefix+key), nil
}

// Update applies fn to the value at key in the current session. Requests
// sharing a session are serialised within this process only.
func (s *Session) Update(ctx context.Context, key string, fn UpdateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var current []byte
	if s.manager.Exists(ctx, s.prefix+key) {
		current = s.manager.GetBytes(ctx, s.prefix+key)
	}

	next, err := fn(current)
	if err != nil {
		return err
	}

	if next == nil {
		s.manager.Remove(ctx, s.prefix+key)
		return nil
	}
	s.manager.Put(ctx, s.prefix+key, next)
	return nil
}

// Take removes and returns the value at key in the current session.
func (s *Session) Take(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.manager.PopBytes(ctx, s.prefix+key), nil
}
