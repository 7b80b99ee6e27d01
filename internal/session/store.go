package session

import (
	"sync"
)

// Store guards a Session for callers that observe it from other goroutines.
type Store struct {
	mu      sync.RWMutex
	session Session
}

// NewStore wraps an initial session.
func NewStore(initial Session) *Store {
	return &Store{session: initial}
}

// Apply runs fn against the stored session while holding the write lock.
func (s *Store) Apply(fn func(*Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.session)
}

// Snapshot returns a copy of the current session. The photo is cloned so the
// caller can keep it after later captures replace it.
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.session
	if s.session.Photo != nil {
		p := *s.session.Photo
		p.Data = append([]byte(nil), s.session.Photo.Data...)
		snap.Photo = &p
	}
	return snap
}
