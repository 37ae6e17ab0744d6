package access

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kidsbilling/adjustments/internal/utils"
)

type session struct {
	access    Context
	expiresAt time.Time
}

// SessionStore keeps sessions in memory, keyed by a random id.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]session
	ttl      time.Duration
	clock    utils.Clock
}

func NewSessionStore(ttl time.Duration, clock utils.Clock) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]session),
		ttl:      ttl,
		clock:    clock,
	}
}

func (s *SessionStore) Create(acc Context) (string, time.Time) {
	id := uuid.NewString()
	expiresAt := s.clock.Now().Add(s.ttl)

	s.mu.Lock()
	s.sweep()
	s.sessions[id] = session{access: acc, expiresAt: expiresAt}
	s.mu.Unlock()
	return id, expiresAt
}

// Get returns the access context of a live session. Expired sessions are removed.
func (s *SessionStore) Get(id string) (Context, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return Context{}, ErrNoAccess
	}
	if !s.clock.Now().Before(sess.expiresAt) {
		s.Delete(id)
		return Context{}, ErrNoAccess
	}
	return sess.access, nil
}

func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// sweep drops expired sessions. Callers hold the write lock.
func (s *SessionStore) sweep() {
	now := s.clock.Now()
	for id, sess := range s.sessions {
		if !now.Before(sess.expiresAt) {
			delete(s.sessions, id)
		}
	}
}
