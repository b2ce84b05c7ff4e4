package httpapi

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session an issued bearer token bound to a user.
type Session struct {
	Token     string
	UserID    string
	Role      string
	ExpiresAt time.Time
}

// SessionStore in-memory token table. Tokens are opaque UUIDs; state is
// process-local, so a restart logs everyone out.
type SessionStore struct {
	mu       sync.RWMutex
	byToken  map[string]Session
	lifetime time.Duration
}

func NewSessionStore(lifetime time.Duration) *SessionStore {
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}
	return &SessionStore{
		byToken:  map[string]Session{},
		lifetime: lifetime,
	}
}

func (s *SessionStore) Issue(userID, role string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	session := Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		Role:      role,
		ExpiresAt: time.Now().Add(s.lifetime),
	}
	s.byToken[session.Token] = session
	return session
}

// Lookup returns false for unknown or expired tokens; expired tokens are
// dropped on the way out.
func (s *SessionStore) Lookup(token string) (Session, bool) {
	s.mu.RLock()
	session, ok := s.byToken[token]
	s.mu.RUnlock()
	if !ok {
		return Session{}, false
	}
	if time.Now().After(session.ExpiresAt) {
		s.Revoke(token)
		return Session{}, false
	}
	return session, true
}

func (s *SessionStore) Revoke(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byToken, token)
}
