package identity

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrSessionInvalid covers unknown and expired session tokens alike.
var ErrSessionInvalid = errors.New("session invalid or expired")

// Session binds an opaque bearer token to a user for a bounded lifetime.
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

// Sessions issues and resolves bearer tokens. State is in-memory only; tokens
// do not survive a daemon restart, which forces a fresh login.
type Sessions struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*Session
	now      func() time.Time
}

// NewSessions constructs a session manager with the given token lifetime.
func NewSessions(ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Sessions{
		ttl:      ttl,
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Issue creates a session for the user and returns its token.
func (s *Sessions) Issue(userID string) (*Session, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}
	session := &Session{
		Token:     base64.RawURLEncoding.EncodeToString(raw),
		UserID:    userID,
		ExpiresAt: s.now().Add(s.ttl),
	}
	s.mu.Lock()
	s.sessions[session.Token] = session
	s.mu.Unlock()
	return session, nil
}

// Resolve maps a bearer token back to its user identifier.
func (s *Sessions) Resolve(token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[token]
	if !ok {
		return "", ErrSessionInvalid
	}
	if s.now().After(session.ExpiresAt) {
		delete(s.sessions, token)
		return "", ErrSessionInvalid
	}
	return session.UserID, nil
}

// Revoke drops a session. Revoking an unknown token is a no-op.
func (s *Sessions) Revoke(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// PurgeExpired drops every expired session and reports how many were removed.
func (s *Sessions) PurgeExpired() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

// Active reports the number of live sessions.
func (s *Sessions) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// SetClock overrides the time source. Tests only.
func (s *Sessions) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}
