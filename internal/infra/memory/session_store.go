package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"quiz-portal/internal/domain"
)

// SessionStore keeps web sessions in process memory with a TTL. Used when
// Redis is not configured.
type SessionStore struct {
	ttl      time.Duration
	clock    func() time.Time
	mu       sync.RWMutex
	sessions map[string]sessionEntry
}

type sessionEntry struct {
	userID    int64
	expiresAt time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		clock:    time.Now,
		sessions: make(map[string]sessionEntry),
	}
}

func (s *SessionStore) CreateSession(_ context.Context, userID int64) (string, error) {
	sid := uuid.NewString()
	s.mu.Lock()
	s.sessions[sid] = sessionEntry{userID: userID, expiresAt: s.clock().Add(s.ttl)}
	s.mu.Unlock()
	return sid, nil
}

func (s *SessionStore) SessionUser(_ context.Context, sid string) (int64, error) {
	s.mu.RLock()
	entry, ok := s.sessions[sid]
	s.mu.RUnlock()
	if !ok || entry.expiresAt.Before(s.clock()) {
		return 0, domain.ErrSessionNotFound
	}
	return entry.userID, nil
}

func (s *SessionStore) DeleteSession(_ context.Context, sid string) error {
	s.mu.Lock()
	delete(s.sessions, sid)
	s.mu.Unlock()
	return nil
}
