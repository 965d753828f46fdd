package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"quiz-portal/internal/domain"
)

// SessionStore keeps web sessions in Redis so logins survive restarts and
// can be shared across instances. Keys expire with the configured TTL;
// logout deletes the key immediately.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) CreateSession(ctx context.Context, userID int64) (string, error) {
	sid := uuid.NewString()
	if err := s.client.Set(ctx, s.key(sid), userID, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return sid, nil
}

func (s *SessionStore) SessionUser(ctx context.Context, sid string) (int64, error) {
	raw, err := s.client.Get(ctx, s.key(sid)).Result()
	if err == redis.Nil {
		return 0, domain.ErrSessionNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("load session: %w", err)
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.ErrSessionNotFound
	}
	return userID, nil
}

func (s *SessionStore) DeleteSession(ctx context.Context, sid string) error {
	return s.client.Del(ctx, s.key(sid)).Err()
}

func (s *SessionStore) key(sid string) string {
	return "session:" + sid
}
