package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"quiz-portal/internal/domain"
)

func TestSessionStoreRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, time.Minute)

	sid, err := store.CreateSession(ctx, 42)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if !mr.Exists("session:" + sid) {
		t.Fatalf("expected redis key for session")
	}

	userID, err := store.SessionUser(ctx, sid)
	if err != nil {
		t.Fatalf("session user: %v", err)
	}
	if userID != 42 {
		t.Fatalf("expected user 42, got %d", userID)
	}

	if err := store.DeleteSession(ctx, sid); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if _, err := store.SessionUser(ctx, sid); err != domain.ErrSessionNotFound {
		t.Fatalf("expected session not found after delete, got %v", err)
	}
}

func TestSessionStoreExpires(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, time.Minute)

	sid, err := store.CreateSession(ctx, 7)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	mr.FastForward(2 * time.Minute)
	if _, err := store.SessionUser(ctx, sid); err != domain.ErrSessionNotFound {
		t.Fatalf("expected expired session, got %v", err)
	}
}
