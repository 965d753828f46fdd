package http

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"quiz-portal/internal/domain"
)

func TestResultFeedStreamsToAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := domain.User{Username: "root", PasswordHash: "x", IsAdmin: true, CreatedAt: time.Now()}
	if err := env.store.CreateUser(ctx, &admin); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	token, err := env.auth.IssueToken(ctx, admin.ID)
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	u := "ws" + env.server.URL[len("http"):] + "/ws/results?token=" + token.Key
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	userID := int64(1)
	env.feed.Publish(domain.Result{ID: 5, UserID: &userID, Score: 1, TotalQuestions: 2, CreatedAt: time.Now()})

	var msg struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if msg.Type != "result" {
		t.Fatalf("expected result event, got %s", msg.Type)
	}

	var event resultEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if event.ID != 5 || event.Score != 1 || event.TotalQuestions != 2 || event.Percentage != 50 {
		t.Fatalf("unexpected event: %+v", event)
	}
}

func TestResultFeedRejectsNonAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := domain.User{Username: "dave", PasswordHash: "x", CreatedAt: time.Now()}
	if err := env.store.CreateUser(ctx, &user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	token, err := env.auth.IssueToken(ctx, user.ID)
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	resp, err := env.client.Get(env.server.URL + "/ws/results?token=" + token.Key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", resp.StatusCode)
	}

	resp, err = env.client.Get(env.server.URL + "/ws/results")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}
}
