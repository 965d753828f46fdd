package app

import (
	"context"

	"quiz-portal/internal/domain"
)

// UserRepository persists registered accounts.
type UserRepository interface {
	// CreateUser assigns the user's ID. Returns domain.ErrUsernameTaken on a
	// duplicate username.
	CreateUser(ctx context.Context, user *domain.User) error
	UserByUsername(ctx context.Context, username string) (domain.User, error)
	UserByID(ctx context.Context, id int64) (domain.User, error)
}

// QuestionRepository is the authoritative question bank.
type QuestionRepository interface {
	// ListQuestions returns the full bank in stable id order.
	ListQuestions(ctx context.Context) ([]domain.Question, error)
	QuestionByID(ctx context.Context, id int64) (domain.Question, error)
	CreateQuestion(ctx context.Context, q *domain.Question) error
	UpdateQuestion(ctx context.Context, q domain.Question) error
}

// ResultRepository is append-only; results are never mutated after creation.
type ResultRepository interface {
	CreateResult(ctx context.Context, r *domain.Result) error
	ResultByID(ctx context.Context, id int64) (domain.Result, error)
	// ResultsByUser returns the user's results newest first.
	ResultsByUser(ctx context.Context, userID int64) ([]domain.Result, error)
}

// TokenRepository stores the one long-lived API token per user.
type TokenRepository interface {
	TokenByUser(ctx context.Context, userID int64) (domain.AuthToken, error)
	TokenByKey(ctx context.Context, key string) (domain.AuthToken, error)
	CreateToken(ctx context.Context, token domain.AuthToken) error
	// RevokeToken deletes a token key. Not called on logout; tokens outlive
	// web sessions until revoked explicitly.
	RevokeToken(ctx context.Context, key string) error
}

// SessionStore holds web sessions (cookie sid -> user id) with a TTL.
type SessionStore interface {
	CreateSession(ctx context.Context, userID int64) (string, error)
	SessionUser(ctx context.Context, sid string) (int64, error)
	DeleteSession(ctx context.Context, sid string) error
}

// QuestionBank is the read path for quiz taking, usually a cache in front of
// QuestionRepository.ListQuestions.
type QuestionBank interface {
	Questions(ctx context.Context) ([]domain.Question, error)
	// Invalidate drops the cached bank after an admin write.
	Invalidate(ctx context.Context) error
}
