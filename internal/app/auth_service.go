package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"quiz-portal/internal/domain"
)

const minPasswordLen = 8

// ValidationError carries field-level messages for bad registration input.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AuthService covers registration, credential checks, web sessions and API
// tokens. Sessions are TTL-bound and die on logout; tokens are issued once
// per user and stay valid until revoked.
type AuthService struct {
	users    UserRepository
	tokens   TokenRepository
	sessions SessionStore
}

func NewAuthService(users UserRepository, tokens TokenRepository, sessions SessionStore) *AuthService {
	return &AuthService{users: users, tokens: tokens, sessions: sessions}
}

// Register validates input, hashes the password and creates the account.
// Duplicate usernames return domain.ErrUsernameTaken.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (domain.User, error) {
	fields := map[string]string{}
	if strings.TrimSpace(username) == "" {
		fields["username"] = "this field is required"
	}
	if password == "" {
		fields["password"] = "this field is required"
	} else if len(password) < minPasswordLen {
		fields["password"] = fmt.Sprintf("must be at least %d characters", minPasswordLen)
	}
	if len(fields) > 0 {
		return domain.User{}, &ValidationError{Fields: fields}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		Username:     strings.TrimSpace(username),
		Email:        strings.TrimSpace(email),
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := s.users.CreateUser(ctx, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Authenticate checks credentials. Unknown user and wrong password both map
// to domain.ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	user, err := s.users.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.User{}, domain.ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	return user, nil
}

// StartSession opens a web session and returns the cookie value.
func (s *AuthService) StartSession(ctx context.Context, userID int64) (string, error) {
	return s.sessions.CreateSession(ctx, userID)
}

// EndSession logs the web session out. The user's API token is left intact.
func (s *AuthService) EndSession(ctx context.Context, sid string) error {
	return s.sessions.DeleteSession(ctx, sid)
}

// UserBySession resolves a session cookie to its user.
func (s *AuthService) UserBySession(ctx context.Context, sid string) (domain.User, error) {
	userID, err := s.sessions.SessionUser(ctx, sid)
	if err != nil {
		return domain.User{}, err
	}
	return s.users.UserByID(ctx, userID)
}

// IssueToken returns the user's API token, creating it on first use.
func (s *AuthService) IssueToken(ctx context.Context, userID int64) (domain.AuthToken, error) {
	token, err := s.tokens.TokenByUser(ctx, userID)
	if err == nil {
		return token, nil
	}
	if !errors.Is(err, domain.ErrTokenNotFound) {
		return domain.AuthToken{}, err
	}

	key, err := newTokenKey()
	if err != nil {
		return domain.AuthToken{}, err
	}
	token = domain.AuthToken{Key: key, UserID: userID, CreatedAt: time.Now()}
	if err := s.tokens.CreateToken(ctx, token); err != nil {
		return domain.AuthToken{}, err
	}
	return token, nil
}

// UserByToken resolves an API token key to its user.
func (s *AuthService) UserByToken(ctx context.Context, key string) (domain.User, error) {
	token, err := s.tokens.TokenByKey(ctx, key)
	if err != nil {
		return domain.User{}, err
	}
	return s.users.UserByID(ctx, token.UserID)
}

// newTokenKey produces a 40-char hex key.
func newTokenKey() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
