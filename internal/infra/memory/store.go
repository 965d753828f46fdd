package memory

import (
	"context"
	"sort"
	"sync"

	"quiz-portal/internal/domain"
)

// Store is an in-memory implementation of the persistence interfaces. It
// backs tests and the zero-config demo mode when Postgres is not configured.
type Store struct {
	mu         sync.RWMutex
	users      map[int64]domain.User
	questions  map[int64]domain.Question
	results    map[int64]domain.Result
	tokens     map[string]domain.AuthToken
	nextUser   int64
	nextQ      int64
	nextResult int64
}

func NewStore() *Store {
	return &Store{
		users:     make(map[int64]domain.User),
		questions: make(map[int64]domain.Question),
		results:   make(map[int64]domain.Result),
		tokens:    make(map[string]domain.AuthToken),
	}
}

// Seed inserts questions directly, for demo mode and tests.
func (s *Store) Seed(questions ...domain.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range questions {
		if q.ID == 0 {
			s.nextQ++
			q.ID = s.nextQ
		} else if q.ID > s.nextQ {
			s.nextQ = q.ID
		}
		s.questions[q.ID] = q
	}
}

func (s *Store) CreateUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == user.Username {
			return domain.ErrUsernameTaken
		}
	}
	s.nextUser++
	user.ID = s.nextUser
	s.users[user.ID] = *user
	return nil
}

func (s *Store) UserByUsername(_ context.Context, username string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (s *Store) UserByID(_ context.Context, id int64) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (s *Store) ListQuestions(_ context.Context) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	questions := make([]domain.Question, 0, len(s.questions))
	for _, q := range s.questions {
		questions = append(questions, q)
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].ID < questions[j].ID })
	return questions, nil
}

func (s *Store) QuestionByID(_ context.Context, id int64) (domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if q, ok := s.questions[id]; ok {
		return q, nil
	}
	return domain.Question{}, domain.ErrQuestionNotFound
}

func (s *Store) CreateQuestion(_ context.Context, q *domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextQ++
	q.ID = s.nextQ
	s.questions[q.ID] = *q
	return nil
}

func (s *Store) UpdateQuestion(_ context.Context, q domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[q.ID]; !ok {
		return domain.ErrQuestionNotFound
	}
	s.questions[q.ID] = q
	return nil
}

func (s *Store) CreateResult(_ context.Context, r *domain.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextResult++
	r.ID = s.nextResult
	s.results[r.ID] = *r
	return nil
}

func (s *Store) ResultByID(_ context.Context, id int64) (domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.results[id]; ok {
		return r, nil
	}
	return domain.Result{}, domain.ErrResultNotFound
}

func (s *Store) ResultsByUser(_ context.Context, userID int64) ([]domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	results := make([]domain.Result, 0)
	for _, r := range s.results {
		if r.UserID != nil && *r.UserID == userID {
			results = append(results, r)
		}
	}
	// Newest first; ids break timestamp ties since inserts are ordered.
	sort.Slice(results, func(i, j int) bool {
		if !results[i].CreatedAt.Equal(results[j].CreatedAt) {
			return results[i].CreatedAt.After(results[j].CreatedAt)
		}
		return results[i].ID > results[j].ID
	})
	return results, nil
}

func (s *Store) TokenByUser(_ context.Context, userID int64) (domain.AuthToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, token := range s.tokens {
		if token.UserID == userID {
			return token, nil
		}
	}
	return domain.AuthToken{}, domain.ErrTokenNotFound
}

func (s *Store) TokenByKey(_ context.Context, key string) (domain.AuthToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if token, ok := s.tokens[key]; ok {
		return token, nil
	}
	return domain.AuthToken{}, domain.ErrTokenNotFound
}

func (s *Store) CreateToken(_ context.Context, token domain.AuthToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token.Key] = token
	return nil
}

func (s *Store) RevokeToken(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tokens[key]; !ok {
		return domain.ErrTokenNotFound
	}
	delete(s.tokens, key)
	return nil
}
