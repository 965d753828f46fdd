package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quiz-portal/internal/domain"
)

const uniqueViolation = "23505"

// Store implements the persistence interfaces over a pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Connect opens a pgx pool against the given DSN.
func Connect(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	query := `
	INSERT INTO users (username, email, password_hash, is_admin, created_at)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id
	`
	err := s.pool.QueryRow(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.IsAdmin, user.CreatedAt,
	).Scan(&user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrUsernameTaken
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *Store) UserByUsername(ctx context.Context, username string) (domain.User, error) {
	query := `
	SELECT id, username, email, password_hash, is_admin, created_at
	FROM users WHERE username = $1
	`
	var user domain.User
	err := s.pool.QueryRow(ctx, query, username).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.IsAdmin, &user.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

func (s *Store) UserByID(ctx context.Context, id int64) (domain.User, error) {
	query := `
	SELECT id, username, email, password_hash, is_admin, created_at
	FROM users WHERE id = $1
	`
	var user domain.User
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.IsAdmin, &user.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

func (s *Store) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	query := `
	SELECT id, text, option1, option2, option3, option4, correct_option
	FROM questions ORDER BY id
	`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.Text, &q.Option1, &q.Option2, &q.Option3, &q.Option4, &q.CorrectOption); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (s *Store) QuestionByID(ctx context.Context, id int64) (domain.Question, error) {
	query := `
	SELECT id, text, option1, option2, option3, option4, correct_option
	FROM questions WHERE id = $1
	`
	var q domain.Question
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&q.ID, &q.Text, &q.Option1, &q.Option2, &q.Option3, &q.Option4, &q.CorrectOption,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Question{}, domain.ErrQuestionNotFound
	}
	if err != nil {
		return domain.Question{}, fmt.Errorf("load question: %w", err)
	}
	return q, nil
}

func (s *Store) CreateQuestion(ctx context.Context, q *domain.Question) error {
	query := `
	INSERT INTO questions (text, option1, option2, option3, option4, correct_option)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id
	`
	err := s.pool.QueryRow(ctx, query,
		q.Text, q.Option1, q.Option2, q.Option3, q.Option4, q.CorrectOption,
	).Scan(&q.ID)
	if err != nil {
		return fmt.Errorf("create question: %w", err)
	}
	return nil
}

func (s *Store) UpdateQuestion(ctx context.Context, q domain.Question) error {
	query := `
	UPDATE questions
	SET text = $2, option1 = $3, option2 = $4, option3 = $5, option4 = $6, correct_option = $7
	WHERE id = $1
	`
	tag, err := s.pool.Exec(ctx, query,
		q.ID, q.Text, q.Option1, q.Option2, q.Option3, q.Option4, q.CorrectOption,
	)
	if err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

func (s *Store) CreateResult(ctx context.Context, r *domain.Result) error {
	query := `
	INSERT INTO results (user_id, score, total_questions, created_at)
	VALUES ($1, $2, $3, $4)
	RETURNING id
	`
	if err := s.pool.QueryRow(ctx, query, r.UserID, r.Score, r.TotalQuestions, r.CreatedAt).Scan(&r.ID); err != nil {
		return fmt.Errorf("create result: %w", err)
	}
	return nil
}

func (s *Store) ResultByID(ctx context.Context, id int64) (domain.Result, error) {
	query := `
	SELECT id, user_id, score, total_questions, created_at
	FROM results WHERE id = $1
	`
	var r domain.Result
	err := s.pool.QueryRow(ctx, query, id).Scan(&r.ID, &r.UserID, &r.Score, &r.TotalQuestions, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Result{}, domain.ErrResultNotFound
	}
	if err != nil {
		return domain.Result{}, fmt.Errorf("load result: %w", err)
	}
	return r, nil
}

func (s *Store) ResultsByUser(ctx context.Context, userID int64) ([]domain.Result, error) {
	query := `
	SELECT id, user_id, score, total_questions, created_at
	FROM results WHERE user_id = $1
	ORDER BY created_at DESC, id DESC
	`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	results := make([]domain.Result, 0)
	for rows.Next() {
		var r domain.Result
		if err := rows.Scan(&r.ID, &r.UserID, &r.Score, &r.TotalQuestions, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

func (s *Store) TokenByUser(ctx context.Context, userID int64) (domain.AuthToken, error) {
	query := `SELECT key, user_id, created_at FROM auth_tokens WHERE user_id = $1`
	var token domain.AuthToken
	err := s.pool.QueryRow(ctx, query, userID).Scan(&token.Key, &token.UserID, &token.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.AuthToken{}, domain.ErrTokenNotFound
	}
	if err != nil {
		return domain.AuthToken{}, fmt.Errorf("load token: %w", err)
	}
	return token, nil
}

func (s *Store) TokenByKey(ctx context.Context, key string) (domain.AuthToken, error) {
	query := `SELECT key, user_id, created_at FROM auth_tokens WHERE key = $1`
	var token domain.AuthToken
	err := s.pool.QueryRow(ctx, query, key).Scan(&token.Key, &token.UserID, &token.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.AuthToken{}, domain.ErrTokenNotFound
	}
	if err != nil {
		return domain.AuthToken{}, fmt.Errorf("load token: %w", err)
	}
	return token, nil
}

func (s *Store) CreateToken(ctx context.Context, token domain.AuthToken) error {
	query := `INSERT INTO auth_tokens (key, user_id, created_at) VALUES ($1, $2, $3)`
	if _, err := s.pool.Exec(ctx, query, token.Key, token.UserID, token.CreatedAt); err != nil {
		return fmt.Errorf("create token: %w", err)
	}
	return nil
}

func (s *Store) RevokeToken(ctx context.Context, key string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM auth_tokens WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTokenNotFound
	}
	return nil
}
