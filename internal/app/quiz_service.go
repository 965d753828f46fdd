package app

import (
	"context"
	"time"

	"quiz-portal/internal/domain"
)

// QuizService contains the quiz-taking and question-authoring use cases.
type QuizService struct {
	questions QuestionRepository
	bank      QuestionBank
	results   ResultRepository
	feed      *ResultFeed
}

func NewQuizService(questions QuestionRepository, bank QuestionBank, results ResultRepository, feed *ResultFeed) *QuizService {
	return &QuizService{questions: questions, bank: bank, results: results, feed: feed}
}

// Questions returns the bank through the cache. Correct options are included;
// transports decide what to expose.
func (s *QuizService) Questions(ctx context.Context) ([]domain.Question, error) {
	return s.bank.Questions(ctx)
}

// SubmitWeb scores a quiz form submission against the full bank and records
// the result. The total counts every question in the bank, answered or not.
func (s *QuizService) SubmitWeb(ctx context.Context, userID int64, answers map[int64]string) (domain.Result, error) {
	questions, err := s.bank.Questions(ctx)
	if err != nil {
		return domain.Result{}, err
	}
	attempt := domain.ScoreBank(questions, answers)
	return s.record(ctx, &userID, attempt)
}

// SubmitAnswers scores a JSON API submission. Only answers that resolve to a
// real question count toward the total; unknown ids are ignored. A nil userID
// records an anonymous result.
func (s *QuizService) SubmitAnswers(ctx context.Context, userID *int64, answers map[string]string) (domain.Result, error) {
	questions, err := s.bank.Questions(ctx)
	if err != nil {
		return domain.Result{}, err
	}
	attempt := domain.ScoreSubmitted(questions, answers)
	return s.record(ctx, userID, attempt)
}

func (s *QuizService) record(ctx context.Context, userID *int64, attempt domain.Attempt) (domain.Result, error) {
	result := domain.Result{
		UserID:         userID,
		Score:          attempt.Score,
		TotalQuestions: attempt.TotalQuestions,
		CreatedAt:      time.Now(),
	}
	if err := s.results.CreateResult(ctx, &result); err != nil {
		return domain.Result{}, err
	}
	if s.feed != nil {
		s.feed.Publish(result)
	}
	return result, nil
}

// Result returns one result if it is owned by userID, otherwise
// domain.ErrResultNotFound. Ownership misses are not distinguishable from
// missing rows, so existence of other users' results is never confirmed.
func (s *QuizService) Result(ctx context.Context, id, userID int64) (domain.Result, error) {
	result, err := s.results.ResultByID(ctx, id)
	if err != nil {
		return domain.Result{}, err
	}
	if result.UserID == nil || *result.UserID != userID {
		return domain.Result{}, domain.ErrResultNotFound
	}
	return result, nil
}

// ResultsForUser lists the user's results newest first.
func (s *QuizService) ResultsForUser(ctx context.Context, userID int64) ([]domain.Result, error) {
	return s.results.ResultsByUser(ctx, userID)
}

// AddQuestion validates and persists a new question, then drops the cached
// bank so the next quiz sees it.
func (s *QuizService) AddQuestion(ctx context.Context, q domain.Question) (domain.Question, error) {
	if err := domain.ValidateQuestion(q); err != nil {
		return domain.Question{}, err
	}
	if err := s.questions.CreateQuestion(ctx, &q); err != nil {
		return domain.Question{}, err
	}
	if err := s.bank.Invalidate(ctx); err != nil {
		return domain.Question{}, err
	}
	return q, nil
}

// UpdateQuestion replaces an existing question.
func (s *QuizService) UpdateQuestion(ctx context.Context, q domain.Question) error {
	if err := domain.ValidateQuestion(q); err != nil {
		return err
	}
	if err := s.questions.UpdateQuestion(ctx, q); err != nil {
		return err
	}
	return s.bank.Invalidate(ctx)
}
