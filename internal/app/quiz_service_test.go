package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz-portal/internal/app"
	"quiz-portal/internal/domain"
	"quiz-portal/internal/infra/memory"
)

func newQuizService() (*app.QuizService, *memory.Store, *app.ResultFeed) {
	store := memory.NewStore()
	store.Seed(
		domain.Question{ID: 1, Text: "2+2?", Option1: "3", Option2: "4", Option3: "5", Option4: "6", CorrectOption: 2},
		domain.Question{ID: 2, Text: "Capital of France?", Option1: "Lyon", Option2: "Nice", Option3: "Lille", Option4: "Paris", CorrectOption: 4},
	)
	feed := app.NewResultFeed()
	svc := app.NewQuizService(store, memory.NewQuestionCache(store, time.Minute), store, feed)
	return svc, store, feed
}

func TestSubmitWebScoresFullBank(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newQuizService()

	result, err := svc.SubmitWeb(ctx, 1, map[int64]string{1: "2", 2: "1"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Score)
	assert.Equal(t, 2, result.TotalQuestions)
	require.NotNil(t, result.UserID)
	assert.Equal(t, int64(1), *result.UserID)
	assert.NotZero(t, result.ID)
}

func TestSubmitWebEmptyAnswers(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newQuizService()

	result, err := svc.SubmitWeb(ctx, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, 2, result.TotalQuestions)
}

func TestSubmitAnswersSkipsUnknownIDs(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newQuizService()

	userID := int64(1)
	result, err := svc.SubmitAnswers(ctx, &userID, map[string]string{
		"1":  "2",
		"99": "4",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Score)
	assert.Equal(t, 1, result.TotalQuestions, "unknown id must not inflate the total")
}

func TestSubmitAnswersAnonymous(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newQuizService()

	result, err := svc.SubmitAnswers(ctx, nil, map[string]string{"1": "2"})
	require.NoError(t, err)
	assert.Nil(t, result.UserID)
	assert.Equal(t, 1, result.Score)
}

func TestResultOwnershipHidesOthers(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newQuizService()

	result, err := svc.SubmitWeb(ctx, 1, map[int64]string{1: "2"})
	require.NoError(t, err)

	got, err := svc.Result(ctx, result.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, result.ID, got.ID)

	_, err = svc.Result(ctx, result.ID, 2)
	assert.ErrorIs(t, err, domain.ErrResultNotFound, "non-owner gets not-found, never the data")

	_, err = svc.Result(ctx, 9999, 1)
	assert.ErrorIs(t, err, domain.ErrResultNotFound)
}

func TestResultsForUserNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newQuizService()

	first, err := svc.SubmitWeb(ctx, 1, nil)
	require.NoError(t, err)
	second, err := svc.SubmitWeb(ctx, 1, map[int64]string{1: "2", 2: "4"})
	require.NoError(t, err)

	results, err := svc.ResultsForUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, second.ID, results[0].ID)
	assert.Equal(t, first.ID, results[1].ID)
}

func TestAddQuestionValidatesAndInvalidates(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newQuizService()

	_, err := svc.AddQuestion(ctx, domain.Question{Text: "bad", CorrectOption: 5})
	assert.ErrorIs(t, err, domain.ErrInvalidQuestion)

	q, err := svc.AddQuestion(ctx, domain.Question{
		Text: "3+3?", Option1: "5", Option2: "6", Option3: "7", Option4: "8", CorrectOption: 2,
	})
	require.NoError(t, err)
	assert.NotZero(t, q.ID)

	questions, err := svc.Questions(ctx)
	require.NoError(t, err)
	assert.Len(t, questions, 3, "new question visible after cache invalidation")
}

func TestSubmitPublishesToFeed(t *testing.T) {
	ctx := context.Background()
	svc, _, feed := newQuizService()

	updates, cancel := feed.Subscribe()
	defer cancel()

	result, err := svc.SubmitWeb(ctx, 1, map[int64]string{1: "2"})
	require.NoError(t, err)

	select {
	case got := <-updates:
		assert.Equal(t, result.ID, got.ID)
	case <-time.After(time.Second):
		t.Fatal("expected result on feed")
	}
}

func TestScoreNeverExceedsTotal(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newQuizService()

	for _, answers := range []map[int64]string{
		nil,
		{1: "2"},
		{1: "2", 2: "4"},
		{1: "junk", 2: "4"},
	} {
		result, err := svc.SubmitWeb(ctx, 1, answers)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.Score, 0)
		assert.LessOrEqual(t, result.Score, result.TotalQuestions)
	}
}
