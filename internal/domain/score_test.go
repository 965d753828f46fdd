package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func bank() []Question {
	return []Question{
		{ID: 1, Text: "2+2?", Option1: "3", Option2: "4", Option3: "5", Option4: "6", CorrectOption: 2},
		{ID: 2, Text: "Capital of France?", Option1: "Lyon", Option2: "Nice", Option3: "Lille", Option4: "Paris", CorrectOption: 4},
	}
}

func TestScoreBank(t *testing.T) {
	attempt := ScoreBank(bank(), map[int64]string{1: "2", 2: "1"})
	assert.Equal(t, 1, attempt.Score)
	assert.Equal(t, 2, attempt.TotalQuestions)
}

func TestScoreBankMalformedAnswersCountIncorrect(t *testing.T) {
	attempt := ScoreBank(bank(), map[int64]string{1: "two", 2: ""})
	assert.Equal(t, 0, attempt.Score)
	assert.Equal(t, 2, attempt.TotalQuestions)
}

func TestScoreBankEmptySubmission(t *testing.T) {
	attempt := ScoreBank(bank(), nil)
	assert.Equal(t, 0, attempt.Score)
	assert.Equal(t, 2, attempt.TotalQuestions, "web flow counts the whole bank")
}

func TestScoreSubmittedCountsOnlyResolvedIDs(t *testing.T) {
	attempt := ScoreSubmitted(bank(), map[string]string{
		"1":   "2",
		"99":  "1", // unknown id, skipped
		"bad": "3", // non-numeric key, skipped
	})
	assert.Equal(t, 1, attempt.Score)
	assert.Equal(t, 1, attempt.TotalQuestions)
}

func TestScoreSubmittedEmptySubmission(t *testing.T) {
	attempt := ScoreSubmitted(bank(), map[string]string{})
	assert.Equal(t, 0, attempt.Score)
	assert.Equal(t, 0, attempt.TotalQuestions, "api flow counts only resolved answers")
}

func TestScoreDeterministic(t *testing.T) {
	answers := map[string]string{"1": "2", "2": "4"}
	first := ScoreSubmitted(bank(), answers)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ScoreSubmitted(bank(), answers))
	}
}

func TestValidateQuestion(t *testing.T) {
	valid := bank()[0]
	assert.NoError(t, ValidateQuestion(valid))

	noText := valid
	noText.Text = ""
	assert.ErrorIs(t, ValidateQuestion(noText), ErrInvalidQuestion)

	blankOption := valid
	blankOption.Option3 = ""
	assert.ErrorIs(t, ValidateQuestion(blankOption), ErrInvalidQuestion)

	for _, correct := range []int{0, 5, -1} {
		q := valid
		q.CorrectOption = correct
		assert.ErrorIs(t, ValidateQuestion(q), ErrInvalidQuestion)
	}
}

func TestResultPercentage(t *testing.T) {
	assert.Equal(t, float64(0), Result{Score: 0, TotalQuestions: 0}.Percentage())
	assert.Equal(t, float64(50), Result{Score: 1, TotalQuestions: 2}.Percentage())
	assert.Equal(t, 33.33, Result{Score: 1, TotalQuestions: 3}.Percentage())
	assert.Equal(t, 66.67, Result{Score: 2, TotalQuestions: 3}.Percentage())
	assert.Equal(t, float64(100), Result{Score: 4, TotalQuestions: 4}.Percentage())
}
