package domain

import "strconv"

// Attempt is the outcome of scoring one submission.
type Attempt struct {
	Score          int
	TotalQuestions int
}

// ScoreBank scores a submission against the full question bank: every
// question counts toward the total whether or not it was answered. This is
// the convention of the HTML quiz form, where the form always shows the
// whole bank.
//
// An answer is correct only if it is present, parses as an integer, and
// equals the question's correct option. Malformed values count as incorrect,
// never as errors.
func ScoreBank(questions []Question, answers map[int64]string) Attempt {
	attempt := Attempt{TotalQuestions: len(questions)}
	for _, q := range questions {
		raw, ok := answers[q.ID]
		if !ok {
			continue
		}
		if picked, err := strconv.Atoi(raw); err == nil && picked == q.CorrectOption {
			attempt.Score++
		}
	}
	return attempt
}

// ScoreSubmitted scores only the submitted answers: the total counts each
// answer whose key resolves to a known question id. Unknown ids and
// non-numeric keys are skipped silently. This is the JSON API convention,
// which intentionally differs from ScoreBank (clients may submit a subset).
func ScoreSubmitted(questions []Question, answers map[string]string) Attempt {
	byID := make(map[int64]Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	var attempt Attempt
	for rawID, raw := range answers {
		id, err := strconv.ParseInt(rawID, 10, 64)
		if err != nil {
			continue
		}
		q, ok := byID[id]
		if !ok {
			continue
		}
		attempt.TotalQuestions++
		if picked, err := strconv.Atoi(raw); err == nil && picked == q.CorrectOption {
			attempt.Score++
		}
	}
	return attempt
}

// ValidateQuestion checks a question before it is persisted.
func ValidateQuestion(q Question) error {
	if q.Text == "" {
		return ErrInvalidQuestion
	}
	for _, opt := range q.Options() {
		if opt == "" {
			return ErrInvalidQuestion
		}
	}
	if q.CorrectOption < 1 || q.CorrectOption > 4 {
		return ErrInvalidQuestion
	}
	return nil
}
