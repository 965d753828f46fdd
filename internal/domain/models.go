package domain

import (
	"math"
	"time"
)

// User is a registered account. Administrators may author questions.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"-"`
	CreatedAt    time.Time `json:"-"`
}

// Question is an MCQ prompt with four fixed options and one correct index (1..4).
type Question struct {
	ID            int64  `json:"id"`
	Text          string `json:"text"`
	Option1       string `json:"option1"`
	Option2       string `json:"option2"`
	Option3       string `json:"option3"`
	Option4       string `json:"option4"`
	CorrectOption int    `json:"correct_option"`
}

// Options returns the four option texts in display order.
func (q Question) Options() [4]string {
	return [4]string{q.Option1, q.Option2, q.Option3, q.Option4}
}

// Result is an immutable record of one completed quiz attempt.
// UserID is nil for anonymous API submissions.
type Result struct {
	ID             int64     `json:"id"`
	UserID         *int64    `json:"user"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	CreatedAt      time.Time `json:"timestamp"`
}

// Percentage reports the score as a percentage rounded to two decimals,
// 0 when no questions were counted.
func (r Result) Percentage() float64 {
	if r.TotalQuestions <= 0 {
		return 0
	}
	pct := float64(r.Score) / float64(r.TotalQuestions) * 100
	return math.Round(pct*100) / 100
}

// AuthToken is a long-lived opaque API credential, one per user.
// It is created lazily on first login and survives web logout.
type AuthToken struct {
	Key       string    `json:"token"`
	UserID    int64     `json:"-"`
	CreatedAt time.Time `json:"-"`
}
