package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"quiz-portal/internal/app"
	"quiz-portal/internal/domain"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userJSON struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// questionJSON withholds the correct option from API consumers.
type questionJSON struct {
	ID      int64  `json:"id"`
	Text    string `json:"text"`
	Option1 string `json:"option1"`
	Option2 string `json:"option2"`
	Option3 string `json:"option3"`
	Option4 string `json:"option4"`
}

type resultJSON struct {
	ID             int64  `json:"id"`
	User           *int64 `json:"user"`
	Score          int    `json:"score"`
	TotalQuestions int    `json:"total_questions"`
	Timestamp      string `json:"timestamp"`
}

func toUserJSON(u domain.User) userJSON {
	return userJSON{ID: u.ID, Username: u.Username, Email: u.Email}
}

func toQuestionJSON(q domain.Question) questionJSON {
	return questionJSON{ID: q.ID, Text: q.Text, Option1: q.Option1, Option2: q.Option2, Option3: q.Option3, Option4: q.Option4}
}

func toResultJSON(r domain.Result) resultJSON {
	return resultJSON{
		ID:             r.ID,
		User:           r.UserID,
		Score:          r.Score,
		TotalQuestions: r.TotalQuestions,
		Timestamp:      r.CreatedAt.Format("2006-01-02T15:04:05.000000Z07:00"),
	}
}

func (h *Handler) apiRegister(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		var verr *app.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, verr.Fields)
		case errors.Is(err, domain.ErrUsernameTaken):
			c.JSON(http.StatusBadRequest, gin.H{"username": "a user with that username already exists"})
		default:
			h.log.Error("api register failed", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		}
		return
	}

	token, err := h.auth.IssueToken(c.Request.Context(), user.ID)
	if err != nil {
		h.log.Error("issue token failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token.Key, "user": toUserJSON(user)})
}

func (h *Handler) apiLogin(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user, err := h.auth.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			h.log.Error("api login failed", "err", err)
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := h.auth.IssueToken(c.Request.Context(), user.ID)
	if err != nil {
		h.log.Error("issue token failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token.Key, "user": toUserJSON(user)})
}

func (h *Handler) apiQuestions(c *gin.Context) {
	questions, err := h.quiz.Questions(c.Request.Context())
	if err != nil {
		h.log.Error("api questions failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load questions"})
		return
	}
	payload := make([]questionJSON, 0, len(questions))
	for _, q := range questions {
		payload = append(payload, toQuestionJSON(q))
	}
	c.JSON(http.StatusOK, payload)
}

// apiSubmitQuiz accepts either a nested answers map:
//
//	{"answers": {"1": "2", "2": "4"}}
//
// or flat per-question fields:
//
//	{"question_1": "2", "question_2": "4"}
func (h *Handler) apiSubmitQuiz(c *gin.Context) {
	var body map[string]json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	answers := make(map[string]string)
	if raw, ok := body["answers"]; ok {
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(raw, &nested); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "answers must be an object"})
			return
		}
		for id, value := range nested {
			answers[id] = rawToString(value)
		}
	} else {
		for key, value := range body {
			if strings.HasPrefix(key, "question_") {
				answers[strings.TrimPrefix(key, "question_")] = rawToString(value)
			}
		}
	}

	var userID *int64
	if user, ok := currentUser(c); ok {
		userID = &user.ID
	}

	result, err := h.quiz.SubmitAnswers(c.Request.Context(), userID, answers)
	if err != nil {
		h.log.Error("api submit failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not record result"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"result_id":       result.ID,
		"score":           result.Score,
		"total_questions": result.TotalQuestions,
	})
}

func (h *Handler) apiResults(c *gin.Context) {
	user, _ := currentUser(c)
	results, err := h.quiz.ResultsForUser(c.Request.Context(), user.ID)
	if err != nil {
		h.log.Error("api results failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load results"})
		return
	}
	payload := make([]resultJSON, 0, len(results))
	for _, r := range results {
		payload = append(payload, toResultJSON(r))
	}
	c.JSON(http.StatusOK, payload)
}

type questionRequest struct {
	Text          string `json:"text"`
	Option1       string `json:"option1"`
	Option2       string `json:"option2"`
	Option3       string `json:"option3"`
	Option4       string `json:"option4"`
	CorrectOption int    `json:"correct_option"`
}

func (r questionRequest) toDomain() domain.Question {
	return domain.Question{
		Text:          r.Text,
		Option1:       r.Option1,
		Option2:       r.Option2,
		Option3:       r.Option3,
		Option4:       r.Option4,
		CorrectOption: r.CorrectOption,
	}
}

func (h *Handler) apiCreateQuestion(c *gin.Context) {
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	q, err := h.quiz.AddQuestion(c.Request.Context(), req.toDomain())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidQuestion) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid question: text, four options and correct_option 1-4 are required"})
			return
		}
		h.log.Error("api create question failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create question"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":             q.ID,
		"text":           q.Text,
		"option1":        q.Option1,
		"option2":        q.Option2,
		"option3":        q.Option3,
		"option4":        q.Option4,
		"correct_option": q.CorrectOption,
	})
}

func (h *Handler) apiUpdateQuestion(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	q := req.toDomain()
	q.ID = id
	if err := h.quiz.UpdateQuestion(c.Request.Context(), q); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidQuestion):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid question: text, four options and correct_option 1-4 are required"})
		case errors.Is(err, domain.ErrQuestionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		default:
			h.log.Error("api update question failed", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not update question"})
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// rawToString accepts both JSON strings and numbers as answer values.
func rawToString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatInt(n, 10)
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return fmt.Sprint(f)
	}
	return string(raw)
}
