package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"quiz-portal/internal/app"
	"quiz-portal/internal/domain"
)

func (h *Handler) home(c *gin.Context) {
	user, _ := currentUser(c)
	c.HTML(http.StatusOK, "home.html", gin.H{
		"User":  user,
		"Auth":  user.ID != 0,
		"Flash": popFlash(c),
	})
}

func (h *Handler) registerForm(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", registerData("", "", nil, popFlash(c)))
}

// registerData fills every key register.html renders, so re-renders after
// validation failures keep the submitted values.
func registerData(username, email string, fieldErrors map[string]string, flash string) gin.H {
	if fieldErrors == nil {
		fieldErrors = map[string]string{}
	}
	return gin.H{
		"Username": username,
		"Email":    email,
		"Errors":   fieldErrors,
		"Flash":    flash,
	}
}

func (h *Handler) register(c *gin.Context) {
	username := c.PostForm("username")
	email := c.PostForm("email")
	password := c.PostForm("password")

	_, err := h.auth.Register(c.Request.Context(), username, email, password)
	if err != nil {
		var verr *app.ValidationError
		switch {
		case errors.As(err, &verr):
			c.HTML(http.StatusBadRequest, "register.html", registerData(username, email, verr.Fields, ""))
		case errors.Is(err, domain.ErrUsernameTaken):
			c.HTML(http.StatusBadRequest, "register.html", registerData(username, email, map[string]string{"username": "already taken"}, ""))
		default:
			h.log.Error("register failed", "err", err)
			c.HTML(http.StatusInternalServerError, "register.html", registerData(username, email, nil, "Registration failed. Please try again."))
		}
		return
	}

	setFlash(c, "Registration successful! You can now log in.")
	c.Redirect(http.StatusFound, "/login/")
}

func (h *Handler) loginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Flash": popFlash(c),
		"Error": "",
		"Next":  c.Query("next"),
	})
}

func (h *Handler) login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := h.auth.Authenticate(c.Request.Context(), username, password)
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			h.log.Error("login failed", "err", err)
		}
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{
			"Flash": "",
			"Error": "Invalid username or password.",
			"Next":  c.PostForm("next"),
		})
		return
	}

	sid, err := h.auth.StartSession(c.Request.Context(), user.ID)
	if err != nil {
		h.log.Error("start session failed", "err", err)
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{
			"Flash": "",
			"Error": "Login failed. Please try again.",
			"Next":  "",
		})
		return
	}
	c.SetCookie(sessionCookie, sid, 0, "/", "", false, true)

	setFlash(c, "Welcome back, "+user.Username+"!")
	c.Redirect(http.StatusFound, safeNext(c.PostForm("next")))
}

func (h *Handler) logout(c *gin.Context) {
	if sid, err := c.Cookie(sessionCookie); err == nil && sid != "" {
		if err := h.auth.EndSession(c.Request.Context(), sid); err != nil {
			h.log.Warn("end session failed", "err", err)
		}
	}
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
	setFlash(c, "You have successfully logged out.")
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) quizForm(c *gin.Context) {
	questions, err := h.quiz.Questions(c.Request.Context())
	if err != nil {
		h.log.Error("load questions failed", "err", err)
		c.HTML(http.StatusInternalServerError, "home.html", gin.H{"Flash": "Something went wrong."})
		return
	}
	if len(questions) == 0 {
		setFlash(c, "No questions available in the quiz yet.")
		c.Redirect(http.StatusFound, "/")
		return
	}

	views := make([]questionView, 0, len(questions))
	for _, q := range questions {
		views = append(views, newQuestionView(q))
	}
	user, _ := currentUser(c)
	c.HTML(http.StatusOK, "quiz.html", gin.H{"Questions": views, "User": user})
}

func (h *Handler) submitQuiz(c *gin.Context) {
	user, _ := currentUser(c)

	if err := c.Request.ParseForm(); err != nil {
		c.Redirect(http.StatusFound, "/quiz/")
		return
	}
	answers := make(map[int64]string)
	for key, values := range c.Request.PostForm {
		if !strings.HasPrefix(key, "question_") || len(values) == 0 {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimPrefix(key, "question_"), 10, 64)
		if err != nil {
			continue
		}
		answers[id] = values[0]
	}

	result, err := h.quiz.SubmitWeb(c.Request.Context(), user.ID, answers)
	if err != nil {
		h.log.Error("submit quiz failed", "err", err, "user", user.ID)
		c.HTML(http.StatusInternalServerError, "home.html", gin.H{"Flash": "Something went wrong."})
		return
	}
	c.Redirect(http.StatusFound, "/result/"+strconv.FormatInt(result.ID, 10)+"/")
}

func (h *Handler) result(c *gin.Context) {
	user, _ := currentUser(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.notFound(c)
		return
	}

	result, err := h.quiz.Result(c.Request.Context(), id, user.ID)
	if err != nil {
		if !errors.Is(err, domain.ErrResultNotFound) {
			h.log.Error("load result failed", "err", err)
		}
		h.notFound(c)
		return
	}
	c.HTML(http.StatusOK, "result.html", gin.H{
		"User":       user,
		"Result":     result,
		"Percentage": result.Percentage(),
	})
}

func (h *Handler) scores(c *gin.Context) {
	user, _ := currentUser(c)
	results, err := h.quiz.ResultsForUser(c.Request.Context(), user.ID)
	if err != nil {
		h.log.Error("load scores failed", "err", err)
		c.HTML(http.StatusInternalServerError, "home.html", gin.H{"Flash": "Something went wrong."})
		return
	}
	c.HTML(http.StatusOK, "scores.html", gin.H{"User": user, "Results": results})
}

func (h *Handler) addQuestionForm(c *gin.Context) {
	user, _ := currentUser(c)
	c.HTML(http.StatusOK, "add_question.html", gin.H{"User": user, "Flash": popFlash(c)})
}

func (h *Handler) addQuestion(c *gin.Context) {
	user, _ := currentUser(c)
	correct, _ := strconv.Atoi(c.PostForm("correct_option"))
	q := domain.Question{
		Text:          c.PostForm("text"),
		Option1:       c.PostForm("option1"),
		Option2:       c.PostForm("option2"),
		Option3:       c.PostForm("option3"),
		Option4:       c.PostForm("option4"),
		CorrectOption: correct,
	}

	if _, err := h.quiz.AddQuestion(c.Request.Context(), q); err != nil {
		if errors.Is(err, domain.ErrInvalidQuestion) {
			c.HTML(http.StatusBadRequest, "add_question.html", gin.H{
				"User":     user,
				"Error":    "Failed to add question. Please check the form.",
				"Question": q,
			})
			return
		}
		h.log.Error("add question failed", "err", err)
		c.HTML(http.StatusInternalServerError, "add_question.html", gin.H{
			"User":  user,
			"Error": "Something went wrong.",
		})
		return
	}

	setFlash(c, "Question added successfully!")
	c.Redirect(http.StatusFound, "/add_question/")
}

func (h *Handler) notFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "404.html", nil)
}

// questionView pairs an option index with its text for the radio inputs.
type questionView struct {
	ID      int64
	Text    string
	Options []optionView
}

type optionView struct {
	Number int
	Text   string
}

func newQuestionView(q domain.Question) questionView {
	view := questionView{ID: q.ID, Text: q.Text}
	for i, text := range q.Options() {
		view.Options = append(view.Options, optionView{Number: i + 1, Text: text})
	}
	return view
}

func setFlash(c *gin.Context, message string) {
	c.SetCookie(flashCookie, message, 60, "/", "", false, true)
}

func popFlash(c *gin.Context) string {
	message, err := c.Cookie(flashCookie)
	if err != nil {
		return ""
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)
	return message
}

// safeNext allows only same-site relative redirect targets.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, ":") {
		return "/"
	}
	return next
}
