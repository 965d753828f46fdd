package http

import (
	"embed"
	"html/template"
	"log/slog"

	"github.com/gin-gonic/gin"

	"quiz-portal/internal/app"
)

//go:embed templates/*.html
var templateFS embed.FS

// Handler owns the HTTP surface: HTML pages, the JSON API and the admin
// websocket result feed.
type Handler struct {
	auth *app.AuthService
	quiz *app.QuizService
	feed *app.ResultFeed
	log  *slog.Logger
}

func NewHandler(auth *app.AuthService, quiz *app.QuizService, feed *app.ResultFeed, log *slog.Logger) *Handler {
	return &Handler{auth: auth, quiz: quiz, feed: feed, log: log}
}

// Router builds the gin engine with all routes wired.
func (h *Handler) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLog())
	router.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	router.GET("/healthz", func(c *gin.Context) {
		c.String(200, "ok")
	})

	web := router.Group("/", h.sessionAuth())
	{
		web.GET("/", h.home)
		web.GET("/register/", h.registerForm)
		web.POST("/register/", h.register)
		web.GET("/login/", h.loginForm)
		web.POST("/login/", h.login)
		web.GET("/logout/", h.logout)

		quiz := web.Group("/", requireLogin())
		{
			quiz.GET("/quiz/", h.quizForm)
			quiz.POST("/quiz/", h.submitQuiz)
			quiz.GET("/result/:id/", h.result)
			quiz.GET("/scores/", h.scores)
		}

		admin := web.Group("/", requireAdmin())
		{
			admin.GET("/add_question/", h.addQuestionForm)
			admin.POST("/add_question/", h.addQuestion)
		}
	}

	api := router.Group("/api", h.tokenAuth())
	{
		api.POST("/register/", h.apiRegister)
		api.POST("/login/", h.apiLogin)
		api.GET("/questions/", h.apiQuestions)
		api.POST("/submit-quiz/", h.apiSubmitQuiz)
		api.GET("/results/", requireToken(), h.apiResults)

		adminAPI := api.Group("/", requireAdminToken())
		{
			adminAPI.POST("/questions/", h.apiCreateQuestion)
			adminAPI.PUT("/questions/:id/", h.apiUpdateQuestion)
		}
	}

	router.GET("/ws/results", h.serveResultFeed)

	return router
}
