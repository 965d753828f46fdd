package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quiz-portal/internal/app"
	"quiz-portal/internal/config"
	"quiz-portal/internal/domain"
	"quiz-portal/internal/infra/memory"
	"quiz-portal/internal/infra/postgres"
	infraredis "quiz-portal/internal/infra/redis"
	"quiz-portal/internal/lib/slogcolor"
	transport "quiz-portal/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	gin.SetMode(gin.ReleaseMode)
	logger := slogcolor.New(os.Stdout, slog.LevelInfo)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	sessionTTL := config.TTLDuration(cfg.Redis.SessionTTL, 24*time.Hour)
	cacheTTL := config.TTLDuration(cfg.Quiz.CacheTTL, 10*time.Minute)

	var (
		users     app.UserRepository
		questions app.QuestionRepository
		results   app.ResultRepository
		tokens    app.TokenRepository
	)
	if cfg.Postgres.URL != "" {
		store, err := postgres.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer store.Close()
		users, questions, results, tokens = store, store, store, store
	} else {
		// Demo mode: everything in memory, seeded with a few questions.
		store := memory.NewStore()
		store.Seed(sampleQuestions()...)
		users, questions, results, tokens = store, store, store, store
		logger.Warn("postgres not configured, running with in-memory storage")
	}

	var bank app.QuestionBank
	if redisClient != nil {
		bank = infraredis.NewQuestionCache(redisClient, questions, cacheTTL)
	} else {
		bank = memory.NewQuestionCache(questions, cacheTTL)
	}

	var sessions app.SessionStore
	if redisClient != nil {
		sessions = infraredis.NewSessionStore(redisClient, sessionTTL)
	} else {
		sessions = memory.NewSessionStore(sessionTTL)
	}

	feed := app.NewResultFeed()
	authService := app.NewAuthService(users, tokens, sessions)
	quizService := app.NewQuizService(questions, bank, results, feed)
	handler := transport.NewHandler(authService, quizService, feed, logger)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("starting quiz portal", "port", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutting down server")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleQuestions seeds demo mode so the quiz is usable without Postgres.
func sampleQuestions() []domain.Question {
	return []domain.Question{
		{Text: "What is 2 + 2?", Option1: "3", Option2: "4", Option3: "5", Option4: "6", CorrectOption: 2},
		{Text: "Which planet is known as the Red Planet?", Option1: "Venus", Option2: "Jupiter", Option3: "Mars", Option4: "Saturn", CorrectOption: 3},
		{Text: "What is the capital of France?", Option1: "Lyon", Option2: "Nice", Option3: "Lille", Option4: "Paris", CorrectOption: 4},
	}
}
