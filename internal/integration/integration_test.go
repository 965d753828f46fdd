package integration

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"quiz-portal/internal/app"
	"quiz-portal/internal/domain"
	"quiz-portal/internal/infra/postgres"
	pgmigrations "quiz-portal/internal/infra/postgres/migrations"
	infraredis "quiz-portal/internal/infra/redis"
)

func TestQuizFlowEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	applyMigrations(t, ctx, pgURL)

	store, err := postgres.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer store.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}

	feed := app.NewResultFeed()
	sessions := infraredis.NewSessionStore(redisClient, 5*time.Minute)
	bank := infraredis.NewQuestionCache(redisClient, store, 5*time.Minute)
	authService := app.NewAuthService(store, store, sessions)
	quizService := app.NewQuizService(store, bank, store, feed)

	user, err := authService.Register(ctx, "alice", "alice@example.com", "correct horse")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := authService.Register(ctx, "alice", "", "battery staple"); err != domain.ErrUsernameTaken {
		t.Fatalf("expected duplicate username error, got %v", err)
	}

	q1, err := quizService.AddQuestion(ctx, domain.Question{
		Text: "2+2?", Option1: "3", Option2: "4", Option3: "5", Option4: "6", CorrectOption: 2,
	})
	if err != nil {
		t.Fatalf("add question: %v", err)
	}
	if _, err := quizService.AddQuestion(ctx, domain.Question{
		Text: "Capital of France?", Option1: "Lyon", Option2: "Nice", Option3: "Lille", Option4: "Paris", CorrectOption: 4,
	}); err != nil {
		t.Fatalf("add question: %v", err)
	}

	result, err := quizService.SubmitWeb(ctx, user.ID, map[int64]string{q1.ID: "2"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Score != 1 || result.TotalQuestions != 2 {
		t.Fatalf("expected 1/2, got %d/%d", result.Score, result.TotalQuestions)
	}

	got, err := quizService.Result(ctx, result.ID, user.ID)
	if err != nil {
		t.Fatalf("result: %v", err)
	}
	if got.Percentage() != 50 {
		t.Fatalf("expected 50%%, got %v", got.Percentage())
	}
	if _, err := quizService.Result(ctx, result.ID, user.ID+1); err != domain.ErrResultNotFound {
		t.Fatalf("expected not-found for non-owner, got %v", err)
	}

	token, err := authService.IssueToken(ctx, user.ID)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	again, err := authService.IssueToken(ctx, user.ID)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if token.Key != again.Key {
		t.Fatalf("expected token reuse across logins")
	}
}

func applyMigrations(t *testing.T, ctx context.Context, dsn string) {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
