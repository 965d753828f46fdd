package cli

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"quiz-portal/internal/config"
	"quiz-portal/internal/domain"
	"quiz-portal/internal/infra/postgres"
)

// NewCreateAdminCmd creates an administrator account, the only way to get
// one since registration never grants the admin flag.
func NewCreateAdminCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "createadmin <username> <email> <password>",
		Short: "Create an administrator account",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}
			if err := runMigrations(cmd.Context(), cfg); err != nil {
				return err
			}

			username, email, password := strings.TrimSpace(args[0]), strings.TrimSpace(args[1]), args[2]
			if username == "" || len(password) < 8 {
				return fmt.Errorf("username required and password must be at least 8 characters")
			}

			store, err := postgres.Connect(cmd.Context(), cfg.Postgres.URL)
			if err != nil {
				return err
			}
			defer store.Close()

			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			admin := domain.User{
				Username:     username,
				Email:        email,
				PasswordHash: string(hash),
				IsAdmin:      true,
				CreatedAt:    time.Now(),
			}
			if err := store.CreateUser(cmd.Context(), &admin); err != nil {
				return err
			}
			slog.Info("administrator created", "username", username, "id", admin.ID)
			return nil
		},
	}
}
