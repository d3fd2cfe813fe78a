package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/autana/helpdesk/internal/config"
	"github.com/autana/helpdesk/internal/database"
	"github.com/autana/helpdesk/internal/errs"
	"github.com/autana/helpdesk/internal/model"
	"github.com/autana/helpdesk/internal/service"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	seedEmail    string
	seedName     string
	seedPassword string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the initial admin user",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedEmail, "email", "admin@example.com", "admin email")
	seedCmd.Flags().StringVar(&seedName, "name", "Administrator", "admin display name")
	seedCmd.Flags().StringVar(&seedPassword, "password", "", "admin password (required)")
}

func runSeed(cmd *cobra.Command, args []string) error {
	if seedPassword == "" {
		return fmt.Errorf("--password is required")
	}
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := database.MigrateUp(cfg.DatabaseURL()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	db, err := database.Open(cfg.DSN())
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	u, err := service.NewUserService(db).Create(ctx, seedEmail, seedName, seedPassword, model.RoleAdmin)
	if err != nil {
		if errors.Is(err, errs.ErrEmailTaken) {
			log.Printf("seed: admin %s already exists", seedEmail)
			return nil
		}
		return fmt.Errorf("create admin: %w", err)
	}
	log.Printf("seed: created admin %s (%s)", u.Email, u.ID)
	return nil
}
