// Command create-admin provisions the first administrator account. It talks
// to the database directly and is never exposed over the network.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/Dan9191/content-service/internal/config"
	"github.com/Dan9191/content-service/internal/repository"
	"github.com/Dan9191/content-service/internal/service"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type options struct {
	databaseURL string
	username    string
	password    string
	reset       bool
}

func main() {
	_ = godotenv.Load()

	logger := logrus.New()
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create the administrator account",
		Long: "Applies pending migrations and creates an admin user if the username is not taken.\n" +
			"With --reset every table is dropped and recreated first; all existing data is lost.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), logger, opts)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&opts.databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
	flags.StringVar(&opts.username, "username", "admin", "admin username")
	flags.StringVar(&opts.password, "password", envOr("ADMIN_PASSWORD", "admin123"), "admin password")
	flags.BoolVar(&opts.reset, "reset", false, "drop all tables and data before creating the admin")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *logrus.Logger, opts *options) error {
	if opts.databaseURL == "" {
		return errors.New("DATABASE_URL or --database-url is required")
	}

	db, err := sql.Open("postgres", opts.databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if opts.reset {
		logger.Warn("Dropping all tables")
		if err := repository.Reset(ctx, db); err != nil {
			return err
		}
	} else if err := repository.Migrate(ctx, db); err != nil {
		return err
	}

	repo := repository.NewRepository(db)
	svc := service.NewService(service.Stores{
		Users: repo.Users,
		Posts: repo.Posts,
		Pages: repo.Pages,
		Media: repo.Media,
	}, logger, &config.Config{})

	user, created, err := svc.EnsureAdmin(ctx, opts.username, opts.password)
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	if !created {
		logger.WithFields(logrus.Fields{"user_id": user.ID, "is_admin": user.IsAdmin}).
			Infof("User %q already exists, nothing to do", user.Username)
		return nil
	}
	logger.WithField("user_id", user.ID).Infof("Admin user %q created", user.Username)
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
