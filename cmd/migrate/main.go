package main

// Run database migrations:
//   go run ./cmd/migrate up
//   go run ./cmd/migrate down
//   go run ./cmd/migrate status

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"portfolio-backend/internal/shared/config"
	"portfolio-backend/internal/shared/storage/db"
)

var databaseURL string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "Manage the portfolio database schema",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "Postgres URL (defaults to DATABASE_URL)")
	rootCmd.AddCommand(upCmd, downCmd, statusCmd)
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: withDB(func(ctx context.Context, sqlDB *sql.DB) error {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			return err
		}
		version, err := db.MigrationVersion(ctx, sqlDB)
		if err != nil {
			return err
		}
		fmt.Printf("schema at version %d\n", version)
		return nil
	}),
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	RunE: withDB(func(ctx context.Context, sqlDB *sql.DB) error {
		return db.RollbackMigration(ctx, sqlDB)
	}),
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print applied and pending migrations",
	RunE: withDB(func(ctx context.Context, sqlDB *sql.DB) error {
		return db.MigrationStatus(ctx, sqlDB)
	}),
}

func withDB(fn func(context.Context, *sql.DB) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		url := databaseURL
		if url == "" {
			url = config.Load().DatabaseURL
		}
		if url == "" {
			return fmt.Errorf("DATABASE_URL is required")
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		sqlDB, err := db.Connect(ctx, url, db.OptionsFromEnv(db.DefaultMigrateOptions()))
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer sqlDB.Close()
		return fn(ctx, sqlDB)
	}
}
