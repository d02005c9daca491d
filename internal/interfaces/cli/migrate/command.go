// Package migrate implements the database migration commands.
package migrate

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/meetscribe/meetscribe/internal/infrastructure/config"
	"github.com/meetscribe/meetscribe/internal/infrastructure/database"
	"github.com/meetscribe/meetscribe/internal/infrastructure/migration"
	"github.com/meetscribe/meetscribe/internal/shared/logger"
)

const scriptsDir = "./internal/infrastructure/migration/scripts"

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "environment (development, test, production)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
		newCreateCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func() error {
				manager := migration.NewManager(env)
				if err := manager.Migrate(database.Get()); err != nil {
					return fmt.Errorf("migration failed: %w", err)
				}
				logger.Info("migrations applied")
				return nil
			})
		},
	}
}

func newDownCommand() *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func() error {
				path, err := filepath.Abs(scriptsDir)
				if err != nil {
					return fmt.Errorf("failed to resolve scripts path: %w", err)
				}
				strategy := migration.NewGolangMigrateStrategy(path)
				if err := strategy.MigrateDown(database.Get(), steps); err != nil {
					return fmt.Errorf("rollback failed: %w", err)
				}
				logger.Info("rolled back migrations", "steps", steps)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "number of migrations to roll back")
	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func() error {
				path, err := filepath.Abs(scriptsDir)
				if err != nil {
					return fmt.Errorf("failed to resolve scripts path: %w", err)
				}
				strategy := migration.NewGolangMigrateStrategy(path)
				version, dirty, err := strategy.GetVersion(database.Get())
				if err != nil {
					return fmt.Errorf("failed to read migration version: %w", err)
				}
				logger.Info("migration status", "version", version, "dirty", dirty)
				return nil
			})
		},
	}
}

func newCreateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create [name]",
		Short: "Create a new migration script pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(scriptsDir)
			if err != nil {
				return fmt.Errorf("failed to resolve scripts path: %w", err)
			}
			strategy := migration.NewGooseStrategy(path)
			if err := strategy.Create(args[0]); err != nil {
				return fmt.Errorf("failed to create migration: %w", err)
			}
			logger.Info("migration created", "name", args[0])
			return nil
		},
	}
}

func withDatabase(fn func() error) error {
	cfg, err := config.Load("default")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(&cfg.Logger, false); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	return fn()
}
