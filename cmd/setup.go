package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/desertthunder/surf/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the example configuration file.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := shared.ExpandHome(cmd.String("config"))

	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}
	r.logger.Info("config file created", "path", configPath)

	r.writePlain("✓ Configuration written to %s\n", configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set api.base_url and api.api_key, or export %s and %s\n", shared.EnvBaseURL, shared.EnvAPIKey)
	r.writePlain("2. Run 'surf auth status' to check the backend\n")
	return nil
}

// SetupDatabase initializes the history database and runs migrations.
//
// With --status nothing is migrated and the applied versions are listed. With --rollback the most
// recent migration is reverted.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Database
	r.logger.Info("initializing database", "path", cfg.Path)

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := shared.NewDatabase(cfg.Path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, cfg.MaxOpenConns, cfg.MaxIdleConns)

	migrator, err := shared.NewMigrator(db)
	if err != nil {
		return err
	}

	switch {
	case cmd.Bool("status"):
		states, err := migrator.Status()
		if err != nil {
			return err
		}
		r.writePlainHeader("Migrations: " + cfg.Path)
		for _, st := range states {
			mark := "✗ pending"
			if st.Applied {
				mark = "✓ applied " + st.AppliedAt.Format(time.DateTime)
			}
			r.writePlain("%-28s %s\n", st.Label(), mark)
		}
		return nil
	case cmd.Bool("rollback"):
		r.logger.Info("rolling back last migration")
		mig, err := migrator.Down()
		if err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
		return r.writePlain("✓ Rolled back %s\n", mig.Label())
	}

	r.logger.Info("running database migrations")
	ran, err := migrator.Up()
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	for _, mig := range ran {
		r.logger.Info("migration applied", "migration", mig.Label())
	}
	r.logger.Infof("setup complete for database: %v", cfg.Path)
	return r.writePlain("✓ Database ready at %s\n", cfg.Path)
}
