package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/cocktailparty/internal/repositories"
	"github.com/desertthunder/cocktailparty/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	path := r.config.Database.Path
	r.logger.Info("initializing database", "path", path)

	db, err := shared.NewDatabase(path)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if cmd.Bool("rollback") {
		r.logger.Info("rolling back latest migration")
		if err := shared.RollbackMigration(ctx, db); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
		return r.writePlain("✓ Rolled back latest migration on %s\n", path)
	}

	r.logger.Info("running database migrations")
	if err := shared.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	r.logger.Infof("setup complete for database: %v", path)
	return r.writePlain("✓ Database ready at %s\n", path)
}

// SetupConfig writes the example configuration to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := r.configPath
	if path == "" {
		path = "config.toml"
	}

	if err := shared.CreateConfigFile(path); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	r.logger.Info("config file created", "path", path)
	return r.writePlain("✓ Wrote %s\n", path)
}

// SetupStatus reports where data lives, how many accounts and favorites lists it holds, and who is signed in.
func (r *Runner) SetupStatus(ctx context.Context, cmd *cli.Command) error {
	store, err := r.Store(ctx)
	if err != nil {
		return err
	}

	accounts, err := store.Accounts(ctx)
	if err != nil {
		return err
	}
	lists, err := repositories.NewFavoritesRepository(r.kv).Accounts(ctx)
	if err != nil {
		return err
	}

	location := r.config.Database.Path
	if r.ephemeral {
		location = "memory (--ephemeral)"
	}

	r.writePlainHeader("cparty status")
	r.writePlain("Storage:         %s\n", location)
	r.writePlain("Accounts:        %d\n", accounts)
	r.writePlain("Favorites lists: %d\n", len(lists))
	if user := store.User(); user != nil {
		r.writePlain("Signed in as:    %s <%s> (%d favorites)\n", user.Name, user.Email, len(store.Favorites()))
	} else {
		r.writePlain("Signed in as:    nobody\n")
	}
	return nil
}

// SetupReset deletes every stored key. The demo account is seeded again on next use.
func (r *Runner) SetupReset(ctx context.Context, cmd *cli.Command) error {
	if !cmd.Bool("yes") {
		return fmt.Errorf("%w: pass --yes to delete all accounts and favorites", shared.ErrMissingArgument)
	}

	kv, err := r.openKV(ctx)
	if err != nil {
		return err
	}
	if err := kv.Clear(ctx); err != nil {
		return err
	}
	r.store = nil

	r.logger.Warn("cleared all stored data")
	return r.writePlain("✓ All accounts, sessions and favorites deleted\n")
}
