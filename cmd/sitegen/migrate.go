package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"sitegen/internal/database"
)

// connectTimeout bounds the database dial of one-shot commands.
const connectTimeout = 10 * time.Second

// MigrateCmd groups the migration subcommands.
type MigrateCmd struct {
	Up     MigrateUpCmd     `cmd:"" default:"1" help:"Apply all pending migrations (default)"`
	Down   MigrateDownCmd   `cmd:"" help:"Roll back the most recent migration"`
	Status MigrateStatusCmd `cmd:"" help:"Print the state of every migration"`
}

type MigrateUpCmd struct{}

func (MigrateUpCmd) Run(root *CLI) error {
	return withDB(root, func(_ context.Context, db *sql.DB) error {
		if err := database.Migrate(db); err != nil {
			return err
		}
		return logVersion(db)
	})
}

type MigrateDownCmd struct{}

func (MigrateDownCmd) Run(root *CLI) error {
	return withDB(root, func(_ context.Context, db *sql.DB) error {
		if err := database.MigrateDown(db); err != nil {
			return err
		}
		return logVersion(db)
	})
}

type MigrateStatusCmd struct{}

func (MigrateStatusCmd) Run(root *CLI) error {
	return withDB(root, func(_ context.Context, db *sql.DB) error {
		return database.MigrationStatus(db)
	})
}

func logVersion(db *sql.DB) error {
	v, err := database.SchemaVersion(db)
	if err != nil {
		return err
	}
	slog.Info("schema version", "version", v)
	return nil
}

// withDB opens the configured database for the duration of fn.
func withDB(root *CLI, fn func(ctx context.Context, db *sql.DB) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	db, err := database.Connect(ctx, root.cfg.DSN())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	return fn(context.Background(), db)
}
