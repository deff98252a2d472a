// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package database handles PostgreSQL connection management and migration
// execution using goose. It provides a Connect function that returns a
// ready-to-use *sql.DB pool, migration helpers for the CLI, and a
// development seed.
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const migrationsDir = "migrations"

// Pool limits. Render requests hold a connection only for short lookups.
const (
	maxOpenConns    = 25
	maxIdleConns    = 10
	connMaxLifetime = 30 * time.Minute
)

// Connect opens a PostgreSQL connection pool using the provided DSN.
// It verifies the connection with a ping before returning.
func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("database open: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping: %w", err)
	}

	slog.Info("database connected")
	return db, nil
}

func setupGoose() error {
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}
	return nil
}

// Migrate runs all pending goose migrations from the embedded SQL files.
func Migrate(db *sql.DB) error {
	if err := setupGoose(); err != nil {
		return err
	}
	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	slog.Info("database migrations applied")
	return nil
}

// MigrateDown rolls back the most recent migration.
func MigrateDown(db *sql.DB) error {
	if err := setupGoose(); err != nil {
		return err
	}
	if err := goose.Down(db, migrationsDir); err != nil {
		return fmt.Errorf("goose down: %w", err)
	}
	slog.Info("database migration rolled back")
	return nil
}

// MigrationStatus logs the applied state of every migration.
func MigrationStatus(db *sql.DB) error {
	if err := setupGoose(); err != nil {
		return err
	}
	if err := goose.Status(db, migrationsDir); err != nil {
		return fmt.Errorf("goose status: %w", err)
	}
	return nil
}

// SchemaVersion returns the current goose version of the database.
func SchemaVersion(db *sql.DB) (int64, error) {
	if err := setupGoose(); err != nil {
		return 0, err
	}
	v, err := goose.GetDBVersion(db)
	if err != nil {
		return 0, fmt.Errorf("goose version: %w", err)
	}
	return v, nil
}
