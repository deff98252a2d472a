package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"sitegen/internal/database"
)

// SeedCmd implements the 'seed' command.
type SeedCmd struct {
	Force bool `help:"Seed even when APP_ENV is not development"`
}

func (s *SeedCmd) Run(root *CLI) error {
	if !root.cfg.IsDev() && !s.Force {
		return errors.New("refusing to seed outside development; pass --force")
	}
	return withDB(root, func(ctx context.Context, db *sql.DB) error {
		if err := database.Seed(ctx, db); err != nil {
			return err
		}
		slog.Info("seed complete", "host", database.SeedHostname+"."+root.cfg.SitesLabel+".localhost")
		return nil
	})
}
