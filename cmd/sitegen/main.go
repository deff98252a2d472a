// Package main is the entry point for the sitegen renderer. Subcommands
// serve tenant sites, manage the schema and seed development data.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"sitegen/internal/config"
)

// CLI is the root command. Configuration comes from the environment and
// the optional env file; flags only select what to run.
type CLI struct {
	EnvFile string `name:"env-file" help:"Optional .env file loaded before reading the environment" default:".env" type:"path"`

	Serve   ServeCmd   `cmd:"" default:"1" help:"Serve tenant sites and the pipeline API (default)"`
	Migrate MigrateCmd `cmd:"" help:"Apply, roll back or inspect database migrations"`
	Seed    SeedCmd    `cmd:"" help:"Insert the development template and project"`

	cfg *config.Config `kong:"-"`
}

// AfterApply loads configuration and installs the default logger once
// flags are parsed.
func (c *CLI) AfterApply() error {
	cfg, err := config.Load(c.EnvFile)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	c.cfg = cfg

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	slog.Debug("configuration loaded", "env", cfg.Env, "addr", cfg.Addr())
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("sitegen"),
		kong.Description("Multi-tenant renderer for generated business websites."),
		kong.UsageOnError(),
	)
	if err := ctx.Run(&cli); err != nil {
		slog.Error("command failed", "command", ctx.Command(), "error", err)
		os.Exit(1)
	}
}
