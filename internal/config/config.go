// Package config handles application configuration loading from environment
// variables, optionally seeded from a .env file. It provides a centralized
// Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults that Load falls back to.
const (
	DefaultSitesLabel         = "sites"
	DefaultFormAPIBase        = "https://app.getalloro.com"
	DefaultPageCacheTTL       = 5 * time.Minute
	DefaultRateLimitPerMinute = 120

	defaultDBPassword = "changeme"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host     string
	Port     string
	Env      string // "development", "production", "testing"
	LogLevel string // "debug", "info", "warn", "error"; empty picks by Env

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible page cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	ValkeyDB       int

	// Rendering
	SitesLabel   string        // second host label of generated hostnames
	FormAPIBase  string        // origin the injected form script posts to
	PageCacheTTL time.Duration // 0 disables the page cache

	// Pipeline ingest API, metrics scraping and abuse limits
	PipelineToken      string // empty disables the API
	MetricsToken       string // empty disables /metrics
	RateLimitPerMinute int
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Variables from envFiles (".env" when
// none are given) are loaded first without overriding the real
// environment; missing files are ignored. Returns an error if a value
// does not parse or critical values are missing in production mode.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &Config{
		Host:     envOrDefault("APP_HOST", "0.0.0.0"),
		Port:     envOrDefault("APP_PORT", "8080"),
		Env:      envOrDefault("APP_ENV", "development"),
		LogLevel: strings.ToLower(os.Getenv("LOG_LEVEL")),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "sitegen"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", defaultDBPassword),
		DBName:     envOrDefault("POSTGRES_DB", "sitegen"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		SitesLabel:    strings.ToLower(envOrDefault("SITES_LABEL", DefaultSitesLabel)),
		FormAPIBase:   envOrDefault("FORM_API_BASE", DefaultFormAPIBase),
		PipelineToken: os.Getenv("PIPELINE_API_TOKEN"),
	}
	cfg.MetricsToken = envOrDefault("METRICS_TOKEN", cfg.PipelineToken)

	var err error
	if cfg.ValkeyDB, err = envInt("VALKEY_DB", 0); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMinute, err = envInt("RATE_LIMIT_PER_MINUTE", DefaultRateLimitPerMinute); err != nil {
		return nil, err
	}
	if cfg.RateLimitPerMinute <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive, got %d", cfg.RateLimitPerMinute)
	}
	if cfg.PageCacheTTL, err = envDuration("PAGE_CACHE_TTL", DefaultPageCacheTTL); err != nil {
		return nil, err
	}
	if cfg.PageCacheTTL < 0 {
		return nil, fmt.Errorf("PAGE_CACHE_TTL must not be negative, got %s", cfg.PageCacheTTL)
	}
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == defaultDBPassword {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string. Credentials are URL-escaped.
func (c *Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// CacheEnabled reports whether rendered pages are cached in Valkey.
func (c *Config) CacheEnabled() bool {
	return c.PageCacheTTL > 0
}

// SlogLevel returns the configured log level. Without LOG_LEVEL,
// development logs at debug and everything else at info.
func (c *Config) SlogLevel() slog.Level {
	if lvl, err := parseLevel(c.LogLevel); err == nil && c.LogLevel != "" {
		return lvl
	}
	if c.IsDev() {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func parseLevel(s string) (slog.Level, error) {
	switch s {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("LOG_LEVEL %q is not one of debug, info, warn, error", s)
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

// envDuration parses a Go duration. A bare "0" is accepted as zero.
func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration like 5m: %w", key, err)
	}
	return d, nil
}
