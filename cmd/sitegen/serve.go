package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"sitegen/internal/cache"
	"sitegen/internal/database"
	"sitegen/internal/handlers"
	"sitegen/internal/metrics"
	"sitegen/internal/middleware"
	"sitegen/internal/render"
	"sitegen/internal/router"
	"sitegen/internal/site"
	"sitegen/internal/store"
)

// shutdownTimeout bounds how long in-flight requests may drain.
const shutdownTimeout = 30 * time.Second

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	NoMigrate bool `name:"no-migrate" help:"Skip applying pending migrations at startup"`
}

func (s *ServeCmd) Run(root *CLI) error {
	cfg := root.cfg

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if !s.NoMigrate {
		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(ctx, db); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	projects := store.NewProjectStore(db)
	pages := store.NewPageStore(db)
	templates := store.NewTemplateStore(db)
	snippets := store.NewSnippetStore(db)
	cacheLog := store.NewCacheLogStore(db)

	// The page cache is optional: the renderer serves uncached when Valkey
	// is disabled or unreachable.
	var (
		pageCache   site.PageCache
		invalidator handlers.Invalidator
	)
	if cfg.CacheEnabled() {
		client, err := cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cfg.ValkeyDB)
		if err != nil {
			slog.Warn("valkey unavailable, page cache disabled", "error", err)
		} else {
			defer client.Close()
			pc := cache.NewPageCache(client, cfg.PageCacheTTL)
			pageCache, invalidator = pc, pc
		}
	} else {
		slog.Info("page cache disabled by PAGE_CACHE_TTL")
	}

	statusPages, err := render.New()
	if err != nil {
		return fmt.Errorf("init status pages: %w", err)
	}

	reg := prom.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db, "sitegen"),
	)
	rec := metrics.NewPrometheusRecorder(reg)

	resolver := site.NewResolver(cfg.SitesLabel, projects, pages)
	renderer := site.NewRenderer(site.NewGate(resolver, pages), snippets, pageCache, cfg.FormAPIBase)

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute)
	defer limiter.Stop()

	if cfg.PipelineToken == "" {
		slog.Warn("PIPELINE_API_TOKEN not set, pipeline API disabled")
	}
	if cfg.MetricsToken == "" {
		slog.Warn("METRICS_TOKEN not set, /metrics disabled")
	}

	r := router.New(router.Deps{
		Site:          handlers.NewSite(renderer, resolver, statusPages, rec),
		Pipeline:      handlers.NewPipeline(pages, projects, invalidator, cacheLog, rec),
		Lookup:        handlers.NewLookup(projects, pages, cacheLog),
		Templates:     handlers.NewTemplates(templates, rec),
		Metrics:       metrics.Handler(reg),
		ErrorPage:     statusPages.Error,
		RateLimiter:   limiter,
		PipelineToken: cfg.PipelineToken,
		MetricsToken:  cfg.MetricsToken,
		HSTS:          cfg.Env == "production",
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting",
			"addr", cfg.Addr(),
			"env", cfg.Env,
			"sites_label", cfg.SitesLabel,
			"page_cache", pageCache != nil,
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
