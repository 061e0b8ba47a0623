// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package main is the entry point for the Airdrops Hunter catalog server.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/olegiv/airdrops-hunter/internal/cache"
	"github.com/olegiv/airdrops-hunter/internal/catalog"
	"github.com/olegiv/airdrops-hunter/internal/config"
	"github.com/olegiv/airdrops-hunter/internal/geoip"
	"github.com/olegiv/airdrops-hunter/internal/handler"
	"github.com/olegiv/airdrops-hunter/internal/handler/api"
	"github.com/olegiv/airdrops-hunter/internal/logging"
	"github.com/olegiv/airdrops-hunter/internal/middleware"
	"github.com/olegiv/airdrops-hunter/internal/scheduler"
	"github.com/olegiv/airdrops-hunter/internal/service"
	"github.com/olegiv/airdrops-hunter/internal/session"
	"github.com/olegiv/airdrops-hunter/internal/store"
	"github.com/olegiv/airdrops-hunter/internal/version"
	"github.com/olegiv/airdrops-hunter/internal/webhook"
)

// Build-time variables injected via ldflags.
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Airdrops Hunter - catalog API server\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AH_SESSION_SECRET    Session key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AH_STORE             memory|sqlite|mysql (default: sqlite)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AH_DB_PATH           SQLite database path (default: ./data/airdrops.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AH_MYSQL_DSN         MySQL DSN (required for AH_STORE=mysql)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AH_SERVER_PORT       Server port (default: 5000)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AH_ENV               development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AH_REDIS_URL         Redis URL for a shared cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AH_VALUE_RANKING     legacy|max (default: legacy)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AH_SWEEP_SCHEDULE    Cron spec for the status sweep, or off\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AH_WEBHOOK_URL       Endpoint for signed event webhooks (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  AH_GEOIP_DB          GeoLite2-Country.mmdb path (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	if *showVersion {
		_, _ = fmt.Printf("airdrops %s\n", versionInfo)
		os.Exit(0)
	}

	if err := run(versionInfo); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(versionInfo version.Info) error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(os.Stdout, logging.ParseLevel(cfg.LogLevel))
	slog.SetDefault(logger)

	st, db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			slog.Error("error closing store", "error", err)
		}
	}()

	ctx := context.Background()
	if err := store.Seed(ctx, st, store.SeedOptions{
		AdminUsername: cfg.AdminUsername,
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
		Demo:          cfg.DoSeed,
	}); err != nil {
		return fmt.Errorf("seeding store: %w", err)
	}

	// Sessions persist in SQLite only; the other stores keep them in memory.
	sessionManager := session.New(db, cfg.IsDevelopment())

	collections, backend := cache.New(cache.Config{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      cfg.CacheDuration(),
		MaxSize:         cfg.CacheMaxSize,
		CleanupInterval: time.Minute,
	})
	defer func() { _ = collections.Close() }()
	slog.Info("cache initialized", "backend", backend)

	// A shared cache can still hold collections from an earlier run against
	// a different store.
	if err := collections.Clear(ctx); err != nil {
		slog.Warn("failed to clear cache", "error", err)
	}

	parse, err := catalog.ParserFor(cfg.ValueRanking)
	if err != nil {
		return fmt.Errorf("value ranking: %w", err)
	}

	geo, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		slog.Warn("geoip disabled", "error", err)
		geo, _ = geoip.Open("")
	}
	defer func() { _ = geo.Close() }()

	var notifier service.Notifier
	if cfg.WebhooksEnabled() {
		whCfg := webhook.DefaultConfig()
		whCfg.URL = cfg.WebhookURL
		whCfg.Secret = cfg.WebhookSecret
		whCfg.AllowPrivateTargets = cfg.IsDevelopment()
		if !whCfg.AllowPrivateTargets {
			if err := webhook.ValidateTarget(ctx, cfg.WebhookURL); err != nil {
				return fmt.Errorf("AH_WEBHOOK_URL: %w", err)
			}
		}
		dispatcher := webhook.NewDispatcher(whCfg, logger)
		dispatcher.Start(ctx)
		defer dispatcher.Stop()
		notifier = dispatcher
	}

	catalogService := service.NewCatalog(st, collections, cfg.CacheDuration(), parse, logger)
	userService := service.NewUsers(st, notifier, logger)
	inboxService := service.NewInbox(st, notifier, logger)

	sched := scheduler.New(st, cfg.SweepSchedule, logger, catalogService.InvalidateAirdrops)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	defer loginProtection.Stop()

	apiHandler := api.NewHandler(api.Deps{
		Catalog:         catalogService,
		Users:           userService,
		Inbox:           inboxService,
		Sessions:        sessionManager,
		LoginProtection: loginProtection,
		GeoIP:           geo,
		Health: handler.NewHealthHandler(handler.HealthOptions{
			Store:        st,
			Cache:        collections,
			CacheBackend: backend,
			Jobs:         sched.Jobs,
			Version:      versionInfo,
		}),
		Logger: logger,
	})

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestPath)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.NewGlobalRateLimiter(20, 40).Middleware())
	r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment())))

	r.Mount("/api", apiHandler.Routes())
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		api.WriteNotFound(w, "Not found")
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "store", cfg.Store)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// openStore opens the configured backend and runs its migrations. The
// returned *sql.DB is non-nil only for SQLite, where it also backs sessions.
func openStore(cfg *config.Config) (store.Store, *sql.DB, error) {
	switch cfg.Store {
	case config.StoreMemory:
		slog.Info("using in-memory store")
		return store.NewMemoryStore(), nil, nil

	case config.StoreMySQL:
		slog.Info("connecting to mysql")
		db, err := store.OpenMySQL(cfg.MySQLDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("initializing database: %w", err)
		}
		if err := store.Migrate(db, store.DialectMySQL); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("running migrations: %w", err)
		}
		return store.NewSQLStore(db, store.DialectMySQL), nil, nil

	default:
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
			return nil, nil, fmt.Errorf("creating data directory: %w", err)
		}
		slog.Info("initializing database", "path", cfg.DBPath)
		db, err := store.NewDB(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("initializing database: %w", err)
		}
		if err := store.Migrate(db, store.DialectSQLite); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database ready")
		return store.NewSQLStore(db, store.DialectSQLite), db, nil
	}
}
