// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command intake serves the applicant intake API.
package main

import (
	"context"
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

	"github.com/joho/godotenv"

	"github.com/olegiv/intake-go/internal/auth"
	"github.com/olegiv/intake-go/internal/cache"
	"github.com/olegiv/intake-go/internal/config"
	"github.com/olegiv/intake-go/internal/logging"
	"github.com/olegiv/intake-go/internal/service"
	"github.com/olegiv/intake-go/internal/store"
	"github.com/olegiv/intake-go/internal/version"
)

// Version information - injected at build time via ldflags
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
		_, _ = fmt.Fprintf(os.Stderr, "intake - applicant intake API\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INTAKE_JWT_SECRET            Session signing key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INTAKE_ADMIN_PASSWORD        Shared admin password\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INTAKE_ADMIN_PASSWORD_HASH   Argon2id hash of the admin password (preferred)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INTAKE_DB_PATH               SQLite database path (default: ./data/intake.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INTAKE_SERVER_PORT           Server port (default: 5000)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INTAKE_ENV                   Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INTAKE_ALLOWED_ORIGINS       Comma-separated CORS origins (default: http://localhost:5173)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INTAKE_REDIS_URL             Redis URL for the applicant list cache (optional)\n")
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
		_, _ = fmt.Println(versionInfo.String())
		os.Exit(0)
	}

	if err := run(versionInfo); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(versionInfo version.Info) error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	logger.Info("starting intake", "version", versionInfo.Version, "commit", versionInfo.GitCommit)
	if cfg.IsDevelopment() {
		logger.Warn("development mode: session cookies are not Secure and error details are exposed")
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}

	logger.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("error closing database connection", "error", err)
		}
	}()

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	count, err := store.New(db).CountApplicants(context.Background())
	if err != nil {
		return fmt.Errorf("counting applicants: %w", err)
	}
	logger.Info("database ready", "applicants", count)

	var listCache cache.Cache
	if cfg.CacheEnabled() {
		var backend string
		listCache, backend = cache.New(cache.Config{
			RedisURL:   cfg.RedisURL,
			Prefix:     cfg.CachePrefix,
			DefaultTTL: cfg.CacheTTL,
		}, logger)
		defer func() { _ = listCache.Close() }()
		logger.Info("applicant list cache initialized",
			"backend", backend,
			"redis_configured", cfg.UseRedisCache(),
			"ttl", cfg.CacheTTL)
	}

	verifier, err := auth.NewPasswordVerifier(cfg.AdminPassword, cfg.AdminPasswordHash)
	if err != nil {
		return fmt.Errorf("configuring admin password: %w", err)
	}

	authenticator, err := auth.NewAuthenticator(auth.AuthenticatorConfig{
		Secret:   []byte(cfg.JWTSecret),
		Password: verifier,
		TTL:      cfg.SessionTTL,
		Secure:   cfg.IsProduction(),
		SameSite: cfg.SameSite(),
	})
	if err != nil {
		return fmt.Errorf("configuring authenticator: %w", err)
	}

	applicants := service.NewApplicantService(db, service.ApplicantServiceOptions{
		Cache:          listCache,
		CacheTTL:       cfg.CacheTTL,
		StorageTimeout: cfg.StorageTimeout,
		Logger:         logger,
	})

	r := newRouter(routerDeps{
		cfg:        cfg,
		logger:     logger,
		db:         db,
		auth:       authenticator,
		applicants: applicants,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
