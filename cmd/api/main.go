// Copyright (c) 2026 Minbar. All rights reserved.

// Command api is the entry point for the Minbar HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from the environment (and an optional .env file).
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis (session store).
//  5. Run database migrations (idempotent).
//  6. Wire repositories, services and HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/minbarhq/minbar/internal/api"
	"github.com/minbarhq/minbar/internal/core/article"
	"github.com/minbarhq/minbar/internal/core/dua"
	"github.com/minbarhq/minbar/internal/core/engagement"
	"github.com/minbarhq/minbar/internal/core/qa"
	"github.com/minbarhq/minbar/internal/platform/config"
	"github.com/minbarhq/minbar/internal/platform/constants"
	"github.com/minbarhq/minbar/internal/platform/migration"
	pgstore "github.com/minbarhq/minbar/internal/platform/postgres"
	redisstore "github.com/minbarhq/minbar/internal/platform/redis"
	"github.com/minbarhq/minbar/internal/platform/sec"
	"github.com/minbarhq/minbar/internal/platform/session"
	"github.com/minbarhq/minbar/internal/users/account"
	"github.com/minbarhq/minbar/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("bearer_tokens", cfg.BearerTokensEnabled()),
	)

	if cfg.IsProduction() && !cfg.CookieSecure {
		log.Warn("insecure_session_cookie", slog.String("hint", "set COOKIE_SECURE=true behind TLS"))
	}

	// Root context: cancelled on shutdown so background goroutines stop.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, redisstore.Settings{
		URL:            cfg.RedisURL,
		PoolSize:       cfg.RedisPoolSize,
		CommandTimeout: cfg.RedisTimeout,
	}, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Identity ───────────────────────────────────────────────────────
	sessions := session.NewManager(session.NewRedisBackend(rdb), []byte(cfg.SessionSecret), session.Options{
		TTL:    cfg.SessionTTL,
		Secure: cfg.CookieSecure,
	})

	// Typed nils must not leak into the interfaces below.
	var (
		tokenProvider auth.TokenProvider
		tokenVerifier auth.TokenVerifier
	)
	if cfg.BearerTokensEnabled() {
		tokens, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
		must(log, err, "initialize jwt service")
		tokenProvider, tokenVerifier = tokens, tokens
	}

	userRepository := auth.NewUserRepository(pool)
	authService := auth.NewService(userRepository, tokenProvider)
	authenticator := auth.NewAuthenticator(userRepository, sessions, tokenVerifier)
	accountService := account.NewService(account.NewPostgresRepository(pool), sessions)

	// ── 7. Community Domains ──────────────────────────────────────────────
	counter := engagement.NewCounter(engagement.NewPostgresStore(pool))

	qaService := qa.NewService(qa.NewPostgresRepository(pool), counter)
	articleService := article.NewService(article.NewPostgresRepository(pool), counter)
	duaService := dua.NewService(dua.NewPostgresRepository(pool), counter)

	// ── 8. Health ─────────────────────────────────────────────────────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		CheckCache:    redisstore.HealthCheck(rdb),
	}, log)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	server := api.NewServer(rootCtx, cfg, log, authenticator, api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Auth:       auth.NewHandler(authService, sessions),
		Account:    account.NewHandler(accountService),
		QA:         qa.NewHandler(qaService),
		Article:    article.NewHandler(articleService),
		DuaRequest: dua.NewHandler(duaService),
	})

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		rootCancel()
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// newLogger builds the JSON logger tagged with the application name.
func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// Only for startup wiring. After startup every error is returned and handled.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
