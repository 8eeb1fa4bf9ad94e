// Copyright (c) 2026 LinkUp. All rights reserved.

// Command api is the entry point for the LinkUp HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Initialize the token service and Telegram notifier.
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
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

	"github.com/linkup-app/linkup/internal/api"
	"github.com/linkup-app/linkup/internal/events/event"
	"github.com/linkup-app/linkup/internal/events/response"
	"github.com/linkup-app/linkup/internal/notify"
	"github.com/linkup-app/linkup/internal/platform/config"
	"github.com/linkup-app/linkup/internal/platform/constants"
	"github.com/linkup-app/linkup/internal/platform/middleware"
	"github.com/linkup-app/linkup/internal/platform/migration"
	pgstore "github.com/linkup-app/linkup/internal/platform/postgres"
	redisstore "github.com/linkup-app/linkup/internal/platform/redis"
	"github.com/linkup-app/linkup/internal/platform/sec"
	"github.com/linkup-app/linkup/internal/users/identity"
	"github.com/linkup-app/linkup/internal/users/telegram"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[LinkUp] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("auth_mode", cfg.AuthMode),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Application-lifetime context for background loops (rate limiter
	// cleanup, bot polling). Cancelled on shutdown.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Token Service & Notifier ───────────────────────────────────────
	tokenService, err := sec.NewTokenService(cfg.SessionSecret, constants.AuthIssuer)
	must(log, err, "initialize token service")

	// The notifier is a capability object: without a bot token every call
	// site still holds a working (silent) implementation.
	var notifier notify.Notifier = notify.Disabled{}
	if cfg.BotToken != "" {
		telegramNotifier, err := notify.NewTelegramNotifier(cfg.BotToken, cfg.WebAppURL, log)
		if err != nil {
			log.Warn("telegram_notifier_unavailable", slog.Any("error", err))
		} else {
			notifier = telegramNotifier
			go telegramNotifier.Run(appCtx)
		}
	} else {
		log.Warn("telegram_bot_token_missing",
			slog.String("effect", "notifications disabled, auth forced permissive"),
		)
	}

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	directory := identity.NewPostgresDirectory(pool)
	identityCache := telegram.NewRedisIdentityCache(rdb)

	var verifier *telegram.Verifier
	if cfg.BotToken != "" {
		verifier = telegram.NewVerifier(cfg.BotToken)
	}

	telegramService := telegram.NewService(directory, identityCache, verifier, tokenService, cfg.IsStrictAuth(), log)
	telegramHandler := telegram.NewHandler(telegramService)

	identityService := identity.NewService(directory, identityCache, log)
	identityHandler := identity.NewHandler(identityService, telegramHandler.Authenticate, middleware.RequireAuth)

	eventStore := event.NewPostgresStore(pool)
	responseStore := response.NewPostgresStore(pool)

	eventService := event.NewService(eventStore, directory, responseStore, notifier, log)
	eventHandler := event.NewHandler(eventService, middleware.RequireAuth)

	responseService := response.NewService(responseStore, eventStore, directory, notifier, log)
	responseHandler := response.NewHandler(responseService, middleware.RequireAuth)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Identity:  identityHandler,
		Event:     eventHandler,
		Response:  responseHandler,
	}

	server := api.NewServer(appCtx, cfg, log, tokenService, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Stop background loops before draining the server.
	appCancel()

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
