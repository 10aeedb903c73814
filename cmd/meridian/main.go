package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/meridian-pos/meridian-pos/internal/app"
	"github.com/meridian-pos/meridian-pos/internal/auth"
	"github.com/meridian-pos/meridian-pos/internal/observability"
	"github.com/meridian-pos/meridian-pos/internal/platform/cache"
	"github.com/meridian-pos/meridian-pos/internal/platform/db"
	"github.com/meridian-pos/meridian-pos/internal/platform/hash"
	"github.com/meridian-pos/meridian-pos/internal/rbac"
	"github.com/meridian-pos/meridian-pos/internal/shared"
	"github.com/meridian-pos/meridian-pos/internal/tenancy"
	"github.com/meridian-pos/meridian-pos/internal/users"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			// The tenant gate works without the cache; keep booting.
			logger.Warn("redis unavailable, tenant status cache disabled", slog.Any("error", err))
			redisClient = nil
		} else {
			defer func() {
				if err := redisClient.Close(); err != nil {
					logger.Warn("redis close", slog.Any("error", err))
				}
			}()
		}
	}

	sessions := shared.NewSessionStore(cfg.SessionTTL, cfg.SessionSweepInterval)
	defer sessions.Close()

	auditLogger := shared.NewAuditLogger(dbpool)
	hasher := hash.NewBcrypt()

	if cfg.TenantAllowUnknown && cfg.IsProduction() {
		logger.Warn("TENANT_ALLOW_UNKNOWN is enabled in production; unknown tenants will pass the gate")
	}

	tenantRepo := tenancy.NewRepository(dbpool)
	tenantGate := tenancy.NewGate(tenantRepo, logger, tenancy.GateConfig{
		AllowUnknown: cfg.TenantAllowUnknown,
		Cache:        redisClient,
		CacheTTL:     cfg.TenantCacheTTL,
	})
	tenantService := tenancy.NewService(tenantRepo, auditLogger, logger)
	tenantHandler := tenancy.NewHandler(logger, tenantService)

	userRepo := users.NewRepository(dbpool, hasher)
	rbacMiddleware := rbac.Middleware{Logger: logger}
	userService := users.NewService(userRepo, hasher, auditLogger, logger)
	userHandler := users.NewHandler(logger, userService, rbacMiddleware)

	authService := auth.NewService(userRepo, sessions, auditLogger, logger)
	authHandler := auth.NewHandler(logger, authService)

	metrics := observability.NewMetrics(sessions.Len)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		Sessions:           sessions,
		TenantGate:         tenantGate,
		AuthHandler:        authHandler,
		TenantHandler:      tenantHandler,
		UsersHandler:       userHandler,
		PermissionsHandler: &rbac.PermissionsHandler{},
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
