// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gashasec/portal-backend/internal/account"
	"github.com/gashasec/portal-backend/internal/admin"
	"github.com/gashasec/portal-backend/internal/auth"
	"github.com/gashasec/portal-backend/internal/config"
	"github.com/gashasec/portal-backend/internal/core"
	"github.com/gashasec/portal-backend/internal/deployment"
	"github.com/gashasec/portal-backend/internal/health"
	"github.com/gashasec/portal-backend/internal/middleware"
	"github.com/gashasec/portal-backend/internal/notification"
	"github.com/gashasec/portal-backend/internal/product"
	"github.com/gashasec/portal-backend/internal/request"
	"github.com/gashasec/portal-backend/internal/server"
	"github.com/gashasec/portal-backend/internal/task"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	accountRepo := account.NewRepository(db.DB)
	accountSvc := account.NewService(accountRepo)
	accountHandler := account.NewHandler(accountSvc)

	if err := accountSvc.Bootstrap(
		ctx,
		cfg.Bootstrap.AdminEmail,
		cfg.Bootstrap.AdminPassword,
		cfg.Bootstrap.AdminName,
	); err != nil {
		return err
	}

	authRepo := auth.NewRepository(db.DB)
	authSvc := auth.NewService(authRepo, jwtManager, accountSvc, redis.Client)
	authHandler := auth.NewHandler(authSvc)

	notificationRepo := notification.NewRepository(db.DB)
	notificationSvc := notification.NewService(notificationRepo, redis.Client)
	notificationHandler := notification.NewHandler(notificationSvc)

	productRepo := product.NewRepository(db.DB)
	productSvc := product.NewService(productRepo, accountSvc)
	productHandler := product.NewHandler(productSvc)

	requestRepo := request.NewRepository(db.DB)
	requestSvc := request.NewService(
		requestRepo,
		accountSvc,
		productSvc,
		notificationSvc,
	)
	requestHandler := request.NewHandler(requestSvc)

	taskRepo := task.NewRepository(db.DB)
	taskSvc := task.NewService(taskRepo, accountSvc, requestSvc, notificationSvc)
	taskHandler := task.NewHandler(taskSvc)

	deploymentRepo := deployment.NewRepository(db.DB)
	deploymentSvc := deployment.NewService(deploymentRepo, accountSvc, taskSvc)
	deploymentHandler := deployment.NewHandler(deploymentSvc)

	healthHandler := health.NewHandler(db, redis)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.App.Environment == "production"))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	authn := middleware.Authenticator(jwtManager)
	roleLimit := middleware.RoleRateLimiter(
		redis.Client,
		middleware.DefaultRoleLimits,
	)

	// Role limits key off claims, so the limiter sits behind the
	// authenticator on every authenticated route.
	authenticator := func(next http.Handler) http.Handler {
		return authn(roleLimit(next))
	}
	adminOnly := middleware.RequireAdmin
	superAdminOnly := middleware.RequireSuperAdmin

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator)
		accountHandler.RegisterRoutes(r, authenticator, adminOnly, superAdminOnly)
		productHandler.RegisterRoutes(r, authenticator, adminOnly)
		requestHandler.RegisterRoutes(r, authenticator, adminOnly)
		taskHandler.RegisterRoutes(r, authenticator)
		deploymentHandler.RegisterRoutes(r, authenticator)
		notificationHandler.RegisterRoutes(r, authenticator)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
