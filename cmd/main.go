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

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"github.com/dosewatch/adherence/internal/clock"
	"github.com/dosewatch/adherence/internal/config"
	"github.com/dosewatch/adherence/internal/handler"
	"github.com/dosewatch/adherence/internal/health"
	"github.com/dosewatch/adherence/internal/infra/adherencerecorder"
	"github.com/dosewatch/adherence/internal/infra/repository"
	"github.com/dosewatch/adherence/internal/observability/metrics"
	"github.com/dosewatch/adherence/internal/observability/middleware"
	"github.com/dosewatch/adherence/internal/service/protection"
	"github.com/dosewatch/adherence/internal/service/schedule"
	"github.com/dosewatch/adherence/internal/service/session"
)

// Version is set via ldflags at build time
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	obs, err := initObservability(ctx)
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	if err := config.ValidateForRun(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	if err := cfg.TaskQueue.Validate(); err != nil {
		slog.Error("task queue configuration error", slog.String("error", err.Error()))
		return 1
	}

	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		slog.Error("failed to initialize HTTP metrics", slog.String("error", err.Error()))
		return 1
	}

	adherenceMetrics, err := metrics.NewAdherenceMetrics()
	if err != nil {
		slog.Error("failed to initialize adherence metrics", slog.String("error", err.Error()))
		return 1
	}

	// Initialize adherence result recorder (InfluxDB for local, BigQuery for gcloud)
	recorderCfg := adherencerecorder.LoadConfig()
	recorder, err := adherencerecorder.NewRecorder(ctx, recorderCfg)
	if err != nil {
		slog.Error("failed to initialize adherence result recorder", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := recorder.Close(); err != nil {
			slog.Warn("failed to close adherence result recorder", slog.String("error", err.Error()))
		}
	}()

	// Initialize task queue
	taskQueue, cleanup, err := initTaskQueue(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize task queue", slog.String("error", err.Error()))
		return 1
	}
	if cleanup != nil {
		defer func() {
			if err := cleanup(); err != nil {
				slog.Error("task queue cleanup error", slog.String("error", err.Error()))
			}
		}()
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		slog.Error("failed to instrument redis tracing",
			slog.String("event", "redis.otel.tracing.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisotel.InstrumentMetrics(redisClient); err != nil {
		slog.Error("failed to instrument redis metrics",
			slog.String("event", "redis.otel.metrics.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect redis",
			slog.String("event", "redis.connect.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Warn("failed to close redis client", slog.String("error", err.Error()))
		}
	}()

	slog.Info("redis connected",
		slog.String("addr", cfg.Redis.Addr),
	)

	sessionRepo := repository.NewSessionRepository(redisClient)

	windows := protection.WindowsFromConfig(cfg.Adherence)
	calculator := protection.NewCalculator(windows)
	planner := schedule.NewPlanner(windows)
	reconciler := schedule.NewReconciler(sessionRepo, taskQueue, adherenceMetrics)

	sessionService := session.NewService(
		sessionRepo,
		calculator,
		planner,
		reconciler,
		recorder,
		adherenceMetrics,
		clock.System(),
	)
	sessionHandler := handler.NewSessionHandler(sessionService)

	// Setup router with observability middleware
	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:   []string{"/health", "/health/live", "/health/ready", "/metrics"},
		TracerName:  "github.com/dosewatch/adherence/internal/observability/middleware",
		HTTPMetrics: httpMetrics,
	}))
	r.Use(middleware.PanicRecoveryGin())

	// Health check endpoints
	healthChecker := health.NewChecker(redisClient, Version)
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())

	// API routes
	v1 := r.Group("/api/v1")
	{
		v1.POST("/sessions/start", sessionHandler.HandleStartSession)
		v1.POST("/sessions/doses", sessionHandler.HandleAddDose)
		v1.POST("/sessions/end", sessionHandler.HandleEndSession)
		v1.DELETE("/sessions", sessionHandler.HandleClearHistory)
		v1.GET("/sessions/status", sessionHandler.HandleStatus)
		v1.POST("/sessions/recompute", sessionHandler.HandleRecompute)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.Int("protection_start_hours", cfg.Adherence.ProtectionStartHours),
			slog.Int("dose_window_start_hours", cfg.Adherence.DoseWindowStartHours),
			slog.Int("dose_window_end_hours", cfg.Adherence.DoseWindowEndHours),
		)
		serverErr <- srv.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}
