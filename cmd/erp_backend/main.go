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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/SscSPs/erp_finance_core/internal/adapters/audit"
	"github.com/SscSPs/erp_finance_core/internal/adapters/cache"
	portssvc "github.com/SscSPs/erp_finance_core/internal/core/ports/services"
	"github.com/SscSPs/erp_finance_core/internal/core/services"
	"github.com/SscSPs/erp_finance_core/internal/handlers"
	"github.com/SscSPs/erp_finance_core/internal/middleware"
	"github.com/SscSPs/erp_finance_core/internal/platform/config"
	"github.com/SscSPs/erp_finance_core/internal/platform/logger"
	"github.com/SscSPs/erp_finance_core/internal/platform/metrics"
	"github.com/SscSPs/erp_finance_core/internal/repositories/database/pgsql"
	"github.com/SscSPs/erp_finance_core/pkg/database"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	zl, log, err := logger.New(logger.Config{
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
	})
	if err != nil {
		slog.Error("Failed to build logger", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = zl.Sync() }()
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("Server exited with error", slog.String("error", err.Error()))
		_ = zl.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return err
	}
	defer dbPool.Close()
	log.Info("Database connection pool established.")

	log.Info("Running database migrations...", slog.String("dir", cfg.MigrationsDir))
	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir, log); err != nil {
		return err
	}

	var (
		redisClient    *redis.Client
		statementCache portssvc.StatementCache
	)
	if cfg.RedisURL != "" {
		redisClient, err = cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := redisClient.Close(); cerr != nil {
				log.Warn("Error closing redis client", slog.String("error", cerr.Error()))
			}
		}()
		statementCache = cache.NewRedisStatementCache(redisClient, cfg.StatementTTL)
		log.Info("Statement cache enabled", slog.Duration("ttl", cfg.StatementTTL))
	} else {
		log.Warn("REDIS_URL not set; statement cache disabled and rate limits are per instance")
	}

	var auditSink portssvc.AuditSink
	switch cfg.AuditSink {
	case config.AuditSinkKafka:
		kafkaSink := audit.NewKafkaSink(log, cfg.KafkaBrokers, cfg.KafkaTopic)
		defer func() {
			if cerr := kafkaSink.Close(); cerr != nil {
				log.Warn("Error closing audit writer", slog.String("error", cerr.Error()))
			}
		}()
		auditSink = kafkaSink
		log.Info("Audit events published to kafka", slog.String("topic", cfg.KafkaTopic))
	default:
		auditSink = audit.NewLogSink(log)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector(), prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	appMetrics, err := metrics.New(registry, metrics.Config{ServiceName: cfg.ServiceName, Environment: cfg.Environment})
	if err != nil {
		return err
	}

	workerPool, err := services.NewWorkerPool(cfg.BulkWorkers)
	if err != nil {
		return err
	}
	defer workerPool.Release()

	repos := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer := services.NewServiceContainer(cfg, repos, workerPool, statementCache,
		services.WithAuditSink(auditSink),
		services.WithMetrics(appMetrics),
	)

	limiter, err := middleware.NewLimiter(cfg.RateLimit, redisClient)
	if err != nil {
		return err
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := handlers.RegisterValidators(); err != nil {
		return err
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(log), gin.Recovery(), middleware.Metrics(appMetrics))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AddAllowHeaders("Authorization", middleware.RequestIDHeader)
	corsConfig.AddExposeHeaders("Content-Disposition", middleware.RequestIDHeader)
	r.Use(cors.New(corsConfig))

	if err := r.SetTrustedProxies(nil); err != nil {
		return err
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, registry, middleware.RateLimit(limiter))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", slog.String("port", cfg.Port))
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("Server stopped")
	return nil
}
