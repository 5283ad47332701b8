package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lifeconnect/response-engine/internal/config"
	"github.com/lifeconnect/response-engine/internal/dispatch"
	"github.com/lifeconnect/response-engine/internal/gateway"
	"github.com/lifeconnect/response-engine/internal/handler"
	"github.com/lifeconnect/response-engine/internal/infra/postgresql"
	"github.com/lifeconnect/response-engine/internal/infra/postgresql/migrations"
	infraredis "github.com/lifeconnect/response-engine/internal/infra/redis"
	"github.com/lifeconnect/response-engine/internal/observability"
	"github.com/lifeconnect/response-engine/internal/repository"
	"github.com/lifeconnect/response-engine/internal/service"
	"github.com/lifeconnect/response-engine/internal/transport"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal("failed to initialize logger", zap.Error(err))
	}
	defer logger.Sync() //nolint:errcheck

	db, err := postgresql.NewPostgres(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("postgres initialization failed", zap.Error(err))
	}

	if err := migrations.Migrate(db); err != nil {
		logger.Fatal("database migrations failed", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("postgres underlying db init failed", zap.Error(err))
	}
	defer sqlDB.Close()

	rdb, err := infraredis.NewRedis(cfg.RedisURL)
	if err != nil {
		logger.Fatal("redis initialization failed", zap.Error(err))
	}
	defer rdb.Close()

	metrics := observability.NewMetrics()

	donorRepo := repository.NewGormDonorRepo(db)
	requestRepo := repository.NewGormRequestRepo(db)
	reportRepo := repository.NewGormReportRepo(db)
	serviceRepo := repository.NewGormServiceRepo(db)
	notificationRepo := repository.NewGormNotificationRepo(db)

	limiter, err := infraredis.NewRedisRateLimiter(rdb, cfg.SOSRateLimit)
	if err != nil {
		logger.Fatal("rate limiter initialization failed", zap.Error(err))
	}

	smsGateway, err := gateway.NewHTTPSMSGateway(cfg.SMSGatewayURL)
	if err != nil {
		logger.Fatal("sms gateway initialization failed", zap.Error(err))
	}

	dispatcher, err := dispatch.NewDispatcher(notificationRepo, logger)
	if err != nil {
		logger.Fatal("dispatcher initialization failed", zap.Error(err))
	}
	dispatcher.SetMetrics(metrics)

	bloodService, err := service.NewBloodRequestService(requestRepo, donorRepo, smsGateway, limiter, logger)
	if err != nil {
		logger.Fatal("blood request service initialization failed", zap.Error(err))
	}
	bloodService.SetMetrics(metrics)

	donorService, err := service.NewDonorService(donorRepo, logger)
	if err != nil {
		logger.Fatal("donor service initialization failed", zap.Error(err))
	}

	reportService, err := service.NewReportService(
		reportRepo,
		serviceRepo,
		dispatcher,
		cfg.DefaultRadiusKm,
		time.Duration(cfg.DispatchTimeoutMS)*time.Millisecond,
		logger,
	)
	if err != nil {
		logger.Fatal("report service initialization failed", zap.Error(err))
	}
	reportService.SetMetrics(metrics)

	notificationService, err := service.NewNotificationService(notificationRepo, logger)
	if err != nil {
		logger.Fatal("notification service initialization failed", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          transport.ErrorHandler(logger),
		DisableStartupMessage: true,
	})
	app.Use(metrics.HTTPMiddleware())

	handler.RegisterHealthRoutes(app, sqlDB, rdb)
	if err := handler.RegisterBloodRequestRoutes(app, bloodService); err != nil {
		logger.Fatal("blood request routes registration failed", zap.Error(err))
	}
	if err := handler.RegisterDonorRoutes(app, donorService); err != nil {
		logger.Fatal("donor routes registration failed", zap.Error(err))
	}
	if err := handler.RegisterReportRoutes(app, reportService); err != nil {
		logger.Fatal("report routes registration failed", zap.Error(err))
	}
	if err := handler.RegisterNotificationRoutes(app, notificationService); err != nil {
		logger.Fatal("notification routes registration failed", zap.Error(err))
	}

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.MetricsPort),
		Handler: metrics.Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("response-engine api started", zap.Int("port", cfg.APIPort))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.APIPort)); err != nil {
			return fmt.Errorf("api server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("metrics server started", zap.Int("port", cfg.MetricsPort))
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("metrics server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			logger.Error("api server shutdown failed", zap.Error(err))
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown failed", zap.Error(err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("response-engine exited with error", zap.Error(err))
	}
	logger.Info("response-engine stopped")
}
