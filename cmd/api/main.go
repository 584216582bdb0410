package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/hiresync/validation-queue-api/api/swagger"
	"github.com/hiresync/validation-queue-api/internal/bus"
	"github.com/hiresync/validation-queue-api/internal/handler"
	"github.com/hiresync/validation-queue-api/internal/middleware"
	"github.com/hiresync/validation-queue-api/internal/repository"
	"github.com/hiresync/validation-queue-api/internal/service"
	"github.com/hiresync/validation-queue-api/pkg/cache"
	"github.com/hiresync/validation-queue-api/pkg/config"
	"github.com/hiresync/validation-queue-api/pkg/database"
	"github.com/hiresync/validation-queue-api/pkg/logger"
	corsmiddleware "github.com/hiresync/validation-queue-api/pkg/middleware/cors"
	reqidmiddleware "github.com/hiresync/validation-queue-api/pkg/middleware/requestid"
)

// @title Candidate Validation Queue API
// @version 0.1.0
// @description Back-office queue for manual validation of hiring-process candidates
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var eventBus bus.Bus = bus.NewMemory()
	candidateRepo := repository.NewCandidateRepository(db)
	productivityRepo := repository.NewProductivityRepository(db)
	var cacheRepo *repository.CacheRepository

	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect to redis", "error", err)
		}
		defer redisClient.Close()
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
		eventBus = bus.NewRedis(redisClient, cfg.Productivity.Channel, logr)
	} else {
		cacheRepo = repository.NewCacheRepository(nil, logr)
	}

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(cfg.JWT)

	queueSvc := service.NewQueueService(candidateRepo, metricsSvc, logr, service.QueueServiceConfig{
		PollInterval:        cfg.Queue.PollInterval,
		AdmissionWindowDays: cfg.Queue.AdmissionWindowDays,
	})
	webhookSvc := service.NewWebhookService(cfg.Webhook, metricsSvc, logr)
	validationSvc := service.NewValidationService(candidateRepo, webhookSvc, eventBus, queueSvc, metricsSvc, logr)
	productivitySvc := service.NewProductivityService(productivityRepo, cacheRepo, eventBus, logr, service.ProductivityServiceConfig{
		CacheTTL:     cfg.Productivity.CacheTTL,
		PollInterval: cfg.Productivity.PollInterval,
	})

	webhookSvc.Start(ctx)
	defer webhookSvc.Stop()
	queueSvc.StartPolling(ctx)
	productivitySvc.Start(ctx)

	if err := queueSvc.Load(ctx, service.RefreshTriggerManual); err != nil {
		logr.Sugar().Warnw("initial queue load failed, serving once data loads", "error", err)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	metricsHandler := handler.NewMetricsHandler(metricsSvc)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	queueHandler := handler.NewQueueHandler(queueSvc)
	validationHandler := handler.NewValidationHandler(validationSvc)
	productivityHandler := handler.NewProductivityHandler(productivitySvc)

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(authSvc))
	{
		api.GET("/queue", queueHandler.List)
		api.POST("/queue/refresh", queueHandler.Refresh)
		api.POST("/candidates/:code/validate", validationHandler.Validate)
		api.GET("/candidates/:code/events", validationHandler.AuditLog)
		api.POST("/events/:id/rollback", validationHandler.Rollback)
		api.GET("/productivity", productivityHandler.All)
		api.GET("/productivity/:analyst", productivityHandler.ForAnalyst)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
