package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/campus-complaint-api/api/swagger"
	"github.com/noah-isme/campus-complaint-api/internal/handler"
	"github.com/noah-isme/campus-complaint-api/internal/middleware"
	"github.com/noah-isme/campus-complaint-api/internal/models"
	"github.com/noah-isme/campus-complaint-api/internal/repository"
	"github.com/noah-isme/campus-complaint-api/internal/service"
	"github.com/noah-isme/campus-complaint-api/pkg/cache"
	"github.com/noah-isme/campus-complaint-api/pkg/config"
	"github.com/noah-isme/campus-complaint-api/pkg/database"
	"github.com/noah-isme/campus-complaint-api/pkg/jobs"
	"github.com/noah-isme/campus-complaint-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/campus-complaint-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/campus-complaint-api/pkg/middleware/requestid"
	"github.com/noah-isme/campus-complaint-api/pkg/storage"
)

// @title Campus Complaint API
// @version 1.0.0
// @description Complaint management service for college students and staff
// @BasePath /api/v1
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

	ctx := context.Background()
	if err := database.Bootstrap(ctx, db); err != nil {
		logr.Sugar().Fatalw("failed to bootstrap schema", "error", err)
	}

	var cacheRepo *repository.CacheRepository
	if cfg.Categories.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, category cache disabled", "error", err)
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}

	fileStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	complaintRepo := repository.NewComplaintRepository(db)
	responseRepo := repository.NewResponseRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	statsRepo := repository.NewStatisticsRepository(db)
	exportJobRepo := repository.NewExportJobRepository(db)

	hasher := service.NewPasswordHasher(cfg.Auth.PasswordScheme)
	authSvc := service.NewAuthService(userRepo, hasher, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})
	complaintSvc := service.NewComplaintService(complaintRepo, validate, logr, metricsSvc)
	lifecycleSvc := service.NewLifecycleService(complaintRepo, logr, metricsSvc)
	responseSvc := service.NewResponseService(responseRepo, complaintRepo, validate, logr, metricsSvc)
	categorySvc := service.NewCategoryService(categoryRepo, cacheRepo, cfg.Categories.CacheTTL, logr)
	statsSvc := service.NewStatisticsService(statsRepo, logr)
	exportSvc := service.NewExportService(complaintRepo, exportJobRepo, fileStore, signer, service.ExportServiceConfig{
		APIPrefix:  cfg.APIPrefix,
		ResultTTL:  cfg.Exports.SignedURLTTL,
		MaxRetries: cfg.Exports.WorkerRetries,
	}, logr, metricsSvc)

	if err := categorySvc.Seed(ctx); err != nil {
		logr.Sugar().Fatalw("failed to seed categories", "error", err)
	}
	if cfg.Bootstrap.Enabled {
		if err := authSvc.EnsureBootstrapAccount(ctx, service.BootstrapAccount{
			Username:   cfg.Bootstrap.Username,
			Password:   cfg.Bootstrap.Password,
			FullName:   cfg.Bootstrap.FullName,
			Email:      cfg.Bootstrap.Email,
			Department: cfg.Bootstrap.Department,
		}); err != nil {
			logr.Sugar().Fatalw("failed to seed bootstrap account", "error", err)
		}
	}

	exportQueue := jobs.NewQueue("exports", exportSvc.Process, jobs.QueueConfig{
		Workers:    cfg.Exports.WorkerConcurrency,
		MaxRetries: cfg.Exports.WorkerRetries,
		Logger:     logr,
	})
	exportQueue.Start(ctx)
	defer exportQueue.Stop()
	exportSvc.SetQueue(exportQueue)

	go func() {
		ticker := time.NewTicker(cfg.Exports.CleanupInterval)
		defer ticker.Stop()
		for range ticker.C {
			exportSvc.Cleanup()
		}
	}()

	authHandler := handler.NewAuthHandler(authSvc)
	complaintHandler := handler.NewComplaintHandler(complaintSvc, lifecycleSvc, responseSvc, exportSvc)
	categoryHandler := handler.NewCategoryHandler(categorySvc)
	statsHandler := handler.NewStatisticsHandler(statsSvc)
	exportHandler := handler.NewExportHandler(exportSvc)

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
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
		}

		api.GET("/categories", categoryHandler.List)

		// Download carries its own signed token instead of a bearer token so
		// links can be handed to browsers directly.
		api.GET("/exports/download", exportHandler.Download)

		secured := api.Group("", middleware.JWT(authSvc))
		{
			secured.POST("/complaints", complaintHandler.Create)
			secured.GET("/complaints/mine", complaintHandler.Mine)

			// Owners see their own complaint, its responses and its history;
			// the handlers enforce ownership for non-staff callers.
			secured.GET("/complaints/:id", complaintHandler.Get)
			secured.GET("/complaints/:id/history", complaintHandler.History)
			secured.GET("/complaints/:id/responses", complaintHandler.ListResponses)

			staff := secured.Group("", middleware.RequireRoles(models.RoleTeacher))
			{
				staff.GET("/complaints", complaintHandler.Search)
				staff.GET("/complaints/export", complaintHandler.ExportCSV)
				staff.DELETE("/complaints/:id", complaintHandler.Delete)
				staff.PATCH("/complaints/:id/status", complaintHandler.SetStatus)
				staff.POST("/complaints/:id/responses", complaintHandler.AddResponse)

				staff.GET("/statistics", statsHandler.Get)
				staff.POST("/exports", exportHandler.Create)
				staff.GET("/exports/:id", exportHandler.Get)
			}
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
