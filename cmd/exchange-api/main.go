package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/nbx-exchange-api/api/swagger"
	"github.com/noah-isme/nbx-exchange-api/internal/database"
	"github.com/noah-isme/nbx-exchange-api/internal/handler"
	"github.com/noah-isme/nbx-exchange-api/internal/middleware"
	"github.com/noah-isme/nbx-exchange-api/internal/repository"
	"github.com/noah-isme/nbx-exchange-api/internal/service"
	"github.com/noah-isme/nbx-exchange-api/pkg/cache"
	"github.com/noah-isme/nbx-exchange-api/pkg/config"
	pgdb "github.com/noah-isme/nbx-exchange-api/pkg/database"
	"github.com/noah-isme/nbx-exchange-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/nbx-exchange-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/nbx-exchange-api/pkg/middleware/requestid"
	"github.com/noah-isme/nbx-exchange-api/pkg/storage"
)

// @title NBX Exchange API
// @version 0.1.0
// @description Assignment exchange backend for notebook classrooms
// @BasePath /services/nbexchange
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	db, err := pgdb.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, "migrations"); err != nil {
			logr.Sugar().Fatalw("failed to run migrations", "error", err)
		}
	}

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Listing.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, listing cache disabled", "error", err)
		} else {
			defer redisClient.Close()
			cacheSvc = service.NewCacheService(repository.NewRedisCacheRepository(redisClient), metricsSvc, cfg.Listing.CacheTTL, logr, true)
		}
	}

	artifacts, err := storage.NewArtifactStore(cfg.Storage.BaseDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init artifact store", "error", err)
	}

	users := repository.NewUserRepository(db)
	courses := repository.NewCourseRepository(db)
	subscriptions := repository.NewSubscriptionRepository(db)
	assignments := repository.NewAssignmentRepository(db)
	actions := repository.NewActionRepository(db)

	validate := validator.New()

	tokenSvc := service.NewTokenService(cfg.Auth)
	identitySvc := service.NewIdentityService(users, courses, subscriptions, logr)
	exchangeSvc := service.NewExchangeService(identitySvc, courses, assignments, actions, artifacts, cacheSvc, metricsSvc, validate, logr)
	listingSvc := service.NewListingService(identitySvc, courses, assignments, actions, cacheSvc, logr)
	collectionSvc := service.NewCollectionService(identitySvc, courses, assignments, actions, artifacts, cacheSvc, metricsSvc, logr)

	userHandler := handler.NewUserHandler(identitySvc)
	assignmentsHandler := handler.NewAssignmentsHandler(listingSvc)
	assignmentHandler := handler.NewAssignmentHandler(exchangeSvc, cfg.Storage.MaxFileSizeBytes)
	submissionHandler := handler.NewSubmissionHandler(exchangeSvc, collectionSvc, cfg.Storage.MaxFileSizeBytes)
	collectionHandler := handler.NewCollectionHandler(collectionSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.MaxMultipartMemory = cfg.Storage.MaxFileSizeBytes

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.Deadline(cfg.Database.QueryTimeout))
	api.Use(middleware.Auth(tokenSvc))
	{
		api.GET("/user", userHandler.Current)
		api.GET("/assignments", assignmentsHandler.List)
		api.GET("/assignment", assignmentHandler.Download)
		api.POST("/assignment", assignmentHandler.Release)
		api.DELETE("/assignment", assignmentHandler.Unrelease)
		api.POST("/submission", submissionHandler.Submit)
		api.GET("/submissions", submissionHandler.List)
		api.GET("/collections", collectionHandler.List)
		api.GET("/collection", collectionHandler.Download)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "prefix", cfg.APIPrefix)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
