package main

import (
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-exam-api/api/swagger"
	"github.com/noah-isme/sma-exam-api/internal/handler"
	"github.com/noah-isme/sma-exam-api/internal/middleware"
	"github.com/noah-isme/sma-exam-api/internal/models"
	"github.com/noah-isme/sma-exam-api/internal/repository"
	"github.com/noah-isme/sma-exam-api/internal/service"
	redisCache "github.com/noah-isme/sma-exam-api/pkg/cache"
	"github.com/noah-isme/sma-exam-api/pkg/config"
	"github.com/noah-isme/sma-exam-api/pkg/database"
	"github.com/noah-isme/sma-exam-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-exam-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-exam-api/pkg/middleware/requestid"
)

// @title SMA Exam Observer API
// @version 0.1.0
// @description Examination observer roster and committee assignment engine
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
		logr.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := redisCache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		redisClient = nil
	}

	observerRepo := repository.NewObserverRepository(db)
	committeeRepo := repository.NewCommitteeRepository(db)
	sessionRepo := repository.NewExamSessionRepository(db)
	snapshotRepo := repository.NewAssignmentSnapshotRepository(db)
	configRepo := repository.NewObserverConfigRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	locks := service.NewTermLocks()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(service.AuthConfig{AccessTokenSecret: cfg.JWT.Secret}, logr)
	calendarSvc := service.NewCalendarService(sessionRepo, cacheRepo, cfg.Engine.CalendarCacheTTL, logr)
	assignmentSvc := service.NewAssignmentService(
		snapshotRepo, observerRepo, committeeRepo, configRepo,
		calendarSvc, cacheRepo, cfg.Engine.SnapshotCacheTTL,
		locks, metricsSvc, logr,
	)
	distributionSvc := service.NewDistributionService(
		observerRepo, sessionRepo, committeeRepo, snapshotRepo,
		assignmentSvc, configRepo, locks, rng, metricsSvc, logr,
	)
	swapSessionSvc := service.NewSwapSessionService(assignmentSvc, logr)
	observerSvc := service.NewObserverService(observerRepo, assignmentSvc, nil, logr)
	committeeSvc := service.NewCommitteeService(committeeRepo, assignmentSvc, nil, logr)
	sessionSvc := service.NewExamSessionService(sessionRepo, assignmentSvc, calendarSvc, nil, logr)
	configurationSvc := service.NewConfigurationService(configRepo, nil, logr)

	observerHandler := handler.NewObserverHandler(observerSvc)
	committeeHandler := handler.NewCommitteeHandler(committeeSvc)
	sessionHandler := handler.NewExamSessionHandler(sessionSvc)
	assignmentHandler := handler.NewAssignmentHandler(assignmentSvc, calendarSvc)
	distributionHandler := handler.NewDistributionHandler(distributionSvc)
	swapSessionHandler := handler.NewSwapSessionHandler(swapSessionSvc)
	configurationHandler := handler.NewConfigurationHandler(configurationSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(authSvc))

	write := middleware.RequireRoles(models.RoleAdmin, models.RoleStaff)

	observers := api.Group("/observers")
	{
		observers.GET("", observerHandler.List)
		observers.GET("/:id", observerHandler.Get)
		observers.POST("", write, observerHandler.Create)
		observers.PUT("/:id", write, observerHandler.Update)
		observers.DELETE("/:id", write, observerHandler.Delete)
	}

	committees := api.Group("/committees")
	{
		committees.GET("", committeeHandler.List)
		committees.GET("/:id", committeeHandler.Get)
		committees.POST("", write, committeeHandler.Create)
		committees.DELETE("/:id", write, committeeHandler.Delete)
	}

	sessions := api.Group("/exam-sessions")
	{
		sessions.GET("", sessionHandler.List)
		sessions.GET("/:id", sessionHandler.Get)
		sessions.POST("", write, sessionHandler.Create)
		sessions.DELETE("/:id", write, sessionHandler.Delete)
	}

	terms := api.Group("/terms/:term")
	{
		terms.GET("/assignments", assignmentHandler.Snapshot)
		terms.GET("/calendar-index", assignmentHandler.CalendarIndex)
		terms.PUT("/assignments/slot", write, assignmentHandler.SetSlot)
		terms.POST("/assignments/swap", write, assignmentHandler.Swap)
		terms.POST("/assignments/conflict-check", assignmentHandler.ConflictCheck)
		terms.POST("/distributions", write, distributionHandler.Run)

		terms.GET("/swap-session", swapSessionHandler.State)
		terms.POST("/swap-session/toggle", write, swapSessionHandler.Toggle)
		terms.POST("/swap-session/select", write, swapSessionHandler.Select)
		terms.POST("/swap-session/cancel", write, swapSessionHandler.Cancel)
	}

	configuration := api.Group("/configuration")
	{
		configuration.GET("/observers", configurationHandler.Get)
		configuration.PUT("/observers", write, configurationHandler.Update)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
