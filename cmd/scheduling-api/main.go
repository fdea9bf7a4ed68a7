package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/clinic-scheduling-api/api/swagger"
	"github.com/noah-isme/clinic-scheduling-api/internal/handler"
	"github.com/noah-isme/clinic-scheduling-api/internal/middleware"
	"github.com/noah-isme/clinic-scheduling-api/internal/repository"
	"github.com/noah-isme/clinic-scheduling-api/internal/service"
	"github.com/noah-isme/clinic-scheduling-api/pkg/cache"
	"github.com/noah-isme/clinic-scheduling-api/pkg/config"
	"github.com/noah-isme/clinic-scheduling-api/pkg/database"
	"github.com/noah-isme/clinic-scheduling-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/clinic-scheduling-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/clinic-scheduling-api/pkg/middleware/requestid"
)

// @title Clinic Scheduling API
// @version 0.1.0
// @description Appointment scheduling and availability engine
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

	var cacheRepo *repository.CacheRepository
	if cfg.Scheduling.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, availability cache disabled", "error", err)
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
		}
	}

	validate := validator.New()

	providerRepo := repository.NewProviderRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	workingHoursRepo := repository.NewWorkingHoursRepository(db)
	timeOffRepo := repository.NewTimeOffRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)

	metricsSvc := service.NewMetricsService()
	var cacheSvc *service.CacheService
	if cacheRepo != nil {
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Scheduling.CacheTTL, logr, true)
	}

	constraintSvc := service.NewConstraintService(providerRepo, locationRepo, workingHoursRepo, timeOffRepo, appointmentRepo, logr)
	availabilitySvc := service.NewAvailabilityService(constraintSvc, cacheSvc, metricsSvc, logr, cfg.Scheduling.DefaultGranularity)
	conflictSvc := service.NewConflictService(logr, metricsSvc)
	appointmentSvc := service.NewAppointmentService(appointmentRepo, constraintSvc, conflictSvc, cacheSvc, validate, logr)
	rescheduleSvc := service.NewRescheduleService(appointmentRepo, constraintSvc, availabilitySvc, service.RescheduleConfig{
		MaxSuggestions:     cfg.Scheduling.MaxSuggestions,
		HorizonDays:        cfg.Scheduling.HorizonDays,
		ExcludeRescheduled: cfg.Scheduling.ExcludeRescheduled,
	}, logr)
	workingHoursSvc := service.NewWorkingHoursService(providerRepo, locationRepo, workingHoursRepo, cacheSvc, validate, logr)
	timeOffSvc := service.NewTimeOffService(providerRepo, timeOffRepo, cacheSvc, validate, logr)

	availabilityHandler := handler.NewAvailabilityHandler(availabilitySvc)
	conflictHandler := handler.NewConflictHandler(constraintSvc, conflictSvc)
	appointmentHandler := handler.NewAppointmentHandler(appointmentSvc, rescheduleSvc)
	workingHoursHandler := handler.NewWorkingHoursHandler(workingHoursSvc)
	timeOffHandler := handler.NewTimeOffHandler(timeOffSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)

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
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/providers/:providerId/availability", availabilityHandler.List)
		api.GET("/providers/:providerId/availability/export", availabilityHandler.Export)
		api.POST("/scheduling/check-conflict", conflictHandler.Check)

		api.POST("/appointments", appointmentHandler.Create)
		api.GET("/appointments", appointmentHandler.List)
		api.GET("/appointments/:id", appointmentHandler.Get)
		api.PATCH("/appointments/:id/status", appointmentHandler.UpdateStatus)
		api.GET("/appointments/:id/reschedule-suggestions", appointmentHandler.Suggestions)

		api.GET("/providers/:providerId/locations/:locationId/working-hours", workingHoursHandler.List)
		api.PUT("/providers/:providerId/locations/:locationId/working-hours", workingHoursHandler.Replace)

		api.POST("/providers/:providerId/time-off", timeOffHandler.Create)
		api.GET("/providers/:providerId/time-off", timeOffHandler.List)
		api.DELETE("/time-off/:id", timeOffHandler.Delete)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil && err != http.ErrServerClosed {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
