package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/mathvieira649/frequenciaeconteudo/api/swagger"
	"github.com/mathvieira649/frequenciaeconteudo/internal/handler"
	"github.com/mathvieira649/frequenciaeconteudo/internal/middleware"
	"github.com/mathvieira649/frequenciaeconteudo/internal/remote"
	"github.com/mathvieira649/frequenciaeconteudo/internal/repository"
	"github.com/mathvieira649/frequenciaeconteudo/internal/service"
	"github.com/mathvieira649/frequenciaeconteudo/internal/store"
	"github.com/mathvieira649/frequenciaeconteudo/pkg/cache"
	"github.com/mathvieira649/frequenciaeconteudo/pkg/config"
	"github.com/mathvieira649/frequenciaeconteudo/pkg/localstore"
	"github.com/mathvieira649/frequenciaeconteudo/pkg/logger"
	corsmiddleware "github.com/mathvieira649/frequenciaeconteudo/pkg/middleware/cors"
	reqidmiddleware "github.com/mathvieira649/frequenciaeconteudo/pkg/middleware/requestid"
)

// @title Frequencia e Conteudo API
// @version 0.1.0
// @description Attendance dashboard backend: grid edits, offline sync and reports
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	blobs, err := localstore.New(cfg.LocalStore.Dir)
	if err != nil {
		logr.Sugar().Fatalw("local store init failed", "error", err)
	}
	local := repository.NewLocalRepository(blobs)

	metricsSvc := service.NewMetricsService()

	cacheSvc := service.NewCacheService(nil, metricsSvc, cfg.Reports.CacheTTL, logr, false)
	if cfg.Redis.Enabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, report caching disabled", "error", err)
		} else {
			repo := repository.NewCacheRepository(client, logr)
			defer repo.Close() //nolint:errcheck
			cacheSvc = service.NewCacheService(repo, metricsSvc, cfg.Reports.CacheTTL, logr, true)
		}
	}

	state := store.NewAppState()
	state.Pending.SetPersister(local)
	if err := state.Pending.Restore(); err != nil {
		logr.Sugar().Warnw("pending queue restore failed", "error", err)
	}
	metricsSvc.SetPendingDepth(state.Pending.Len())

	validate := validator.New()
	remoteClient := remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.Token, cfg.Remote.Timeout, logr)

	syncSvc := service.NewSyncService(state, remoteClient, local, cacheSvc, metricsSvc, validate, logr)
	transitionSvc := service.NewTransitionService(state, cacheSvc, metricsSvc, validate, logr)
	statsSvc := service.NewStatsService(state, cacheSvc, logr)

	ctx := context.Background()
	var exportSvc *service.ExportService
	if cfg.Reports.ExportEnabled {
		exportSvc = service.NewExportService(statsSvc, cfg.Reports.ExportDir, cfg.Reports.WorkerConcurrency, cfg.Reports.WorkerRetries, validate, logr)
		if err := exportSvc.Start(ctx); err != nil {
			logr.Sugar().Fatalw("export worker init failed", "error", err)
		}
		defer exportSvc.Stop()
	}

	if result, err := syncSvc.Load(ctx); err != nil {
		logr.Sugar().Warnw("initial load failed", "error", err)
	} else {
		logr.Sugar().Infow("dataset loaded", "source", result.Source, "students", result.Students, "classes", result.Classes)
	}

	gridHandler := handler.NewGridHandler(transitionSvc, syncSvc, state.Pending)
	rosterHandler := handler.NewRosterHandler(state, syncSvc)
	reportHandler := handler.NewReportHandler(statsSvc)
	syncHandler := handler.NewSyncHandler(state, syncSvc)
	configHandler := handler.NewConfigHandler(state, syncSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, syncSvc)

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
		api.GET("/bootstrap", syncHandler.Bootstrap)
		api.POST("/sync/load", syncHandler.Load)
		api.POST("/sync/flush", syncHandler.Flush)
		api.GET("/sync/status", syncHandler.Status)
		api.PUT("/sync/online", syncHandler.SetOnline)

		api.POST("/attendance/toggle", gridHandler.Toggle)
		api.POST("/attendance/bulk", gridHandler.BulkApply)
		api.GET("/attendance/pending", gridHandler.Pending)

		api.GET("/lessons/day-config", gridHandler.DayConfig)
		api.PUT("/lessons/day-config", gridHandler.SetDayConfig)

		api.GET("/students", rosterHandler.ListStudents)
		api.POST("/students", rosterHandler.SaveStudent)
		api.DELETE("/students/:id", rosterHandler.DeleteStudent)
		api.GET("/classes", rosterHandler.ListClasses)
		api.POST("/classes", rosterHandler.SaveClass)
		api.DELETE("/classes/:id", rosterHandler.DeleteClass)
		api.PUT("/classes/selected", rosterHandler.SelectClass)

		api.GET("/reports/bimesters", reportHandler.Bimester)
		api.GET("/reports/class-month", reportHandler.ClassMonth)
		api.GET("/reports/subjects", reportHandler.Subjects)
		api.GET("/reports/at-risk", reportHandler.AtRisk)
		api.GET("/reports/top", reportHandler.Top)

		if exportSvc != nil {
			exportHandler := handler.NewExportHandler(exportSvc)
			api.POST("/reports/export", exportHandler.Create)
			api.GET("/reports/export/:id", exportHandler.Get)
		}

		api.GET("/config/:key", configHandler.Get)
		api.PUT("/config/:key", configHandler.Put)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
