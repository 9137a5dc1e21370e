package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/campus-funding-api/api/swagger"
	"github.com/noah-isme/campus-funding-api/internal/engine"
	"github.com/noah-isme/campus-funding-api/internal/handler"
	"github.com/noah-isme/campus-funding-api/internal/middleware"
	"github.com/noah-isme/campus-funding-api/internal/service"
	"github.com/noah-isme/campus-funding-api/internal/store"
	"github.com/noah-isme/campus-funding-api/pkg/config"
	"github.com/noah-isme/campus-funding-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/campus-funding-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/campus-funding-api/pkg/middleware/requestid"
	"github.com/noah-isme/campus-funding-api/pkg/storage"
)

// @title Campus Funding API
// @version 1.0.0
// @description Campus funding-request tracker
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

	snapStore, err := newSnapshotStore(cfg)
	if err != nil {
		logr.Sugar().Fatalw("failed to init snapshot store", "backend", cfg.Data.Backend, "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eng := engine.New(snapStore, logr)
	eng.Load(ctx)

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	fundingSvc := service.NewFundingService(eng, validate, metricsSvc, logr)

	var exportSvc *service.ExportService
	var exportHandler *handler.ExportHandler
	if cfg.Exports.Enabled {
		reportStore, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init report storage", "error", err)
		}
		exportSvc = service.NewExportService(eng, reportStore, cfg.Exports.WorkerConcurrency, cfg.Exports.WorkerRetries, validate, logr)
		exportSvc.Start(ctx)
		defer exportSvc.Stop()
		go cleanupLoop(ctx, exportSvc, cfg.Exports.CleanupInterval, cfg.Exports.FileTTL)
		exportHandler = handler.NewExportHandler(exportSvc)
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

	handler.RegisterRoutes(r, cfg.APIPrefix,
		handler.NewFundingHandler(fundingSvc),
		exportHandler,
		handler.NewMetricsHandler(metricsSvc),
	)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "backend", cfg.Data.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Warnw("graceful shutdown failed", "error", err)
	}
}

func newSnapshotStore(cfg *config.Config) (engine.SnapshotStore, error) {
	switch cfg.Data.Backend {
	case config.BackendFile:
		return store.NewFile(cfg.Data.FilePath), nil
	case config.BackendRedis:
		return store.NewRedis(cfg.Data.Redis)
	case config.BackendPostgres:
		return store.NewPostgres(cfg.Data.Postgres)
	default:
		return nil, fmt.Errorf("unknown data backend %q", cfg.Data.Backend)
	}
}

func cleanupLoop(ctx context.Context, svc *service.ExportService, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			svc.Cleanup(ttl)
		}
	}
}
