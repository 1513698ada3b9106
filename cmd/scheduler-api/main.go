package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/satyamraj2990/slotify-engine/internal/handler"
	"github.com/satyamraj2990/slotify-engine/internal/middleware"
	"github.com/satyamraj2990/slotify-engine/internal/repository"
	"github.com/satyamraj2990/slotify-engine/internal/service"
	"github.com/satyamraj2990/slotify-engine/pkg/cache"
	"github.com/satyamraj2990/slotify-engine/pkg/config"
	"github.com/satyamraj2990/slotify-engine/pkg/database"
	"github.com/satyamraj2990/slotify-engine/pkg/logger"
	corsmiddleware "github.com/satyamraj2990/slotify-engine/pkg/middleware/cors"
	reqidmiddleware "github.com/satyamraj2990/slotify-engine/pkg/middleware/requestid"
)

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

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, runs kept in memory only", "error", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	metricsSvc := service.NewMetricsService()
	timetableSvc := service.NewTimetableService(
		repository.NewCourseRepository(db),
		repository.NewTeacherRepository(db),
		repository.NewRoomRepository(db),
		repository.NewConstraintRepository(db),
		service.TimetableServiceConfig{
			RunTTL:              cfg.Scheduler.RunTTL,
			CacheTTL:            cfg.Scheduler.CacheTTL,
			OptimizerIterations: cfg.Scheduler.OptimizerIterations,
			RetryCeiling:        cfg.Scheduler.RetryCeiling,
			Workers:             cfg.Scheduler.Workers,
		},
		redisClient,
		metricsSvc,
		nil,
		logr,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	timetableSvc.StartWorkers(ctx)
	defer timetableSvc.StopWorkers()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	timetableHandler := handler.NewTimetableHandler(timetableSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r.GET("/health", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/timetables/generate", timetableHandler.Generate)
		v1.GET("/timetables/:id", timetableHandler.GetRun)
		v1.GET("/timetables/:id/export", timetableHandler.Export)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
