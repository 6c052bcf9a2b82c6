package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"uniguide/backend/config"
	"uniguide/backend/internal/api/handler"
	"uniguide/backend/internal/api/router"
	"uniguide/backend/internal/directory"
	"uniguide/backend/internal/repository"
	"uniguide/backend/internal/scheduler"
	"uniguide/backend/internal/service"
	"uniguide/backend/pkg/database"
	"uniguide/backend/pkg/jwt"
	applogger "uniguide/backend/pkg/logger"
	"uniguide/backend/pkg/queue"
	"uniguide/backend/pkg/redis"
	"uniguide/backend/pkg/tracing"
)

func main() {
	// 1. config
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. tracing
	shutdownTracing, err := tracing.Init(context.Background(), &cfg.Tracing, logger)
	if err != nil {
		logger.Fatal("init tracing", zap.Error(err))
	}

	// 4. database and migrations
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get sql.DB", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("run migrations", zap.Error(err))
	}

	// 5. redis, optional: without it tokens cannot be revoked and nothing
	// is rate limited
	var (
		rdb       *redis.Client
		blacklist service.TokenBlacklist
	)
	if cfg.Redis.Addr != "" {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("redis unavailable, running without blacklist and rate limit", zap.Error(err))
			rdb = nil
		} else {
			blacklist = rdb
		}
	}

	// 6. live directory
	var cache directory.Cache = directory.NewMemoryCache(cfg.Directory.CacheTTL)
	if cfg.Directory.CacheBackend == "redis" {
		if rdb != nil {
			cache = directory.NewRedisCache(rdb, cfg.Directory.CacheTTL, logger)
		} else {
			logger.Warn("directory redis cache requested without redis, using memory cache")
		}
	}
	dir := directory.NewClient(&cfg.Directory, cache, logger)

	// 7. selection events
	var events service.EventPublisher
	producer := queue.NewProducer(&cfg.Events, logger)
	if producer != nil {
		events = producer
	}

	// 8. Repository → Service → Handler
	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, dir, blacklist, events, logger)
	h := handler.NewHandler(svc)

	// 9. scheduled catalog sync
	var sched *scheduler.Scheduler
	if cfg.Catalog.SyncCron != "" {
		sched, err = scheduler.New(cfg.Catalog.SyncCron, svc.University, logger)
		if err != nil {
			logger.Fatal("init scheduler", zap.Error(err))
		}
		sched.Start()
	}

	// 10. HTTP server with graceful shutdown
	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("http server shutdown", zap.Error(err))
	}
	if sched != nil {
		sched.Stop(ctx)
	}
	if err := producer.Close(); err != nil {
		logger.Error("close kafka producer", zap.Error(err))
	}
	if err := shutdownTracing(ctx); err != nil {
		logger.Error("flush traces", zap.Error(err))
	}
	sqlDB.Close()
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("stopped")
}
