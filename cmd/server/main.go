package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/smarttask/backend/api/handler"
	"github.com/smarttask/backend/internal/config"
	"github.com/smarttask/backend/internal/infrastructure/monitor"
	"github.com/smarttask/backend/internal/infrastructure/openai"
	pgInfra "github.com/smarttask/backend/internal/infrastructure/postgres"
	redisInfra "github.com/smarttask/backend/internal/infrastructure/redis"
	"github.com/smarttask/backend/internal/middleware"
	"github.com/smarttask/backend/internal/router"
	"github.com/smarttask/backend/internal/services/lifecycle"
	"github.com/smarttask/backend/pkg/httpcontext"
	"github.com/smarttask/backend/pkg/logger"
	"github.com/smarttask/backend/repository"
	boltRepo "github.com/smarttask/backend/repository/bolt"
	memoryRepo "github.com/smarttask/backend/repository/memory"
	pgRepo "github.com/smarttask/backend/repository/postgres"
	redisRepo "github.com/smarttask/backend/repository/redis"
	authUC "github.com/smarttask/backend/usecase/auth"
	taskUC "github.com/smarttask/backend/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		Service:  cfg.AppName,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	mon := monitor.New(10*time.Second, zapLogger)

	var (
		taskRepo repository.TaskRepository
		userRepo repository.UserRepository
	)

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
			zapLogger.Fatal("migrations failed", zap.Error(err))
		}
		pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
		if err != nil {
			zapLogger.Fatal("postgres connection failed", zap.Error(err))
		}
		manager.Register("postgres", func(ctx context.Context) error {
			pool.Close()
			return nil
		})
		mon.Register("postgresql", func(ctx context.Context) error {
			return pool.Ping(ctx)
		})
		taskRepo = pgRepo.NewTaskRepository(pool)
		userRepo = pgRepo.NewUserRepository(pool)

	case config.DriverBolt:
		store, err := boltRepo.Open(cfg.Storage.BoltPath)
		if err != nil {
			zapLogger.Fatal("bolt store open failed", zap.Error(err))
		}
		manager.Register("bolt", func(ctx context.Context) error {
			return store.Close()
		})
		mon.Register("bolt", func(ctx context.Context) error {
			return store.Ping()
		})
		taskRepo = boltRepo.NewTaskRepository(store)
		userRepo = boltRepo.NewUserRepository(store)

	default:
		zapLogger.Warn("using in-memory storage, data will not survive restarts")
		taskRepo = memoryRepo.NewTaskRepository()
		userRepo = memoryRepo.NewUserRepository()
	}

	var extractionCache repository.ExtractionCache
	if cfg.Redis.URL != "" {
		redisClient, err := redisInfra.NewClient(cfg.Redis, zapLogger)
		if err != nil {
			zapLogger.Fatal("redis connection failed", zap.Error(err))
		}
		manager.Register("redis", func(ctx context.Context) error {
			return redisClient.Close()
		})
		mon.Register("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
		extractionCache = redisRepo.NewExtractionCache(redisClient, cfg.Redis.CacheTTL)
	}

	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	extractor := openai.NewClient(openai.Config{
		BaseURL: cfg.OpenAI.BaseURL,
		APIKey:  cfg.OpenAI.APIKey,
		Model:   cfg.OpenAI.Model,
		Timeout: cfg.OpenAI.Timeout,
	}, zapLogger)

	authUseCase := authUC.New(userRepo, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TokenTTL, zapLogger)
	taskUseCase := taskUC.New(taskRepo, extractor, extractionCache, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:   apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Task:   apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("storage", cfg.Storage.Driver))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
