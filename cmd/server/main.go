package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fitgoals/backend/api/handler"
	"github.com/fitgoals/backend/internal/config"
	"github.com/fitgoals/backend/internal/infrastructure/monitor"
	pgInfra "github.com/fitgoals/backend/internal/infrastructure/postgres"
	redisInfra "github.com/fitgoals/backend/internal/infrastructure/redis"
	"github.com/fitgoals/backend/internal/middleware"
	"github.com/fitgoals/backend/internal/router"
	"github.com/fitgoals/backend/internal/services"
	"github.com/fitgoals/backend/internal/services/lifecycle"
	"github.com/fitgoals/backend/pkg/httpcontext"
	"github.com/fitgoals/backend/pkg/logger"
	"github.com/fitgoals/backend/repository"
	boltRepo "github.com/fitgoals/backend/repository/boltdb"
	"github.com/fitgoals/backend/repository/postgres"
	redisRepo "github.com/fitgoals/backend/repository/redis"
	authUC "github.com/fitgoals/backend/usecase/auth"
	goalUC "github.com/fitgoals/backend/usecase/goal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	var (
		goalRepo  repository.GoalRepository
		ownerRepo repository.OwnerRepository
		mon       *monitor.Monitor
	)

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	if cfg.UsesPostgres() {
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

		goalRepo = postgres.NewGoalRepository(pool)
		ownerRepo = postgres.NewOwnerRepository(pool)
		mon = monitor.New(pool, redisClient, nil, 10*time.Second, zapLogger)
	} else {
		boltStore, err := boltRepo.Open(cfg.Bolt.Path)
		if err != nil {
			zapLogger.Fatal("failed to open bolt storage", zap.Error(err))
		}
		manager.Register("bolt", func(ctx context.Context) error {
			return boltStore.Close()
		})

		owners, err := boltStore.Owners()
		if err != nil {
			zapLogger.Fatal("failed to open bolt owner bucket", zap.Error(err))
		}

		goalRepo = boltStore
		ownerRepo = owners
		mon = monitor.New(nil, redisClient, boltStore, 10*time.Second, zapLogger)
	}

	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.JWT.SessionTTL)

	if cfg.Stats.Enabled {
		statsReporter := services.NewStatsReporter(goalRepo, cfg.Stats.Interval, zapLogger)
		statsReporter.Start()
		manager.Register("stats_reporter", func(ctx context.Context) error {
			statsReporter.Stop(ctx)
			return nil
		})
	}

	authUseCase := authUC.New(ownerRepo, sessionRepo, cfg.JWT.Secret, cfg.JWT.Issuer, zapLogger)
	goalUseCase := goalUC.New(goalRepo, ownerRepo, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:   apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger, cfg.JWT.SessionTTL),
		Goal:   apiHandler.NewGoalHandler(goalUseCase, ctxAdapter, zapLogger),
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
		zapLogger.Info("server started", zap.String("address", cfg.Address()), zap.String("storage", cfg.Storage.Driver))
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
