package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Kosench/go-article-counter/internal/cache"
	"github.com/Kosench/go-article-counter/internal/config"
	"github.com/Kosench/go-article-counter/internal/database"
	"github.com/Kosench/go-article-counter/internal/database/migrations"
	"github.com/Kosench/go-article-counter/internal/handler"
	"github.com/Kosench/go-article-counter/internal/logger"
	"github.com/Kosench/go-article-counter/internal/middleware"
	"github.com/Kosench/go-article-counter/internal/repository"
	"github.com/Kosench/go-article-counter/internal/service"
)

// store is the selected counter backend plus what /health and /info need.
type store struct {
	repo    repository.CounterRepository
	checks  map[string]handler.Checker
	version func() (string, error)
	closers []func() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	zlog, err := logger.New(logger.Config{
		Level:      cfg.Log.Level,
		Path:       cfg.Log.Path,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	if err != nil {
		log.Fatal("Failed to create logger: ", err)
	}
	defer zlog.Sync()

	// Redis is needed both as a store backend and for the shared rate limiter.
	var redisClient *cache.RedisClient
	if cfg.RedisRequired() {
		redisClient, err = cache.NewRedisClient(cache.RedisConfig{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			Namespace:    cfg.Redis.Namespace,
		})
		if err != nil {
			zlog.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close()
		zlog.Info("connected to redis", zap.String("host", cfg.Redis.Host))
	}

	st, err := openStore(cfg, redisClient, zlog)
	if err != nil {
		zlog.Fatal("failed to open counter store", zap.String("driver", cfg.Database.Driver), zap.Error(err))
	}
	defer func() {
		for _, closeFn := range st.closers {
			if err := closeFn(); err != nil {
				zlog.Warn("failed to close store", zap.Error(err))
			}
		}
	}()

	counterService := service.NewCounterService(st.repo, zlog)
	counterHandler := handler.NewCounterHandler(counterService)
	healthHandler := handler.NewHealthHandler(st.checks, gin.H{
		"service":         cfg.App.Name,
		"version":         cfg.App.Version,
		"environment":     cfg.App.Environment,
		"database_driver": cfg.Database.Driver,
		"rate_limit":      cfg.RateLimit.Enabled,
	}, st.version)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	middlewares := []gin.HandlerFunc{
		middleware.RequestID(),
		middleware.Logger(zlog),
		middleware.Recovery(zlog),
	}
	if cfg.RateLimit.Enabled {
		if redisClient != nil {
			middlewares = append(middlewares, middleware.RedisRateLimit(redisClient, cfg.RateLimit.Requests, cfg.RateLimit.Window, zlog))
		} else {
			middlewares = append(middlewares, middleware.LocalRateLimit(middleware.NewLocalRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)))
		}
	}

	router := handler.NewRouter(handler.RouterConfig{
		AllowedOrigins: cfg.GetAllowedOrigins(),
		Middleware:     middlewares,
	}, counterHandler, healthHandler)

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		zlog.Info("server starting",
			zap.String("addr", cfg.GetServerAddress()),
			zap.String("driver", cfg.Database.Driver),
			zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("server forced to shutdown", zap.Error(err))
		return
	}

	zlog.Info("server gracefully stopped")
}

func openStore(cfg *config.Config, redisClient *cache.RedisClient, zlog *zap.Logger) (*store, error) {
	pool := database.PoolConfig{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	}

	st := &store{checks: make(map[string]handler.Checker)}
	if redisClient != nil {
		st.checks["redis"] = redisClient
	}

	switch cfg.Database.Driver {
	case config.DriverRedis:
		st.repo = repository.NewRedisCounterRepository(redisClient)
		return st, nil

	case config.DriverMySQL:
		db, err := database.ConnectMySQL(cfg.MySQLDSN(), pool, cfg.Database.RunMigrations, zlog)
		if err != nil {
			return nil, err
		}
		repo := repository.NewGormCounterRepository(db)
		st.repo = repo
		st.checks["database"] = repo
		st.version = func() (string, error) { return database.GetMySQLVersion(db) }
		st.closers = append(st.closers, func() error { return database.CloseMySQL(db) })
		zlog.Info("connected to mysql")
		return st, nil

	default:
		dsn := cfg.PostgresDSN()
		if cfg.Database.RunMigrations {
			if err := migrations.Run(dsn, zlog); err != nil {
				return nil, err
			}
		}

		db, err := database.Connect(dsn, pool)
		if err != nil {
			return nil, err
		}
		repo := repository.NewPostgresCounterRepository(db)
		st.repo = repo
		st.checks["database"] = repo
		st.version = func() (string, error) { return database.GetVersion(db) }
		st.closers = append(st.closers, db.Close)
		zlog.Info("connected to postgres")
		return st, nil
	}
}
