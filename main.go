package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/monirportfolio/portfolio-server/handlers"
	"github.com/monirportfolio/portfolio-server/internal/config"
	"github.com/monirportfolio/portfolio-server/internal/database"
	"github.com/monirportfolio/portfolio-server/internal/resource"
	"github.com/monirportfolio/portfolio-server/internal/resource/service"
	"github.com/monirportfolio/portfolio-server/internal/users"
	"github.com/monirportfolio/portfolio-server/pkg/logger"
	"github.com/monirportfolio/portfolio-server/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: env=%s redis=%v rate_limit=%v auth_required=%v jwt_secret_set=%v",
		cfg.Server.Environment, cfg.Redis.Addr() != "", cfg.RateLimit.Enabled, cfg.Auth.Required, cfg.JWT.Secret != "")

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, cfg.MongoDB.StableAPI, 5)
	if err != nil {
		logger.Fatalf("could not connect to MongoDB: %v", err)
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(dctx); err != nil {
			logger.Warnf("mongo disconnect: %v", err)
		}
	}()
	db := client.Database(cfg.MongoDB.Database)
	logger.Infof("connected to MongoDB database %q", cfg.MongoDB.Database)

	checks := map[string]handlers.ReadyCheck{
		"mongodb": func(ctx context.Context) error { return client.Ping(ctx, nil) },
	}

	var rdb *redis.Client
	if addr := cfg.Redis.Addr(); addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			// limiters fall back to memory when the client is nil
			logger.Warnf("failed to connect to Redis (%s): %v", addr, err)
			_ = rdb.Close()
			rdb = nil
		} else {
			defer func() { _ = rdb.Close() }()
			logger.Infof("connected to Redis for rate limiting: %s", addr)
			checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		}
	}

	var resources []service.Service
	for _, k := range resource.Kinds() {
		resources = append(resources, service.NewMongoService(k, db.Collection(k.Collection)))
	}
	userSvc := users.NewService(users.NewMongoUserRepository(db.Collection("users")))

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)

	r := handlers.NewRouter(handlers.Deps{
		Config:      cfg,
		Resources:   resources,
		Users:       userSvc,
		Redis:       rdb,
		ReadyChecks: checks,
	})

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("portfolio server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Errorf("server failed: %v", err)
	}

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
	logger.Info("server stopped")
}
