// Command devserver runs the portfolio API over in-memory collections so the
// front-end can be developed without MongoDB. Data is lost on exit.
package main

import (
	"net"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/monirportfolio/portfolio-server/handlers"
	"github.com/monirportfolio/portfolio-server/internal/config"
	"github.com/monirportfolio/portfolio-server/internal/models"
	"github.com/monirportfolio/portfolio-server/internal/resource"
	"github.com/monirportfolio/portfolio-server/internal/resource/service"
	"github.com/monirportfolio/portfolio-server/internal/users"
	"github.com/monirportfolio/portfolio-server/pkg/logger"
	"github.com/monirportfolio/portfolio-server/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadLocalConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	var resources []service.Service
	for _, k := range resource.Kinds() {
		resources = append(resources, service.NewMemoryService(k))
	}

	userName := envOr("DEV_USER", "admin")
	password := envOr("DEV_PASSWORD", "admin")
	userSvc := users.NewService(users.NewStaticUserRepository(models.User{UserName: userName, Password: password}))

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r := handlers.NewRouter(handlers.Deps{
		Config:    cfg,
		Resources: resources,
		Users:     userSvc,
	})

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	logger.Warnf("dev server uses in-memory storage; login user %q", userName)
	logger.Infof("portfolio dev server listening on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
