package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/monirportfolio/portfolio-server/internal/config"
	"github.com/monirportfolio/portfolio-server/internal/resource/handler"
	"github.com/monirportfolio/portfolio-server/internal/resource/service"
	"github.com/monirportfolio/portfolio-server/internal/tokens"
	"github.com/monirportfolio/portfolio-server/internal/users"
	"github.com/monirportfolio/portfolio-server/pkg/logger"
	"github.com/monirportfolio/portfolio-server/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

const livenessText = "portfolio Server is Running"

// ReadyCheck reports whether a dependency is reachable.
type ReadyCheck func(ctx context.Context) error

// Deps is everything the route table needs. Redis and ReadyChecks are optional.
type Deps struct {
	Config      *config.Config
	Resources   []service.Service
	Users       *users.Service
	Redis       *redis.Client
	ReadyChecks map[string]ReadyCheck
}

var startTime = time.Now()

// NewRouter builds the gin engine with global middleware and every route.
func NewRouter(d Deps) *gin.Engine {
	cfg := d.Config
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.RequestLogger(), gin.Recovery())
	r.Use(middleware.CORSMiddleware(config.AllowedOrigins))

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && d.Redis != nil {
			r.Use(middleware.RedisRateLimitMiddleware(d.Redis, "global", cfg.RateLimit.RPS, cfg.RateLimit.Burst, rateWindow(cfg)))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, livenessText)
	})
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", readyHandler(d.ReadyChecks))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	RegisterSwagger(r)

	var guard []gin.HandlerFunc
	if cfg.Auth.Required {
		guard = append(guard, middleware.AuthMiddleware(tokens.NewVerifier(cfg.JWT.Secret)))
	}
	for _, svc := range d.Resources {
		handler.RegisterResourceRoutes(r, svc, guard...)
	}

	if d.Users != nil {
		loginLimit := middleware.RedisRateLimitMiddleware(d.Redis, "login", cfg.RateLimit.LoginRPS, cfg.RateLimit.LoginBurst, rateWindow(cfg))
		NewAuthHandler(cfg, d.Users).Register(r, loginLimit)
	} else {
		logger.Warn("login handler not registered because the user service is unavailable")
	}
	return r
}

func rateWindow(cfg *config.Config) time.Duration {
	return time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
}

// readyHandler returns 200 only when every check passes.
func readyHandler(checks map[string]ReadyCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		ready := true
		deps := map[string]bool{}
		for name, check := range checks {
			err := check(ctx)
			deps[name] = err == nil
			if err != nil {
				logger.Warnf("readiness: %s unavailable: %v", name, err)
				ready = false
			}
		}

		uptime := time.Since(startTime).String()
		if !ready {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "deps": deps, "uptime": uptime})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": uptime})
	}
}
