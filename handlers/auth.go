package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/monirportfolio/portfolio-server/internal/config"
	"github.com/monirportfolio/portfolio-server/internal/tokens"
	"github.com/monirportfolio/portfolio-server/internal/users"
	"github.com/monirportfolio/portfolio-server/pkg/logger"
	"github.com/monirportfolio/portfolio-server/pkg/metrics"
)

const (
	msgLoginOK            = "Login successful"
	msgInvalidCredentials = "Invalid username or password"
	msgInternalError      = "Internal server error"
)

// LoginRequest is the body of POST /login
type LoginRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

// AuthHandler holds dependencies
type AuthHandler struct {
	cfg      *config.Config
	usersSvc *users.Service
}

func NewAuthHandler(cfg *config.Config, u *users.Service) *AuthHandler {
	return &AuthHandler{cfg: cfg, usersSvc: u}
}

// Register mounts POST /login. Extra handlers (the login limiter) run first.
func (h *AuthHandler) Register(r gin.IRouter, pre ...gin.HandlerFunc) {
	r.POST("/login", append(append([]gin.HandlerFunc{}, pre...), h.Login)...)
}

// Login compares the supplied credentials with the stored user record.
// Unknown user and wrong password produce the same response.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.LoginAttempts.WithLabelValues(metrics.OutcomeFailure).Inc()
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	u, err := h.usersSvc.Authenticate(c.Request.Context(), req.UserName, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			metrics.LoginAttempts.WithLabelValues(metrics.OutcomeInvalid).Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"message": msgInvalidCredentials})
			return
		}
		logger.Errorf("login lookup failed: %v", err)
		metrics.LoginAttempts.WithLabelValues(metrics.OutcomeFailure).Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"message": msgInternalError})
		return
	}

	resp := gin.H{"message": msgLoginOK}
	if h.cfg != nil && h.cfg.JWT.Secret != "" {
		ttl := h.cfg.JWT.AccessTokenTTL
		if ttl <= 0 {
			ttl = time.Hour
		}
		access, err := tokens.GenerateAccessToken(h.cfg, u, ttl)
		if err != nil {
			logger.Errorf("failed to create access token: %v", err)
			metrics.LoginAttempts.WithLabelValues(metrics.OutcomeFailure).Inc()
			c.JSON(http.StatusInternalServerError, gin.H{"message": msgInternalError})
			return
		}
		resp["token"] = access
		resp["expiresIn"] = int(ttl.Seconds())
	}
	metrics.LoginAttempts.WithLabelValues(metrics.OutcomeSuccess).Inc()
	c.JSON(http.StatusOK, resp)
}
