package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// AllowedOrigins is the fixed cross-origin allow-list for the portfolio front-ends.
var AllowedOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"https://monir-portfolio-wine.vercel.app",
}

// ErrMissingDatabaseCredentials is returned when neither MONGODB_URI nor DB_USER/DB_PASSWORD are set.
var ErrMissingDatabaseCredentials = errors.New("MONGODB_URI or DB_USER and DB_PASSWORD must be set")

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	JWT       JWTConfig
	Auth      AuthConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type MongoDBConfig struct {
	URI       string
	Database  string
	Timeout   time.Duration
	StableAPI bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr returns host:port, or "" when Redis is not configured.
func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	return r.Host + ":" + r.Port
}

type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	UseRedis      bool
	WindowSeconds int
	LoginRPS      float64
	LoginBurst    int
}

type JWTConfig struct {
	Secret         string
	AccessTokenTTL time.Duration
}

type AuthConfig struct {
	// Required protects mutating resource routes with a bearer token issued by /login.
	Required bool
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	return load(true)
}

// LoadLocalConfig is LoadConfig without the database requirement, for the
// memory-backed dev server.
func LoadLocalConfig() (*Config, error) {
	return load(false)
}

func load(requireDatabase bool) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "5000")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("DB_CLUSTER", "cluster0.ulnoerh.mongodb.net")
	v.SetDefault("DB_APP_NAME", "Cluster0")
	v.SetDefault("MONGODB_DATABASE", "monirPortfolio")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("MONGODB_STABLE_API", true)
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RATE_LIMIT_ENABLED", false)
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("RATE_LIMIT_USE_REDIS", true)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	v.SetDefault("LOGIN_RATE_LIMIT_RPS", 0.2)
	v.SetDefault("LOGIN_RATE_LIMIT_BURST", 5)
	v.SetDefault("JWT_ACCESS_TOKEN_TTL", 60)
	v.SetDefault("AUTH_REQUIRED", false)

	uri := v.GetString("MONGODB_URI")
	if uri == "" && requireDatabase {
		var err error
		uri, err = BuildMongoURI(v.GetString("DB_USER"), v.GetString("DB_PASSWORD"), v.GetString("DB_CLUSTER"), v.GetString("DB_APP_NAME"))
		if err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("PORT"),
			Host:         v.GetString("SERVER_HOST"),
			Environment:  v.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:       uri,
			Database:  v.GetString("MONGODB_DATABASE"),
			Timeout:   time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
			StableAPI: v.GetBool("MONGODB_STABLE_API"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         v.GetInt("RATE_LIMIT_BURST"),
			UseRedis:      v.GetBool("RATE_LIMIT_USE_REDIS"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
			LoginRPS:      v.GetFloat64("LOGIN_RATE_LIMIT_RPS"),
			LoginBurst:    v.GetInt("LOGIN_RATE_LIMIT_BURST"),
		},
		JWT: JWTConfig{
			Secret:         v.GetString("JWT_SECRET"),
			AccessTokenTTL: time.Duration(v.GetInt("JWT_ACCESS_TOKEN_TTL")) * time.Minute,
		},
		Auth: AuthConfig{
			Required: v.GetBool("AUTH_REQUIRED"),
		},
	}

	if cfg.Auth.Required && cfg.JWT.Secret == "" {
		return nil, errors.New("AUTH_REQUIRED needs JWT_SECRET to be set")
	}

	return cfg, nil
}

// BuildMongoURI composes the Atlas SRV connection string from credential components.
func BuildMongoURI(user, password, cluster, appName string) (string, error) {
	if user == "" || password == "" {
		return "", ErrMissingDatabaseCredentials
	}
	if cluster == "" {
		return "", fmt.Errorf("DB_CLUSTER must not be empty")
	}
	u := url.URL{
		Scheme: "mongodb+srv",
		User:   url.UserPassword(user, password),
		Host:   cluster,
		Path:   "/",
	}
	q := url.Values{}
	q.Set("retryWrites", "true")
	q.Set("w", "majority")
	if appName != "" {
		q.Set("appName", appName)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
