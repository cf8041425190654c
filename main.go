package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/xterics/xterics/backend/api/handlers"
	"github.com/xterics/xterics/backend/api/internal/auth"
	"github.com/xterics/xterics/backend/api/internal/catalog"
	"github.com/xterics/xterics/backend/api/internal/config"
	"github.com/xterics/xterics/backend/api/internal/database"
	"github.com/xterics/xterics/backend/api/internal/oauth"
	"github.com/xterics/xterics/backend/api/internal/orders"
	"github.com/xterics/xterics/backend/api/internal/sessions"
	"github.com/xterics/xterics/backend/api/internal/storage"
	"github.com/xterics/xterics/backend/api/internal/users"
	"github.com/xterics/xterics/backend/api/pkg/logger"
	"github.com/xterics/xterics/backend/api/pkg/metrics"
	"github.com/xterics/xterics/backend/api/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// LOG_LEVEL env controls verbosity: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: db=%v redis=%v google=%v minio=%v",
		cfg.Database.DSN != "", cfg.Redis.Host != "", cfg.Google.ClientID != "", cfg.MinIO.Endpoint != "")

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Lightweight CORS for dev/test; production sits behind a stricter proxy policy.
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	})

	// Connect to Redis early so the rate limiter can use it when configured.
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("connected to Redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	// Optional global rate limiter: per-user when authenticated, otherwise per-IP.
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// Postgres is required; retry with backoff to tolerate startup races
	// against the database container.
	db := mustConnectPostgres(cfg.Database.DSN)
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Warnf("closing database: %v", err)
		}
	}()
	if cfg.Database.AutoMigrate {
		database.Migrate(db)
		database.SeedServices(db)
	}

	// Repositories and services.
	userRepo := users.NewGormRepository(db)
	serviceRepo := catalog.NewGormServiceRepository(db)
	portfolioRepo := catalog.NewGormPortfolioRepository(db)
	orderRepo := orders.NewGormRepository(db)

	userSvc := users.NewService(userRepo, cfg.Session.OwnerOpenID)
	tokens := sessions.NewService(cfg.Session.Secret, cfg.Session.TTL)
	catalogSvc := catalog.NewService(serviceRepo, portfolioRepo)
	orderSvc := orders.NewService(orderRepo, serviceRepo)
	gate := auth.NewGate(tokens, userSvc, cfg.Session.CookieName)

	// Google OAuth: discovery is a network call, so failure degrades the login
	// endpoints instead of killing the process.
	var provider oauth.Provider
	if cfg.Google.ClientID != "" && cfg.Google.ClientSecret != "" {
		g, err := oauth.NewGoogle(context.Background(), cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectURI)
		if err != nil {
			logger.Warnf("google OAuth disabled: %v", err)
		} else {
			provider = g
		}
	} else {
		logger.Warnf("google OAuth not configured; login endpoints will return errors")
	}

	// Portfolio image storage is optional; without it image uploads require
	// externally hosted URLs.
	var images *storage.ImageStore
	if cfg.MinIO.Endpoint != "" {
		images, err = storage.NewImageStore(cfg.MinIO)
		if err != nil {
			logger.Warnf("image storage disabled: %v", err)
			images = nil
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", readinessHandler(cfg, db, redisClient, func() bool { return provider != nil }))

	admin := r.Group("/api/admin", middleware.SessionAuth(gate), middleware.RequireAdmin())
	handlers.NewAuthHandler(cfg, provider, tokens, userSvc, gate).Register(&r.RouterGroup)
	handlers.NewCatalogHandler(catalogSvc).Register(&r.RouterGroup)
	handlers.NewPortfolioHandler(catalogSvc, images).Register(&r.RouterGroup, admin)
	handlers.NewOrdersHandler(orderSvc).Register(&r.RouterGroup, middleware.OptionalSession(gate), middleware.SessionAuth(gate), admin)
	handlers.NewPaymentsHandler(orderSvc).Register(&r.RouterGroup)
	handlers.RegisterSwagger(r)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Infof("starting api service on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Infof("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}

// mustConnectPostgres retries the database connection with doubling backoff to
// survive container startup ordering, then fails hard.
func mustConnectPostgres(dsn string) *gorm.DB {
	const maxAttempts = 5
	backoff := time.Second
	var db *gorm.DB
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		db, err = database.ConnectPostgres(dsn)
		if err == nil {
			return db
		}
		logger.Warnf("attempt %d/%d: failed to connect to Postgres: %v", attempt, maxAttempts, err)
		if attempt < maxAttempts {
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	logger.Fatalf("could not connect to Postgres after %d attempts: %v", maxAttempts, err)
	return nil
}

// readinessHandler returns 200 only when the critical dependencies respond.
func readinessHandler(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, oauthReady func() bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ready := true
		deps := map[string]bool{}

		sqlDB, err := db.DB()
		deps["database"] = err == nil && sqlDB.PingContext(c.Request.Context()) == nil
		if !deps["database"] {
			ready = false
		}

		if cfg.Redis.Host != "" && cfg.RateLimit.UseRedis {
			deps["redis"] = redisClient != nil && redisClient.Ping(c.Request.Context()).Err() == nil
			if !deps["redis"] {
				ready = false
			}
		} else {
			deps["redis"] = true
		}

		// oauth is reported but not required; the catalog and order API stay
		// usable without login
		deps["oauth"] = oauthReady()

		status := http.StatusOK
		label := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			label = "not_ready"
		}
		c.JSON(status, gin.H{"status": label, "deps": deps, "uptime": time.Since(startTime).String()})
	}
}
