package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appidentity "github.com/listflow/backend/internal/application/identity"
	applisting "github.com/listflow/backend/internal/application/listing"
	"github.com/listflow/backend/internal/infrastructure/auth"
	"github.com/listflow/backend/internal/infrastructure/cache"
	"github.com/listflow/backend/internal/infrastructure/config"
	"github.com/listflow/backend/internal/infrastructure/ebay"
	"github.com/listflow/backend/internal/infrastructure/llm"
	"github.com/listflow/backend/internal/infrastructure/logger"
	"github.com/listflow/backend/internal/infrastructure/marketplace"
	"github.com/listflow/backend/internal/infrastructure/persistence"
	"github.com/listflow/backend/internal/interfaces/http/handler"
	"github.com/listflow/backend/internal/interfaces/http/middleware"
	"github.com/listflow/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Listflow Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database connection with zap-backed GORM logging
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Token stores: access tokens live in Redis with key TTLs, refresh
	// tokens in Postgres
	accessTokens, err := cache.NewRedisAccessTokenStore(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	refreshTokens := persistence.NewGormRefreshTokenRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	// Marketplace adapters
	ebayPlatform, err := ebay.NewPlatform(&ebay.Config{
		Domain:         cfg.Ebay.Domain,
		ClientID:       cfg.Ebay.ClientID,
		ClientSecret:   cfg.Ebay.ClientSecret,
		RedirectURI:    cfg.Ebay.RedirectURI,
		MarketplaceID:  cfg.Ebay.MarketplaceID,
		Scope:          cfg.Ebay.Scope,
		TimeoutSeconds: cfg.Ebay.TimeoutSeconds,
	})
	if err != nil {
		log.Fatal("Failed to initialize eBay platform", zap.Error(err))
	}
	platforms := marketplace.NewRegistry(ebayPlatform)

	// Completion client
	completions, err := llm.NewClient(&llm.Config{
		BaseURL:        cfg.LLM.BaseURL,
		APIKey:         cfg.LLM.APIKey,
		Model:          cfg.LLM.Model,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
	})
	if err != nil {
		log.Fatal("Failed to initialize completion client", zap.Error(err))
	}

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := appidentity.NewAuthService(userRepo, jwtService)
	tokenManager := applisting.NewTokenManager(accessTokens, refreshTokens, platforms, cfg.Tokens.RefreshThreshold)
	sellingService := applisting.NewSellingService(platforms, tokenManager)
	searchService := applisting.NewSearchService(platforms, completions)
	oauthService := applisting.NewMarketplaceOAuthService(platforms, accessTokens, refreshTokens, tokenManager, jwtService)

	// Gin engine and middleware chain
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.JWTAuthMiddleware(jwtService))

	// Health check outside API versioning
	engine.GET("/health", healthHandler(db))

	// API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewSystemHandler()).
		Register(handler.NewAuthHandler(authService)).
		Register(handler.NewSellingHandler(sellingService)).
		Register(handler.NewSearchHandler(searchService)).
		Register(handler.NewOAuthHandler(oauthService))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports liveness including database reachability
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
