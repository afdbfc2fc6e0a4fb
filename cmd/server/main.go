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
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/sportsbuddy/sportsbuddy/internal/api"
	"github.com/sportsbuddy/sportsbuddy/internal/api/handlers"
	"github.com/sportsbuddy/sportsbuddy/internal/api/middleware"
	"github.com/sportsbuddy/sportsbuddy/internal/services"
	"github.com/sportsbuddy/sportsbuddy/pkg/config"
	"github.com/sportsbuddy/sportsbuddy/pkg/database"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	if cfg.IsDevelopment() {
		logrus.SetLevel(logrus.DebugLevel)
		gin.SetMode(gin.DebugMode)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logrus.Fatalf("Failed to parse Redis URL: %v", err)
	}
	redisClient := redis.NewClient(opt)
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logrus.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Initialize services
	cache := services.NewCacheService(redisClient)
	hub := services.NewHub(logrus.StandardLogger())
	go hub.Run()

	geocoder := services.NewGeocodeClient(
		cfg.GeocodeBaseURL,
		cfg.GeocodeRateLimit,
		cfg.GeocodeTimeout,
		cfg.CircuitBreakerThreshold,
		logrus.StandardLogger(),
	)

	userService := services.NewUserService(db, cfg, cache, logrus.StandardLogger())
	matchService := services.NewMatchService(db, cfg, cache, logrus.StandardLogger())
	analyticsService := services.NewAnalyticsService(db, cfg, cache, geocoder, logrus.StandardLogger())

	// Parse refresh interval
	refreshInterval, err := time.ParseDuration(cfg.AnalyticsRefreshInterval)
	if err != nil {
		logrus.Warnf("Invalid analytics refresh interval, using default 1h: %v", err)
		refreshInterval = time.Hour
	}

	refresher := services.NewAnalyticsRefresher(analyticsService, hub, logrus.StandardLogger(), refreshInterval)
	if err := refresher.Start(); err != nil {
		logrus.Errorf("Failed to start analytics refresher: %v", err)
	}
	defer refresher.Stop()

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.CorsOrigins))

	// Health check endpoint
	router.GET("/health", handlers.Health)

	// Setup API routes under /api/v1
	apiV1 := router.Group("/api/v1")
	api.SetupRoutes(apiV1, userService, matchService, analyticsService)

	// WebSocket endpoint at root level for analytics refresh events
	wsHandler := handlers.NewWebSocketHandler(hub)
	router.GET("/ws", wsHandler.HandleWebSocket)

	// Setup server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logrus.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
