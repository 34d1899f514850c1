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

	"github.com/jwhitfield/fairway/internal/api"
	"github.com/jwhitfield/fairway/internal/repository"
	"github.com/jwhitfield/fairway/internal/services"
	"github.com/jwhitfield/fairway/pkg/config"
	"github.com/jwhitfield/fairway/pkg/database"
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
	logger := logrus.StandardLogger()

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis. The cache layer degrades to pass-through when
	// Redis is down, so a failed connection is not fatal.
	var redisClient *redis.Client
	if opt, err := redis.ParseURL(cfg.RedisURL); err != nil {
		logrus.Warnf("Invalid Redis URL, running without cache: %v", err)
	} else {
		redisClient = redis.NewClient(opt)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logrus.Warnf("Redis unreachable, running without cache: %v", err)
			redisClient.Close()
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
		cancel()
	}

	// Repositories
	roundRepo := repository.NewRoundRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Services
	cacheService := services.NewCacheService(redisClient, logger)
	liveHub := services.NewLiveHub(logger)
	go liveHub.Run()

	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL, cfg.LoginRatePerMinute, cfg.LoginBurst, logger)
	courseService := services.NewCourseService(courseRepo, logger)
	roundService := services.NewRoundService(roundRepo, courseRepo, cacheService, liveHub, cfg.RecentRoundsCacheTTL, logger)

	// Nightly backfill of finished rounds missing derived fields
	if cfg.EnableBackgroundJobs {
		backfill := services.NewBackfillJob(roundService, cfg.BackfillSchedule, cfg.BackfillBatchSize, logger)
		if err := backfill.Start(); err != nil {
			logrus.Errorf("Failed to start backfill job: %v", err)
		}
		defer backfill.Stop()
	}

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, api.Services{
		Auth:    authService,
		Courses: courseService,
		Rounds:  roundService,
		Live:    liveHub,
	}, cfg, logger)

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
