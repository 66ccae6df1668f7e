package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tteokbok/tteokbok-backend/config"
	"github.com/tteokbok/tteokbok-backend/internal/app/controller"
	"github.com/tteokbok/tteokbok-backend/internal/app/repository"
	"github.com/tteokbok/tteokbok-backend/internal/app/service"
	"github.com/tteokbok/tteokbok-backend/internal/db"
	"github.com/tteokbok/tteokbok-backend/internal/middleware"
	"github.com/tteokbok/tteokbok-backend/internal/router"
	"github.com/tteokbok/tteokbok-backend/internal/scheduler"
	"github.com/tteokbok/tteokbok-backend/internal/storage"
	"github.com/tteokbok/tteokbok-backend/internal/websocket"
	"github.com/tteokbok/tteokbok-backend/pkg/kakao"
	"github.com/tteokbok/tteokbok-backend/pkg/logger"
	"github.com/tteokbok/tteokbok-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting TTEOKBOK Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize redis (optional - signout blacklist)
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Fatal("Failed to initialize Redis", err)
		}
		defer func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	projectRepo := repository.NewProjectRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	tagRepo := repository.NewTagRepository(db.GetDB())
	donationRepo := repository.NewDonationRepository(db.GetDB())
	likeRepo := repository.NewLikeRepository(db.GetDB())

	// Live pledge feed
	hub := websocket.NewHub()
	go hub.Run()

	// Image storage
	var uploader storage.Uploader
	if cfg.S3.Bucket != "" {
		uploader = storage.NewS3Storage(&cfg.S3)
	} else {
		logger.Warn("S3 bucket not configured - image uploads disabled", nil)
	}

	// Initialize services
	kakaoClient := kakao.NewClient(cfg.Kakao.UserInfoURL)
	authService := service.NewAuthService(
		userRepo,
		kakaoClient,
		cfg.JWT.Secret,
		cfg.JWT.TokenExpiry,
		cfg.Redis.Enabled,
	)
	projectService := service.NewProjectService(projectRepo, categoryRepo, tagRepo, userRepo, db.GetDB())
	pledgeService := service.NewPledgeService(donationRepo, projectRepo, userRepo, hub, db.GetDB())
	likeService := service.NewLikeService(likeRepo, db.GetDB())

	// Initialize controllers
	userController := controller.NewUserController(authService)
	projectController := controller.NewProjectController(projectService, pledgeService, uploader)
	pledgeController := controller.NewPledgeController(pledgeService)
	likeController := controller.NewLikeController(likeService)
	liveController := controller.NewLiveController(projectService, hub)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, userRepo, cfg.Redis.Enabled)

	// Daily lifecycle digest
	lifecycleScheduler := scheduler.NewLifecycleScheduler(projectRepo)
	if err := lifecycleScheduler.Start(); err != nil {
		logger.Error("Failed to start lifecycle scheduler", err)
	}
	defer lifecycleScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		userController,
		projectController,
		pledgeController,
		likeController,
		liveController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
