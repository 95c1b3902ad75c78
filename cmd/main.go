package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/contacthub/backend/internal/config"
	"github.com/contacthub/backend/internal/db"
	"github.com/contacthub/backend/internal/handlers"
	"github.com/contacthub/backend/internal/logger"
	"github.com/contacthub/backend/internal/middleware"
	"github.com/contacthub/backend/internal/repos"
	"github.com/contacthub/backend/internal/server"
	"github.com/contacthub/backend/internal/services"
	"github.com/contacthub/backend/internal/storage"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	jwtSecretKey := config.GetEnv("JWT_SECRET_KEY", "", log)
	if jwtSecretKey == "" {
		log.Fatal("JWT_SECRET_KEY is not set in the environment")
	}
	accessTokenTTL := config.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	reconcileInterval := config.GetEnvAsInt("RECONCILE_INTERVAL_SECONDS", 300, log)
	allowOrigins := strings.Split(config.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000", log), ",")

	ctx := context.Background()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Redis (optional; the info counter degrades to DB counts)
	rdb, err := db.NewRedisClient(ctx, log)
	if err != nil {
		log.Warn("Redis init failed, contact count cache disabled", "error", err)
		rdb = nil
	}

	// Object storage
	bucketService, err := storage.NewBucketService(ctx, log)
	if err != nil {
		log.Fatal("Could not init BucketService", "error", err)
	}

	// Repos
	userRepo := repos.NewUserRepo(thePG, log)
	contactRepo := repos.NewContactRepo(thePG, log)

	// Services
	authService := services.NewAuthService(log, userRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second)
	userService := services.NewUserService(log, userRepo, contactRepo, bucketService)
	contactService := services.NewContactService(log, contactRepo, userRepo, bucketService, rdb)

	// Reconciler
	reconciler := services.NewReconciler(log, userRepo, contactRepo, time.Duration(reconcileInterval)*time.Second)
	go reconciler.Run(ctx)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	contactHandler := handlers.NewContactHandler(contactService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:    authHandler,
		AuthMiddleware: authMiddleware,
		UserHandler:    userHandler,
		ContactHandler: contactHandler,
		AllowOrigins:   allowOrigins,
	})

	port := config.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
