package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/khel-bhoomi/backend/internal/broker"
	"github.com/khel-bhoomi/backend/internal/config"
	"github.com/khel-bhoomi/backend/internal/database"
	"github.com/khel-bhoomi/backend/internal/handler"
	"github.com/khel-bhoomi/backend/internal/middleware"
	"github.com/khel-bhoomi/backend/internal/repository"
	"github.com/khel-bhoomi/backend/internal/service"
	"github.com/khel-bhoomi/backend/internal/wal"
	"github.com/khel-bhoomi/backend/pkg/logger"
)

func main() {
	cfg := config.Load()
	log.Println("Config loaded successfully")

	if err := logger.Init(!cfg.IsProduction()); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	database.Connect(cfg)
	database.Migrate()

	// Initialize WAL
	walInstance, err := wal.NewWAL(cfg.WALPath)
	if err != nil {
		log.Fatalf("Failed to initialize WAL: %v", err)
	}
	defer walInstance.Close()

	// Initialize Redis feed broker
	feedBroker, err := broker.NewRedisFeedBroker(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to initialize Redis broker: %v", err)
	}
	defer feedBroker.Close()

	// Redis client for the auth rate limiter
	redisOpt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Invalid REDIS_URL: %v", err)
	}
	redisClient := redis.NewClient(redisOpt)
	defer redisClient.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(database.DB)
	postRepo := repository.NewPostRepository(database.DB)

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiry)
	userService := service.NewUserService(userRepo)
	postService := service.NewPostService(postRepo, feedBroker, walInstance)

	// Recover posts that were logged but never reached the database
	if err := postService.ReplayWAL(); err != nil {
		log.Fatalf("WAL replay failed: %v", err)
	}

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService, userRepo, cfg.JWTSecret)
	postHandler := handler.NewPostHandler(postService)
	liveFeedHandler := handler.NewLiveFeedHandler(feedBroker)

	go liveFeedHandler.Run()

	// Auth endpoints get an extra brute-force guard
	rateLimiter := middleware.NewRateLimiter(redisClient, middleware.RateLimiterConfig{
		MaxRequests: cfg.RateLimitMaxRequests,
		Window:      cfg.RateLimitWindow,
	})

	// Setup Gin router
	router := gin.Default()
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.HSTSMiddleware(cfg.IsProduction()))
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	api := router.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	auth.Use(rateLimiter.Middleware())
	auth.POST("/register", authHandler.Register)
	auth.POST("/signup", authHandler.Register) // deployment alias for register
	auth.POST("/login", authHandler.Login)

	// GET /users/me is served through the :username wildcard, see
	// UserHandler.Profile
	api.GET("/users/:username", userHandler.Profile)
	api.GET("/posts", postHandler.Feed)
	api.GET("/posts/user/:user_id", postHandler.UserPosts)

	// Protected routes (require bearer token)
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret, userRepo))
	{
		protected.PUT("/users/me", userHandler.UpdateMe)
		protected.POST("/posts", postHandler.Create)
		protected.GET("/ws/feed", liveFeedHandler.HandleWebSocket)
	}

	// Start server
	log.Printf("Server starting on %s", cfg.ServerPort)
	if err := router.Run(cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
