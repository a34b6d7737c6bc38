package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"eden-api/internal/auth"
	"eden-api/internal/clock"
	"eden-api/internal/conditions"
	"eden-api/internal/config"
	"eden-api/internal/database"
	"eden-api/internal/handlers"
	"eden-api/internal/jobs"
	"eden-api/internal/repository"
	"eden-api/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret, cfg.App.AccessTokenTTL, cfg.App.RefreshTokenTTL)

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations and seed the rank table
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.SeedRanks(database.GetDB()); err != nil {
		log.Fatalf("Failed to seed ranks: %v", err)
	}

	// Reference timezone clock, drives every day-boundary and cooldown check
	gameClock, err := clock.New(cfg.Game.Timezone)
	if err != nil {
		log.Fatalf("Failed to initialize clock: %v", err)
	}

	// Optional redis: link-visit tracking and leaderboard cache
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		log.Println("Connected to Redis")
	}

	// Optional Telegram checker for channel-subscription task conditions
	var telegramChecker *conditions.TelegramChecker
	if cfg.Telegram.BotToken != "" {
		telegramChecker, err = conditions.NewTelegramChecker(cfg.Telegram.BotToken)
		if err != nil {
			log.Fatalf("Failed to create telegram checker: %v", err)
		}
	}

	var linkVisits *conditions.LinkVisitStore
	if redisClient != nil {
		linkVisits = conditions.NewLinkVisitStore(redisClient, cfg.Game.LinkVisitTTL)
	}
	checker := conditions.NewChecker(telegramChecker, linkVisits)

	// Initialize repository and the static rank table
	repo := repository.NewRepository(database.GetDB())
	ranks, err := services.LoadRankTable(database.GetDB())
	if err != nil {
		log.Fatalf("Failed to load rank table: %v", err)
	}

	// Initialize services
	dailyPayload := services.Payload{
		Amount:         cfg.Game.DailyRewardAmount,
		Inspirations:   cfg.Game.DailyRewardInspirations,
		Replenishments: cfg.Game.DailyRewardReplenishments,
	}
	referralPayload := services.Payload{
		Amount:         cfg.Game.ReferralRewardAmount,
		Inspirations:   cfg.Game.ReferralRewardInspirations,
		Replenishments: cfg.Game.ReferralRewardReplenishments,
	}

	rewardService := services.NewRewardService(repo, gameClock, dailyPayload, referralPayload)
	energyService := services.NewEnergyService(repo, ranks, gameClock)
	leaderboardService := services.NewLeaderboardService(repo, redisClient, cfg.Game.LeaderboardCacheTTL)
	miningService := services.NewMiningService(repo, ranks, gameClock, leaderboardService,
		cfg.Game.MiningDuration, cfg.Game.InspirationCooldown)
	taskService := services.NewTaskService(repo, ranks, checker, rewardService, gameClock, cfg.Game.RankVisibilityMode)
	userService := services.NewUserService(repo, rewardService, energyService, gameClock)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	energyHandler := handlers.NewEnergyHandler(energyService)
	miningHandler := handlers.NewMiningHandler(miningService)
	taskHandler := handlers.NewTaskHandler(taskService, linkVisits)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)
	rewardHandler := handlers.NewRewardHandler(rewardService)

	// Week boundary watcher
	weekReset := jobs.NewWeekResetJob(leaderboardService, gameClock, time.Minute)
	go weekReset.Start()

	// Set up Gin router
	router := gin.Default()

	allowedOrigins := []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}
	if cfg.App.FrontendURL != "" {
		allowedOrigins = append(allowedOrigins, cfg.App.FrontendURL)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   gameClock.Now().Format(time.RFC3339),
		})
	})

	// Authentication routes (public; the bot holds the opaque token)
	authRoutes := router.Group("/auth")
	authRoutes.Use(auth.BotSecretMiddleware(cfg.App.BotSecret))
	{
		authRoutes.POST("/registration", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}

	refreshRoutes := router.Group("/auth")
	refreshRoutes.Use(auth.RefreshMiddleware())
	{
		refreshRoutes.PATCH("/refresh", authHandler.Refresh)
	}

	authProtected := router.Group("/auth")
	authProtected.Use(auth.AuthMiddleware())
	{
		authProtected.GET("/me", authHandler.Me)
	}

	// API routes (protected)
	api := router.Group("/api")
	api.Use(auth.AuthMiddleware())
	{
		api.POST("/energy/sync", energyHandler.Sync)
		api.POST("/energy/replenish", energyHandler.Replenish)

		api.POST("/mining/start", miningHandler.Start)
		api.POST("/mining/claim", miningHandler.Claim)

		api.GET("/tasks", taskHandler.List)
		api.GET("/tasks/:id/check", taskHandler.Check)
		api.POST("/tasks/:id/complete", taskHandler.Complete)
		api.POST("/tasks/:id/visit", taskHandler.Visit)

		api.GET("/leaderboard", leaderboardHandler.Top)
		api.GET("/leaderboard/me", leaderboardHandler.Me)

		api.GET("/rewards", rewardHandler.List)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	weekReset.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
