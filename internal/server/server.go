package server

import (
	"context"
	"log"
	"net/http"

	"puzzleboard/configs"
	"puzzleboard/internal/dbs"
	"puzzleboard/internal/handlers"
	"puzzleboard/internal/logger"
	"puzzleboard/internal/middlewares"
	"puzzleboard/internal/repositories"
	"puzzleboard/internal/services"
	"puzzleboard/internal/sweeper"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func StartGinServer() {
	logger.InitLogger()
	defer logger.SyncLogger()

	config := configs.LoadConfig()

	db, err := dbs.Init(config)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := dbs.InitRedis(ctx, config.RedisAddr); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}
	defer dbs.CloseRedis()

	fileStore, err := services.NewFileStore(config.UploadDir)
	if err != nil {
		log.Fatalf("Failed to initialize file store: %v", err)
	}

	puzzleRepo := repositories.NewPuzzleRepository(db)
	subRepo := repositories.NewSubmissionRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)

	cache := services.NewRedisCache(dbs.RedisClient)
	tokenService := services.NewTokenService(config.JWTSecret)
	ranking := services.NewRankingService(puzzleRepo, subRepo, cache)

	fileSweeper := sweeper.New(config.SweepInterval, fileStore, puzzleRepo)
	fileSweeper.Start(ctx)
	defer fileSweeper.Stop()

	router := gin.New()
	router.Use(middlewares.ErrorHandlerMiddleware())
	router.MaxMultipartMemory = services.MaxUploadSize

	if len(config.CORSOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = config.CORSOrigins
		corsConfig.AllowCredentials = true
		corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
		corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
		router.Use(cors.New(corsConfig))
	}

	authMiddleware := middlewares.AdminAuthMiddleware(tokenService, sessionRepo)

	handlers.NewPuzzleHandler(puzzleRepo, ranking).RegisterRoutes(router)
	handlers.NewSubmissionHandler(puzzleRepo, subRepo).RegisterRoutes(router)
	handlers.NewLeaderboardHandler(ranking).RegisterRoutes(router)
	handlers.NewAdminHandler(config, puzzleRepo, subRepo, sessionRepo,
		tokenService, ranking, fileStore).RegisterRoutes(router, authMiddleware)

	router.Static("/files", fileStore.Dir())

	router.GET("/api/health", func(c *gin.Context) {
		status := "healthy"
		code := http.StatusOK
		if err := db.PingContext(c.Request.Context()); err != nil {
			status = "database unreachable"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status})
	})

	port := ":" + config.ServerPort
	log.Printf("Starting server on port %s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
