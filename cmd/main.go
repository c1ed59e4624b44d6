package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/seojin-dev/moodshift-backend/internal/clients/redis"
	"github.com/seojin-dev/moodshift-backend/internal/db"
	"github.com/seojin-dev/moodshift-backend/internal/emotion"
	"github.com/seojin-dev/moodshift-backend/internal/handlers"
	"github.com/seojin-dev/moodshift-backend/internal/middleware"
	"github.com/seojin-dev/moodshift-backend/internal/observability"
	"github.com/seojin-dev/moodshift-backend/internal/platform/envutil"
	"github.com/seojin-dev/moodshift-backend/internal/platform/logger"
	"github.com/seojin-dev/moodshift-backend/internal/platform/openai"
	"github.com/seojin-dev/moodshift-backend/internal/recommend"
	"github.com/seojin-dev/moodshift-backend/internal/repos"
	"github.com/seojin-dev/moodshift-backend/internal/server"
	"github.com/seojin-dev/moodshift-backend/internal/services"
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

	// Tracing
	shutdownOTel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "moodshift-backend",
		Environment: envutil.GetEnv("APP_ENV", "development", log),
		Version:     envutil.GetEnv("APP_VERSION", "dev", log),
	})
	if shutdownOTel != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownOTel(ctx); err != nil {
				log.Warn("otel shutdown failed", "error", err)
			}
		}()
	}

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := envutil.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := envutil.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := envutil.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	indexDir := envutil.GetEnv("EMOTION_INDEX_DIR", "data", log)
	port := envutil.GetEnv("PORT", "8080", log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	diaryRepo := repos.NewDiaryRepo(thePG, log)

	// OpenAI
	openaiClient, err := openai.NewClient(log)
	if err != nil {
		log.Error("Could not init OpenAI client", "error", err)
		os.Exit(1)
	}

	// Embedding cache (optional)
	var embedCache redis.EmbeddingCache
	if os.Getenv("REDIS_ADDR") != "" {
		embedCache, err = redis.NewEmbeddingCache(log)
		if err != nil {
			log.Warn("Embedding cache init failed; running without cache", "error", err)
			embedCache = nil
		} else {
			defer embedCache.Close()
		}
	} else {
		log.Warn("REDIS_ADDR not set; running without embedding cache")
	}

	// Emotion index artifacts
	index, cat, err := emotion.Load(indexDir)
	if err != nil {
		log.Warn("Emotion index unavailable; recommendations will return 503", "dir", indexDir, "error", err)
		index = nil
		cat = nil
	}

	// Services
	log.Info("Setting up Services from main...")
	embedder := recommend.NewEmbedder(log, openaiClient, embedCache)
	fallbackCurrent := envutil.GetEnv("FALLBACK_CURRENT_EMOTION", recommend.FallbackCurrentEmotion, log)
	fallbackTarget := envutil.GetEnv("FALLBACK_TARGET_EMOTION", recommend.FallbackTargetEmotion, log)
	recommendService, err := recommend.NewServiceWithFallback(log, embedder, index, cat, fallbackCurrent, fallbackTarget)
	if err != nil {
		log.Error("Invalid fallback emotion pair", "error", err)
		os.Exit(1)
	}
	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, jwtSecretKey,
		time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	userService := services.NewUserService(log, userRepo)
	chatService := services.NewChatService(log, openaiClient, recommendService)
	diaryService := services.NewDiaryService(log, diaryRepo, chatService, recommendService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	chatHandler := handlers.NewChatHandler(chatService)
	diaryHandler := handlers.NewDiaryHandler(diaryService)
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	router := server.NewRouter(server.RouterConfig{
		Log:            log,
		AuthHandler:    authHandler,
		AuthMiddleware: authMiddleware,
		UserHandler:    userHandler,
		ChatHandler:    chatHandler,
		DiaryHandler:   diaryHandler,
	})

	log.Info("Starting server...", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
