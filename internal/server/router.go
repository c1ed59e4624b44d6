package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/seojin-dev/moodshift-backend/internal/handlers"
	"github.com/seojin-dev/moodshift-backend/internal/middleware"
	"github.com/seojin-dev/moodshift-backend/internal/platform/envutil"
	"github.com/seojin-dev/moodshift-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	AuthHandler    *handlers.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
	UserHandler    *handlers.UserHandler
	ChatHandler    *handlers.ChatHandler
	DiaryHandler   *handlers.DiaryHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(otelgin.Middleware("moodshift-backend"))

	origins := envutil.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173", cfg.Log)
	router.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(origins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	auth := router.Group("/auth")
	{
		auth.POST("/signup", cfg.AuthHandler.Signup)
		auth.POST("/login", cfg.AuthHandler.Login)
	}

	// Protected
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	protected.POST("/auth/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/auth/logout", cfg.AuthHandler.Logout)

	protected.GET("/user", cfg.UserHandler.GetMe)
	protected.PUT("/user/character", cfg.UserHandler.UpdateCharacter)

	api := protected.Group("/api")
	{
		api.POST("/chat", cfg.ChatHandler.Chat)
		api.POST("/recommend", cfg.ChatHandler.Recommend)
	}

	diary := protected.Group("/diary")
	{
		diary.POST("", cfg.DiaryHandler.Create)
		diary.GET("/list", cfg.DiaryHandler.List)
		diary.GET("/calendar/:year/:month", cfg.DiaryHandler.Calendar)
		diary.GET("/:id", cfg.DiaryHandler.Get)
		diary.PUT("/:id", cfg.DiaryHandler.Update)
		diary.DELETE("/:id", cfg.DiaryHandler.Delete)
		diary.POST("/:id/recommend", cfg.DiaryHandler.Recommend)
	}

	return router
}
