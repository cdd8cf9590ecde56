// Package server assembles the HTTP API from its services.
package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"invitation-canvas-editor/auth"
	"invitation-canvas-editor/internal/config"
	"invitation-canvas-editor/internal/invitation"
	"invitation-canvas-editor/internal/middleware"
	"invitation-canvas-editor/internal/storage"
	"invitation-canvas-editor/internal/user"
	"invitation-canvas-editor/internal/worker"
	"invitation-canvas-editor/redis"
)

type Deps struct {
	Config  config.Config
	DB      *gorm.DB
	Cache   *redis.Cache
	Workers *worker.WorkerPool
}

func corsConfig(cfg config.Config) cors.Config {
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}

	if cfg.Environment == "development" || cfg.Environment == "test" {
		// Allow all origins in development
		corsConfig.AllowAllOrigins = true
	} else {
		// Restrict origins in production
		corsConfig.AllowOrigins = []string{cfg.FrontendAddress}
	}
	return corsConfig
}

// NewRouter wires repositories, services and handlers onto a gin engine.
func NewRouter(d Deps) *gin.Engine {
	auth.SetSecret(d.Config.JWTSecret)

	// Initialize repository
	userRepo := user.NewRepository(d.DB)
	docRepo := invitation.NewRepository(d.DB)
	// Initialize service
	userService := user.NewService(userRepo)
	docService := invitation.NewService(docRepo, userService, d.Cache, d.Workers, d.Config.CacheTTL)
	files := storage.NewFileStorage(d.Config.StorageRoot, d.Config.PublicBaseURL)
	// Initialize handler
	userHandler := user.NewHandler(userService)
	docHandler := invitation.NewHandler(docService)
	fileHandler := storage.NewHandler(files)
	authMiddleware := &middleware.Auth{UserService: userService}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), middleware.ErrorHandler())
	router.Use(cors.New(corsConfig(d.Config)))

	// User routes
	router.POST("/register", userHandler.Register)
	router.POST("/login", userHandler.Login)
	router.DELETE("/logout", authMiddleware.AuthMiddleWare(), userHandler.Logout)
	router.GET("/profile", authMiddleware.AuthMiddleWare(), userHandler.GetProfile)

	fileHandler.Mount(router)
	router.POST("/api/upload", authMiddleware.AuthMiddleWare(), fileHandler.Upload)

	public := router.Group("/api")
	private := router.Group("/api", authMiddleware.AuthMiddleWare())
	docHandler.RegisterRoutes(public, private)

	return router
}
