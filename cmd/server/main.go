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

	"invitation-canvas-editor/internal/config"
	"invitation-canvas-editor/internal/db"
	"invitation-canvas-editor/internal/logger"
	"invitation-canvas-editor/internal/server"
	"invitation-canvas-editor/internal/worker"
	"invitation-canvas-editor/redis"
)

func main() {
	// Load configuration
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Environment)
	defer logger.Sync()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	gdb, err := db.Connect(cfg)
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
	defer db.Close(gdb)

	// Migrate database schema
	if err := db.Migrate(gdb); err != nil {
		logger.Errorf("migrate: %v", err)
		os.Exit(1)
	}

	// Initialize Redis
	redisClient := redis.NewClient(context.Background(), cfg.RedisAddress)
	if redisClient != nil {
		defer redisClient.Close()
	}

	workers := worker.NewWorkerPool(cfg.WorkerPoolSize)

	router := server.NewRouter(server.Deps{
		Config:  cfg,
		DB:      gdb,
		Cache:   redis.NewCache(redisClient),
		Workers: workers,
	})

	// Server configuration
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.ServerPort),
		Handler: router.Handler(),
	}

	// Start server
	go func() {
		logger.Infof("Server listening on port %s", cfg.ServerPort)
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			logger.Errorf("Server failed to start: %v", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Infof("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server shutdown error: %v", err)
	}
	// let queued follow-up writes finish before the db closes
	workers.Shutdown()

	logger.Infof("Server shutdown complete")
}
