package main

// @title           Poll Service API
// @version         1.0
// @description     A RESTful API for catalog browsing, vote submission and aggregated results
// @host            localhost:8080
// @BasePath        /api
// @schemes         http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the admin session token.

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "poll-service/docs"
	"poll-service/internal/adapters/kafka"
	"poll-service/internal/adapters/storage"
	"poll-service/internal/api/routes"
	"poll-service/internal/config"
	"poll-service/internal/database"
	"poll-service/internal/soundtrack"
	"poll-service/internal/vote"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	slog.Info("Starting poll server")

	// Initialize PostgreSQL connection
	db, err := database.NewPostgresConnection(&cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}

	// Initialize Redis connection. The server degrades to uncached reads
	// and no rate limiting when Redis is unreachable.
	redisClient, err := database.NewRedisConnection(&cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable, running without cache", "error", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	// Initialize Kafka producer for vote events
	var publisher vote.EventPublisher
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(&cfg.Kafka)
		if err != nil {
			slog.Error("Failed to connect to Kafka", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		publisher = producer
	}

	// Initialize object storage for soundtrack media
	var media soundtrack.MediaStore
	if cfg.Storage.Enabled {
		minioClient, err := storage.NewMinIOClient(&cfg.Storage)
		if err != nil {
			slog.Error("Failed to connect to MinIO", "error", err)
			os.Exit(1)
		}
		media = minioClient
	}

	router := routes.NewRouter(db, redisClient, publisher, media, cfg)
	router.SetupRoutes()

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.GetEngine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		slog.Info("Server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server stopped")
}
